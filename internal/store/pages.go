package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const pageColumns = `f.id, f.source_id, s.source_type, s.identifier, f.fetched_at, f.content_hash,
    f.content_type, f.content_link, f.parse_status, f.parse_error, f.parsed_at,
    f.section_count, f.diagnostic_count`

const pageFrom = ` FROM source_fetched f JOIN sources s ON s.id = f.source_id`

// AddPage registers a fetched payload as pending.
func (s *Store) AddPage(ctx context.Context, page NewPage) (*FetchedPage, error) {
	if page.SourceID == 0 {
		return nil, errors.New("page source is required")
	}
	if strings.TrimSpace(page.ContentLink) == "" {
		return nil, errors.New("page content link is required")
	}
	fetchedAt := page.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO source_fetched (
            source_id, fetched_at, content_hash, content_type, content_link, parse_status
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		page.SourceID,
		timestamp(fetchedAt),
		page.ContentHash,
		page.ContentType,
		page.ContentLink,
		PageStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("insert page: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetPage(ctx, id)
}

// GetPage fetches a page by identifier. It returns nil when the page does not exist.
func (s *Store) GetPage(ctx context.Context, id int64) (*FetchedPage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+pageFrom+` WHERE f.id = ?`, id)
	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return page, nil
}

// PendingPages returns up to limit pages awaiting parsing, oldest first.
func (s *Store) PendingPages(ctx context.Context, limit int) ([]*FetchedPage, error) {
	if limit <= 0 {
		limit = 1
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+pageColumns+pageFrom+` WHERE f.parse_status = ? ORDER BY f.fetched_at, f.id LIMIT ?`,
		PageStatusPending,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending pages: %w", err)
	}
	defer rows.Close()
	return collectPages(rows)
}

// ListPages returns pages filtered by status set (or all pages when no status is provided).
func (s *Store) ListPages(ctx context.Context, statuses ...PageStatus) ([]*FetchedPage, error) {
	query := `SELECT ` + pageColumns + pageFrom
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		query += ` WHERE f.parse_status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY f.fetched_at, f.id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()
	return collectPages(rows)
}

// MarkPage records a parse outcome that stores no sections.
func (s *Store) MarkPage(ctx context.Context, id int64, status PageStatus, parseErr string, diagnostics int) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE source_fetched
         SET parse_status = ?, parse_error = ?, parsed_at = ?, section_count = 0, diagnostic_count = ?
         WHERE id = ?`,
		status,
		nullableString(parseErr),
		timestamp(time.Now()),
		diagnostics,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("page %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// ResetPages moves pages back to pending so the parse worker decodes them
// again. With no ids every failed page is reset.
func (s *Store) ResetPages(ctx context.Context, ids ...int64) (int64, error) {
	query := `UPDATE source_fetched SET parse_status = ?, parse_error = NULL, parsed_at = NULL`
	args := []any{PageStatusPending}
	if len(ids) == 0 {
		query += ` WHERE parse_status = ?`
		args = append(args, PageStatusFailed)
	} else {
		query += ` WHERE id IN (` + makePlaceholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset pages: %w", err)
	}
	return res.RowsAffected()
}

func collectPages(rows *sql.Rows) ([]*FetchedPage, error) {
	var pages []*FetchedPage
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

func scanPage(scanner interface{ Scan(dest ...any) error }) (*FetchedPage, error) {
	var (
		page       FetchedPage
		sourceType string
		status     string
		fetchedRaw string
		parseErr   sql.NullString
		parsedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&page.ID,
		&page.SourceID,
		&sourceType,
		&page.Identifier,
		&fetchedRaw,
		&page.ContentHash,
		&page.ContentType,
		&page.ContentLink,
		&status,
		&parseErr,
		&parsedRaw,
		&page.SectionCount,
		&page.DiagnosticCount,
	); err != nil {
		return nil, err
	}
	page.SourceType = SourceType(sourceType)
	page.Status = PageStatus(status)
	page.ParseError = parseErr.String
	page.ParsedAt = optionalTime(parsedRaw)
	if fetched, err := parseTimeString(fetchedRaw); err == nil {
		page.FetchedAt = fetched
	}
	return &page, nil
}
