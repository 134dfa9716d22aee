package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const sourceColumns = "id, source_type, identifier, fetch_frequency_hours, next_fetch_at, active, created_at"

// EnsureSource returns the source with the given type and identifier,
// registering it when missing.
func (s *Store) EnsureSource(ctx context.Context, sourceType SourceType, identifier string, frequencyHours int) (*Source, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, errors.New("source identifier is required")
	}
	if frequencyHours <= 0 {
		frequencyHours = DefaultFetchFrequencyHours
	}
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO sources (source_type, identifier, fetch_frequency_hours, active, created_at)
         VALUES (?, ?, ?, 1, ?)
         ON CONFLICT (source_type, identifier) DO NOTHING`,
		sourceType,
		identifier,
		frequencyHours,
		timestamp(time.Now()),
	); err != nil {
		return nil, fmt.Errorf("insert source: %w", err)
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE source_type = ? AND identifier = ?`,
		sourceType,
		identifier,
	)
	source, err := scanSource(row)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return source, nil
}

// ListSources returns every registered source ordered by identifier.
func (s *Store) ListSources(ctx context.Context) ([]*Source, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY source_type, identifier`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// SetSourceActive enables or disables a source.
func (s *Store) SetSourceActive(ctx context.Context, id int64, active bool) error {
	res, err := s.execWithRetry(ctx, `UPDATE sources SET active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("update source: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("source %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

func scanSource(scanner interface{ Scan(dest ...any) error }) (*Source, error) {
	var (
		source     Source
		sourceType string
		nextFetch  sql.NullString
		active     int
		createdRaw string
	)
	if err := scanner.Scan(
		&source.ID,
		&sourceType,
		&source.Identifier,
		&source.FetchFrequencyHours,
		&nextFetch,
		&active,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	source.Type = SourceType(sourceType)
	source.Active = active != 0
	source.NextFetchAt = optionalTime(nextFetch)
	if created, err := parseTimeString(createdRaw); err == nil {
		source.CreatedAt = created
	}
	return &source, nil
}
