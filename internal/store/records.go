package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursesys/internal/sections"
)

const sectionColumns = `subject, course_code, year, term, crn, section, credits, abbreviated_title,
    requisites, seats, waitlist, additional_fees, repeat_limit, notes`

const entryColumns = `schedule_index, type, days, time, start_date, end_date, room, instructor`

// SectionFilter narrows ListSections. Zero values match everything.
type SectionFilter struct {
	Year    int
	Term    int
	Subject string
	Course  string
	Limit   int
}

// SavePage upserts a page's decoded sections and marks the page parsed, all
// in one transaction. Schedule indices a section no longer has are deleted.
func (s *Store) SavePage(ctx context.Context, pageID int64, decoded []sections.Section, diagnostics int) (SaveStats, error) {
	var stats SaveStats
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stats = SaveStats{}
		now := timestamp(time.Now())
		for i := range decoded {
			sec := &decoded[i]
			if err := upsertSection(ctx, tx, pageID, sec, now); err != nil {
				return err
			}
			for j := range sec.Schedule {
				if err := upsertEntry(ctx, tx, pageID, sec, &sec.Schedule[j]); err != nil {
					return err
				}
			}
			removed, err := deleteStaleEntries(ctx, tx, sec)
			if err != nil {
				return err
			}
			stats.Sections++
			stats.Entries += len(sec.Schedule)
			stats.RemovedEntries += removed
		}
		res, err := tx.ExecContext(
			ctx,
			`UPDATE source_fetched
             SET parse_status = ?, parse_error = NULL, parsed_at = ?, section_count = ?, diagnostic_count = ?
             WHERE id = ?`,
			PageStatusParsed,
			now,
			len(decoded),
			diagnostics,
			pageID,
		)
		if err != nil {
			return fmt.Errorf("mark page parsed: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("page %d: %w", pageID, sql.ErrNoRows)
		}
		return nil
	})
	if err != nil {
		return SaveStats{}, fmt.Errorf("save page %d: %w", pageID, err)
	}
	return stats, nil
}

func upsertSection(ctx context.Context, tx *sql.Tx, pageID int64, sec *sections.Section, now string) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO sections (
            source_id, `+sectionColumns+`, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (subject, course_code, year, term, crn) DO UPDATE SET
            source_id = excluded.source_id,
            section = excluded.section,
            credits = excluded.credits,
            abbreviated_title = excluded.abbreviated_title,
            requisites = excluded.requisites,
            seats = excluded.seats,
            waitlist = excluded.waitlist,
            additional_fees = excluded.additional_fees,
            repeat_limit = excluded.repeat_limit,
            notes = excluded.notes,
            updated_at = excluded.updated_at`,
		pageID,
		sec.Subject,
		sec.CourseNumber,
		sec.Year,
		sec.Term,
		sec.ReferenceNumber,
		nullableString(sec.SectionLabel),
		sec.Credits,
		nullableString(sec.AbbreviatedTitle),
		nullableString(sec.Requisites),
		nullableString(sec.Seats),
		nullableString(sec.Waitlist),
		nullableFloat(sec.Fee),
		nullableInt(sec.RepeatLimit),
		nullableString(sec.Notes),
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert section %s: %w", sec.Key(), err)
	}
	return nil
}

func upsertEntry(ctx context.Context, tx *sql.Tx, pageID int64, sec *sections.Section, entry *sections.ScheduleEntry) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO schedule_entries (
            source_id, subject, course_code, year, term, crn, `+entryColumns+`
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (subject, course_code, year, term, crn, schedule_index) DO UPDATE SET
            source_id = excluded.source_id,
            type = excluded.type,
            days = excluded.days,
            time = excluded.time,
            start_date = excluded.start_date,
            end_date = excluded.end_date,
            room = excluded.room,
            instructor = excluded.instructor`,
		pageID,
		sec.Subject,
		sec.CourseNumber,
		sec.Year,
		sec.Term,
		sec.ReferenceNumber,
		entry.Index,
		entry.Type,
		nullableString(entry.Days),
		nullableString(entry.Time),
		nullableString(entry.Start),
		nullableString(entry.End),
		nullableString(entry.Room),
		nullableString(entry.Instructor),
	)
	if err != nil {
		return fmt.Errorf("upsert schedule %s #%d: %w", sec.Key(), entry.Index, err)
	}
	return nil
}

func deleteStaleEntries(ctx context.Context, tx *sql.Tx, sec *sections.Section) (int64, error) {
	res, err := tx.ExecContext(
		ctx,
		`DELETE FROM schedule_entries
         WHERE subject = ? AND course_code = ? AND year = ? AND term = ? AND crn = ? AND schedule_index >= ?`,
		sec.Subject,
		sec.CourseNumber,
		sec.Year,
		sec.Term,
		sec.ReferenceNumber,
		len(sec.Schedule),
	)
	if err != nil {
		return 0, fmt.Errorf("delete stale schedule %s: %w", sec.Key(), err)
	}
	return res.RowsAffected()
}

// ListSections returns sections matching filter, ordered by course and
// section, each with its schedule.
func (s *Store) ListSections(ctx context.Context, filter SectionFilter) ([]sections.Section, error) {
	var (
		where []string
		args  []any
	)
	if filter.Year > 0 {
		where = append(where, "year = ?")
		args = append(args, filter.Year)
	}
	if filter.Term > 0 {
		where = append(where, "term = ?")
		args = append(args, filter.Term)
	}
	if subject := strings.ToUpper(strings.TrimSpace(filter.Subject)); subject != "" {
		where = append(where, "subject = ?")
		args = append(args, subject)
	}
	if course := strings.ToUpper(strings.TrimSpace(filter.Course)); course != "" {
		where = append(where, "course_code = ?")
		args = append(args, course)
	}
	query := `SELECT ` + sectionColumns + ` FROM sections`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY year, term, subject, course_code, section, crn`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	var out []sections.Section
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, sec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		schedule, err := s.schedule(ctx, out[i].Key())
		if err != nil {
			return nil, err
		}
		out[i].Schedule = schedule
	}
	return out, nil
}

// GetSection returns the section with key and its schedule, or nil when absent.
func (s *Store) GetSection(ctx context.Context, key sections.Key) (*sections.Section, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sectionColumns+` FROM sections
         WHERE subject = ? AND course_code = ? AND year = ? AND term = ? AND crn = ?`,
		key.Subject,
		key.CourseNumber,
		key.Year,
		key.Term,
		key.ReferenceNumber,
	)
	sec, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	if sec.Schedule, err = s.schedule(ctx, key); err != nil {
		return nil, err
	}
	return &sec, nil
}

// FindSectionByReference returns the section with a reference number in a term.
func (s *Store) FindSectionByReference(ctx context.Context, year, term, crn int) (*sections.Section, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE year = ? AND term = ? AND crn = ? ORDER BY subject LIMIT 1`,
		year,
		term,
		crn,
	)
	sec, err := scanSection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find section: %w", err)
	}
	if sec.Schedule, err = s.schedule(ctx, sec.Key()); err != nil {
		return nil, err
	}
	return &sec, nil
}

func (s *Store) schedule(ctx context.Context, key sections.Key) ([]sections.ScheduleEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM schedule_entries
         WHERE subject = ? AND course_code = ? AND year = ? AND term = ? AND crn = ?
         ORDER BY schedule_index`,
		key.Subject,
		key.CourseNumber,
		key.Year,
		key.Term,
		key.ReferenceNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var entries []sections.ScheduleEntry
	for rows.Next() {
		var (
			entry                                  sections.ScheduleEntry
			kind, days, tm, start, end, room, inst sql.NullString
		)
		if err := rows.Scan(&entry.Index, &kind, &days, &tm, &start, &end, &room, &inst); err != nil {
			return nil, err
		}
		entry.Type = kind.String
		entry.Days = days.String
		entry.Time = tm.String
		entry.Start = start.String
		entry.End = end.String
		entry.Room = room.String
		entry.Instructor = inst.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanSection(scanner interface{ Scan(dest ...any) error }) (sections.Section, error) {
	var (
		sec                                      sections.Section
		label, title, requisites, seats, waitlst sql.NullString
		notes                                    sql.NullString
		fee                                      sql.NullFloat64
		repeat                                   sql.NullInt64
	)
	if err := scanner.Scan(
		&sec.Subject,
		&sec.CourseNumber,
		&sec.Year,
		&sec.Term,
		&sec.ReferenceNumber,
		&label,
		&sec.Credits,
		&title,
		&requisites,
		&seats,
		&waitlst,
		&fee,
		&repeat,
		&notes,
	); err != nil {
		return sections.Section{}, err
	}
	sec.SectionLabel = label.String
	sec.AbbreviatedTitle = title.String
	sec.Requisites = requisites.String
	sec.Seats = seats.String
	sec.Waitlist = waitlst.String
	sec.Notes = notes.String
	if fee.Valid {
		v := fee.Float64
		sec.Fee = &v
	}
	if repeat.Valid {
		v := int(repeat.Int64)
		sec.RepeatLimit = &v
	}
	return sec, nil
}

// Subjects returns the distinct subjects with stored sections.
func (s *Store) Subjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT subject FROM sections ORDER BY subject`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

// Terms returns the stored terms, newest first, with their section counts.
func (s *Store) Terms(ctx context.Context) ([]TermSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT year, term, COUNT(1) FROM sections GROUP BY year, term ORDER BY year DESC, term DESC`)
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	defer rows.Close()

	var terms []TermSummary
	for rows.Next() {
		var summary TermSummary
		if err := rows.Scan(&summary.Year, &summary.Term, &summary.Sections); err != nil {
			return nil, err
		}
		terms = append(terms, summary)
	}
	return terms, rows.Err()
}

// Stats returns counts of sources, pages by status, sections, and schedule entries.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Pages: make(map[PageStatus]int)}
	for _, q := range []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(1) FROM sources`, &stats.Sources},
		{`SELECT COUNT(1) FROM sections`, &stats.Sections},
		{`SELECT COUNT(1) FROM schedule_entries`, &stats.Entries},
	} {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return Stats{}, fmt.Errorf("store stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT parse_status, COUNT(1) FROM source_fetched GROUP BY parse_status`)
	if err != nil {
		return Stats{}, fmt.Errorf("page stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.Pages[PageStatus(status)] = count
	}
	return stats, rows.Err()
}
