package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPageID identifies a fetched page row.
	FieldPageID = "page_id"
	// FieldTerm carries a "YYYYTT" term identifier.
	FieldTerm = "term"
	// FieldRunID correlates all records of one parse run or API request.
	FieldRunID = "run_id"
	// FieldEventType names the kind of event a warning or error reports.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the operator's next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey string

const (
	pageIDKey contextKey = "page_id"
	termKey   contextKey = "term"
	runIDKey  contextKey = "run_id"
)

// WithPageID annotates context with the fetched page identifier.
func WithPageID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, pageIDKey, id)
}

// PageIDFromContext extracts the fetched page identifier if present.
func PageIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(pageIDKey).(int64)
	return id, ok
}

// WithTerm annotates context with a term identifier.
func WithTerm(ctx context.Context, term string) context.Context {
	if term == "" {
		return ctx
	}
	return context.WithValue(ctx, termKey, term)
}

// TermFromContext returns the term identifier if present.
func TermFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(termKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRunID annotates context with a correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := PageIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldPageID, id))
	}
	if term, ok := TermFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTerm, term))
	}
	if rid, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
