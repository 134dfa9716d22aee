// Package parser drains pending pages through the decoder into the store.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"coursesys/internal/config"
	"coursesys/internal/ingest"
	"coursesys/internal/logging"
	"coursesys/internal/sections"
	"coursesys/internal/semester"
	"coursesys/internal/store"
)

// Worker decodes pending pages one at a time. Only one worker per data
// directory may run; the lock file enforces this across processes.
type Worker struct {
	store     *store.Store
	decoder   *semester.Decoder
	logger    *slog.Logger
	lockPath  string
	lock      *flock.Flock
	batchSize int
	interval  time.Duration
}

// Summary reports the pages handled by one drain.
type Summary struct {
	RunID       string
	Pages       int
	Parsed      int
	Empty       int
	Failed      int
	Sections    int
	Entries     int
	Diagnostics int
}

func (s *Summary) add(o Summary) {
	s.Pages += o.Pages
	s.Parsed += o.Parsed
	s.Empty += o.Empty
	s.Failed += o.Failed
	s.Sections += o.Sections
	s.Entries += o.Entries
	s.Diagnostics += o.Diagnostics
}

// New builds a worker from cfg.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Worker, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("parser requires config and store")
	}
	decoder, err := semester.NewDecoder(semester.Options{
		TableSelector:   cfg.Parser.TableSelector,
		HeadingSelector: cfg.Parser.HeadingSelector,
		HeadingPattern:  cfg.Parser.HeadingPattern,
	})
	if err != nil {
		return nil, err
	}
	lockPath := cfg.LockPath()
	return &Worker{
		store:     st,
		decoder:   decoder,
		logger:    logging.NewComponentLogger(logger, "parser"),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		batchSize: cfg.Parser.BatchSize,
		interval:  cfg.PollInterval(),
	}, nil
}

func (w *Worker) acquire() error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrLocked, w.lockPath)
	}
	return nil
}

func (w *Worker) release() {
	if err := w.lock.Unlock(); err != nil {
		w.logger.Warn("failed to release parser lock", logging.Error(err))
	}
}

// Drain parses pending pages until none remain.
func (w *Worker) Drain(ctx context.Context) (Summary, error) {
	if err := w.acquire(); err != nil {
		return Summary{}, err
	}
	defer w.release()
	return w.drain(ctx)
}

// Run drains pending pages every poll interval until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.acquire(); err != nil {
		return err
	}
	defer w.release()

	w.logger.Info("parse worker started",
		logging.String("lock", w.lockPath),
		logging.Duration("poll_interval", w.interval),
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if _, err := w.drain(ctx); err != nil && ctx.Err() == nil {
			logging.ErrorWithContext(w.logger, "parse pass failed", "parse_pass_failed", logging.Error(err))
		}
		select {
		case <-ctx.Done():
			w.logger.Info("parse worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Worker) drain(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	started := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		pages, err := w.store.PendingPages(ctx, w.batchSize)
		if err != nil {
			return summary, err
		}
		if len(pages) == 0 {
			break
		}
		for _, page := range pages {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			outcome, err := w.ParsePage(ctx, page)
			if err != nil {
				return summary, err
			}
			summary.add(outcome)
		}
	}
	if summary.Pages > 0 {
		logging.WithContext(ctx, w.logger).Info("parse pass complete",
			logging.Int("pages", summary.Pages),
			logging.Int("parsed", summary.Parsed),
			logging.Int("empty", summary.Empty),
			logging.Int("failed", summary.Failed),
			logging.Int("sections", summary.Sections),
			logging.Duration("elapsed", time.Since(started)),
		)
	}
	return summary, nil
}

// ParsePage decodes one page and records the outcome. Failures that describe
// the page mark it failed and are not returned; transient errors are returned
// and leave the page pending.
func (w *Worker) ParsePage(ctx context.Context, page *store.FetchedPage) (Summary, error) {
	ctx = logging.WithPageID(ctx, page.ID)
	ctx = logging.WithTerm(ctx, page.Identifier)
	logger := logging.WithContext(ctx, w.logger)
	outcome := Summary{Pages: 1}

	result, err := w.decode(page)
	if err != nil {
		status, ok := FailureStatus(err)
		if !ok {
			return Summary{}, fmt.Errorf("parse page %d: %w", page.ID, err)
		}
		if markErr := w.store.MarkPage(ctx, page.ID, status, err.Error(), 0); markErr != nil {
			return Summary{}, markErr
		}
		logging.WarnWithContext(logger, "page decode failed", "page_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the page heading and table markup, then reset the page"),
			logging.String(logging.FieldImpact, "page contributes no sections"),
		)
		outcome.Failed = 1
		return outcome, nil
	}

	if result.Empty {
		if err := w.store.MarkPage(ctx, page.ID, store.PageStatusEmpty, "", 0); err != nil {
			return Summary{}, err
		}
		logger.Info("page has no course table", logging.String("heading_term", result.Term.Identifier()))
		outcome.Empty = 1
		return outcome, nil
	}

	if got := result.Term.Identifier(); got != page.Identifier {
		logging.WarnWithContext(logger, "page heading disagrees with source term", "term_mismatch",
			logging.String("heading_term", got),
			logging.String(logging.FieldErrorHint, "verify the term the page was imported under"),
			logging.String(logging.FieldImpact, "sections stored under the heading term"),
		)
	}
	for _, diag := range result.Diagnostics {
		logDiagnostic(logger, diag)
	}

	stats, err := w.store.SavePage(ctx, page.ID, result.Sections, len(result.Diagnostics))
	if err != nil {
		return Summary{}, err
	}
	logger.Info("page parsed",
		logging.Int("tokens", result.Tokens),
		logging.Int("sections", stats.Sections),
		logging.Int("entries", stats.Entries),
		logging.Int64("removed_entries", stats.RemovedEntries),
		logging.Int("diagnostics", len(result.Diagnostics)),
	)
	outcome.Parsed = 1
	outcome.Sections = stats.Sections
	outcome.Entries = stats.Entries
	outcome.Diagnostics = len(result.Diagnostics)
	return outcome, nil
}

func (w *Worker) decode(page *store.FetchedPage) (semester.Page, error) {
	rc, err := ingest.Open(page)
	if err != nil {
		return semester.Page{}, &contentError{err: err}
	}
	defer rc.Close()
	return w.decoder.Decode(rc)
}

func logDiagnostic(logger *slog.Logger, diag sections.Diagnostic) {
	attrs := []logging.Attr{
		logging.String("diagnostic", string(diag.Kind)),
		logging.Int("position", diag.Position),
	}
	if diag.Section != nil {
		attrs = append(attrs, logging.String("section", diag.Section.String()))
	}
	if diag.Token != "" {
		attrs = append(attrs, logging.String("token", diag.Token))
	}
	if diag.Detail != "" {
		attrs = append(attrs, logging.String("detail", diag.Detail))
	}
	if diag.Recovered() {
		attrs = append(attrs, logging.String(logging.FieldImpact, "record recovered"))
	} else {
		attrs = append(attrs, logging.String(logging.FieldImpact, "tokens skipped"))
	}
	logging.WarnWithContext(logger, "decode diagnostic", "decode_diagnostic", attrs...)
}
