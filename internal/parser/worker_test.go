package parser_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"coursesys/internal/config"
	"coursesys/internal/ingest"
	"coursesys/internal/logging"
	"coursesys/internal/parser"
	"coursesys/internal/semester"
	"coursesys/internal/store"
	"coursesys/internal/testsupport"
)

type fixture struct {
	cfg    *config.Config
	store  *store.Store
	worker *parser.Worker
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	worker, err := parser.New(cfg, st, logger)
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	return &fixture{cfg: cfg, store: st, worker: worker, logs: &buf}
}

func (f *fixture) importPage(t *testing.T, name, termID, html string) *store.FetchedPage {
	t.Helper()
	path := filepath.Join(testsupport.BaseDir(f.cfg), "incoming", name)
	testsupport.WriteFile(t, path, html)
	result, err := ingest.New(f.store, f.cfg, nil).ImportFile(context.Background(), path, termID)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	return result.Page
}

func (f *fixture) page(t *testing.T, id int64) *store.FetchedPage {
	t.Helper()
	page, err := f.store.GetPage(context.Background(), id)
	if err != nil || page == nil {
		t.Fatalf("GetPage(%d): %v", id, err)
	}
	return page
}

func TestDrainParsesPendingPages(t *testing.T) {
	f := newFixture(t)
	page := f.importPage(t, "spring.html", "202310", testsupport.SpringPage())

	summary, err := f.worker.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if summary.Pages != 1 || summary.Parsed != 1 || summary.Sections != 2 || summary.Entries != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	stored := f.page(t, page.ID)
	if stored.Status != store.PageStatusParsed || stored.SectionCount != 2 {
		t.Fatalf("unexpected page after parse: %+v", stored)
	}

	math, err := f.store.FindSectionByReference(context.Background(), 2023, 10, 20001)
	if err != nil || math == nil {
		t.Fatalf("FindSectionByReference: %+v %v", math, err)
	}
	if math.Notes != "Restricted to Science students." || len(math.Schedule) != 2 {
		t.Fatalf("unexpected stored section: %+v", math)
	}
	if !strings.Contains(f.logs.String(), "page parsed") {
		t.Fatalf("expected parse log, got %q", f.logs.String())
	}

	again, err := f.worker.Drain(context.Background())
	if err != nil {
		t.Fatalf("second Drain failed: %v", err)
	}
	if again.Pages != 0 {
		t.Fatalf("expected nothing pending, got %+v", again)
	}
}

func TestDrainProcessesAllBatches(t *testing.T) {
	f := newFixture(t, testsupport.WithBatchSize(1))
	pages := []struct{ termID, heading string }{
		{"202310", "Spring 2023"},
		{"202320", "Summer 2023"},
		{"202330", "Fall 2023"},
	}
	for i, p := range pages {
		html := testsupport.SearchPage(p.heading,
			testsupport.Row("", "10", "", fmt.Sprintf("3000%d", i+1), "ENGL", "1100", "001", "3", "Composition", "", "", ""),
			testsupport.Row("Lecture", "M------", "0830-1020", "09-Jan-23", "10-Apr-23", "C100", "Park, S"),
		)
		f.importPage(t, p.termID+".html", p.termID, html)
	}

	summary, err := f.worker.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if summary.Pages != 3 || summary.Parsed != 3 || summary.Sections != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	terms, err := f.store.Terms(context.Background())
	if err != nil {
		t.Fatalf("Terms failed: %v", err)
	}
	if len(terms) != 3 {
		t.Fatalf("expected 3 stored terms, got %+v", terms)
	}
}

func TestParseOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantStatus store.PageStatus
		wantError  string
		wantLog    string
	}{
		{
			name:       "no table",
			html:       "<html><body><h2>Fall 2023</h2><p>No results.</p></body></html>",
			wantStatus: store.PageStatusEmpty,
			wantLog:    "page has no course table",
		},
		{
			name: "missing heading",
			html: testsupport.SearchPage("Course Search Results",
				testsupport.Row("", "10", "", "10234", "CPSC", "1150", "001", "3", "Data Structures", "", "", "")),
			wantStatus: store.PageStatusFailed,
			wantError:  "term heading not found",
			wantLog:    "event_type=page_failed",
		},
		{
			name: "unknown season",
			html: testsupport.SearchPage("Winter 2023",
				testsupport.Row("", "10", "", "10234", "CPSC", "1150", "001", "3", "Data Structures", "", "", "")),
			wantStatus: store.PageStatusFailed,
			wantError:  "unknown season",
			wantLog:    "page decode failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			page := f.importPage(t, "page.html", "202330", tt.html)
			if _, err := f.worker.Drain(context.Background()); err != nil {
				t.Fatalf("Drain failed: %v", err)
			}
			stored := f.page(t, page.ID)
			if stored.Status != tt.wantStatus {
				t.Fatalf("expected status %s, got %s", tt.wantStatus, stored.Status)
			}
			if !strings.Contains(stored.ParseError, tt.wantError) {
				t.Fatalf("expected parse error containing %q, got %q", tt.wantError, stored.ParseError)
			}
			if !strings.Contains(f.logs.String(), tt.wantLog) {
				t.Fatalf("expected %q in logs %q", tt.wantLog, f.logs.String())
			}
		})
	}
}

func TestParseLogsDiagnosticsAndTermMismatch(t *testing.T) {
	f := newFixture(t)
	html := testsupport.SearchPage("Fall 2023",
		testsupport.Row("", "10", "", "30001", "CPSC", "1150", "001", "3", "Data Structures", "", "", ""),
		testsupport.Row("Webinar", "M------", "0900-1000", "", "", "", "Smith, J"),
	)
	page := f.importPage(t, "fall.html", "202410", html)

	summary, err := f.worker.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if summary.Diagnostics == 0 {
		t.Fatalf("expected diagnostics, got %+v", summary)
	}
	if stored := f.page(t, page.ID); stored.DiagnosticCount != summary.Diagnostics {
		t.Fatalf("expected diagnostic count %d, got %d", summary.Diagnostics, stored.DiagnosticCount)
	}

	logs := f.logs.String()
	for _, fragment := range []string{
		"event_type=decode_diagnostic",
		"diagnostic=unknown_meeting_type",
		"token=Webinar",
		"event_type=term_mismatch",
		"heading_term=202330",
		"term=202410",
	} {
		if !strings.Contains(logs, fragment) {
			t.Fatalf("expected %q in logs %q", fragment, logs)
		}
	}

	sec, err := f.store.FindSectionByReference(context.Background(), 2023, 30, 30001)
	if err != nil || sec == nil {
		t.Fatalf("expected section under heading term: %+v %v", sec, err)
	}
}

func TestParseMissingContentMarksFailed(t *testing.T) {
	f := newFixture(t)
	page := f.importPage(t, "gone.html", "202310", testsupport.SpringPage())
	if err := os.Remove(strings.TrimPrefix(page.ContentLink, "file://")); err != nil {
		t.Fatalf("remove stored content: %v", err)
	}

	summary, err := f.worker.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("expected failed page, got %+v", summary)
	}
	if stored := f.page(t, page.ID); stored.Status != store.PageStatusFailed {
		t.Fatalf("expected failed status, got %s", stored.Status)
	}
}

func TestDrainRespectsLock(t *testing.T) {
	f := newFixture(t)
	lock := flock.New(f.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer lock.Unlock()

	if _, err := f.worker.Drain(context.Background()); !errors.Is(err, parser.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	page := f.importPage(t, "spring.html", "202310", testsupport.SpringPage())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.worker.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		stored, err := f.store.GetPage(context.Background(), page.ID)
		if err == nil && stored != nil && stored.Status == store.PageStatusParsed {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("page was not parsed by the running worker")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestFailureStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   store.PageStatus
		wantOK bool
	}{
		{name: "term", err: &semester.Error{Kind: semester.KindTerm, Err: errors.New("x")}, want: store.PageStatusFailed, wantOK: true},
		{name: "wrapped read", err: errors.Join(errors.New("ctx"), &semester.Error{Kind: semester.KindRead, Err: errors.New("x")}), want: store.PageStatusFailed, wantOK: true},
		{name: "transient", err: errors.New("database is locked"), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.FailureStatus(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("FailureStatus = %q, %v; want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
