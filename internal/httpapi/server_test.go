package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursesys/internal/httpapi"
	"coursesys/internal/sections"
	"coursesys/internal/testsupport"
)

func seededServer(t *testing.T) *httpapi.Server {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	page := testsupport.NewPage(t, st, "202410", "hash-1")

	cpsc := testsupport.Section("CPSC", "1150", 10234, 2)
	cpsc.Notes = "Students must bring a laptop."
	math := testsupport.Section("MATH", "1171", 20001, 1)
	math.Fee = nil
	if _, err := st.SavePage(context.Background(), page.ID, []sections.Section{cpsc, math}, 0); err != nil {
		t.Fatalf("SavePage: %v", err)
	}
	return httpapi.New(cfg, st, nil)
}

func get(t *testing.T, h http.Handler, target string, out any) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type for %s, got %q", target, ct)
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s: %v (%q)", target, err, w.Body.String())
		}
	}
	return w.Code
}

func TestHealth(t *testing.T) {
	h := seededServer(t).Handler()
	var resp httpapi.HealthResponse
	if code := get(t, h, "/v1/health", &resp); code != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("unexpected health: %d %+v", code, resp)
	}
}

type failingReader struct {
	httpapi.Reader
}

func (failingReader) Ping(context.Context) error { return errors.New("database closed") }

func TestHealthReportsUnavailable(t *testing.T) {
	h := httpapi.New(testsupport.NewConfig(t), failingReader{}, nil).Handler()
	var resp httpapi.HealthResponse
	code := get(t, h, "/v1/health", &resp)
	if code != http.StatusServiceUnavailable || resp.Error != "database closed" {
		t.Fatalf("unexpected health: %d %+v", code, resp)
	}
}

func TestSubjectsAndTerms(t *testing.T) {
	h := seededServer(t).Handler()

	var subjects httpapi.SubjectsResponse
	if code := get(t, h, "/v1/subjects", &subjects); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if len(subjects.Subjects) != 2 || subjects.Subjects[0] != "CPSC" {
		t.Fatalf("unexpected subjects: %+v", subjects)
	}

	var terms httpapi.TermsResponse
	if code := get(t, h, "/v1/terms", &terms); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	if len(terms.Terms) != 1 {
		t.Fatalf("expected one term, got %+v", terms)
	}
	if got := terms.Terms[0]; got.TermID != "202410" || got.Season != "Spring" || got.Sections != 2 {
		t.Fatalf("unexpected term: %+v", got)
	}
}

func TestListSections(t *testing.T) {
	h := seededServer(t).Handler()

	tests := []struct {
		name   string
		target string
		code   int
		want   int
	}{
		{name: "all", target: "/v1/sections", code: http.StatusOK, want: 2},
		{name: "term filter", target: "/v1/sections?year=2024&term=10", code: http.StatusOK, want: 2},
		{name: "other term", target: "/v1/sections?year=2024&term=30", code: http.StatusOK, want: 0},
		{name: "subject", target: "/v1/sections?subject=math", code: http.StatusOK, want: 1},
		{name: "course", target: "/v1/sections?subject=CPSC&course=1150", code: http.StatusOK, want: 1},
		{name: "bad year", target: "/v1/sections?year=twenty", code: http.StatusBadRequest},
		{name: "negative limit", target: "/v1/sections?limit=-1", code: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp httpapi.SectionListResponse
			var out any = &resp
			if tt.code != http.StatusOK {
				out = &httpapi.ErrorResponse{}
			}
			if code := get(t, h, tt.target, out); code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, code)
			}
			if tt.code == http.StatusOK && len(resp.Sections) != tt.want {
				t.Fatalf("expected %d sections, got %d", tt.want, len(resp.Sections))
			}
		})
	}
}

func TestGetSection(t *testing.T) {
	h := seededServer(t).Handler()

	var resp httpapi.SectionResponse
	if code := get(t, h, "/v1/sections/2024/10/10234", &resp); code != http.StatusOK {
		t.Fatalf("unexpected status %d", code)
	}
	sec := resp.Section
	if sec.Subject != "CPSC" || sec.TermID != "202410" || sec.Notes != "Students must bring a laptop." {
		t.Fatalf("unexpected section: %+v", sec)
	}
	if sec.AdditionalFees == nil || *sec.AdditionalFees != 5 {
		t.Fatalf("expected fee 5, got %v", sec.AdditionalFees)
	}
	if len(sec.Schedule) != 2 || sec.Schedule[1].Index != 1 || sec.Schedule[0].Type != "Lecture" {
		t.Fatalf("unexpected schedule: %+v", sec.Schedule)
	}

	var missing httpapi.ErrorResponse
	if code := get(t, h, "/v1/sections/2024/10/99999", &missing); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code := get(t, h, "/v1/sections/2024/10/abc", &missing); code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-numeric crn, got %d", code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := seededServer(t).Handler()
	req := httptest.NewRequest(http.MethodPost, "/v1/subjects", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestFeeOmittedWhenAbsent(t *testing.T) {
	h := seededServer(t).Handler()
	req := httptest.NewRequest(http.MethodGet, "/v1/sections/2024/10/20001", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var raw map[string]map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["section"]["additionalFees"]; ok {
		t.Fatalf("expected additionalFees to be omitted, got %v", raw["section"])
	}
}

func TestStartServesUntilCancelled(t *testing.T) {
	srv := seededServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if srv.Addr() == "" {
		t.Fatal("expected bound address")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + srv.Addr() + "/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}

	srv.Stop()
	if _, err := client.Get("http://" + srv.Addr() + "/v1/health"); err == nil {
		t.Fatal("expected request to fail after Stop")
	}
}
