// Package httpapi serves stored sections over a read-only JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"coursesys/internal/config"
	"coursesys/internal/logging"
	"coursesys/internal/sections"
	"coursesys/internal/store"
)

// Reader is the subset of store.Store the API reads from.
type Reader interface {
	Ping(ctx context.Context) error
	Subjects(ctx context.Context) ([]string, error)
	Terms(ctx context.Context) ([]store.TermSummary, error)
	ListSections(ctx context.Context, filter store.SectionFilter) ([]sections.Section, error)
	FindSectionByReference(ctx context.Context, year, term, crn int) (*sections.Section, error)
}

// Server exposes Reader under /v1.
type Server struct {
	bind   string
	reader Reader
	logger *slog.Logger

	listener net.Listener
	server   *http.Server
}

// New builds a server bound to cfg.API.Bind.
func New(cfg *config.Config, reader Reader, logger *slog.Logger) *Server {
	return &Server{
		bind:   strings.TrimSpace(cfg.API.Bind),
		reader: reader,
		logger: logging.NewComponentLogger(logger, "api"),
	}
}

// Handler returns the routed handler with access logging, panic recovery, and CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/v1/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/subjects", s.handleSubjects).Methods(http.MethodGet)
	r.HandleFunc("/v1/terms", s.handleTerms).Methods(http.MethodGet)
	r.HandleFunc("/v1/sections", s.handleSections).Methods(http.MethodGet)
	r.HandleFunc("/v1/sections/{year:[0-9]{4}}/{term:[0-9]{2}}/{crn:[0-9]+}", s.handleSection).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.CustomLoggingHandler(io.Discard, h, s.logRequest)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.logger}), handlers.PrintRecoveryStack(false))(h)
	h = handlers.CORS(handlers.AllowedMethods([]string{http.MethodGet}))(h)
	return h
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.reader.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := s.reader.Subjects(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if subjects == nil {
		subjects = []string{}
	}
	s.writeJSON(w, http.StatusOK, SubjectsResponse{Subjects: subjects})
}

func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := s.reader.Terms(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]TermSummary, 0, len(terms))
	for _, summary := range terms {
		out = append(out, FromTermSummary(summary))
	}
	s.writeJSON(w, http.StatusOK, TermsResponse{Terms: out})
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.SectionFilter{
		Subject: query.Get("subject"),
		Course:  query.Get("course"),
	}
	for _, p := range []struct {
		name string
		dest *int
	}{
		{"year", &filter.Year},
		{"term", &filter.Term},
		{"limit", &filter.Limit},
	} {
		value := strings.TrimSpace(query.Get(p.name))
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid "+p.name)
			return
		}
		*p.dest = n
	}

	found, err := s.reader.ListSections(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]Section, 0, len(found))
	for _, sec := range found {
		out = append(out, FromSection(sec))
	}
	s.writeJSON(w, http.StatusOK, SectionListResponse{Sections: out})
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	// The route patterns guarantee digits.
	year, _ := strconv.Atoi(vars["year"])
	code, _ := strconv.Atoi(vars["term"])
	crn, err := strconv.Atoi(vars["crn"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid crn")
		return
	}
	sec, err := s.reader.FindSectionByReference(r.Context(), year, code, crn)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sec == nil {
		s.writeError(w, http.StatusNotFound, "section not found")
		return
	}
	s.writeJSON(w, http.StatusOK, SectionResponse{Section: FromSection(*sec)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}

func (s *Server) logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	s.logger.Debug("api request",
		logging.String("method", params.Request.Method),
		logging.String("path", params.URL.Path),
		logging.Int("status", params.StatusCode),
		logging.Int("bytes", params.Size),
		logging.Duration("elapsed", time.Since(params.TimeStamp)),
	)
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	logging.ErrorWithContext(l.logger, "api handler panicked", "api_panic", logging.String("panic", fmt.Sprint(v...)))
}
