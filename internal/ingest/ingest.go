// Package ingest registers local course-search pages as fetched pages and
// reads stored payloads back for the parse worker.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"coursesys/internal/config"
	"coursesys/internal/fileutil"
	"coursesys/internal/logging"
	"coursesys/internal/store"
	"coursesys/internal/term"
)

// ContentTypeHTML is recorded for every imported page.
const ContentTypeHTML = "text/html"

// ErrUnsupportedLink is returned for content links that are not file:// URLs.
var ErrUnsupportedLink = errors.New("unsupported content link")

// Importer copies pages into the content directory and registers them.
type Importer struct {
	store      *store.Store
	contentDir string
	logger     *slog.Logger
}

// Result describes one import.
type Result struct {
	Source *store.Source
	Page   *store.FetchedPage
}

// New builds an importer writing under cfg's content directory.
func New(st *store.Store, cfg *config.Config, logger *slog.Logger) *Importer {
	return &Importer{
		store:      st,
		contentDir: cfg.Paths.ContentDir,
		logger:     logging.NewComponentLogger(logger, "ingest"),
	}
}

// ImportFile registers the page at path as a pending page of the term
// identified by termID ("YYYYTT"). Every call registers a new page; identical
// content is stored once under its hash.
func (i *Importer) ImportFile(ctx context.Context, path, termID string) (Result, error) {
	t, err := term.ParseIdentifier(termID)
	if err != nil {
		return Result{}, err
	}
	identifier := t.Identifier()

	hash, err := fileutil.HashFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read page: %w", err)
	}

	source, err := i.store.EnsureSource(ctx, store.SourceSemesterSearch, identifier, 0)
	if err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(i.contentDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create content dir: %w", err)
	}
	dst := filepath.Join(i.contentDir, contentFileName(identifier, hash))
	copied, err := fileutil.CopyFileVerified(path, dst)
	if err != nil {
		return Result{}, fmt.Errorf("store page: %w", err)
	}
	if copied != hash {
		_ = os.Remove(dst)
		return Result{}, fmt.Errorf("page %s changed during import", path)
	}

	page, err := i.store.AddPage(ctx, store.NewPage{
		SourceID:    source.ID,
		ContentHash: hash,
		ContentType: ContentTypeHTML,
		ContentLink: FileLink(dst),
	})
	if err != nil {
		return Result{}, err
	}
	i.logger.Info("page imported",
		logging.Int64(logging.FieldPageID, page.ID),
		logging.String(logging.FieldTerm, identifier),
		logging.String("content_link", page.ContentLink),
	)
	return Result{Source: source, Page: page}, nil
}

func contentFileName(identifier, hash string) string {
	short := hash
	if len(short) > 12 {
		short = short[:12]
	}
	return identifier + "-" + short + ".html"
}

// FileLink renders path as a file:// URL.
func FileLink(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// Open returns the stored payload of page.
func Open(page *store.FetchedPage) (io.ReadCloser, error) {
	if page == nil {
		return nil, errors.New("page is nil")
	}
	return OpenLink(page.ContentLink)
}

// OpenLink opens a file:// content link.
func OpenLink(link string) (io.ReadCloser, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return nil, fmt.Errorf("parse content link: %w", err)
	}
	if u.Scheme != "file" || u.Path == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLink, link)
	}
	f, err := os.Open(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, fmt.Errorf("open content: %w", err)
	}
	return f, nil
}
