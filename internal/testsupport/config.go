package testsupport

import (
	"path/filepath"
	"testing"

	"coursesys/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.ContentDir = filepath.Join(base, "data", "pages")
	cfgVal.Paths.DatabasePath = filepath.Join(base, "data", "coursesys.db")
	cfgVal.API.Bind = "127.0.0.1:0"
	cfgVal.Parser.PollInterval = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithBatchSize overrides the parse batch size on the test config.
func WithBatchSize(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Parser.BatchSize = n
	}
}

// WithTableSelector overrides the course table selector on the test config.
func WithTableSelector(selector string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Parser.TableSelector = selector
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
