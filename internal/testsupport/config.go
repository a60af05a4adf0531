package testsupport

import (
	"path/filepath"
	"testing"

	"sidecar/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Ledger.Path = filepath.Join(cfg.Paths.StateDir, "ledger.db")
	cfg.Scan.MediaExtensions = []string{
		".jpg", ".jpeg", ".png", ".gif", ".heic", ".webp",
		".mp4", ".mov", ".m4v", ".3gp", ".avi", ".mkv",
	}

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return &cfg
}

// WithWorkers overrides the scan worker count.
func WithWorkers(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.Workers = n
	}
}

// WithoutLedger disables the scan ledger.
func WithoutLedger() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ledger.Enabled = false
	}
}

// WithExcludeDirs sets directories a scan skips.
func WithExcludeDirs(dirs ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scan.ExcludeDirs = dirs
	}
}
