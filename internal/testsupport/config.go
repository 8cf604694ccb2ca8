package testsupport

import (
	"path/filepath"
	"testing"

	"motk/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test:
// in-memory sheet backend, no storage provider, logs under the test temp dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Sheets.Backend = config.BackendMemory
	cfg.Sheets.WorkbookPath = filepath.Join(base, "motk.workbook")
	cfg.Paths.StorageDir = filepath.Join(base, "storage")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Storage.Provider = config.ProviderNone
	cfg.Metrics.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkbookBackend switches the config to the sqlite workbook backend.
func WithWorkbookBackend() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sheets.Backend = config.BackendWorkbook
	}
}

// WithFSStorage enables the filesystem folder provisioner.
func WithFSStorage() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Storage.Provider = config.ProviderFS
	}
}
