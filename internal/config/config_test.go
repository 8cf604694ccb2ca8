package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"motk/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStorage := filepath.Join(tempHome, ".local", "share", "motk", "storage")
	if cfg.Paths.StorageDir != wantStorage {
		t.Fatalf("unexpected storage dir: got %q want %q", cfg.Paths.StorageDir, wantStorage)
	}
	if cfg.Sheets.Backend != config.BackendWorkbook {
		t.Fatalf("expected workbook backend by default, got %q", cfg.Sheets.Backend)
	}
	if !strings.HasPrefix(cfg.Sheets.WorkbookPath, tempHome) {
		t.Fatalf("expected workbook path under temp HOME, got %q", cfg.Sheets.WorkbookPath)
	}
	if cfg.Storage.Provider != config.ProviderFS {
		t.Fatalf("expected fs provider by default, got %q", cfg.Storage.Provider)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "motk" {
		t.Fatalf("unexpected metrics defaults: %+v", cfg.Metrics)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[sheets]
backend = "Memory"

[storage]
provider = "S3"
bucket = "motk-assets"
prefix = "/projects/alpha/"

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Sheets.Backend != config.BackendMemory {
		t.Fatalf("expected normalized memory backend, got %q", cfg.Sheets.Backend)
	}
	if cfg.Storage.Provider != config.ProviderS3 {
		t.Fatalf("expected normalized s3 provider, got %q", cfg.Storage.Provider)
	}
	if cfg.Storage.Prefix != "projects/alpha" {
		t.Fatalf("expected trimmed prefix, got %q", cfg.Storage.Prefix)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized level, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad_backend", "[sheets]\nbackend = \"postgres\"\n", "sheets.backend"},
		{"s3_without_bucket", "[storage]\nprovider = \"s3\"\n", "storage.bucket"},
		{"bad_provider", "[storage]\nprovider = \"gcs\"\n", "storage.provider"},
		{"bad_format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad_level", "[logging]\nlevel = \"trace\"\n", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error naming %q, got %v", tc.want, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StorageDir = filepath.Join(base, "storage")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Sheets.WorkbookPath = filepath.Join(base, "data", "motk.workbook")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StorageDir, cfg.Paths.LogDir, filepath.Join(base, "data")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Sheets.Backend != config.BackendWorkbook {
		t.Fatalf("sample should select workbook backend, got %q", cfg.Sheets.Backend)
	}
}
