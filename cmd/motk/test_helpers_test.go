package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"motk/internal/config"
	"motk/internal/entity"
	"motk/internal/sheet/workbook"
	"motk/internal/store"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfgVal := config.Default()
	cfgVal.Paths.StorageDir = filepath.Join(base, "storage")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Sheets.Backend = config.BackendWorkbook
	cfgVal.Sheets.WorkbookPath = filepath.Join(base, "motk.workbook")
	cfgVal.Sheets.Title = "CLI Test"
	cfgVal.Storage.Provider = config.ProviderFS
	cfgVal.Logging.Format = "json"
	cfgVal.Logging.Level = "error"
	cfgVal.Metrics.Enabled = false

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, &cfgVal)

	return &cliTestEnv{
		cfg:        &cfgVal,
		configPath: configPath,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
storage_dir = %q
log_dir = %q

[sheets]
backend = %q
workbook_path = %q
title = %q

[storage]
provider = %q

[logging]
format = %q
level = %q

[metrics]
enabled = %t
`,
		cfg.Paths.StorageDir,
		cfg.Paths.LogDir,
		cfg.Sheets.Backend,
		cfg.Sheets.WorkbookPath,
		cfg.Sheets.Title,
		cfg.Storage.Provider,
		cfg.Logging.Format,
		cfg.Logging.Level,
		cfg.Metrics.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRunCLI runs a command that is expected to succeed and returns stdout.
func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("motk %s: %v\noutput: %s", strings.Join(args, " "), err, out)
	}
	return out
}

// seedStore opens the workbook directly, hands a store to fn, and closes the
// workbook again so subsequent CLI invocations can take the file lock.
func seedStore(t *testing.T, env *cliTestEnv, fn func(st *store.Store)) {
	t.Helper()
	book, err := workbook.Open(env.cfg.Sheets.WorkbookPath, env.cfg.Sheets.Title)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() {
		if err := book.Close(); err != nil {
			t.Fatalf("close workbook: %v", err)
		}
	}()

	st := store.New(book)
	if err := st.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize store: %v", err)
	}
	fn(st)
}

// mustCreate seeds one entity and fails the test on any structured failure.
func mustCreate(t *testing.T, st *store.Store, entityType entity.Type, fields entity.Fields) entity.Fields {
	t.Helper()
	result := st.Create(context.Background(), entityType, fields)
	if !result.Success {
		t.Fatalf("create %s: %s: %s", entityType, result.Failure, result.Error)
	}
	return result.Data
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q to not contain %q", output, substr)
	}
}
