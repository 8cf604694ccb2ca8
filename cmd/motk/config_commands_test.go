package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "config", "show")
	requireContains(t, out, "Config path: "+env.configPath)
	requireContains(t, out, "sheets.backend")
	requireContains(t, out, "workbook")

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out = mustRunCLI(t, env, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite refuses to clobber.
	_, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err == nil {
		t.Fatal("expected init over existing file to fail")
	}
	requireContains(t, err.Error(), "already exists")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, env.configPath); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestInitCreatesSheets(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "init")
	requireContains(t, out, "Initialized workbook backing store")
	requireContains(t, out, `sheet "Shots" ready`)

	// Init is idempotent and the sheets persist for later commands.
	mustRunCLI(t, env, "init")
	out = mustRunCLI(t, env, "list", "shot")
	requireContains(t, out, "No shots found")
}

func TestRejectsUnknownOutputFormat(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"--output", "yaml", "list", "shot"}, env.configPath)
	if err == nil {
		t.Fatal("expected unsupported output format to fail")
	}
	requireContains(t, err.Error(), "unsupported output format")
}
