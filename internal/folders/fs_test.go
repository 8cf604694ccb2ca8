package folders_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"motk/internal/config"
	"motk/internal/folders"
)

func TestFSCreateEntityFolder(t *testing.T) {
	root := t.TempDir()
	fs, err := folders.NewFS(root, nil)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	path, err := fs.CreateEntityFolder(context.Background(), "shot", "shot_001")
	if err != nil {
		t.Fatalf("CreateEntityFolder: %v", err)
	}
	want := filepath.Join(root, "shot", "shot_001")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s: %v", path, err)
	}

	// Creating again is a no-op, not an error.
	if _, err := fs.CreateEntityFolder(context.Background(), "shot", "shot_001"); err != nil {
		t.Fatalf("repeat CreateEntityFolder: %v", err)
	}
}

func TestFSSanitizesEntityIDs(t *testing.T) {
	root := t.TempDir()
	fs, err := folders.NewFS(root, nil)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	path, err := fs.CreateEntityFolder(context.Background(), "shot", "../escape")
	if err != nil {
		t.Fatalf("CreateEntityFolder: %v", err)
	}
	want := filepath.Join(root, "shot", "..-escape")
	if path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	// Archival resolves the same sanitized live path.
	archive, err := fs.MoveToDeleted(context.Background(), "shot", "../escape", nil)
	if err != nil {
		t.Fatalf("MoveToDeleted: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected sanitized live folder to be archived, stat err = %v", err)
	}
	if rel, err := filepath.Rel(root, archive); err != nil || strings.HasPrefix(rel, "..") {
		t.Fatalf("archive %q escapes root %q", archive, root)
	}
}

func TestFSMoveToDeletedArchivesContents(t *testing.T) {
	root := t.TempDir()
	fs, err := folders.NewFS(root, nil)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	ctx := context.Background()

	dir, err := fs.CreateEntityFolder(ctx, "asset", "asset_007")
	if err != nil {
		t.Fatalf("CreateEntityFolder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "model.obj"), []byte("mesh"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	archive, err := fs.MoveToDeleted(ctx, "asset", "asset_007", map[string]string{"reason": "cleanup"})
	if err != nil {
		t.Fatalf("MoveToDeleted: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected live folder to be gone, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(archive, "model.obj")); err != nil {
		t.Fatalf("expected archived file: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(archive, "metadata.json"))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	var record map[string]string
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if record["entity_id"] != "asset_007" || record["reason"] != "cleanup" {
		t.Fatalf("unexpected metadata %v", record)
	}
	if record["deleted_at"] == "" {
		t.Fatal("expected deleted_at in metadata")
	}
}

func TestFSMoveToDeletedWithoutLiveFolder(t *testing.T) {
	root := t.TempDir()
	fs, err := folders.NewFS(root, nil)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	archive, err := fs.MoveToDeleted(context.Background(), "task", "task_123", nil)
	if err != nil {
		t.Fatalf("MoveToDeleted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(archive, "metadata.json")); err != nil {
		t.Fatalf("expected metadata record: %v", err)
	}
}

func TestNewFSRequiresRoot(t *testing.T) {
	if _, err := folders.NewFS("  ", nil); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Provider = config.ProviderNone
	p, err := folders.FromConfig(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig none: %v", err)
	}
	if _, ok := p.(folders.Disabled); !ok {
		t.Fatalf("expected Disabled provisioner, got %T", p)
	}

	cfg.Storage.Provider = config.ProviderFS
	cfg.Paths.StorageDir = t.TempDir()
	p, err = folders.FromConfig(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("FromConfig fs: %v", err)
	}
	if _, ok := p.(*folders.FS); !ok {
		t.Fatalf("expected FS provisioner, got %T", p)
	}

	cfg.Storage.Provider = "ftp"
	if _, err := folders.FromConfig(context.Background(), &cfg, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
