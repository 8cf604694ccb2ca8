package folders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"motk/internal/fileutil"
	"motk/internal/logging"
	"motk/internal/textutil"
)

// FS keeps entity folders under a local root directory. Layout:
//
//	<root>/<type>/<id>/                       live folders
//	<root>/deleted/<type>/<stamp>_<id>_<tok>/ archives
type FS struct {
	root   string
	logger *slog.Logger
	now    func() time.Time
}

// NewFS returns a provisioner rooted at dir, creating the root if needed.
func NewFS(root string, logger *slog.Logger) (*FS, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage root required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FS{
		root:   root,
		logger: logging.NewComponentLogger(logger, "folders"),
		now:    time.Now,
	}, nil
}

// entityPath builds the live folder path for an entity. IDs pass through
// sanitization so caller-provided values cannot escape the root.
func (f *FS) entityPath(entityType, entityID string) string {
	segment := textutil.SanitizeFileName(entityID)
	if segment == "" {
		segment = "unknown"
	}
	return filepath.Join(f.root, entityType, segment)
}

func (f *FS) CreateEntityFolder(ctx context.Context, entityType, entityID string) (string, error) {
	dir := f.entityPath(entityType, entityID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create entity folder: %w", err)
	}
	f.logger.Debug("entity folder ready",
		logging.String(logging.FieldEntityType, entityType),
		logging.String(logging.FieldEntityID, entityID),
		logging.String("path", dir))
	return dir, nil
}

func (f *FS) MoveToDeleted(ctx context.Context, entityType, entityID string, metadata map[string]string) (string, error) {
	deletedAt := f.now()
	segment := textutil.SanitizeFileName(entityID)
	if segment == "" {
		segment = "unknown"
	}
	name := fmt.Sprintf("%s_%s_%s", deletedAt.UTC().Format("20060102-150405"), segment, uuid.NewString()[:6])
	archive := filepath.Join(f.root, "deleted", entityType, name)
	if err := os.MkdirAll(filepath.Dir(archive), 0o755); err != nil {
		return "", fmt.Errorf("create archive parent: %w", err)
	}

	src := f.entityPath(entityType, entityID)
	switch _, err := os.Stat(src); {
	case err == nil:
		if err := fileutil.MoveDir(src, archive); err != nil {
			return "", fmt.Errorf("archive entity folder: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Still record the deletion even when the entity never had a folder.
		if err := os.MkdirAll(archive, 0o755); err != nil {
			return "", fmt.Errorf("create archive folder: %w", err)
		}
	default:
		return "", fmt.Errorf("inspect entity folder: %w", err)
	}

	record, err := archiveMetadata(entityType, entityID, deletedAt, metadata)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(archive, "metadata.json"), record, 0o644); err != nil {
		return "", fmt.Errorf("write archive metadata: %w", err)
	}
	f.logger.Info("entity folder archived",
		logging.String(logging.FieldEntityType, entityType),
		logging.String(logging.FieldEntityID, entityID),
		logging.String("archive", archive))
	return archive, nil
}
