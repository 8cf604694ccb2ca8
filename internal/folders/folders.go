package folders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"motk/internal/config"
)

// Provisioner creates working folders for new entities and archives them when
// the entity is deleted.
type Provisioner interface {
	// CreateEntityFolder ensures the working folder for the entity exists and
	// returns its path or URL.
	CreateEntityFolder(ctx context.Context, entityType, entityID string) (string, error)
	// MoveToDeleted archives the entity folder together with a metadata
	// record and returns the archive location.
	MoveToDeleted(ctx context.Context, entityType, entityID string, metadata map[string]string) (string, error)
}

// Disabled is the no-op provisioner for deployments without managed storage.
type Disabled struct{}

func (Disabled) CreateEntityFolder(context.Context, string, string) (string, error) {
	return "", nil
}

func (Disabled) MoveToDeleted(context.Context, string, string, map[string]string) (string, error) {
	return "", nil
}

// FromConfig selects the provisioner named by cfg.Storage.Provider.
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Provisioner, error) {
	if cfg == nil {
		return Disabled{}, nil
	}
	switch cfg.Storage.Provider {
	case config.ProviderFS:
		return NewFS(cfg.Paths.StorageDir, logger)
	case config.ProviderS3:
		return NewS3(ctx, S3Options{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			Prefix:    cfg.Storage.Prefix,
			PathStyle: cfg.Storage.PathStyle,
		}, logger)
	case config.ProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func archiveMetadata(entityType, entityID string, deletedAt time.Time, metadata map[string]string) ([]byte, error) {
	record := map[string]string{
		"entity_type": entityType,
		"entity_id":   entityID,
		"deleted_at":  deletedAt.UTC().Format(time.RFC3339),
	}
	for key, value := range metadata {
		record[key] = value
	}
	encoded, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode archive metadata: %w", err)
	}
	return encoded, nil
}
