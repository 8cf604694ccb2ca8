package store

import (
	"context"
	"strings"
	"time"

	"motk/internal/entity"
	"motk/internal/logging"
	"motk/internal/services"
)

// Delete removes one entity after consulting the relation registry. Matching
// references block the delete with a constraint failure listing each
// violation. The folder archive is best-effort; the row removal decides the
// outcome.
func (s *Store) Delete(ctx context.Context, entityType entity.Type, id string) OperationResult {
	schema, err := entity.SchemaFor(entityType)
	if err != nil {
		return s.badType(ctx, entityType, "delete", err)
	}
	ctx = annotate(ctx, entityType, id, "delete")

	row, err := s.lookup(ctx, schema, "delete", id)
	if err != nil {
		s.finish(ctx, entityType, "delete", outcomeForError(err), err)
		return failed(err)
	}

	violations, err := s.CheckDelete(ctx, entityType, id)
	if err != nil {
		s.finish(ctx, entityType, "delete", outcomeFailed, err)
		return failed(err)
	}
	if len(violations) > 0 {
		wrapped := services.Wrap(services.ErrConstraint, string(entityType), "delete",
			strings.Join(violations, "; "), nil)
		s.finish(ctx, entityType, "delete", outcomeFailed, wrapped)
		return failed(wrapped)
	}

	if _, ok := schema.Descriptor("folder_url"); ok {
		metadata := map[string]string{"sheet": schema.Sheet}
		if title, ok := row.fields["title"].(string); ok {
			metadata["title"] = title
		}
		if name, ok := row.fields["name"].(string); ok {
			metadata["name"] = name
		}
		if _, err := s.folders.MoveToDeleted(ctx, string(entityType), id, metadata); err != nil {
			logging.WithContext(ctx, s.logger).Warn("folder archive failed", logging.Error(err))
		}
	}

	start := time.Now()
	err = s.client.DeleteRow(ctx, schema.Sheet, row.rowIndex)
	s.metrics.ObserveSheetRequest("delete_row", time.Since(start))
	if err != nil {
		wrapped := services.Wrap(services.ErrBacking, string(entityType), "delete", "delete row", err)
		s.finish(ctx, entityType, "delete", outcomeFailed, wrapped)
		return failed(wrapped)
	}
	s.finish(ctx, entityType, "delete", outcomeCommitted, nil)
	return succeeded(row.fields)
}
