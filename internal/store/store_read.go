package store

import (
	"context"

	"motk/internal/entity"
)

// Read fetches one entity by ID from a fresh snapshot. A missing entity is a
// not-found result, not a fault.
func (s *Store) Read(ctx context.Context, entityType entity.Type, id string) OperationResult {
	schema, err := entity.SchemaFor(entityType)
	if err != nil {
		return s.badType(ctx, entityType, "read", err)
	}
	ctx = annotate(ctx, entityType, id, "read")

	row, err := s.lookup(ctx, schema, "read", id)
	if err != nil {
		s.finish(ctx, entityType, "read", outcomeForError(err), err)
		return failed(err)
	}
	s.finish(ctx, entityType, "read", outcomeCommitted, nil)
	return succeeded(row.fields)
}
