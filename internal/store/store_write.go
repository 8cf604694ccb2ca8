package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"motk/internal/entity"
	"motk/internal/logging"
	"motk/internal/services"
	"motk/internal/sheet"
)

// Create appends one new entity. When the caller supplies no ID one is
// generated as {type}_{unixSeconds}_{suffix}. Entity types that carry a
// working folder get one provisioned after the append; folder failure is
// recorded on the result data under folder_error and never rolls back the
// row.
func (s *Store) Create(ctx context.Context, entityType entity.Type, fields entity.Fields) OperationResult {
	schema, err := entity.SchemaFor(entityType)
	if err != nil {
		return s.badType(ctx, entityType, "create", err)
	}

	data := fields.Clone()
	rawID, hasID := data[schema.IDField()]
	id, _ := rawID.(string)
	if hasID && rawID != nil {
		if _, ok := rawID.(string); !ok {
			wrapped := services.Wrap(services.ErrValidation, string(entityType), "create",
				fmt.Sprintf("field %s expects a string ID, got %T", schema.IDField(), rawID), nil)
			s.finish(annotate(ctx, entityType, "", "create"), entityType, "create", outcomeRejectedValidation, wrapped)
			return failed(wrapped)
		}
	}
	if strings.TrimSpace(id) == "" {
		id = s.generateID(entityType)
		data[schema.IDField()] = id
	}
	ctx = annotate(ctx, entityType, id, "create")

	if unknown := unknownFields(schema, data); len(unknown) > 0 {
		wrapped := services.Wrap(services.ErrValidation, string(entityType), "create",
			"unknown fields: "+strings.Join(unknown, ", "), nil)
		s.finish(ctx, entityType, "create", outcomeRejectedValidation, wrapped)
		return failed(wrapped)
	}
	if missing := missingRequired(schema, data); len(missing) > 0 {
		wrapped := services.Wrap(services.ErrValidation, string(entityType), "create",
			"missing required fields: "+strings.Join(missing, ", "), nil)
		s.finish(ctx, entityType, "create", outcomeRejectedValidation, wrapped)
		return failed(wrapped)
	}
	row, err := entity.ToRow(schema, data)
	if err != nil {
		s.finish(ctx, entityType, "create", outcomeRejectedValidation, err)
		return failed(err)
	}

	start := time.Now()
	appended, err := s.client.AppendRows(ctx, schema.Sheet, [][]string{row})
	s.metrics.ObserveSheetRequest("append_rows", time.Since(start))
	if err != nil {
		wrapped := services.Wrap(services.ErrBacking, string(entityType), "create", "append row", err)
		s.finish(ctx, entityType, "create", outcomeFailed, wrapped)
		return failed(wrapped)
	}
	logging.WithContext(ctx, s.logger).Debug("row appended", logging.String("range", appended.UpdatedRange))

	created, err := entity.FromRow(schema, schema.Headers(), row)
	if err != nil {
		s.finish(ctx, entityType, "create", outcomeFailed, err)
		return failed(err)
	}
	s.provisionFolder(ctx, schema, id, created)
	s.finish(ctx, entityType, "create", outcomeCommitted, nil)
	return succeeded(created)
}

// provisionFolder creates the working folder for entity types that carry one
// and persists the folder link on the row. Failures are logged and recorded
// on the decoded fields, never returned: the row append already happened.
func (s *Store) provisionFolder(ctx context.Context, schema entity.Schema, id string, fields entity.Fields) {
	if _, ok := schema.Descriptor("folder_url"); !ok {
		return
	}
	logger := logging.WithContext(ctx, s.logger)
	path, err := s.folders.CreateEntityFolder(ctx, string(schema.Type), id)
	if err != nil {
		logger.Warn("folder provisioning failed", logging.Error(err))
		fields["folder_error"] = err.Error()
		return
	}
	if path == "" {
		return
	}
	if current, ok := fields["folder_url"].(string); ok && current != "" {
		return
	}
	updates := []sheet.CellUpdate{
		{Table: schema.Sheet, EntityID: id, Field: "folder_url", NewValue: path, Force: true},
		{Table: schema.Sheet, EntityID: id, Field: "folder_label", NewValue: id, Force: true},
	}
	start := time.Now()
	_, err = s.client.BatchUpdate(ctx, updates)
	s.metrics.ObserveSheetRequest("batch_update", time.Since(start))
	if err != nil {
		logger.Warn("folder link write failed", logging.Error(err))
		fields["folder_error"] = err.Error()
		return
	}
	fields["folder_url"] = path
	fields["folder_label"] = id
}

// Update merges the caller's partial field set over the current entity and
// writes every changed field through one compare-and-swap batch. Fields whose
// checks lose to a concurrent writer come back in Conflicts; fields already
// committed by the same batch stay written (the batch is not atomic and
// nothing rolls back). force bypasses the per-cell checks.
func (s *Store) Update(ctx context.Context, entityType entity.Type, id string, updates entity.Fields, force bool) OperationResult {
	schema, err := entity.SchemaFor(entityType)
	if err != nil {
		return s.badType(ctx, entityType, "update", err)
	}
	ctx = annotate(ctx, entityType, id, "update")

	if unknown := unknownFields(schema, updates); len(unknown) > 0 {
		wrapped := services.Wrap(services.ErrValidation, string(entityType), "update",
			"unknown fields: "+strings.Join(unknown, ", "), nil)
		s.finish(ctx, entityType, "update", outcomeRejectedValidation, wrapped)
		return failed(wrapped)
	}
	if value, ok := updates[schema.IDField()]; ok {
		if next, _ := value.(string); next != id {
			wrapped := services.Wrap(services.ErrValidation, string(entityType), "update",
				fmt.Sprintf("field %s is immutable", schema.IDField()), nil)
			s.finish(ctx, entityType, "update", outcomeRejectedValidation, wrapped)
			return failed(wrapped)
		}
	}

	current, err := s.lookup(ctx, schema, "update", id)
	if err != nil {
		s.finish(ctx, entityType, "update", outcomeForError(err), err)
		return failed(err)
	}

	merged := current.fields.Clone()
	for name, value := range updates {
		merged[name] = value
	}
	if missing := missingRequired(schema, merged); len(missing) > 0 {
		wrapped := services.Wrap(services.ErrValidation, string(entityType), "update",
			"missing required fields: "+strings.Join(missing, ", "), nil)
		s.finish(ctx, entityType, "update", outcomeRejectedValidation, wrapped)
		return failed(wrapped)
	}

	var cells []sheet.CellUpdate
	for _, desc := range schema.Fields {
		value, ok := updates[desc.Name]
		if !ok {
			continue
		}
		cell, err := entity.EncodeCell(desc, value)
		if err != nil {
			wrapped := services.Wrap(services.ErrValidation, string(entityType), "update",
				fmt.Sprintf("field %s", desc.Name), err)
			s.finish(ctx, entityType, "update", outcomeRejectedValidation, wrapped)
			return failed(wrapped)
		}
		believed := current.rawCell(desc.Name)
		if cell == believed {
			continue
		}
		cells = append(cells, sheet.CellUpdate{
			Table:         schema.Sheet,
			EntityID:      id,
			Field:         desc.Name,
			OriginalValue: believed,
			NewValue:      cell,
			Force:         force,
		})
	}
	if len(cells) == 0 {
		s.finish(ctx, entityType, "update", outcomeCommitted, nil)
		return succeeded(current.fields)
	}

	start := time.Now()
	batch, err := s.client.BatchUpdate(ctx, cells)
	s.metrics.ObserveSheetRequest("batch_update", time.Since(start))
	if err != nil {
		wrapped := services.Wrap(services.ErrBacking, string(entityType), "update", "batch update", err)
		s.finish(ctx, entityType, "update", outcomeFailed, wrapped)
		return failed(wrapped)
	}
	if len(batch.Conflicts) > 0 {
		for _, conflict := range batch.Conflicts {
			s.metrics.RecordConflict(string(entityType), conflict.Field)
		}
		wrapped := services.Wrap(services.ErrConflict, string(entityType), "update",
			fmt.Sprintf("%d of %d field(s) changed concurrently; re-fetch or retry with force",
				len(batch.Conflicts), len(cells)), nil)
		s.finish(ctx, entityType, "update", outcomeConflicted, wrapped)
		return conflicted(wrapped, batch.Conflicts)
	}

	applied, err := s.lookup(ctx, schema, "update", id)
	if err != nil {
		s.finish(ctx, entityType, "update", outcomeForError(err), err)
		return failed(err)
	}
	s.finish(ctx, entityType, "update", outcomeCommitted, nil)
	return succeeded(applied.fields)
}

// Link points a link field of the source entity at an existing target. The
// write itself is a normal single-field Update and can conflict like any
// other.
func (s *Store) Link(ctx context.Context, sourceType entity.Type, sourceID, field, targetID string) OperationResult {
	schema, err := entity.SchemaFor(sourceType)
	if err != nil {
		return s.badType(ctx, sourceType, "link", err)
	}
	ctx = annotate(ctx, sourceType, sourceID, "link")

	desc, ok := schema.Descriptor(field)
	if !ok || desc.Kind != entity.KindLink {
		wrapped := services.Wrap(services.ErrValidation, string(sourceType), "link",
			fmt.Sprintf("field %s is not a link field", field), nil)
		s.finish(ctx, sourceType, "link", outcomeRejectedValidation, wrapped)
		return failed(wrapped)
	}
	if strings.TrimSpace(targetID) == "" {
		wrapped := services.Wrap(services.ErrValidation, string(sourceType), "link", "target ID required", nil)
		s.finish(ctx, sourceType, "link", outcomeRejectedValidation, wrapped)
		return failed(wrapped)
	}
	targetSchema, err := entity.SchemaFor(desc.LinkTo)
	if err != nil {
		wrapped := services.Wrap(services.ErrValidation, string(sourceType), "link", err.Error(), nil)
		s.finish(ctx, sourceType, "link", outcomeRejectedValidation, wrapped)
		return failed(wrapped)
	}
	if _, err := s.lookup(ctx, targetSchema, "link", targetID); err != nil {
		s.finish(ctx, sourceType, "link", outcomeForError(err), err)
		return failed(err)
	}

	result := s.Update(ctx, sourceType, sourceID, entity.Fields{field: targetID}, false)
	var cause error
	if result.Error != "" {
		cause = errors.New(result.Error)
	}
	s.finish(ctx, sourceType, "link", outcomeForFailure(result.Failure), cause)
	return result
}
