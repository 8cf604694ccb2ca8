package logging_test

import (
	"context"
	"testing"

	"motk/internal/logging"
	"motk/internal/services"
)

func TestContextFieldsFromAnnotations(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithEntity(ctx, "shot", "shot_001")
	ctx = services.WithOperation(ctx, "update")

	fields := logging.ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	got := map[string]string{}
	for _, attr := range fields {
		got[attr.Key] = attr.Value.String()
	}
	if got[logging.FieldEntityType] != "shot" {
		t.Fatalf("entity type = %q", got[logging.FieldEntityType])
	}
	if got[logging.FieldEntityID] != "shot_001" {
		t.Fatalf("entity id = %q", got[logging.FieldEntityID])
	}
	if got[logging.FieldOperation] != "update" {
		t.Fatalf("operation = %q", got[logging.FieldOperation])
	}
}

func TestWithContextHandlesNilLogger(t *testing.T) {
	logger := logging.WithContext(context.Background(), nil)
	if logger == nil {
		t.Fatal("expected usable fallback logger")
	}
	logger.Info("no-op")
}

func TestContextFieldsEmptyWithoutAnnotations(t *testing.T) {
	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no fields, got %v", fields)
	}
}
