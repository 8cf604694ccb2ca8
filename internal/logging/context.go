package logging

import (
	"context"
	"log/slog"

	"motk/internal/services"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if entityType, entityID, ok := services.EntityFromContext(ctx); ok {
		if entityType != "" {
			fields = append(fields, slog.String(FieldEntityType, entityType))
		}
		if entityID != "" {
			fields = append(fields, slog.String(FieldEntityID, entityID))
		}
	}
	if op, ok := services.OperationFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldOperation, op))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
