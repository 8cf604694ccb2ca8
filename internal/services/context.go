package services

import "context"

type contextKey string

const (
	entityTypeKey contextKey = "entity_type"
	entityIDKey   contextKey = "entity_id"
	operationKey  contextKey = "operation"
)

// WithEntity annotates context with the entity a store operation works on.
func WithEntity(ctx context.Context, entityType, entityID string) context.Context {
	if entityType != "" {
		ctx = context.WithValue(ctx, entityTypeKey, entityType)
	}
	if entityID != "" {
		ctx = context.WithValue(ctx, entityIDKey, entityID)
	}
	return ctx
}

// EntityFromContext returns the annotated entity type and ID if present.
func EntityFromContext(ctx context.Context) (entityType, entityID string, ok bool) {
	entityType, _ = ctx.Value(entityTypeKey).(string)
	entityID, _ = ctx.Value(entityIDKey).(string)
	return entityType, entityID, entityType != "" || entityID != ""
}

// WithOperation annotates context with the store operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	if operation == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, operation)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(operationKey).(string)
	return op, ok && op != ""
}
