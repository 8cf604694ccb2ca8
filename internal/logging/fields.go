package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEntityType is the standardized structured logging key for entity type names.
	FieldEntityType = "entity_type"
	// FieldEntityID is the standardized structured logging key for entity identifiers.
	FieldEntityID = "entity_id"
	// FieldField is the standardized structured logging key for entity field names.
	FieldField = "field"
	// FieldSheet is the standardized structured logging key for backing sheet names.
	FieldSheet = "sheet"
	// FieldOperation is the standardized structured logging key for store operation names.
	FieldOperation = "operation"
	// FieldOutcome is the standardized structured logging key for terminal operation outcomes.
	FieldOutcome = "outcome"
	// FieldBackend is the standardized structured logging key for backing store backends.
	FieldBackend = "backend"
)
