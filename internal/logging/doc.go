// Package logging assembles the structured slog loggers used across MOTK.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the standardized attribute keys (entity_type,
// entity_id, operation, outcome) so every component tags log lines the same
// way. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the system.
package logging
