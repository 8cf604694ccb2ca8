// Package services defines the error taxonomy shared by the entity store and
// its collaborators.
//
// Key responsibilities:
//   - Structured error markers (validation, not-found, conflict, constraint,
//     backing-service) plus the Wrap helper that stamps entity and operation
//     context onto failures.
//   - Classify, which maps any error chain onto the taxonomy so store results
//     carry a stable failure code instead of a raw error.
//
// Use these helpers when wiring new store logic so failure behaviour stays
// uniform across operations.
package services
