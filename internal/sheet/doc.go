// Package sheet defines the contract between the entity store and the
// backing tabular service: whole-sheet snapshot reads, compare-and-swap cell
// updates, non-atomic batches, row append/delete, and workbook introspection.
//
// The backing medium offers no transactions and no row locking. All
// coordination is advisory: a write is accepted only when the live cell still
// holds the value the caller believed was current, or when the caller forces
// the write. Subpackages provide the local implementations (membook,
// workbook); the remote spreadsheet client implements the same interface
// outside this module.
package sheet
