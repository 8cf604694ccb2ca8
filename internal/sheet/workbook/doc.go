// Package workbook implements sheet.Client on a local SQLite file.
//
// One file holds one workbook: a sheets table records tab names and their
// order, a rows table holds each row's cells as a JSON-encoded string array
// keyed by (sheet, idx) with idx 0 reserved for the header row. A flock
// sidecar taken non-blocking at open keeps a second process from writing the
// same file.
//
// Every compare-and-swap update resolves its cell and applies the check and
// the write inside one transaction, so a single update is atomic for its
// cell. As with any sheet.Client, the window between a caller's snapshot
// read and its later update remains unguarded.
package workbook
