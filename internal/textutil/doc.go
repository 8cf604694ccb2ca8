// Package textutil sanitizes caller-provided text for safe filesystem use.
//
// Entity IDs may come straight from CLI arguments or spreadsheet cells, so
// everything that becomes a path segment (live entity folders, deletion
// archives) passes through these helpers first.
package textutil
