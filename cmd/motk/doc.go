// Package main hosts the motk CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into entity
// store operations: creating, reading, updating, deleting, linking, and
// querying the tracked production entities, plus workbook initialization,
// status reporting, and configuration scaffolding. It centralizes
// configuration resolution, backing store selection, and logger setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
