// Package membook implements sheet.Client in process memory.
//
// It backs tests and the "memory" backend. One RWMutex guards the sheet map;
// the mutex protects the Go data structures only and is not an entity-level
// lock: a caller that reads a snapshot and later issues a compare-and-swap
// update still races other writers exactly as it would against a remote
// service. Sheets list in insertion order so introspection output is
// deterministic.
package membook
