// Package store is the entity store: typed create/read/update/delete/query
// operations for shots, assets, tasks, project members, and users over a
// tabular backing store reached through sheet.Client.
//
// The store keeps no state between calls. Every operation re-fetches the
// sheet it touches, and writes go through the per-cell compare-and-swap
// protocol; two writers racing on the same cell are detected at write time,
// not prevented. Operations report structured results instead of Go errors
// so callers can branch on the failure class without unwrapping.
package store
