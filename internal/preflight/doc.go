// Package preflight provides readiness checks for the filesystem paths and
// the backing workbook that motk depends on.
//
// The CLI "motk status" command runs RunAll and renders one line per check.
// Checks never abort early: a failed check reports its detail and the rest
// still run, so the user sees the whole picture in one pass.
package preflight
