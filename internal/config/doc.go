// Package config loads, normalizes, and validates MOTK configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and the entity store need: the backing store backend, the storage
// folder provider, and logging/metrics settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical backend names, and clear validation errors.
package config
