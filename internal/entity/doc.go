// Package entity defines the five tracked entity types and the schema-driven
// mapping between typed field sets and raw sheet rows.
//
// Each entity type has a fixed, ordered field list described by explicit
// FieldDescriptor entries (name, semantic kind, required flag, link target).
// The descriptors drive coercion in both directions: ToRow encodes typed
// values into position-aligned cells, FromRow decodes cells back against the
// live header row. Dates use the 2006-01-02 form, booleans compare against
// the literal "true", file lists and version sets are JSON cells that default
// to empty collections when blank.
//
// Malformed cells fail the whole read: a bad JSON list or unparseable date
// surfaces as a backing-classified error naming the sheet and field, never a
// silently nulled value.
package entity
