package entity

import (
	"fmt"
	"strings"
)

// Type identifies one of the five tracked entity types.
type Type string

const (
	TypeShot   Type = "shot"
	TypeAsset  Type = "asset"
	TypeTask   Type = "task"
	TypeMember Type = "member"
	TypeUser   Type = "user"
)

var allTypes = []Type{TypeShot, TypeAsset, TypeTask, TypeMember, TypeUser}

// Types returns every entity type in schema order.
func Types() []Type {
	out := make([]Type, len(allTypes))
	copy(out, allTypes)
	return out
}

// ParseType converts user input into an entity Type.
func ParseType(value string) (Type, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	// Accept the plural spellings the sheet tabs use.
	normalized = strings.TrimSuffix(normalized, "s")
	for _, t := range allTypes {
		if normalized == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown entity type %q", value)
}

func (t Type) String() string {
	return string(t)
}

// Fields is an entity's typed field set keyed by field name. Decoded value
// types are string, int, bool, time.Time, []FileRef, and VersionSet.
type Fields map[string]any

// Clone returns a shallow copy; slice and struct values are shared.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// FileRef is one entry of a file-reference list field.
type FileRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Version is one tracked version of an entity's media.
type Version struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// VersionSet is the "latest plus history" structure stored in a versions
// field. An absent cell decodes to {Latest: nil, Versions: []}.
type VersionSet struct {
	Latest   *Version  `json:"latest"`
	Versions []Version `json:"versions"`
}

// IsZero reports whether the set carries no versions at all.
func (v VersionSet) IsZero() bool {
	return v.Latest == nil && len(v.Versions) == 0
}

// Common status values used by shot, asset, and task status fields. The
// status kind is free-form text; these are the values the tracking workflow
// conventionally writes.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusApproved   = "approved"
	StatusCompleted  = "completed"
)
