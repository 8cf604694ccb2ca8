package store

import (
	"context"
	"fmt"

	"motk/internal/entity"
)

// Relationship declares that one entity type references another: rows of
// SourceType carry the target's ID in Field.
type Relationship struct {
	SourceType entity.Type
	Field      string
	TargetType entity.Type
}

// Registry holds the modeled cross-entity references consulted at delete
// time. The backing store enforces nothing itself; this table is the only
// referential integrity the system has.
type Registry struct {
	relationships []Relationship
	byTarget      map[entity.Type][]Relationship
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byTarget: make(map[entity.Type][]Relationship)}
}

// Register adds one relationship.
func (r *Registry) Register(rel Relationship) {
	r.relationships = append(r.relationships, rel)
	r.byTarget[rel.TargetType] = append(r.byTarget[rel.TargetType], rel)
}

// ReferencesTo returns the relationships pointing at the given target type.
func (r *Registry) ReferencesTo(target entity.Type) []Relationship {
	return r.byTarget[target]
}

// Relationships returns every registered relationship.
func (r *Registry) Relationships() []Relationship {
	out := make([]Relationship, len(r.relationships))
	copy(out, r.relationships)
	return out
}

// defaultRegistry models the references the tracker maintains. Task-to-asset
// references are not modeled; asset deletes go unchecked.
func defaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Relationship{SourceType: entity.TypeMember, Field: "user_id", TargetType: entity.TypeUser})
	r.Register(Relationship{SourceType: entity.TypeTask, Field: "shot_id", TargetType: entity.TypeShot})
	r.Register(Relationship{SourceType: entity.TypeTask, Field: "assignee_id", TargetType: entity.TypeMember})
	return r
}

// CheckDelete reports every reference that deleting the entity would leave
// dangling. An empty slice means the delete is safe. The check reads each
// dependent sheet once; rows created between the check and the delete are
// not seen, the same window every compare-and-swap in this system has.
func (s *Store) CheckDelete(ctx context.Context, entityType entity.Type, id string) ([]string, error) {
	var violations []string
	for _, rel := range s.relations.ReferencesTo(entityType) {
		childSchema, err := entity.SchemaFor(rel.SourceType)
		if err != nil {
			return nil, err
		}
		matches, err := s.scan(ctx, childSchema, map[string]any{rel.Field: id})
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			violations = append(violations, fmt.Sprintf("%d %s(s) reference %s %s via %s",
				len(matches), rel.SourceType, entityType, id, rel.Field))
		}
	}
	return violations, nil
}
