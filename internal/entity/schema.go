package entity

import "fmt"

// Kind is the semantic type of a field. It drives coercion in both mapping
// directions; no field-name heuristics exist anywhere.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindStatus
	KindBool
	KindDate
	KindURL
	KindFileList
	KindVersions
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindStatus:
		return "status"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindURL:
		return "url"
	case KindFileList:
		return "file_list"
	case KindVersions:
		return "versions"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// FieldDescriptor declares one field of an entity schema.
type FieldDescriptor struct {
	Name     string
	Kind     Kind
	Required bool
	// LinkTo names the entity type a KindLink field references.
	LinkTo Type
}

// Schema is the fixed, ordered field list of one entity type. The field
// order is the header order written at sheet initialization; the first field
// is the ID column.
type Schema struct {
	Type   Type
	Sheet  string
	Fields []FieldDescriptor
}

// IDField returns the name of the ID column.
func (s Schema) IDField() string {
	return s.Fields[0].Name
}

// Headers returns the canonical header row.
func (s Schema) Headers() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Descriptor looks up a field by name.
func (s Schema) Descriptor(name string) (FieldDescriptor, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// Required returns the names of fields that must be present and non-empty.
func (s Schema) Required() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

var schemas = map[Type]Schema{
	TypeShot: {
		Type:  TypeShot,
		Sheet: "Shots",
		Fields: []FieldDescriptor{
			{Name: "shot_id", Kind: KindText, Required: true},
			{Name: "episode", Kind: KindText},
			{Name: "scene", Kind: KindText},
			{Name: "title", Kind: KindText, Required: true},
			{Name: "status", Kind: KindStatus},
			{Name: "priority", Kind: KindInteger},
			{Name: "due_date", Kind: KindDate},
			{Name: "folder_label", Kind: KindText},
			{Name: "folder_url", Kind: KindURL},
			{Name: "thumbnails", Kind: KindFileList},
			{Name: "file_list", Kind: KindFileList},
			{Name: "versions", Kind: KindVersions},
			{Name: "notes", Kind: KindText},
		},
	},
	TypeAsset: {
		Type:  TypeAsset,
		Sheet: "Assets",
		Fields: []FieldDescriptor{
			{Name: "asset_id", Kind: KindText, Required: true},
			{Name: "name", Kind: KindText, Required: true},
			{Name: "asset_type", Kind: KindStatus},
			{Name: "status", Kind: KindStatus},
			{Name: "overlap_sensitive", Kind: KindBool},
			{Name: "folder_label", Kind: KindText},
			{Name: "folder_url", Kind: KindURL},
			{Name: "thumbnails", Kind: KindFileList},
			{Name: "file_list", Kind: KindFileList},
			{Name: "versions", Kind: KindVersions},
			{Name: "notes", Kind: KindText},
		},
	},
	TypeTask: {
		Type:  TypeTask,
		Sheet: "Tasks",
		Fields: []FieldDescriptor{
			{Name: "task_id", Kind: KindText, Required: true},
			{Name: "title", Kind: KindText, Required: true},
			{Name: "status", Kind: KindStatus},
			{Name: "assignee_id", Kind: KindLink, LinkTo: TypeMember},
			{Name: "start_date", Kind: KindDate},
			{Name: "end_date", Kind: KindDate},
			{Name: "shot_id", Kind: KindLink, LinkTo: TypeShot},
			{Name: "folder_label", Kind: KindText},
			{Name: "folder_url", Kind: KindURL},
			{Name: "notes", Kind: KindText},
		},
	},
	TypeMember: {
		Type:  TypeMember,
		Sheet: "ProjectMembers",
		Fields: []FieldDescriptor{
			{Name: "member_id", Kind: KindText, Required: true},
			{Name: "user_id", Kind: KindLink, Required: true, LinkTo: TypeUser},
			{Name: "role", Kind: KindText},
			{Name: "department", Kind: KindText},
			{Name: "permission", Kind: KindStatus},
			{Name: "active", Kind: KindBool},
			{Name: "availability", Kind: KindText},
			{Name: "notes", Kind: KindText},
		},
	},
	TypeUser: {
		Type:  TypeUser,
		Sheet: "Users",
		Fields: []FieldDescriptor{
			{Name: "user_id", Kind: KindText, Required: true},
			{Name: "email", Kind: KindText, Required: true},
			{Name: "name", Kind: KindText, Required: true},
			{Name: "avatar_url", Kind: KindURL},
			{Name: "created_date", Kind: KindDate},
			{Name: "last_login_date", Kind: KindDate},
			{Name: "active", Kind: KindBool},
			{Name: "notes", Kind: KindText},
		},
	},
}

// SchemaFor returns the schema of the given entity type.
func SchemaFor(t Type) (Schema, error) {
	schema, ok := schemas[t]
	if !ok {
		return Schema{}, fmt.Errorf("no schema for entity type %q", t)
	}
	return schema, nil
}

// Schemas returns every schema in canonical type order.
func Schemas() []Schema {
	out := make([]Schema, 0, len(allTypes))
	for _, t := range allTypes {
		out = append(out, schemas[t])
	}
	return out
}
