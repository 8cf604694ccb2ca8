package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"motk/internal/services"
)

// DateFormat is the cell encoding for date fields.
const DateFormat = "2006-01-02"

// ToRow converts a field set into one ordered cell row, one cell per schema
// field. Missing fields encode as empty cells, never as nulls.
func ToRow(schema Schema, fields Fields) ([]string, error) {
	row := make([]string, len(schema.Fields))
	for i, desc := range schema.Fields {
		value, ok := fields[desc.Name]
		if !ok {
			continue
		}
		cell, err := EncodeCell(desc, value)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, string(schema.Type), "encode", fmt.Sprintf("field %s", desc.Name), err)
		}
		row[i] = cell
	}
	return row, nil
}

// FromRow converts one raw cell row into a typed field set, aligning cells to
// the live header row by position. Headers without a schema descriptor are
// ignored; cells past the end of the row read as empty. Malformed cells are
// hard errors: the whole read fails rather than nulling the field.
func FromRow(schema Schema, headers []string, row []string) (Fields, error) {
	positions := make(map[string]int, len(headers))
	for i, header := range headers {
		if _, seen := positions[header]; !seen {
			positions[header] = i
		}
	}

	fields := make(Fields, len(schema.Fields))
	for _, desc := range schema.Fields {
		raw := ""
		if pos, ok := positions[desc.Name]; ok && pos < len(row) {
			raw = row[pos]
		}
		value, present, err := DecodeCell(desc, raw)
		if err != nil {
			return nil, services.Wrap(services.ErrBacking, string(schema.Type), "decode", fmt.Sprintf("sheet %s field %s", schema.Sheet, desc.Name), err)
		}
		if present {
			fields[desc.Name] = value
		}
	}
	return fields, nil
}

// EncodeCell renders one typed value as its cell representation. Nil and
// empty-string values encode as an empty cell regardless of kind, which is
// how callers clear a field.
func EncodeCell(desc FieldDescriptor, value any) (string, error) {
	if value == nil {
		return "", nil
	}
	if s, ok := value.(string); ok && s == "" {
		return "", nil
	}

	switch desc.Kind {
	case KindText, KindStatus, KindURL, KindLink:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("expected string for %s field, got %T", desc.Kind, value)
		}
		return s, nil
	case KindInteger:
		n, ok := value.(int)
		if !ok {
			return "", fmt.Errorf("expected int for integer field, got %T", value)
		}
		return strconv.Itoa(n), nil
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return "", fmt.Errorf("expected bool for bool field, got %T", value)
		}
		return strconv.FormatBool(b), nil
	case KindDate:
		ts, ok := value.(time.Time)
		if !ok {
			return "", fmt.Errorf("expected time.Time for date field, got %T", value)
		}
		if ts.IsZero() {
			return "", nil
		}
		return ts.Format(DateFormat), nil
	case KindFileList:
		list, ok := value.([]FileRef)
		if !ok {
			return "", fmt.Errorf("expected []FileRef for file list field, got %T", value)
		}
		if len(list) == 0 {
			return "", nil
		}
		encoded, err := json.Marshal(list)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	case KindVersions:
		set, ok := value.(VersionSet)
		if !ok {
			return "", fmt.Errorf("expected VersionSet for versions field, got %T", value)
		}
		if set.IsZero() {
			return "", nil
		}
		encoded, err := json.Marshal(set)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	default:
		return "", fmt.Errorf("unsupported field kind %v", desc.Kind)
	}
}

// DecodeCell parses one raw cell into its typed value. The second return
// reports whether the field should be present in the decoded field set:
// empty text-like cells are absent, while bool, file list, and versions
// fields always decode (to false, an empty list, and an empty set).
func DecodeCell(desc FieldDescriptor, raw string) (any, bool, error) {
	switch desc.Kind {
	case KindText, KindStatus, KindURL, KindLink:
		if raw == "" {
			return nil, false, nil
		}
		return raw, true, nil
	case KindInteger:
		if raw == "" {
			return nil, false, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, false, fmt.Errorf("malformed integer %q", raw)
		}
		return n, true, nil
	case KindBool:
		return raw == "true", true, nil
	case KindDate:
		if raw == "" {
			return nil, false, nil
		}
		ts, err := time.Parse(DateFormat, strings.TrimSpace(raw))
		if err != nil {
			return nil, false, fmt.Errorf("malformed date %q", raw)
		}
		return ts, true, nil
	case KindFileList:
		if raw == "" {
			return []FileRef{}, true, nil
		}
		var list []FileRef
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, false, fmt.Errorf("malformed JSON list %q", raw)
		}
		return list, true, nil
	case KindVersions:
		if raw == "" {
			return VersionSet{Versions: []Version{}}, true, nil
		}
		var set VersionSet
		if err := json.Unmarshal([]byte(raw), &set); err != nil {
			return nil, false, fmt.Errorf("malformed JSON versions %q", raw)
		}
		if set.Versions == nil {
			set.Versions = []Version{}
		}
		return set, true, nil
	default:
		return nil, false, fmt.Errorf("unsupported field kind %v", desc.Kind)
	}
}

// ParseInput coerces raw string input (CLI flags, query filters) into the
// descriptor's value type. Empty input stays an empty string, which encodes
// as a cleared cell.
func ParseInput(desc FieldDescriptor, raw string) (any, error) {
	if raw == "" {
		return "", nil
	}
	switch desc.Kind {
	case KindText, KindStatus, KindURL, KindLink:
		return raw, nil
	case KindInteger:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("field %s expects an integer, got %q", desc.Name, raw)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("field %s expects true or false, got %q", desc.Name, raw)
		}
		return b, nil
	case KindDate:
		ts, err := time.Parse(DateFormat, strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("field %s expects a %s date, got %q", desc.Name, DateFormat, raw)
		}
		return ts, nil
	case KindFileList:
		var list []FileRef
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("field %s expects a JSON file list: %w", desc.Name, err)
		}
		return list, nil
	case KindVersions:
		var set VersionSet
		if err := json.Unmarshal([]byte(raw), &set); err != nil {
			return nil, fmt.Errorf("field %s expects a JSON version set: %w", desc.Name, err)
		}
		if set.Versions == nil {
			set.Versions = []Version{}
		}
		return set, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %v", desc.Kind)
	}
}
