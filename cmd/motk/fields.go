package main

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"motk/internal/entity"
	"motk/internal/sheet"
)

// parseFieldArgs converts repeated name=value flag values into typed fields
// using the schema's kind coercion rules.
func parseFieldArgs(schema entity.Schema, args []string) (entity.Fields, error) {
	fields := make(entity.Fields, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field %q (expected name=value)", arg)
		}
		name = strings.TrimSpace(name)
		desc, found := schema.Descriptor(name)
		if !found {
			return nil, fmt.Errorf("unknown field %q for %s", name, schema.Type)
		}
		value, err := entity.ParseInput(desc, raw)
		if err != nil {
			return nil, err
		}
		fields[name] = value
	}
	return fields, nil
}

// headerTitle renders a snake_case field name as a table heading.
func headerTitle(name string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(name, "_", " "))
}

// formatFieldValue renders a typed field value back into its readable cell
// form.
func formatFieldValue(desc entity.FieldDescriptor, value any) string {
	cell, err := entity.EncodeCell(desc, value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return cell
}

// entityFieldRows renders one entity as Field/Value rows in schema order.
// Extra keys outside the schema (such as folder provisioning errors) sort to
// the end.
func entityFieldRows(schema entity.Schema, fields entity.Fields) [][]string {
	rows := make([][]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, desc := range schema.Fields {
		value, ok := fields[desc.Name]
		if !ok {
			continue
		}
		seen[desc.Name] = true
		rows = append(rows, []string{desc.Name, formatFieldValue(desc, value)})
	}

	var extras []string
	for name := range fields {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		rows = append(rows, []string{name, fmt.Sprintf("%v", fields[name])})
	}
	return rows
}

// conflictRows renders compare-and-swap conflicts for display.
func conflictRows(conflicts []sheet.Conflict) [][]string {
	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, []string{c.Field, c.OriginalValue, c.CurrentValue, c.NewValue})
	}
	return rows
}

// listColumns is the per-type column subset shown by the list command. Full
// field sets remain available through --output json.
func listColumns(t entity.Type) []string {
	switch t {
	case entity.TypeShot:
		return []string{"shot_id", "episode", "scene", "title", "status", "priority", "due_date"}
	case entity.TypeAsset:
		return []string{"asset_id", "name", "asset_type", "status", "overlap_sensitive"}
	case entity.TypeTask:
		return []string{"task_id", "title", "status", "assignee_id", "shot_id", "start_date", "end_date"}
	case entity.TypeMember:
		return []string{"member_id", "user_id", "role", "department", "permission", "active"}
	case entity.TypeUser:
		return []string{"user_id", "email", "name", "active", "last_login_date"}
	default:
		return nil
	}
}

func listHeaderRow(columns []string) []string {
	headers := make([]string, len(columns))
	for i, name := range columns {
		headers[i] = headerTitle(name)
	}
	return headers
}

func listAlignments(schema entity.Schema, columns []string) []columnAlignment {
	aligns := make([]columnAlignment, len(columns))
	for i, name := range columns {
		if desc, ok := schema.Descriptor(name); ok && desc.Kind == entity.KindInteger {
			aligns[i] = alignRight
		}
	}
	return aligns
}

func listRow(schema entity.Schema, columns []string, fields entity.Fields) []string {
	row := make([]string, len(columns))
	for i, name := range columns {
		desc, ok := schema.Descriptor(name)
		if !ok {
			continue
		}
		if value, present := fields[name]; present {
			row[i] = formatFieldValue(desc, value)
		}
	}
	return row
}
