package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"motk/internal/entity"
	"motk/internal/services"
)

// QueryOptions selects, orders, and pages a full-table scan. Filters match
// exactly against the decoded value's string form; a slice filter value means
// "value in set". Limit 0 means no limit.
type QueryOptions struct {
	Filters  map[string]any
	SortBy   string
	SortDesc bool
	Limit    int
	Offset   int
}

// Query runs a filtered, sorted, paged scan over one entity sheet. Total in
// the result counts every match before paging, so an offset past the end
// yields an empty page with the true total.
func (s *Store) Query(ctx context.Context, entityType entity.Type, opts QueryOptions) ListResult {
	schema, err := entity.SchemaFor(entityType)
	if err != nil {
		wrapped := services.Wrap(services.ErrValidation, string(entityType), "query", err.Error(), nil)
		s.finish(annotate(ctx, entityType, "", "query"), entityType, "query", outcomeRejectedValidation, wrapped)
		return failedList(wrapped)
	}
	ctx = annotate(ctx, entityType, "", "query")
	if err := validateQuery(schema, opts); err != nil {
		s.finish(ctx, entityType, "query", outcomeRejectedValidation, err)
		return failedList(err)
	}

	rows, err := s.scan(ctx, schema, opts.Filters)
	if err != nil {
		s.finish(ctx, entityType, "query", outcomeForError(err), err)
		return failedList(err)
	}
	if opts.SortBy != "" {
		sortRows(schema, rows, opts.SortBy, opts.SortDesc)
	}
	total := len(rows)
	page := paginate(rows, opts.Offset, opts.Limit)
	s.finish(ctx, entityType, "query", outcomeCommitted, nil)
	return ListResult{Success: true, Data: page, Total: total, Offset: opts.Offset, Limit: opts.Limit}
}

func validateQuery(schema entity.Schema, opts QueryOptions) error {
	for name := range opts.Filters {
		if _, ok := schema.Descriptor(name); !ok {
			return services.Wrap(services.ErrValidation, string(schema.Type), "query",
				fmt.Sprintf("unknown filter field %s", name), nil)
		}
	}
	if opts.SortBy != "" {
		if _, ok := schema.Descriptor(opts.SortBy); !ok {
			return services.Wrap(services.ErrValidation, string(schema.Type), "query",
				fmt.Sprintf("unknown sort field %s", opts.SortBy), nil)
		}
	}
	if opts.Limit < 0 {
		return services.Wrap(services.ErrValidation, string(schema.Type), "query", "limit must not be negative", nil)
	}
	if opts.Offset < 0 {
		return services.Wrap(services.ErrValidation, string(schema.Type), "query", "offset must not be negative", nil)
	}
	return nil
}

// scan fetches the whole sheet, decodes every row, and keeps the rows
// matching the filters. A malformed cell aborts the scan.
func (s *Store) scan(ctx context.Context, schema entity.Schema, filters map[string]any) ([]entity.Fields, error) {
	data, err := s.snapshot(ctx, schema.Sheet)
	if err != nil {
		return nil, services.Wrap(services.ErrBacking, string(schema.Type), "query", "fetch sheet", err)
	}
	if len(data.Values) == 0 {
		return []entity.Fields{}, nil
	}
	headers := data.Values[0]
	rows := make([]entity.Fields, 0, len(data.Values)-1)
	for _, raw := range data.Values[1:] {
		fields, err := entity.FromRow(schema, headers, raw)
		if err != nil {
			return nil, err
		}
		if matchesFilters(fields, filters) {
			rows = append(rows, fields)
		}
	}
	return rows, nil
}

func matchesFilters(fields entity.Fields, filters map[string]any) bool {
	for name, want := range filters {
		if !matchesFilter(fields[name], want) {
			return false
		}
	}
	return true
}

func matchesFilter(value, want any) bool {
	switch set := want.(type) {
	case []string:
		for _, candidate := range set {
			if stringForm(value) == candidate {
				return true
			}
		}
		return false
	case []any:
		for _, candidate := range set {
			if stringForm(value) == stringForm(candidate) {
				return true
			}
		}
		return false
	default:
		return stringForm(value) == stringForm(want)
	}
}

// stringForm is the comparison form of a decoded value. It matches the cell
// encoding for every scalar kind, so filters written as strings compare
// against what the sheet actually stores.
func stringForm(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(entity.DateFormat)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// sortRows orders rows by one field. Integers and dates compare numerically
// and chronologically; everything else compares byte-wise on the string form
// (not locale-aware). Absent values sort first ascending.
func sortRows(schema entity.Schema, rows []entity.Fields, field string, desc bool) {
	descriptor, ok := schema.Descriptor(field)
	if !ok {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := compareValues(descriptor, rows[i][field], rows[j][field])
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareValues(desc entity.FieldDescriptor, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch desc.Kind {
	case entity.KindInteger:
		ai, aok := a.(int)
		bi, bok := b.(int)
		if aok && bok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			default:
				return 0
			}
		}
	case entity.KindDate:
		at, aok := a.(time.Time)
		bt, bok := b.(time.Time)
		if aok && bok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(stringForm(a), stringForm(b))
}

func paginate(rows []entity.Fields, offset, limit int) []entity.Fields {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []entity.Fields{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
