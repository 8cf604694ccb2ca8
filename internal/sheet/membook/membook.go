package membook

import (
	"context"
	"fmt"
	"sync"

	"motk/internal/sheet"
)

// Book is a volatile, in-process workbook.
type Book struct {
	mu     sync.RWMutex
	title  string
	sheets map[string][][]string
	order  []string
}

// New returns an empty workbook reporting the given title.
func New(title string) *Book {
	if title == "" {
		title = "In-Memory Workbook"
	}
	return &Book{
		title:  title,
		sheets: make(map[string][][]string),
	}
}

var _ sheet.Client = (*Book)(nil)

// GetSheetData returns a deep-copied snapshot so callers can never mutate
// the book through the returned slices.
func (b *Book) GetSheetData(_ context.Context, table string) (*sheet.SheetData, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	values, ok := b.sheets[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, table)
	}

	snapshot := make([][]string, len(values))
	width := 0
	for i, row := range values {
		snapshot[i] = append([]string(nil), row...)
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		width = 1
	}

	return &sheet.SheetData{
		Values:         snapshot,
		Range:          sheet.RangeRef(table, 0, 0, max(len(values)-1, 0), width-1),
		MajorDimension: "ROWS",
	}, nil
}

// UpdateCell applies one compare-and-swap write. The check and the write run
// under the book mutex, so a single call is atomic for its cell; the
// read-snapshot-then-update race across calls remains by design.
func (b *Book) UpdateCell(_ context.Context, update sheet.CellUpdate) (*sheet.UpdateResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyUpdate(update)
}

// BatchUpdate applies each update independently under one lock acquisition.
// The batch is not atomic: conflict-free cells commit even when other cells
// in the same batch are rejected.
func (b *Book) BatchUpdate(_ context.Context, updates []sheet.CellUpdate) (*sheet.BatchResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := &sheet.BatchResult{Results: make([]sheet.UpdateResult, 0, len(updates))}
	for _, update := range updates {
		result, err := b.applyUpdate(update)
		if err != nil {
			return nil, err
		}
		batch.Results = append(batch.Results, *result)
		if result.Conflict {
			batch.Conflicts = append(batch.Conflicts, sheet.Conflict{
				Field:         update.Field,
				OriginalValue: update.OriginalValue,
				CurrentValue:  result.CurrentValue,
				NewValue:      update.NewValue,
			})
			continue
		}
		batch.TotalUpdated += result.UpdatedRows
	}
	batch.Success = len(batch.Conflicts) == 0
	return batch, nil
}

func (b *Book) applyUpdate(update sheet.CellUpdate) (*sheet.UpdateResult, error) {
	values, ok := b.sheets[update.Table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, update.Table)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", sheet.ErrSheetNotFound, update.Table)
	}

	colIndex := -1
	for i, header := range values[0] {
		if header == update.Field {
			colIndex = i
			break
		}
	}
	if colIndex < 0 {
		return nil, fmt.Errorf("%w: %s in sheet %s", sheet.ErrColumnNotFound, update.Field, update.Table)
	}

	rowIndex := -1
	for i := 1; i < len(values); i++ {
		if len(values[i]) > 0 && values[i][0] == update.EntityID {
			rowIndex = i
			break
		}
	}
	if rowIndex < 0 {
		return nil, fmt.Errorf("%w: %s in sheet %s", sheet.ErrRowNotFound, update.EntityID, update.Table)
	}

	live := ""
	if colIndex < len(values[rowIndex]) {
		live = values[rowIndex][colIndex]
	}
	if !update.Force && live != update.OriginalValue {
		return &sheet.UpdateResult{Conflict: true, CurrentValue: live}, nil
	}

	row := values[rowIndex]
	for len(row) <= colIndex {
		row = append(row, "")
	}
	row[colIndex] = update.NewValue
	values[rowIndex] = row
	b.sheets[update.Table] = values

	return &sheet.UpdateResult{
		Success:      true,
		UpdatedRange: sheet.CellRef(update.Table, rowIndex, colIndex),
		UpdatedRows:  1,
	}, nil
}

// AppendRows adds rows after the last occupied row.
func (b *Book) AppendRows(_ context.Context, table string, rows [][]string) (*sheet.AppendResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, ok := b.sheets[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, table)
	}
	if len(rows) == 0 {
		return &sheet.AppendResult{Success: true}, nil
	}

	start := len(values)
	width := 0
	for _, row := range rows {
		values = append(values, append([]string(nil), row...))
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		width = 1
	}
	b.sheets[table] = values

	return &sheet.AppendResult{
		Success:      true,
		UpdatedRange: sheet.RangeRef(table, start, 0, len(values)-1, width-1),
		UpdatedRows:  len(rows),
	}, nil
}

// DeleteRow removes one entity row; the header row cannot be deleted.
func (b *Book) DeleteRow(_ context.Context, table string, rowIndex int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	values, ok := b.sheets[table]
	if !ok {
		return fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, table)
	}
	if rowIndex <= 0 || rowIndex >= len(values) {
		return fmt.Errorf("%w: index %d in sheet %s", sheet.ErrRowNotFound, rowIndex, table)
	}

	b.sheets[table] = append(values[:rowIndex], values[rowIndex+1:]...)
	return nil
}

// EnsureSheet creates the sheet with the header row when absent. Existing
// sheets are left untouched, headers included.
func (b *Book) EnsureSheet(_ context.Context, table string, headers []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sheets[table]; ok {
		return nil
	}
	b.sheets[table] = [][]string{append([]string(nil), headers...)}
	b.order = append(b.order, table)
	return nil
}

// SheetExists reports whether the named sheet exists.
func (b *Book) SheetExists(_ context.Context, table string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.sheets[table]
	return ok, nil
}

// GetRowCount returns the number of rows, header included.
func (b *Book) GetRowCount(_ context.Context, table string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	values, ok := b.sheets[table]
	if !ok {
		return 0, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, table)
	}
	return len(values), nil
}

// GetSpreadsheetInfo lists sheets in insertion order.
func (b *Book) GetSpreadsheetInfo(_ context.Context) (*sheet.SpreadsheetInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &sheet.SpreadsheetInfo{
		Title:      b.title,
		SheetCount: len(b.order),
		Sheets:     append([]string(nil), b.order...),
	}, nil
}
