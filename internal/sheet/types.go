package sheet

import "errors"

var (
	// ErrSheetNotFound reports that the named sheet (tab) does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrRowNotFound reports that no row matches the requested entity ID.
	ErrRowNotFound = errors.New("row not found")
	// ErrColumnNotFound reports that the header row lacks the requested field.
	ErrColumnNotFound = errors.New("column not found")
)

// SheetData is a full snapshot of one sheet. Values[0] is the header row;
// Values[1:] hold entity rows.
type SheetData struct {
	Values         [][]string `json:"values"`
	Range          string     `json:"range"`
	MajorDimension string     `json:"majorDimension"`
}

// CellUpdate is one compare-and-swap field mutation. OriginalValue is the
// value the caller believes is currently stored; an empty OriginalValue
// matches an absent prior value. Force bypasses the comparison entirely.
type CellUpdate struct {
	Table         string `json:"table"`
	EntityID      string `json:"entityId"`
	Field         string `json:"field"`
	OriginalValue string `json:"originalValue"`
	NewValue      string `json:"newValue"`
	Force         bool   `json:"force"`
}

// UpdateResult reports the outcome of one cell update. On conflict, Success
// is false, Conflict is true, and CurrentValue carries the live value found
// in the cell; nothing was written.
type UpdateResult struct {
	Success      bool   `json:"success"`
	UpdatedRange string `json:"updatedRange,omitempty"`
	UpdatedRows  int    `json:"updatedRows,omitempty"`
	Conflict     bool   `json:"conflict,omitempty"`
	CurrentValue string `json:"currentValue,omitempty"`
}

// Conflict describes one rejected compare-and-swap write: what the caller
// believed, what the store actually held, and what the caller wanted to
// write. Produced per failed update; never persisted.
type Conflict struct {
	Field         string `json:"field"`
	OriginalValue string `json:"originalValue"`
	CurrentValue  string `json:"currentValue"`
	NewValue      string `json:"newValue"`
}

// BatchResult aggregates a non-atomic batch of cell updates: individual
// results in input order, the count of cells written, and the conflicts.
// A batch with conflicts still commits its conflict-free cells.
type BatchResult struct {
	Success      bool           `json:"success"`
	Results      []UpdateResult `json:"results"`
	TotalUpdated int            `json:"totalUpdated"`
	Conflicts    []Conflict     `json:"conflicts"`
}

// AppendResult reports the outcome of a row append.
type AppendResult struct {
	Success      bool   `json:"success"`
	UpdatedRange string `json:"updatedRange,omitempty"`
	UpdatedRows  int    `json:"updatedRows,omitempty"`
}

// SpreadsheetInfo describes the workbook as a whole.
type SpreadsheetInfo struct {
	Title      string   `json:"title"`
	SheetCount int      `json:"sheetCount"`
	Sheets     []string `json:"sheets"`
}
