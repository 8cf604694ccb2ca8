package sheet

import "context"

// Client is the contract every backing tabular store implements. The entity
// store is written against this interface; this repository ships a local
// sqlite workbook and an in-memory book, while a remote spreadsheet client
// lives outside the module.
//
// UpdateCell and BatchUpdate carry the compare-and-swap protocol: the
// implementation re-reads the live cell immediately before writing and
// rejects the write (Conflict=true, CurrentValue set) when the live value
// differs from OriginalValue and Force is unset. The check and the write are
// not guarded by any shared lock, so two writers can both pass the check
// before either writes; the protocol only detects conflicts observable at
// write time. That window is a documented property of the system; do not
// paper over it with locking.
type Client interface {
	// GetSheetData returns a full snapshot of the sheet. Values[0] is the
	// header row.
	GetSheetData(ctx context.Context, table string) (*SheetData, error)

	// UpdateCell applies one compare-and-swap cell write, addressing the cell
	// by entity ID (matched against the sheet's first column) and field name
	// (matched against the header row).
	UpdateCell(ctx context.Context, update CellUpdate) (*UpdateResult, error)

	// BatchUpdate applies each update independently; the batch is not atomic.
	BatchUpdate(ctx context.Context, updates []CellUpdate) (*BatchResult, error)

	// AppendRows appends the rows after the last occupied row.
	AppendRows(ctx context.Context, table string, rows [][]string) (*AppendResult, error)

	// DeleteRow removes the row at the given index into SheetData.Values
	// (0 is the header row); later rows shift up.
	DeleteRow(ctx context.Context, table string, rowIndex int) error

	// EnsureSheet creates the sheet with the given header row when it does
	// not exist yet. Existing sheets are left untouched.
	EnsureSheet(ctx context.Context, table string, headers []string) error

	// SheetExists reports whether the named sheet exists.
	SheetExists(ctx context.Context, table string) (bool, error)

	// GetRowCount returns the number of rows in the sheet, header included.
	GetRowCount(ctx context.Context, table string) (int, error)

	// GetSpreadsheetInfo describes the workbook: title and sheet names.
	GetSpreadsheetInfo(ctx context.Context) (*SpreadsheetInfo, error)
}
