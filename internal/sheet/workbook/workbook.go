package workbook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"motk/internal/sheet"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sheets (
    name     TEXT PRIMARY KEY,
    position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS rows (
    sheet TEXT NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
    idx   INTEGER NOT NULL,
    cells TEXT NOT NULL,
    PRIMARY KEY (sheet, idx)
);
`

// Workbook is a durable, single-writer sheet.Client backed by SQLite.
type Workbook struct {
	db    *sql.DB
	path  string
	title string
	lock  *flock.Flock
}

var _ sheet.Client = (*Workbook)(nil)

// Open connects to (or creates) the workbook file and takes its process
// lock. A second process opening the same file receives an error instead of
// blocking.
func Open(path, title string) (*Workbook, error) {
	if path == "" {
		return nil, errors.New("workbook path is empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure workbook directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire workbook lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("workbook %s is locked by another process", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open workbook db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("create workbook schema: %w", err)
	}

	if title == "" {
		title = filepath.Base(path)
	}
	return &Workbook{db: db, path: path, title: title, lock: lock}, nil
}

// Close releases the database connection and the process lock.
func (w *Workbook) Close() error {
	if w == nil {
		return nil
	}
	var firstErr error
	if w.db != nil {
		firstErr = w.db.Close()
	}
	if w.lock != nil {
		if err := w.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Path returns the workbook file location.
func (w *Workbook) Path() string {
	return w.path
}

// GetSheetData reads the full sheet ordered by row index.
func (w *Workbook) GetSheetData(ctx context.Context, table string) (*sheet.SheetData, error) {
	exists, err := w.SheetExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, table)
	}

	rows, err := w.db.QueryContext(ctx, `SELECT cells FROM rows WHERE sheet = ? ORDER BY idx`, table)
	if err != nil {
		return nil, fmt.Errorf("query sheet rows: %w", err)
	}
	defer rows.Close()

	var values [][]string
	width := 0
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("scan sheet row: %w", err)
		}
		cells, err := decodeCells(encoded)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", table, err)
		}
		values = append(values, cells)
		if len(cells) > width {
			width = len(cells)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheet rows: %w", err)
	}
	if width == 0 {
		width = 1
	}

	return &sheet.SheetData{
		Values:         values,
		Range:          sheet.RangeRef(table, 0, 0, max(len(values)-1, 0), width-1),
		MajorDimension: "ROWS",
	}, nil
}

// UpdateCell resolves the cell by entity ID and field name and applies the
// compare-and-swap inside one transaction.
func (w *Workbook) UpdateCell(ctx context.Context, update sheet.CellUpdate) (*sheet.UpdateResult, error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := applyUpdate(ctx, tx, update)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return result, nil
}

// BatchUpdate applies each update in its own transaction; cells that commit
// stay written even when later cells conflict or fail.
func (w *Workbook) BatchUpdate(ctx context.Context, updates []sheet.CellUpdate) (*sheet.BatchResult, error) {
	batch := &sheet.BatchResult{Results: make([]sheet.UpdateResult, 0, len(updates))}
	for _, update := range updates {
		result, err := w.UpdateCell(ctx, update)
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

func applyUpdate(ctx context.Context, tx *sql.Tx, update sheet.CellUpdate) (*sheet.UpdateResult, error) {
	headers, err := readRow(ctx, tx, update.Table, 0)
	if err != nil {
		return nil, err
	}
	if headers == nil {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, update.Table)
	}

	colIndex := -1
	for i, header := range headers {
		if header == update.Field {
			colIndex = i
			break
		}
	}
	if colIndex < 0 {
		return nil, fmt.Errorf("%w: %s in sheet %s", sheet.ErrColumnNotFound, update.Field, update.Table)
	}

	rowIndex, cells, err := findEntityRow(ctx, tx, update.Table, update.EntityID)
	if err != nil {
		return nil, err
	}
	if rowIndex < 0 {
		return nil, fmt.Errorf("%w: %s in sheet %s", sheet.ErrRowNotFound, update.EntityID, update.Table)
	}

	live := ""
	if colIndex < len(cells) {
		live = cells[colIndex]
	}
	if !update.Force && live != update.OriginalValue {
		return &sheet.UpdateResult{Conflict: true, CurrentValue: live}, nil
	}

	for len(cells) <= colIndex {
		cells = append(cells, "")
	}
	cells[colIndex] = update.NewValue

	encoded, err := encodeCells(cells)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE rows SET cells = ? WHERE sheet = ? AND idx = ?`, encoded, update.Table, rowIndex); err != nil {
		return nil, fmt.Errorf("write cell: %w", err)
	}

	return &sheet.UpdateResult{
		Success:      true,
		UpdatedRange: sheet.CellRef(update.Table, rowIndex, colIndex),
		UpdatedRows:  1,
	}, nil
}

// AppendRows inserts rows after the current last index inside one transaction.
func (w *Workbook) AppendRows(ctx context.Context, table string, rows [][]string) (*sheet.AppendResult, error) {
	exists, err := w.SheetExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, table)
	}
	if len(rows) == 0 {
		return &sheet.AppendResult{Success: true}, nil
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM rows WHERE sheet = ?`, table).Scan(&count); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	width := 0
	for i, row := range rows {
		encoded, err := encodeCells(row)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO rows (sheet, idx, cells) VALUES (?, ?, ?)`, table, count+i, encoded); err != nil {
			return nil, fmt.Errorf("append row: %w", err)
		}
		if len(row) > width {
			width = len(row)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	if width == 0 {
		width = 1
	}

	return &sheet.AppendResult{
		Success:      true,
		UpdatedRange: sheet.RangeRef(table, count, 0, count+len(rows)-1, width-1),
		UpdatedRows:  len(rows),
	}, nil
}

// DeleteRow removes one entity row and reindexes the rows after it inside
// one transaction. The header row cannot be deleted.
func (w *Workbook) DeleteRow(ctx context.Context, table string, rowIndex int) error {
	if rowIndex <= 0 {
		return fmt.Errorf("%w: index %d in sheet %s", sheet.ErrRowNotFound, rowIndex, table)
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM rows WHERE sheet = ? AND idx = ?`, table, rowIndex)
	if err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: index %d in sheet %s", sheet.ErrRowNotFound, rowIndex, table)
	}

	// Stage shifted indexes as negatives first: a direct decrement can
	// collide with a not-yet-shifted neighbor under the (sheet, idx) key.
	if _, err := tx.ExecContext(ctx, `UPDATE rows SET idx = -(idx - 1) WHERE sheet = ? AND idx > ?`, table, rowIndex); err != nil {
		return fmt.Errorf("stage reindex: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE rows SET idx = -idx WHERE sheet = ? AND idx < 0`, table); err != nil {
		return fmt.Errorf("finish reindex: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// EnsureSheet registers the tab and writes its header row when absent.
// Existing sheets are left untouched, headers included.
func (w *Workbook) EnsureSheet(ctx context.Context, table string, headers []string) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ensure tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
        INSERT INTO sheets (name, position)
        VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM sheets))
        ON CONFLICT (name) DO NOTHING`, table)
	if err != nil {
		return fmt.Errorf("register sheet: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if inserted > 0 {
		encoded, err := encodeCells(headers)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO rows (sheet, idx, cells) VALUES (?, 0, ?)`, table, encoded); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ensure: %w", err)
	}
	return nil
}

// SheetExists reports whether the named sheet exists.
func (w *Workbook) SheetExists(ctx context.Context, table string) (bool, error) {
	var one int
	err := w.db.QueryRowContext(ctx, `SELECT 1 FROM sheets WHERE name = ?`, table).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check sheet: %w", err)
	}
	return true, nil
}

// GetRowCount returns the number of rows, header included.
func (w *Workbook) GetRowCount(ctx context.Context, table string) (int, error) {
	exists, err := w.SheetExists(ctx, table)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, table)
	}
	var count int
	if err := w.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM rows WHERE sheet = ?`, table).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

// GetSpreadsheetInfo lists sheets in registration order.
func (w *Workbook) GetSpreadsheetInfo(ctx context.Context) (*sheet.SpreadsheetInfo, error) {
	rows, err := w.db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan sheet name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sheets: %w", err)
	}

	return &sheet.SpreadsheetInfo{
		Title:      w.title,
		SheetCount: len(names),
		Sheets:     names,
	}, nil
}

func readRow(ctx context.Context, tx *sql.Tx, table string, idx int) ([]string, error) {
	var encoded string
	err := tx.QueryRowContext(ctx, `SELECT cells FROM rows WHERE sheet = ? AND idx = ?`, table, idx).Scan(&encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read row: %w", err)
	}
	cells, err := decodeCells(encoded)
	if err != nil {
		return nil, fmt.Errorf("sheet %s row %d: %w", table, idx, err)
	}
	return cells, nil
}

func findEntityRow(ctx context.Context, tx *sql.Tx, table, entityID string) (int, []string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT idx, cells FROM rows WHERE sheet = ? AND idx > 0 ORDER BY idx`, table)
	if err != nil {
		return -1, nil, fmt.Errorf("scan entity rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			idx     int
			encoded string
		)
		if err := rows.Scan(&idx, &encoded); err != nil {
			return -1, nil, fmt.Errorf("scan entity row: %w", err)
		}
		cells, err := decodeCells(encoded)
		if err != nil {
			return -1, nil, fmt.Errorf("sheet %s row %d: %w", table, idx, err)
		}
		if len(cells) > 0 && cells[0] == entityID {
			return idx, cells, nil
		}
	}
	if err := rows.Err(); err != nil {
		return -1, nil, fmt.Errorf("iterate entity rows: %w", err)
	}
	return -1, nil, nil
}

func encodeCells(cells []string) (string, error) {
	if cells == nil {
		cells = []string{}
	}
	encoded, err := json.Marshal(cells)
	if err != nil {
		return "", fmt.Errorf("encode cells: %w", err)
	}
	return string(encoded), nil
}

func decodeCells(encoded string) ([]string, error) {
	var cells []string
	if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
		return nil, fmt.Errorf("decode cells: %w", err)
	}
	return cells, nil
}
