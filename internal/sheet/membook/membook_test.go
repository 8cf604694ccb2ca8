package membook_test

import (
	"context"
	"errors"
	"testing"

	"motk/internal/sheet"
	"motk/internal/sheet/membook"
)

func newBook(t *testing.T) *membook.Book {
	t.Helper()
	book := membook.New("Test Book")
	ctx := context.Background()
	if err := book.EnsureSheet(ctx, "Shots", []string{"shot_id", "title", "status"}); err != nil {
		t.Fatalf("EnsureSheet: %v", err)
	}
	if _, err := book.AppendRows(ctx, "Shots", [][]string{
		{"shot_001", "Opening", "not_started"},
		{"shot_002", "Chase", "in_progress"},
	}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}
	return book
}

func TestSnapshotIsolation(t *testing.T) {
	book := newBook(t)
	ctx := context.Background()

	data, err := book.GetSheetData(ctx, "Shots")
	if err != nil {
		t.Fatalf("GetSheetData: %v", err)
	}
	if len(data.Values) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(data.Values))
	}
	data.Values[1][1] = "mutated"

	again, err := book.GetSheetData(ctx, "Shots")
	if err != nil {
		t.Fatalf("GetSheetData: %v", err)
	}
	if again.Values[1][1] != "Opening" {
		t.Fatalf("snapshot mutation leaked into the book: %q", again.Values[1][1])
	}
	if data.Range != "Shots!A1:C3" {
		t.Fatalf("unexpected range %q", data.Range)
	}
}

func TestUpdateCellCommitAndConflict(t *testing.T) {
	book := newBook(t)
	ctx := context.Background()

	first, err := book.UpdateCell(ctx, sheet.CellUpdate{
		Table: "Shots", EntityID: "shot_001", Field: "status",
		OriginalValue: "not_started", NewValue: "in_progress",
	})
	if err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if !first.Success || first.UpdatedRows != 1 {
		t.Fatalf("expected committed update, got %+v", first)
	}
	if first.UpdatedRange != "Shots!C2" {
		t.Fatalf("unexpected range %q", first.UpdatedRange)
	}

	// Same believed value, different new value: the loser must see the
	// winner's committed value.
	second, err := book.UpdateCell(ctx, sheet.CellUpdate{
		Table: "Shots", EntityID: "shot_001", Field: "status",
		OriginalValue: "not_started", NewValue: "review",
	})
	if err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if second.Success || !second.Conflict {
		t.Fatalf("expected conflict, got %+v", second)
	}
	if second.CurrentValue != "in_progress" {
		t.Fatalf("expected live value in_progress, got %q", second.CurrentValue)
	}
}

func TestUpdateCellForceOverridesConflict(t *testing.T) {
	book := newBook(t)
	ctx := context.Background()

	result, err := book.UpdateCell(ctx, sheet.CellUpdate{
		Table: "Shots", EntityID: "shot_002", Field: "status",
		OriginalValue: "stale", NewValue: "approved", Force: true,
	})
	if err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected forced write to succeed, got %+v", result)
	}

	data, _ := book.GetSheetData(ctx, "Shots")
	if data.Values[2][2] != "approved" {
		t.Fatalf("forced write not applied: %q", data.Values[2][2])
	}
}

func TestUpdateCellEmptyBelievedMatchesAbsent(t *testing.T) {
	book := membook.New("")
	ctx := context.Background()
	if err := book.EnsureSheet(ctx, "Shots", []string{"shot_id", "title", "notes"}); err != nil {
		t.Fatalf("EnsureSheet: %v", err)
	}
	// Row shorter than the header: the notes cell does not exist yet.
	if _, err := book.AppendRows(ctx, "Shots", [][]string{{"shot_001", "Opening"}}); err != nil {
		t.Fatalf("AppendRows: %v", err)
	}

	result, err := book.UpdateCell(ctx, sheet.CellUpdate{
		Table: "Shots", EntityID: "shot_001", Field: "notes",
		OriginalValue: "", NewValue: "plates pending",
	})
	if err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected empty believed value to match absent cell, got %+v", result)
	}
}

func TestUpdateCellAddressErrors(t *testing.T) {
	book := newBook(t)
	ctx := context.Background()

	if _, err := book.UpdateCell(ctx, sheet.CellUpdate{Table: "Nope", EntityID: "x", Field: "status"}); !errors.Is(err, sheet.ErrSheetNotFound) {
		t.Fatalf("expected sheet error, got %v", err)
	}
	if _, err := book.UpdateCell(ctx, sheet.CellUpdate{Table: "Shots", EntityID: "ghost", Field: "status"}); !errors.Is(err, sheet.ErrRowNotFound) {
		t.Fatalf("expected row error, got %v", err)
	}
	if _, err := book.UpdateCell(ctx, sheet.CellUpdate{Table: "Shots", EntityID: "shot_001", Field: "ghost"}); !errors.Is(err, sheet.ErrColumnNotFound) {
		t.Fatalf("expected column error, got %v", err)
	}
}

func TestBatchUpdatePartialCommit(t *testing.T) {
	book := newBook(t)
	ctx := context.Background()

	batch, err := book.BatchUpdate(ctx, []sheet.CellUpdate{
		{Table: "Shots", EntityID: "shot_001", Field: "title", OriginalValue: "Opening", NewValue: "Opening v2"},
		{Table: "Shots", EntityID: "shot_001", Field: "status", OriginalValue: "stale", NewValue: "review"},
	})
	if err != nil {
		t.Fatalf("BatchUpdate: %v", err)
	}
	if batch.Success {
		t.Fatal("expected batch with conflicts to report failure")
	}
	if batch.TotalUpdated != 1 || len(batch.Conflicts) != 1 {
		t.Fatalf("expected one commit and one conflict, got %+v", batch)
	}
	if batch.Conflicts[0].Field != "status" || batch.Conflicts[0].CurrentValue != "not_started" {
		t.Fatalf("unexpected conflict descriptor %+v", batch.Conflicts[0])
	}

	// The conflict-free cell stays written.
	data, _ := book.GetSheetData(ctx, "Shots")
	if data.Values[1][1] != "Opening v2" {
		t.Fatalf("expected partial commit to persist, got %q", data.Values[1][1])
	}
	if data.Values[1][2] != "not_started" {
		t.Fatalf("conflicted cell must stay untouched, got %q", data.Values[1][2])
	}
}

func TestDeleteRowReindexes(t *testing.T) {
	book := newBook(t)
	ctx := context.Background()

	if err := book.DeleteRow(ctx, "Shots", 1); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	data, _ := book.GetSheetData(ctx, "Shots")
	if len(data.Values) != 2 || data.Values[1][0] != "shot_002" {
		t.Fatalf("expected shot_002 shifted up, got %v", data.Values)
	}

	if err := book.DeleteRow(ctx, "Shots", 0); !errors.Is(err, sheet.ErrRowNotFound) {
		t.Fatalf("expected header delete rejection, got %v", err)
	}
	if err := book.DeleteRow(ctx, "Shots", 9); !errors.Is(err, sheet.ErrRowNotFound) {
		t.Fatalf("expected out-of-range rejection, got %v", err)
	}
}

func TestIntrospection(t *testing.T) {
	book := newBook(t)
	ctx := context.Background()
	if err := book.EnsureSheet(ctx, "Tasks", []string{"task_id", "title"}); err != nil {
		t.Fatalf("EnsureSheet: %v", err)
	}
	// Re-ensuring must not reset data or duplicate the listing.
	if err := book.EnsureSheet(ctx, "Shots", []string{"other"}); err != nil {
		t.Fatalf("EnsureSheet: %v", err)
	}

	exists, err := book.SheetExists(ctx, "Tasks")
	if err != nil || !exists {
		t.Fatalf("SheetExists = %v %v", exists, err)
	}
	count, err := book.GetRowCount(ctx, "Shots")
	if err != nil || count != 3 {
		t.Fatalf("GetRowCount = %d %v", count, err)
	}

	info, err := book.GetSpreadsheetInfo(ctx)
	if err != nil {
		t.Fatalf("GetSpreadsheetInfo: %v", err)
	}
	if info.Title != "Test Book" || info.SheetCount != 2 {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Sheets[0] != "Shots" || info.Sheets[1] != "Tasks" {
		t.Fatalf("expected insertion order, got %v", info.Sheets)
	}
	data, _ := book.GetSheetData(ctx, "Shots")
	if data.Values[0][0] != "shot_id" {
		t.Fatalf("re-ensure must leave headers untouched, got %v", data.Values[0])
	}
}
