package store_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"motk/internal/entity"
	"motk/internal/services"
	"motk/internal/sheet"
	"motk/internal/store"
	"motk/internal/testsupport"
)

func seedEpisodeShots(t *testing.T, st *store.Store) {
	t.Helper()
	rows := []entity.Fields{
		{"shot_id": "1", "title": "Opening", "episode": "01", "status": entity.StatusNotStarted},
		{"shot_id": "2", "title": "Chase", "episode": "01", "status": entity.StatusInProgress},
		{"shot_id": "3", "title": "Finale", "episode": "02", "status": entity.StatusNotStarted},
	}
	for _, fields := range rows {
		testsupport.MustCreate(t, st, entity.TypeShot, fields)
	}
}

func shotIDs(rows []entity.Fields) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i], _ = row["shot_id"].(string)
	}
	return out
}

func TestQueryFiltersCombine(t *testing.T) {
	st, _ := testsupport.NewStore(t)
	seedEpisodeShots(t, st)

	result := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{
		Filters: map[string]any{"episode": "01", "status": entity.StatusNotStarted},
	})
	if !result.Success {
		t.Fatalf("query failed: %+v", result)
	}
	if result.Total != 1 || len(result.Data) != 1 {
		t.Fatalf("expected exactly one match, got %+v", result)
	}
	if result.Data[0]["shot_id"] != "1" {
		t.Fatalf("matched %v, want shot 1", result.Data[0]["shot_id"])
	}
}

func TestQueryFilterInSet(t *testing.T) {
	st, _ := testsupport.NewStore(t)
	seedEpisodeShots(t, st)

	result := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{
		Filters: map[string]any{
			"episode": "01",
			"status":  []string{entity.StatusNotStarted, entity.StatusInProgress},
		},
	})
	if !result.Success || result.Total != 2 {
		t.Fatalf("expected two matches, got %+v", result)
	}
	if got := shotIDs(result.Data); got[0] != "1" || got[1] != "2" {
		t.Fatalf("matched %v", got)
	}
}

func TestQueryFilterTypedValues(t *testing.T) {
	st, _ := testsupport.NewStore(t)
	testsupport.MustCreate(t, st, entity.TypeShot, entity.Fields{"shot_id": "1", "title": "A", "priority": 3})
	testsupport.MustCreate(t, st, entity.TypeShot, entity.Fields{"shot_id": "2", "title": "B", "priority": 7})

	// Filter values match on string form, so both spellings work.
	byInt := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{
		Filters: map[string]any{"priority": 7},
	})
	byString := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{
		Filters: map[string]any{"priority": "7"},
	})
	if byInt.Total != 1 || byString.Total != 1 {
		t.Fatalf("totals = %d, %d", byInt.Total, byString.Total)
	}
	if byInt.Data[0]["shot_id"] != "2" || byString.Data[0]["shot_id"] != "2" {
		t.Fatal("expected shot 2 for both filter spellings")
	}
}

func TestQueryPagination(t *testing.T) {
	st, _ := testsupport.NewStore(t)
	for i := 1; i <= 5; i++ {
		testsupport.MustCreate(t, st, entity.TypeShot, entity.Fields{
			"shot_id": fmt.Sprintf("s%d", i), "title": fmt.Sprintf("Shot %d", i),
		})
	}

	page := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{Limit: 2, Offset: 1})
	if !page.Success {
		t.Fatalf("query failed: %+v", page)
	}
	if page.Total != 5 || page.Limit != 2 || page.Offset != 1 {
		t.Fatalf("page shape = %+v", page)
	}
	if got := shotIDs(page.Data); len(got) != 2 || got[0] != "s2" || got[1] != "s3" {
		t.Fatalf("page rows = %v", got)
	}

	past := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{Limit: 2, Offset: 10})
	if !past.Success || len(past.Data) != 0 || past.Total != 5 {
		t.Fatalf("offset past end should keep the true total: %+v", past)
	}

	all := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{})
	if all.Total != 5 || len(all.Data) != 5 {
		t.Fatalf("limit 0 should return everything: %+v", all)
	}
}

func TestQuerySortsByInteger(t *testing.T) {
	st, _ := testsupport.NewStore(t)
	for i, priority := range []int{3, 1, 2} {
		testsupport.MustCreate(t, st, entity.TypeShot, entity.Fields{
			"shot_id": fmt.Sprintf("s%d", i+1), "title": "x", "priority": priority,
		})
	}

	asc := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{SortBy: "priority"})
	if got := shotIDs(asc.Data); got[0] != "s2" || got[1] != "s3" || got[2] != "s1" {
		t.Fatalf("ascending order = %v", got)
	}

	desc := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{SortBy: "priority", SortDesc: true})
	if got := shotIDs(desc.Data); got[0] != "s1" || got[1] != "s3" || got[2] != "s2" {
		t.Fatalf("descending order = %v", got)
	}
}

func TestQuerySortsByDate(t *testing.T) {
	st, _ := testsupport.NewStore(t)
	dates := map[string]string{"s1": "2026-09-15", "s2": "2026-08-01", "s3": ""}
	for id, date := range dates {
		fields := entity.Fields{"shot_id": id, "title": "x"}
		if date != "" {
			due, err := time.Parse(entity.DateFormat, date)
			if err != nil {
				t.Fatalf("parse %s: %v", date, err)
			}
			fields["due_date"] = due
		}
		testsupport.MustCreate(t, st, entity.TypeShot, fields)
	}

	result := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{SortBy: "due_date"})
	// Absent dates sort first, then chronological order.
	if got := shotIDs(result.Data); got[0] != "s3" || got[1] != "s2" || got[2] != "s1" {
		t.Fatalf("date order = %v", got)
	}
}

func TestQuerySortsStringsByteWise(t *testing.T) {
	st, _ := testsupport.NewStore(t)
	for id, title := range map[string]string{"s1": "b", "s2": "A", "s3": "a"} {
		testsupport.MustCreate(t, st, entity.TypeShot, entity.Fields{"shot_id": id, "title": title})
	}

	result := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{SortBy: "title"})
	if got := shotIDs(result.Data); got[0] != "s2" || got[1] != "s3" || got[2] != "s1" {
		t.Fatalf("byte-wise order = %v", got)
	}
}

func TestQueryValidatesFields(t *testing.T) {
	st, _ := testsupport.NewStore(t)

	byFilter := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{
		Filters: map[string]any{"director": "x"},
	})
	if byFilter.Success || byFilter.Failure != services.FailureValidation {
		t.Fatalf("expected validation failure, got %+v", byFilter)
	}

	bySort := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{SortBy: "director"})
	if bySort.Success || bySort.Failure != services.FailureValidation {
		t.Fatalf("expected validation failure, got %+v", bySort)
	}

	byLimit := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{Limit: -1})
	if byLimit.Success || byLimit.Failure != services.FailureValidation {
		t.Fatalf("expected validation failure, got %+v", byLimit)
	}
}

func TestQueryEmptySheet(t *testing.T) {
	st, _ := testsupport.NewStore(t)

	result := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{})
	if !result.Success || result.Total != 0 || len(result.Data) != 0 {
		t.Fatalf("expected empty success, got %+v", result)
	}
}

func TestQueryFailsOnMalformedCell(t *testing.T) {
	st, book := testsupport.NewStore(t)
	testsupport.MustCreate(t, st, entity.TypeShot, entity.Fields{"shot_id": "1", "title": "Opening"})

	if _, err := book.UpdateCell(context.Background(), sheet.CellUpdate{
		Table: "Shots", EntityID: "1", Field: "file_list",
		NewValue: "not-json", Force: true,
	}); err != nil {
		t.Fatalf("corrupt cell: %v", err)
	}

	result := st.Query(context.Background(), entity.TypeShot, store.QueryOptions{})
	if result.Success {
		t.Fatal("expected the whole read to fail")
	}
	if result.Failure != services.FailureBacking {
		t.Fatalf("failure = %q", result.Failure)
	}
	if !strings.Contains(result.Error, "file_list") || !strings.Contains(result.Error, "Shots") {
		t.Fatalf("error should name sheet and field: %s", result.Error)
	}
}
