package testsupport

import (
	"context"
	"testing"

	"motk/internal/entity"
	"motk/internal/sheet/membook"
	"motk/internal/store"
)

// NewStore builds an initialized Store over a fresh in-memory book and
// returns both so tests can inspect raw sheet state.
func NewStore(t testing.TB, opts ...store.Option) (*store.Store, *membook.Book) {
	t.Helper()

	book := membook.New("Test Workbook")
	st := store.New(book, opts...)
	if err := st.Initialize(context.Background()); err != nil {
		t.Fatalf("store.Initialize: %v", err)
	}
	return st, book
}

// NewStoreBook returns a fresh in-memory book with every entity sheet
// created, for tests that wrap the client before building their own Store.
func NewStoreBook(t testing.TB) *membook.Book {
	t.Helper()

	book := membook.New("Test Workbook")
	if err := store.New(book).Initialize(context.Background()); err != nil {
		t.Fatalf("store.Initialize: %v", err)
	}
	return book
}

// MustCreate creates an entity and fails the test on any non-success result.
func MustCreate(t testing.TB, st *store.Store, entityType entity.Type, fields entity.Fields) entity.Fields {
	t.Helper()

	result := st.Create(context.Background(), entityType, fields)
	if !result.Success {
		t.Fatalf("create %s: %s (%s)", entityType, result.Error, result.Failure)
	}
	return result.Data
}
