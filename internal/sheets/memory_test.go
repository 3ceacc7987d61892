package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMemoryBackend_WriteAndAppend(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()
	m.Seed("sid", "Sheet1", [][]string{{"comment_id", "ideas"}, {"C1", "0"}})

	if err := m.WriteRows(ctx, "sid", []RowUpdate{{Row: 1, Values: []string{"C1", "1"}}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := m.AppendRows(ctx, "sid", [][]string{{"C1_1", "1"}}); err != nil {
		t.Fatalf("append: %v", err)
	}

	table, err := m.FetchRows(ctx, "sid")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := [][]string{{"comment_id", "ideas"}, {"C1", "1"}, {"C1_1", "1"}}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if table.SheetName != "Sheet1" {
		t.Fatalf("sheet name = %s", table.SheetName)
	}
	if m.Calls("write") != 1 || m.Calls("append") != 1 || m.Calls("fetch") != 1 {
		t.Fatalf("unexpected call counts")
	}
}

func TestMemoryBackend_FetchReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()
	m.Seed("sid", "Sheet1", [][]string{{"comment_id"}, {"C1"}})

	table, err := m.FetchRows(ctx, "sid")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	table.Rows[1][0] = "changed"

	if got := m.Rows("sid")[1][0]; got != "C1" {
		t.Fatalf("backend state mutated through fetched table: %s", got)
	}
}

func TestMemoryBackend_Errors(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryBackend()

	_, err := m.FetchRows(ctx, "missing")
	if KindOf(err) != KindConfiguration || !errors.Is(err, ErrSpreadsheetNotFound) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	m.Seed("sid", "Sheet1", [][]string{{"comment_id"}})
	boom := newError(KindTransient, "append", "sid", errors.New("quota"))
	m.FailOn("append", boom)
	if err := m.AppendRows(ctx, "sid", [][]string{{"x"}}); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
	m.FailOn("append", nil)
	if err := m.AppendRows(ctx, "sid", [][]string{{"x"}}); err != nil {
		t.Fatalf("append after reset: %v", err)
	}
}
