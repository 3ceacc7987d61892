package annotate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alexasparks/6-traits-annotations/internal/model"
	"github.com/alexasparks/6-traits-annotations/internal/parser"
	"github.com/alexasparks/6-traits-annotations/internal/sheets"
)

var testHeaders = []string{
	"essay_id", "essay", "excerpt", "comment", "comment_id",
	"ideas", "organization", "voice", "word_choice", "sentence_fluency", "conventions",
	"notes",
}

func testRow(essayID, commentID, comment string, flags string) []string {
	row := []string{essayID, "essay text", "excerpt " + commentID, comment, commentID}
	for _, f := range flags {
		row = append(row, string(f))
	}
	return append(row, "note")
}

func testSchema(t *testing.T) *parser.Schema {
	t.Helper()
	s, err := parser.ParseHeader(testHeaders)
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}
	return s
}

func TestReconcileComment_ParentFlags(t *testing.T) {
	t.Parallel()

	schema := testSchema(t)
	parent := schema.Decode(1, testRow("e1", "c1", "A. B. C.", "011111"))

	got := ReconcileComment(parent, []string{"A.", "B.", "C."}, []string{"Ideas", "Voice", "Ideas"})

	want := []string{"1", "0", "1", "0", "0", "0"}
	encoded := schema.Encode(got.Parent)
	if diff := cmp.Diff(want, encoded[5:11]); diff != "" {
		t.Fatalf("parent flags mismatch (-want +got):\n%s", diff)
	}
	if got.Parent.Comment != "A. B. C." || got.Parent.CommentID != "c1" {
		t.Fatalf("parent text changed: %+v", got.Parent)
	}
	if len(got.UnknownLabels) != 0 {
		t.Fatalf("unexpected unknown labels: %v", got.UnknownLabels)
	}
}

func TestReconcileComment_DerivedRows(t *testing.T) {
	t.Parallel()

	schema := testSchema(t)
	parent := schema.Decode(3, testRow("e1", "c9", "One.  Two! ", "000000"))

	got := ReconcileComment(parent, []string{" One. ", "Two! "}, []string{"Word Choice", "Sentence Fluency"})
	if len(got.Derived) != 2 {
		t.Fatalf("expected 2 derived rows, got %d", len(got.Derived))
	}

	tests := []struct {
		id      string
		comment string
		flags   []string
	}{
		{id: "c9_1", comment: "One.", flags: []string{"0", "0", "0", "1", "0", "0"}},
		{id: "c9_2", comment: "Two!", flags: []string{"0", "0", "0", "0", "1", "0"}},
	}
	for i, tt := range tests {
		row := schema.Encode(got.Derived[i])
		if row[4] != tt.id {
			t.Errorf("derived %d id = %q, want %q", i, row[4], tt.id)
		}
		if row[3] != tt.comment {
			t.Errorf("derived %d comment = %q, want %q", i, row[3], tt.comment)
		}
		if diff := cmp.Diff(tt.flags, row[5:11]); diff != "" {
			t.Errorf("derived %d flags mismatch (-want +got):\n%s", i, diff)
		}
		// 其余列原样复制
		if row[0] != "e1" || row[2] != "excerpt c9" || row[11] != "note" {
			t.Errorf("derived %d lost parent columns: %v", i, row)
		}
	}

	// 派生行不共享原行的单元格
	got.Derived[0].Cells[11] = "changed"
	if got.Parent.Cells[11] != "note" || got.Derived[1].Cells[11] != "note" {
		t.Fatalf("derived rows share cells with parent")
	}
}

func TestReconcileComment_UnknownLabel(t *testing.T) {
	t.Parallel()

	schema := testSchema(t)
	parent := schema.Decode(1, testRow("e1", "c2", "First. Second.", "000000"))

	got := ReconcileComment(parent, []string{"First.", "Second."}, []string{"ideas", "Conventions"})

	if diff := cmp.Diff([]string{"ideas"}, got.UnknownLabels); diff != "" {
		t.Fatalf("unknown labels mismatch (-want +got):\n%s", diff)
	}
	if got.Parent.Traits.Has(model.TraitIdeas) || !got.Parent.Traits.Has(model.TraitConventions) {
		t.Fatalf("parent traits = %s", got.Parent.Traits)
	}
	if got.Derived[0].Traits != 0 {
		t.Fatalf("derived row for unknown label should keep all traits at 0, got %s", got.Derived[0].Traits)
	}
	if !got.Derived[1].Traits.Has(model.TraitConventions) {
		t.Fatalf("derived row 2 traits = %s", got.Derived[1].Traits)
	}
}

func TestReconcileComment_MissingLabels(t *testing.T) {
	t.Parallel()

	schema := testSchema(t)
	parent := schema.Decode(1, testRow("e1", "c3", "One. Two.", "000000"))

	got := ReconcileComment(parent, []string{"One.", "Two."}, []string{"Voice"})
	if len(got.Derived) != 2 {
		t.Fatalf("expected 2 derived rows, got %d", len(got.Derived))
	}
	if got.Derived[1].Traits != 0 {
		t.Fatalf("derived row without label has traits %s", got.Derived[1].Traits)
	}
	if len(got.UnknownLabels) != 1 {
		t.Fatalf("missing label not reported: %v", got.UnknownLabels)
	}
}

func TestBuildPlan(t *testing.T) {
	t.Parallel()

	schema := testSchema(t)
	table := &sheets.Table{
		SheetName: "Sheet1",
		Rows: [][]string{
			testHeaders,
			testRow("e1", "c1", "One. Two.", "000000"),
			// 表格 API 会截掉行尾空单元格
			{"e1", "", "", "Short row.", "c2"},
			testRow("e2", "c3", "Other.", "000000"),
		},
	}

	plan, err := BuildPlan(table, schema, []model.LabeledComment{
		{CommentID: "c2", Sentences: []string{"Short row."}, Labels: []string{"Organization"}},
		{CommentID: "missing", Sentences: []string{"x"}, Labels: []string{"Ideas"}},
		{CommentID: "c1", Sentences: []string{"One.", "Two."}, Labels: []string{"Ideas", "Voice"}},
	})
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}

	if diff := cmp.Diff([]string{"missing"}, plan.Skipped); diff != "" {
		t.Fatalf("skipped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c2", "c1"}, plan.CommentIDs); diff != "" {
		t.Fatalf("comment ids mismatch (-want +got):\n%s", diff)
	}
	if len(plan.Updates) != 2 || plan.Updates[0].Row != 2 || plan.Updates[1].Row != 1 {
		t.Fatalf("unexpected updates: %+v", plan.Updates)
	}
	if got := len(plan.Updates[0].Values); got != len(testHeaders) {
		t.Fatalf("short row not padded to header width: %d", got)
	}
	if plan.Updates[0].Values[6] != "1" {
		t.Fatalf("organization flag not set: %v", plan.Updates[0].Values)
	}

	var ids []string
	for _, row := range plan.Appends {
		ids = append(ids, row[4])
	}
	if diff := cmp.Diff([]string{"c2_1", "c1_1", "c1_2"}, ids); diff != "" {
		t.Fatalf("appended ids mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPlan_EmptyTable(t *testing.T) {
	t.Parallel()

	if _, err := BuildPlan(&sheets.Table{}, testSchema(t), nil); err == nil {
		t.Fatalf("expected error for empty table")
	}
}
