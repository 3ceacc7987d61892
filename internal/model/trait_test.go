package model

import "testing"

func TestParseTrait(t *testing.T) {
	t.Parallel()

	for _, tr := range Traits {
		got, ok := ParseTrait(string(tr))
		if !ok || got != tr {
			t.Fatalf("ParseTrait(%q) = %q, %v", tr, got, ok)
		}
	}
	for _, label := range []string{"ideas", "word_choice", "WordChoice", "", " Voice"} {
		if _, ok := ParseTrait(label); ok {
			t.Fatalf("ParseTrait(%q) should not match", label)
		}
	}
}

func TestTraitSet(t *testing.T) {
	t.Parallel()

	set, unknown := TraitSetFromLabels([]string{"Voice", "Ideas", "Voice", "Bogus"})
	if len(unknown) != 1 || unknown[0] != "Bogus" {
		t.Fatalf("unknown = %v", unknown)
	}
	if set.String() != "Ideas,Voice" {
		t.Fatalf("set = %s", set)
	}
	for _, tr := range Traits {
		want := "0"
		if tr == TraitIdeas || tr == TraitVoice {
			want = "1"
		}
		if got := set.Flag(tr); got != want {
			t.Fatalf("%s flag = %s, want %s", tr, got, want)
		}
	}
	if set.With(Trait("Bogus")) != set {
		t.Fatalf("unknown trait changed the set")
	}
}

func TestParseFlag(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{"1": true, " 1 ": true, "0": false, "": false, "true": false, "TRUE": false}
	for cell, want := range tests {
		if got := ParseFlag(cell); got != want {
			t.Errorf("ParseFlag(%q) = %v, want %v", cell, got, want)
		}
	}
}

func TestCommentRecordClone(t *testing.T) {
	t.Parallel()

	r := CommentRecord{CommentID: "c1", Cells: []string{"a", "b"}}
	c := r.Clone()
	c.Cells[0] = "changed"
	if r.Cells[0] != "a" {
		t.Fatalf("clone shares cells")
	}
}
