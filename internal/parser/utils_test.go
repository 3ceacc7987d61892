package parser

import "testing"

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"comment_id":       "comment_id",
		"  ideas\r\n":      "ideas",
		"word_choice\t":    "word_choice",
		"Sentence_Fluency": "Sentence_Fluency",
	}
	for in, want := range cases {
		if got := NormalizeColumnName(in); got != want {
			t.Fatalf("NormalizeColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsBlankRow(t *testing.T) {
	t.Parallel()

	if !IsBlankRow(nil) {
		t.Fatalf("nil row should be blank")
	}
	if !IsBlankRow([]string{"", "  "}) {
		t.Fatalf("whitespace row should be blank")
	}
	if IsBlankRow([]string{"", "x"}) {
		t.Fatalf("row with value should not be blank")
	}
}
