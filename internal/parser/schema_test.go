package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alexasparks/6-traits-annotations/internal/model"
)

var testHeaders = []string{
	"essay_id", "grade", "instructions", "essay", "excerpt", "comment", "tid", "isRepresentative",
	"comment_id", "ideas", "organization", "voice", "word_choice", "sentence_fluency", "conventions",
}

func TestParseHeader_LocatesColumnsByName(t *testing.T) {
	t.Parallel()

	s, err := ParseHeader(testHeaders)
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}
	if s.Width() != len(testHeaders) {
		t.Fatalf("width = %d, want %d", s.Width(), len(testHeaders))
	}
	if got := s.LastColumn(); got != "O" {
		t.Fatalf("last column = %s, want O", got)
	}
	if got := s.TraitColumn(model.TraitWordChoice); got != 12 {
		t.Fatalf("word_choice column = %d, want 12", got)
	}
}

func TestParseHeader_MissingColumns(t *testing.T) {
	t.Parallel()

	_, err := ParseHeader([]string{"comment_id", "comment", "ideas", "Voice"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %T", err)
	}
	want := []string{"organization", "voice", "word_choice", "sentence_fluency", "conventions"}
	if diff := cmp.Diff(want, missing.Columns); diff != "" {
		t.Fatalf("missing columns mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHeader_TrimsHeaderWhitespace(t *testing.T) {
	t.Parallel()

	headers := []string{" comment_id ", "comment\n", "ideas", "organization", "voice", "word_choice", "sentence_fluency", "conventions"}
	if _, err := ParseHeader(headers); err != nil {
		t.Fatalf("parse header: %v", err)
	}
}

func TestSchema_DecodeEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	s, err := ParseHeader(testHeaders)
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}

	// Sheets API 会省略行尾空单元格
	row := []string{"E1", "5", "Write.", "Essay text", "excerpt", "Nice work.", "t1", "TRUE", "C1", "1", "", "1"}
	rec := s.Decode(3, row)

	if rec.Row != 3 || rec.CommentID != "C1" || rec.EssayID != "E1" || rec.Comment != "Nice work." {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.Traits.Has(model.TraitIdeas) || !rec.Traits.Has(model.TraitVoice) || rec.Traits.Has(model.TraitOrganization) {
		t.Fatalf("unexpected traits: %s", rec.Traits)
	}
	if len(rec.Cells) != len(testHeaders) {
		t.Fatalf("cells not padded: %d", len(rec.Cells))
	}

	out := s.Encode(rec)
	want := []string{"E1", "5", "Write.", "Essay text", "excerpt", "Nice work.", "t1", "TRUE", "C1", "1", "0", "1", "0", "0", "0"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("encode mismatch (-want +got):\n%s", diff)
	}
	if row[10] != "" {
		t.Fatalf("encode must not mutate input row")
	}
}
