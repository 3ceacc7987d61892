package rater

import (
	"errors"
	"testing"

	"github.com/alexasparks/6-traits-annotations/internal/config"
)

func testDirectory() *Directory {
	cfg := config.DefaultConfig()
	cfg.Sheets.DefaultSpreadsheetID = "default"
	cfg.Sheets.RemainingSpreadsheetID = "remaining"
	cfg.Raters["1"] = config.RaterConfig{SpreadsheetID: "one"}
	cfg.Raters["2"] = config.RaterConfig{SpreadsheetID: "two", IRRSpreadsheetID: "two-irr"}
	cfg.Raters["10"] = config.RaterConfig{SpreadsheetID: "ten"}
	return NewDirectory(cfg)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	d := testDirectory()
	tests := []struct {
		name    string
		code    string
		scope   Scope
		write   bool
		want    string
		wantErr error
	}{
		{name: "main read", code: "2", scope: ScopeMain, want: "two"},
		{name: "irr read", code: "2", scope: ScopeIRR, want: "two-irr"},
		{name: "leading zero", code: "02", scope: ScopeMain, write: true, want: "two"},
		{name: "annotate", code: "1", scope: ScopeMain, write: true, want: "one"},
		{name: "remaining read", code: "0", scope: ScopeMain, want: "remaining"},
		{name: "remaining annotate", code: "0", scope: ScopeMain, write: true, wantErr: ErrReadOnlyRater},
		{name: "irr not configured", code: "1", scope: ScopeIRR, wantErr: ErrNoSpreadsheet},
		{name: "unknown", code: "7", scope: ScopeMain, wantErr: ErrInvalidRater},
		{name: "not a number", code: "abc", scope: ScopeMain, wantErr: ErrInvalidRater},
		{name: "too long", code: "123", scope: ScopeMain, wantErr: ErrInvalidRater},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var (
				got string
				err error
			)
			if tt.write {
				got, err = d.ResolveAnnotate(tt.code, tt.scope)
			} else {
				got, err = d.ResolveRead(tt.code, tt.scope)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if !IsRaterError(err) {
					t.Fatalf("IsRaterError(%v) = false", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEntriesOrder(t *testing.T) {
	t.Parallel()

	entries := testDirectory().Entries()
	var codes []string
	for _, e := range entries {
		codes = append(codes, e.Code)
	}
	want := []string{"0", "1", "2", "10"}
	if len(codes) != len(want) {
		t.Fatalf("codes = %v", codes)
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}
	if !entries[0].ReadOnly {
		t.Fatalf("remaining pool should be read-only")
	}
}

func TestDefaultSpreadsheetID(t *testing.T) {
	t.Parallel()

	if id, err := testDirectory().DefaultSpreadsheetID(); err != nil || id != "default" {
		t.Fatalf("got %q, %v", id, err)
	}
	empty := NewDirectory(config.DefaultConfig())
	if _, err := empty.DefaultSpreadsheetID(); !errors.Is(err, ErrNoSpreadsheet) {
		t.Fatalf("err = %v", err)
	}
}
