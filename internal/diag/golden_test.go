package diag

import (
	"testing"

	"macrofront/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/crates/app/main.mf", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaDuplicateSymbol,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error SYN2001 crates/app/main.mf:1:1 first line second\n" +
		"note SYN2001 crates/app/main.mf:2:1 note line\n" +
		"warning SEM3001 crates/app/main.mf:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsSnippetSpan(t *testing.T) {
	diags := []Diagnostic{
		NewError(SynExpectSemicolon, source.Span{File: source.SnippetFileID, Start: 4, End: 5}, "expected ';'"),
	}
	want := "error SYN2003 <snippet>:0:0 expected ';'"
	if got := FormatShortDiagnostics(diags, source.NewFileSet(), false); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatShortDiagnosticsEmpty(t *testing.T) {
	if got := FormatShortDiagnostics(nil, nil, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
