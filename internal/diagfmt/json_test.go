package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"macrofront/internal/diag"
	"macrofront/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("fn main() {\n\tlet x = \"unterminated\n}")
	fileID := fs.AddVirtual("test.mf", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 21, End: 33}, "Unterminated string literal"))

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", output)
	}
	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" || d.Message != "Unterminated string literal" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	loc := d.Location
	if loc.File != "test.mf" || loc.StartByte != 21 || loc.EndByte != 33 {
		t.Fatalf("unexpected location %+v", loc)
	}
	// байт 21 лежит на второй строке: "fn main() {\n" занимает 12 байт
	if loc.StartLine != 2 || loc.StartCol != 10 {
		t.Fatalf("expected 2:10, got %d:%d", loc.StartLine, loc.StartCol)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/tmp/app/main.mf", []byte("fn main() {}\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, source.Span{File: fileID, Start: 3, End: 7}, "unresolved symbol `main`"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeAbsolute}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if strings.Contains(buf.String(), "start_line") {
		t.Fatalf("positions must be omitted:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"file": "/tmp/app/main.mf"`) {
		t.Fatalf("absolute path missing:\n%s", buf.String())
	}
}

func TestBuildDiagnosticsOutputNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("lib.mf", []byte("fn f() {}\nfn f() {}\n"))
	d := diag.NewError(diag.SemaDuplicateSymbol, source.Span{File: fileID, Start: 13, End: 14}, "duplicate symbol `f`").
		WithNote(source.Span{File: fileID, Start: 3, End: 4}, "previous definition here").
		WithNote(source.Span{File: source.SnippetFileID}, "injected")
	bag := diag.NewBag(0)
	bag.Add(d)

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	if len(out.Diagnostics[0].Notes) != 0 {
		t.Fatalf("notes must be dropped unless requested: %+v", out.Diagnostics[0].Notes)
	}

	out = BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true})
	notes := out.Diagnostics[0].Notes
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %+v", notes)
	}
	if notes[0].Message != "previous definition here" || notes[0].Location.StartLine != 1 || notes[0].Location.StartCol != 4 {
		t.Fatalf("unexpected first note %+v", notes[0])
	}
	if notes[1].Location.File != "<snippet>" || notes[1].Location.StartLine != 0 {
		t.Fatalf("snippet note must carry no position: %+v", notes[1])
	}
}

func TestBuildDiagnosticsOutputTimingsKeepNotes(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").
		WithNote(source.Span{}, "parse: 1.00 ms"))

	out := BuildDiagnosticsOutput(bag, nil, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing notes are always included: %+v", out.Diagnostics[0])
	}
}

func TestBuildDiagnosticsOutputMax(t *testing.T) {
	bag := diag.NewBag(0)
	for i := range 5 {
		bag.Add(diag.NewError(diag.SemaUnresolvedSymbol, source.Span{Start: uint32(i)}, "unresolved"))
	}

	tests := []struct {
		max  int
		want int
	}{
		{0, 5},
		{2, 2},
		{10, 5},
	}
	for _, tt := range tests {
		out := BuildDiagnosticsOutput(bag, nil, JSONOpts{Max: tt.max})
		if out.Count != tt.want || len(out.Diagnostics) != tt.want {
			t.Fatalf("max=%d: expected %d diagnostics, got %d", tt.max, tt.want, out.Count)
		}
	}
}

func TestJSONEmptyBag(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, diag.NewBag(0), nil, JSONOpts{}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if output.Count != 0 || output.Diagnostics == nil {
		t.Fatalf("expected an empty, non-null list: %s", buf.String())
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/ws")
	fileID := fs.AddVirtual("/ws/app/main.mf", []byte("use std::nope;\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SemaUnresolvedImport, source.Span{File: fileID, Start: 4, End: 13}, "unresolved import `std::nope`"))

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs); err != nil {
		t.Fatalf("Short() error: %v", err)
	}
	want := "error SEM3003 app/main.mf:1:5 unresolved import `std::nope`\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := Short(&buf, diag.NewBag(0), fs); err != nil || buf.Len() != 0 {
		t.Fatalf("empty bag must print nothing, got %q (%v)", buf.String(), err)
	}
}
