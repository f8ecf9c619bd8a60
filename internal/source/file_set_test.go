package source

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.mf", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.mf")
	if !exists || latestID != id1 {
		t.Fatalf("GetLatest = (%d, %v), want (%d, true)", latestID, exists, id1)
	}

	// тот же путь, новое содержимое
	id2 := fs.Add("test.mf", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("test.mf")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("first file content = %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "hello universe" {
		t.Errorf("second file content = %q", got)
	}
}

func TestFileSetGetUnknown(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("a.mf", []byte("x"))

	if fs.Get(5) != nil {
		t.Fatal("Get(5) should be nil for a one-file set")
	}
	if fs.Contains(SnippetFileID) {
		t.Fatal("snippet id must never belong to a file set")
	}
	if _, _, ok := fs.Resolve(Span{File: SnippetFileID}); ok {
		t.Fatal("Resolve of a snippet span should fail")
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.mf")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("fn a() {}\r\nfn b() {}\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "fn a() {}\nfn b() {}\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
	if HashContent(content) != f.Hash {
		t.Fatalf("HashContent of raw bytes differs from the loaded file hash")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lines.mf", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{3, LineCol{2, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tc := range cases {
		start, _, ok := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if !ok {
			t.Fatalf("Resolve(%d) failed", tc.off)
		}
		if start != tc.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("l.mf", []byte("first\nsecond\nthird")))

	if got := f.GetLine(1); got != "first" {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("line 3 = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("line 9 = %q, want empty", got)
	}
}

func TestFileSetConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fs.AddVirtual("same.mf", []byte("x"))
			if fs.Get(id) == nil {
				t.Errorf("file %d vanished", id)
			}
		}()
	}
	wg.Wait()
	if fs.Len() != 32 {
		t.Fatalf("Len = %d, want 32", fs.Len())
	}
}
