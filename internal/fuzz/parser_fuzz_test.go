package fuzztests

import (
	"context"
	"testing"
	"time"

	"macrofront/internal/diag"
	"macrofront/internal/parser"
	"macrofront/internal/source"
	"macrofront/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserItems(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.mf", input)
		bag := diag.NewBag(128)
		res := parser.ParseFile(context.Background(), fs, id, parser.Options{
			Reporter:  &diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if err := testkit.CheckSpanInvariants(res.Module, fs.Get(id)); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
		sorted := res.Module.IntoSorted()
		if sorted.ItemCount() != len(res.Module.Items) {
			t.Fatalf("sorting lost items: %d != %d", sorted.ItemCount(), len(res.Module.Items))
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
// Error recovery must always consume at least one token.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("fn test() { let x: Field = 1\nlet y: Field = 2; }")) // missing semicolon
	f.Add([]byte("fn test() { x + y\nlet z: Field = 3; }"))            // expression without semicolon
	f.Add([]byte("#[oracle(\nfn f() {}"))                              // unterminated attribute
	f.Add([]byte("use a::{b, {c, *}, ;"))                              // broken use group
	f.Add([]byte("fn f() { { { { } } } }"))                            // deeply nested blocks
	f.Add([]byte("pub pub unconstrained struct"))                      // modifiers without item
	f.Add([]byte("fn f() { for i in 0.. { } }"))                       // missing range end

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			id := fs.AddVirtual("fuzz.mf", input)
			bag := diag.NewBag(128)
			_ = parser.ParseFile(ctx, fs, id, parser.Options{
				Reporter:  &diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
