// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"macrofront/internal/ast"
	"macrofront/internal/source"
	"macrofront/internal/token"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) every item span is non-empty and lies within the file content
// 2) every item span points at sf
// 3) items appear in source order without overlapping
func CheckSpanInvariants(m *ast.ParsedModule, sf *source.File) error {
	if m == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}
	if m.File != sf.ID {
		return fmt.Errorf("module points to different file id: got=%d want=%d", m.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev source.Span
	for i, it := range m.Items {
		if it == nil {
			return fmt.Errorf("nil item at %d", i)
		}
		sp := it.Pos()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.End > lenContent {
			return fmt.Errorf("item span %v ends beyond content (%d bytes)", sp, lenContent)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("item span %v overlaps previous item %v", sp, prev)
		}
		prev = sp
	}
	return nil
}

// CheckTokenInvariants verifies a drained token stream: it ends with exactly
// one EOF, spans stay inside the content and never go backwards.
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var last uint32
	for i, tok := range toks {
		if tok.Kind == token.EOF && i != len(toks)-1 {
			return fmt.Errorf("EOF at %d of %d tokens", i, len(toks))
		}
		if tok.Span.Start > tok.Span.End || tok.Span.End > lenContent {
			return fmt.Errorf("token %d %v has span %v outside content", i, tok.Kind, tok.Span)
		}
		if tok.Span.Start < last {
			return fmt.Errorf("token %d %v starts at %d before previous end %d", i, tok.Kind, tok.Span.Start, last)
		}
		last = tok.Span.End
	}
	if toks[len(toks)-1].Kind != token.EOF {
		return fmt.Errorf("token stream does not end with EOF")
	}
	return nil
}
