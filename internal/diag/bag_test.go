package diag

import (
	"testing"

	"macrofront/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := range 3 {
		ok := b.Add(NewError(SynUnexpectedToken, source.Span{Start: uint32(i), End: uint32(i + 1)}, "x"))
		if want := i < 2; ok != want {
			t.Fatalf("Add #%d = %v, want %v", i, ok, want)
		}
	}
	if b.Len() != 2 || b.Cap() != 2 {
		t.Fatalf("len=%d cap=%d", b.Len(), b.Cap())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevWarning, SemaDuplicateSymbol, source.Span{File: 1, Start: 5, End: 6}, "w"))
	b.Add(NewError(SemaUnresolvedSymbol, source.Span{File: 1, Start: 5, End: 6}, "e"))
	b.Add(NewError(SynUnexpectedToken, source.Span{File: 0, Start: 9, End: 10}, "s"))
	b.Add(NewError(SynUnexpectedToken, source.Span{File: 0, Start: 9, End: 10}, "s again"))

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("expected 3 after dedup, got %d", b.Len())
	}
	b.Sort()
	items := b.Items()
	wantCodes := []Code{SynUnexpectedToken, SemaUnresolvedSymbol, SemaDuplicateSymbol}
	for i, c := range wantCodes {
		if items[i].Code != c {
			t.Fatalf("item %d: got %s, want %s", i, items[i].Code.ID(), c.ID())
		}
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(LexUnknownChar, source.Span{}, "a"))
	other := NewBag(0)
	other.Add(NewError(LexBadNumber, source.Span{}, "b"))
	a.Merge(other)
	if a.Len() != 2 {
		t.Fatalf("expected 2 items after merge, got %d", a.Len())
	}
	if d, ok := a.FirstError(); !ok || d.Code != LexUnknownChar {
		t.Fatalf("unexpected first error: %+v", d)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	rep := &BagReporter{Bag: bag}
	b := ReportError(rep, SemaPrivateItem, source.Span{}, "private").
		WithNote(source.Span{Start: 1, End: 2}, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected single diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note was lost")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	rep := NewDedupReporter(&BagReporter{Bag: bag})
	sp := source.Span{File: 3, Start: 1, End: 4}
	rep.Report(SemaDuplicateSymbol, SevError, sp, "dup", nil)
	rep.Report(SemaDuplicateSymbol, SevError, sp, "dup", nil)
	rep.Report(SemaDuplicateSymbol, SevError, sp, "other", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}
