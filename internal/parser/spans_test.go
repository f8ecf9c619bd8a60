package parser

import (
	"testing"

	"macrofront/internal/testkit"
)

func TestItemSpansStayInOrder(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		items int
	}{
		{"clean", "pub mod hash;\nuse crate::hash::hash;\nfn main(x: Field) { let h = hash(x); }\n", 3},
		{"recovered", "fn a() {}\n}}} junk\nfn b() {}\n", 2},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, fs := parseFileWithBag(t, tt.src, 0)
			if len(res.Module.Items) != tt.items {
				t.Fatalf("expected %d items, got %d", tt.items, len(res.Module.Items))
			}
			if err := testkit.CheckSpanInvariants(res.Module, fs.Get(res.Module.File)); err != nil {
				t.Fatalf("span invariants: %v", err)
			}
		})
	}
}
