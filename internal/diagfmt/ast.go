package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"macrofront/internal/ast"
	"macrofront/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// ModuleItems lists a sorted module's declarations grouped by kind:
// submodules, imports, types, globals, functions.
func ModuleItems(m *ast.Module) []ast.Item {
	if m == nil {
		return nil
	}
	items := make([]ast.Item, 0, m.ItemCount())
	for _, d := range m.Submodules {
		items = append(items, d)
	}
	for _, d := range m.Imports {
		items = append(items, d)
	}
	for _, d := range m.Types {
		items = append(items, d)
	}
	for _, d := range m.Globals {
		items = append(items, d)
	}
	for _, d := range m.Functions {
		items = append(items, d)
	}
	return items
}

// FormatASTPretty prints items as an indented listing:
//
//	File
//	├─ Item[0]: Fn (span: 1:1-1:10)
//	│  └─ Name: main
func FormatASTPretty(w io.Writer, header string, items []ast.Item, fs *source.FileSet) error {
	root := buildFileTreeNode(header, items, fs)
	if _, err := fmt.Fprintln(w, root.label); err != nil {
		return err
	}
	return writeChildren(w, root.children, "")
}

func writeChildren(w io.Writer, nodes []*treeNode, prefix string) error {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, n.label); err != nil {
			return err
		}
		if err := writeChildren(w, n.children, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

func FormatASTJSON(w io.Writer, header string, items []ast.Item, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(nodeJSON(buildFileTreeNode(header, items, fs)))
}

func nodeJSON(n *treeNode) ASTNodeOutput {
	out := ASTNodeOutput{Type: n.kind, Span: n.span, Text: n.label}
	if out.Type == "" {
		out.Type = "Property"
	}
	for _, c := range n.children {
		out.Children = append(out.Children, nodeJSON(c))
	}
	return out
}
