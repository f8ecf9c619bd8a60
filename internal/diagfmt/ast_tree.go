package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"macrofront/internal/ast"
	"macrofront/internal/source"
)

type treeNode struct {
	label    string
	kind     string
	span     source.Span
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// FormatASTTree draws items as a top-down ASCII tree. Wide modules get wide
// output; the box-drawing listing of FormatASTPretty suits terminals better.
func FormatASTTree(w io.Writer, header string, items []ast.Item, fs *source.FileSet) error {
	root := buildFileTreeNode(header, items, fs)
	for _, line := range renderTree(root).lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildFileTreeNode(header string, items []ast.Item, fs *source.FileSet) *treeNode {
	if header == "" {
		header = "File"
	}
	root := &treeNode{label: header, kind: "File"}
	for idx, it := range items {
		root.children = append(root.children, buildItemTreeNode(it, fs, idx))
	}
	return root
}

// buildItemTreeNode describes one item: its kind and span in the label,
// its parts as children.
func buildItemTreeNode(it ast.Item, fs *source.FileSet, idx int) *treeNode {
	if it == nil {
		return &treeNode{label: fmt.Sprintf("Item[%d]: <nil>", idx)}
	}
	kind := formatItemKind(it)
	node := &treeNode{
		label: fmt.Sprintf("Item[%d]: %s (span: %s)", idx, kind, formatSpan(it.Pos(), fs)),
		kind:  kind,
		span:  it.Pos(),
	}
	leaf := func(format string, args ...any) {
		node.children = append(node.children, &treeNode{label: fmt.Sprintf(format, args...)})
	}

	switch x := it.(type) {
	case *ast.FnDecl:
		leaf("Name: %s", x.Name.Name)
		leaf("Visibility: %s", x.Visibility)
		if len(x.Attrs) > 0 {
			leaf("Attributes: %s", formatAttrs(x.Attrs))
		}
		if x.Unconstrained {
			leaf("Unconstrained: true")
		}
		if len(x.Generics) > 0 {
			leaf("Generics: %s", formatGenerics(x.Generics))
		}
		leaf("Params: %s", formatParamsInline(x.Params))
		leaf("Return: %s", formatTypeInline(x.Return))
		if x.Body != nil {
			node.children = append(node.children, buildBlockTreeNode(x.Body, fs))
		} else {
			leaf("Body: <none>")
		}
	case *ast.UseDecl:
		leaf("Visibility: %s", x.Visibility)
		leaf("Tree: %s", formatUseTree(x.Tree))
	case *ast.StructDecl:
		leaf("Name: %s%s", x.Name.Name, formatGenerics(x.Generics))
		leaf("Visibility: %s", x.Visibility)
		fields := &treeNode{label: "Fields", kind: "Fields"}
		for i, f := range x.Fields {
			fields.children = append(fields.children, &treeNode{
				label: fmt.Sprintf("[%d] %s: %s", i, f.Name.Name, formatTypeInline(f.Type)),
				kind:  "Field",
				span:  f.Span,
			})
		}
		node.children = append(node.children, fields)
	case *ast.GlobalDecl:
		leaf("Name: %s", x.Name.Name)
		leaf("Visibility: %s", x.Visibility)
		if x.Type != nil {
			leaf("Type: %s", formatTypeInline(x.Type))
		}
		leaf("Value: %s", formatExprInline(x.Value))
	case *ast.ModDecl:
		leaf("Name: %s", x.Name.Name)
		leaf("Visibility: %s", x.Visibility)
	}
	return node
}

func buildBlockTreeNode(b *ast.Block, fs *source.FileSet) *treeNode {
	node := &treeNode{label: fmt.Sprintf("Body (span: %s)", formatSpan(b.Span, fs)), kind: "Block", span: b.Span}
	for i, st := range b.Stmts {
		node.children = append(node.children, buildStmtTreeNode(st, fs, i))
	}
	return node
}

func buildStmtTreeNode(st ast.Stmt, fs *source.FileSet, idx int) *treeNode {
	var text, kind string
	var children []*treeNode
	switch x := st.(type) {
	case *ast.LetStmt:
		kind = "Let"
		text = "let "
		if x.Mutable {
			text += "mut "
		}
		text += x.Name.Name
		if x.Type != nil {
			text += ": " + formatTypeInline(x.Type)
		}
		text += " = " + formatExprInline(x.Value)
	case *ast.ReturnStmt:
		kind = "Return"
		text = "return"
		if x.Value != nil {
			text += " " + formatExprInline(x.Value)
		}
	case *ast.ForStmt:
		kind = "For"
		text = fmt.Sprintf("for %s in %s..%s", x.Var.Name, formatExprInline(x.Start), formatExprInline(x.End))
		children = append(children, buildBlockTreeNode(x.Body, fs))
	case *ast.AssignStmt:
		kind = "Assign"
		text = formatExprInline(x.Target) + " = " + formatExprInline(x.Value)
	case *ast.ExprStmt:
		kind = "Expr"
		text = formatExprInline(x.X)
		if ifx, ok := x.X.(*ast.IfExpr); ok {
			children = append(children, buildBlockTreeNode(ifx.Then, fs))
		}
	default:
		kind = "Stmt"
		text = "<stmt>"
	}
	return &treeNode{
		label:    fmt.Sprintf("Stmt[%d]: %s %s", idx, kind, text),
		kind:     kind,
		span:     st.Pos(),
		children: children,
	}
}

func formatItemKind(it ast.Item) string {
	switch it.(type) {
	case *ast.FnDecl:
		return "Fn"
	case *ast.UseDecl:
		return "Use"
	case *ast.StructDecl:
		return "Struct"
	case *ast.GlobalDecl:
		return "Global"
	case *ast.ModDecl:
		return "Mod"
	}
	return "Item"
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		if start, end, ok := fs.Resolve(span); ok {
			return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
		}
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

// renderTree converts a treeNode into a treeBlock containing an ASCII-art representation.
//
// The returned treeBlock.lines is a slice of strings representing the rendered lines of
// the node and its descendants arranged as a tree with connector characters. The block's
// width is the horizontal extent of the rendered lines and root is the column index of
// the root node's vertical connector within those lines.
func renderTree(node *treeNode) treeBlock {
	label := node.label
	labelWidth := len(label)

	if len(node.children) == 0 {
		return treeBlock{
			lines: []string{label},
			width: labelWidth,
			root:  labelWidth / 2,
		}
	}

	childBlocks := make([]treeBlock, len(node.children))
	maxChildHeight := 0
	for i, child := range node.children {
		childBlocks[i] = renderTree(child)
		if len(childBlocks[i].lines) > maxChildHeight {
			maxChildHeight = len(childBlocks[i].lines)
		}
	}

	const spacing = 3

	positions := make([]int, len(childBlocks))
	totalWidth := 0
	for i, block := range childBlocks {
		positions[i] = totalWidth + block.root
		totalWidth += block.width
		if i != len(childBlocks)-1 {
			totalWidth += spacing
		}
	}

	childrenCenter := (positions[0] + positions[len(positions)-1]) / 2
	rootPos := labelWidth / 2
	shift := childrenCenter - rootPos

	childPrefix := 0
	if shift < 0 {
		childPrefix = -shift
		for i := range positions {
			positions[i] += childPrefix
		}
		totalWidth += childPrefix
		shift = 0
		rootPos = labelWidth / 2
	} else {
		rootPos += shift
	}

	width := totalWidth
	rootLine := label
	if shift > 0 {
		rootLine = strings.Repeat(" ", shift) + label
	}
	if len(rootLine) < width {
		rootLine += strings.Repeat(" ", width-len(rootLine))
	} else if len(rootLine) > width {
		width = len(rootLine)
		for i := range positions {
			if positions[i] >= width {
				width = positions[i] + 1
			}
		}
		if len(rootLine) < width {
			rootLine += strings.Repeat(" ", width-len(rootLine))
		}
	}

	connector := make([]byte, width)
	for i := range connector {
		connector[i] = ' '
	}
	if rootPos >= width {
		needed := rootPos - width + 1
		rootLine += strings.Repeat(" ", needed)
		connector = append(connector, make([]byte, needed)...)
		for i := width; i < len(connector); i++ {
			connector[i] = ' '
		}
		width = len(connector)
	}
	connector[rootPos] = '|'
	for _, pos := range positions {
		switch {
		case pos < rootPos:
			connector[pos] = '/'
		case pos > rootPos:
			connector[pos] = '\\'
		default:
			connector[pos] = '|'
		}
	}
	connectorLine := string(connector)

	childLines := make([]string, maxChildHeight)
	for row := range maxChildHeight {
		var sb strings.Builder
		if childPrefix > 0 {
			sb.WriteString(strings.Repeat(" ", childPrefix))
		}
		for i, block := range childBlocks {
			line := ""
			if row < len(block.lines) {
				line = block.lines[row]
			}
			if len(line) < block.width {
				line += strings.Repeat(" ", block.width-len(line))
			}
			sb.WriteString(line)
			if i != len(childBlocks)-1 {
				sb.WriteString(strings.Repeat(" ", spacing))
			}
		}
		rowStr := sb.String()
		if len(rowStr) < width {
			rowStr += strings.Repeat(" ", width-len(rowStr))
		}
		childLines[row] = rowStr
	}

	lines := make([]string, 0, 2+len(childLines))
	lines = append(lines, rootLine, connectorLine)
	lines = append(lines, childLines...)

	return treeBlock{
		lines: lines,
		width: width,
		root:  rootPos,
	}
}
