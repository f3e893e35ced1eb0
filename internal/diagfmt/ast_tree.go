package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"waldo/internal/ast"
	"waldo/internal/source"
)

type treeNode struct {
	label    string
	children []*treeNode
}

type treeBlock struct {
	lines []string
	width int
	root  int
}

// FormatASTTree печатает AST файла вертикальным деревом: корень сверху,
// дети под ним, соединённые / | \.
func FormatASTTree(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	if builder.Files.Get(fileID) == nil {
		return fmt.Errorf("file not found")
	}
	block := renderTree(buildFileTreeNode(builder, fileID, fs))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// buildFileTreeNode constructs a treeNode for the file with one child per item.
// If fs is non-nil the header is the source file's formatted path; otherwise the header is "File".
func buildFileTreeNode(builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) *treeNode {
	file := builder.Files.Get(fileID)
	if file == nil {
		return &treeNode{label: fmt.Sprintf("File[%d]: <nil>", fileID)}
	}
	header := "File"
	if fs != nil {
		srcFile := fs.Get(file.Span.File)
		header = srcFile.FormatPath("auto", fs.BaseDir())
	}
	root := &treeNode{
		label: fmt.Sprintf("%s (span: %s)", header, formatSpan(file.Span, fs)),
	}

	for idx, itemID := range file.Items {
		root.children = append(root.children, buildItemTreeNode(builder, itemID, fs, idx))
	}

	return root
}

// buildItemTreeNode: для import - имя, вид и тип; для let - имя и значение.
func buildItemTreeNode(builder *ast.Builder, itemID ast.ItemID, fs *source.FileSet, idx int) *treeNode {
	item := builder.Items.Get(itemID)
	if item == nil {
		return &treeNode{label: fmt.Sprintf("Item[%d]: <nil>", idx)}
	}

	node := &treeNode{
		label: fmt.Sprintf("Item[%d]: %s (span: %s)", idx, formatItemKind(item.Kind), formatSpan(item.Span, fs)),
	}

	switch item.Kind {
	case ast.ItemImport:
		if imp, ok := builder.Items.Import(itemID); ok {
			node.children = append(node.children,
				&treeNode{label: "Name: " + imp.Name.Text},
				&treeNode{label: "Kind: " + imp.Kind.String()},
			)
			if imp.Type != nil {
				node.children = append(node.children, buildQualifiedTreeNode(imp.Type))
			}
		}
	case ast.ItemLet:
		if let, ok := builder.Items.Let(itemID); ok {
			valueNode := &treeNode{label: "Value"}
			valueNode.children = append(valueNode.children, buildExprTreeNode(builder, let.Value, fs))
			node.children = append(node.children, &treeNode{label: "Name: " + let.Name.Text}, valueNode)
		}
	}

	return node
}

func buildQualifiedTreeNode(q *ast.QualifiedID) *treeNode {
	node := &treeNode{label: "Type: " + q.InterfaceName()}
	node.children = append(node.children,
		&treeNode{label: "ns: " + q.Namespace.Text},
		&treeNode{label: "pkg: " + q.Package.Text},
		&treeNode{label: "elem: " + q.Element.Text},
	)
	if q.Version != nil {
		node.children = append(node.children, &treeNode{label: "version: " + q.Version.Text})
	}
	return node
}

func buildExprTreeNode(builder *ast.Builder, exprID ast.ExprID, fs *source.FileSet) *treeNode {
	expr := builder.Exprs.Get(exprID)
	if expr == nil {
		return &treeNode{label: "<nil>"}
	}
	node := &treeNode{label: fmt.Sprintf("%s (span: %s)", formatExprInline(builder, exprID), formatSpan(expr.Span, fs))}
	if expr.Kind != ast.ExprInstantiate {
		return node
	}
	node.label = fmt.Sprintf("Instantiate %s (span: %s)", expr.Name.Text, formatSpan(expr.Span, fs))
	for i, arg := range expr.Args {
		label := fmt.Sprintf("Arg[%d]", i)
		if arg.Kind == ast.ArgNamed {
			label += " " + arg.Name.Text
		}
		argNode := &treeNode{label: label}
		argNode.children = append(argNode.children, buildExprTreeNode(builder, arg.Value, fs))
		node.children = append(node.children, argNode)
	}
	return node
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
