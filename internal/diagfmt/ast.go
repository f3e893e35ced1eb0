package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"waldo/internal/ast"
	"waldo/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	header := "File"
	if fs != nil {
		header = fs.Get(file.Span.File).FormatPath("auto", fs.BaseDir())
	}
	fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(file.Span, fs))

	for i, itemID := range file.Items {
		isLast := i == len(file.Items)-1
		var prefix string
		if isLast {
			fmt.Fprintf(w, "└─ Item[%d]: ", i)
			prefix = "   "
		} else {
			fmt.Fprintf(w, "├─ Item[%d]: ", i)
			prefix = "│  "
		}
		if err := formatItemPretty(w, builder, itemID, fs, prefix); err != nil {
			return err
		}
	}

	return nil
}

func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	var children []ASTNodeOutput
	for _, itemID := range file.Items {
		itemNode, err := formatItemJSON(builder, itemID)
		if err != nil {
			return err
		}
		children = append(children, itemNode)
	}

	output := ASTNodeOutput{
		Type:     "File",
		Span:     file.Span,
		Children: children,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func formatItemPretty(w io.Writer, builder *ast.Builder, itemID ast.ItemID, fs *source.FileSet, prefix string) error {
	item := builder.Items.Get(itemID)
	if item == nil {
		return fmt.Errorf("item %d not found", itemID)
	}
	fmt.Fprintf(w, "%s (span: %s)\n", formatItemKind(item.Kind), formatSpan(item.Span, fs))

	switch item.Kind {
	case ast.ItemImport:
		imp, ok := builder.Items.Import(itemID)
		if !ok {
			return fmt.Errorf("import %d has no payload", itemID)
		}
		fmt.Fprintf(w, "%s├─ Name: %s\n", prefix, imp.Name.Text)
		if imp.Type == nil {
			fmt.Fprintf(w, "%s└─ Kind: %s\n", prefix, imp.Kind)
			return nil
		}
		fmt.Fprintf(w, "%s├─ Kind: %s\n", prefix, imp.Kind)
		fmt.Fprintf(w, "%s└─ Type: %s (span: %s)\n", prefix, imp.Type.InterfaceName(), formatSpan(imp.Type.Span, fs))
	case ast.ItemLet:
		let, ok := builder.Items.Let(itemID)
		if !ok {
			return fmt.Errorf("let %d has no payload", itemID)
		}
		fmt.Fprintf(w, "%s├─ Name: %s\n", prefix, let.Name.Text)
		fmt.Fprintf(w, "%s└─ Value: %s\n", prefix, formatExprInline(builder, let.Value))
		if expr := builder.Exprs.Get(let.Value); expr != nil && expr.Kind == ast.ExprInstantiate {
			for i, arg := range expr.Args {
				branch := "├─"
				if i == len(expr.Args)-1 {
					branch = "└─"
				}
				fmt.Fprintf(w, "%s   %s Arg[%d]: %s (span: %s)\n", prefix, branch, i, formatArgInline(builder, arg), formatSpan(arg.Span, fs))
			}
		}
	}
	return nil
}

func formatItemJSON(builder *ast.Builder, itemID ast.ItemID) (ASTNodeOutput, error) {
	item := builder.Items.Get(itemID)
	if item == nil {
		return ASTNodeOutput{}, fmt.Errorf("item %d not found", itemID)
	}
	node := ASTNodeOutput{
		Type:   "Item",
		Kind:   formatItemKind(item.Kind),
		Span:   item.Span,
		Fields: make(map[string]any),
	}
	switch item.Kind {
	case ast.ItemImport:
		if imp, ok := builder.Items.Import(itemID); ok {
			node.Text = imp.Name.Text
			node.Fields["importKind"] = imp.Kind.String()
			if imp.Type != nil {
				node.Fields["type"] = imp.Type.InterfaceName()
				node.Fields["package"] = imp.Type.PackageName()
			}
		}
	case ast.ItemLet:
		if let, ok := builder.Items.Let(itemID); ok {
			node.Text = let.Name.Text
			node.Children = append(node.Children, formatExprJSON(builder, let.Value))
		}
	}
	return node, nil
}

func formatExprJSON(builder *ast.Builder, exprID ast.ExprID) ASTNodeOutput {
	expr := builder.Exprs.Get(exprID)
	if expr == nil {
		return ASTNodeOutput{Type: "Expr", Kind: "<nil>"}
	}
	node := ASTNodeOutput{
		Type: "Expr",
		Kind: expr.Kind.String(),
		Span: expr.Span,
		Text: expr.Name.Text,
	}
	if expr.Kind == ast.ExprProject {
		node.Fields = map[string]any{"member": expr.Member.Text}
	}
	for _, arg := range expr.Args {
		argNode := ASTNodeOutput{
			Type:     "Arg",
			Kind:     "unnamed",
			Span:     arg.Span,
			Children: []ASTNodeOutput{formatExprJSON(builder, arg.Value)},
		}
		if arg.Kind == ast.ArgNamed {
			argNode.Kind = "named"
			argNode.Text = arg.Name.Text
		}
		node.Children = append(node.Children, argNode)
	}
	return node
}

func formatItemKind(kind ast.ItemKind) string {
	switch kind {
	case ast.ItemImport:
		return "Import"
	case ast.ItemLet:
		return "Let"
	default:
		return fmt.Sprintf("Unknown(%d)", kind)
	}
}

// formatExprInline печатает выражение в исходном синтаксисе.
func formatExprInline(builder *ast.Builder, exprID ast.ExprID) string {
	expr := builder.Exprs.Get(exprID)
	if expr == nil {
		return "<nil>"
	}
	switch expr.Kind {
	case ast.ExprName:
		return expr.Name.Text
	case ast.ExprProject:
		return expr.Name.Text + "." + expr.Member.Text
	default:
		parts := []string{expr.Name.Text}
		for _, arg := range expr.Args {
			parts = append(parts, formatArgInline(builder, arg))
		}
		return "instantiate(" + strings.Join(parts, ", ") + ")"
	}
}

func formatArgInline(builder *ast.Builder, arg ast.Arg) string {
	if arg.Kind == ast.ArgNamed {
		return arg.Name.Text + ": " + formatExprInline(builder, arg.Value)
	}
	return formatExprInline(builder, arg.Value)
}
