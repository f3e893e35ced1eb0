package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"waldo/internal/ast"
	"waldo/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
//  1. file.Span lies within the file content
//  2. every item span is non-empty and inside file.Span
//  3. every name and expression span is non-empty and inside its item
//  4. items do not overlap and appear in source order
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent || f.Span.Start > f.Span.End {
		return fmt.Errorf("file span %v outside content of %d bytes", f.Span, lenContent)
	}

	var prevEnd uint32
	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if err := inside(sp, f.Span, "item"); err != nil {
			return err
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("item span %v overlaps previous item ending at %d", sp, prevEnd)
		}
		prevEnd = sp.End

		switch item.Kind {
		case ast.ItemImport:
			imp, _ := b.Items.Import(it)
			if err := inside(imp.Name.Span, sp, "import name"); err != nil {
				return err
			}
			if imp.Type != nil {
				if err := inside(imp.Type.Span, sp, "import type"); err != nil {
					return err
				}
				if err := inside(imp.Type.NameSpan(), imp.Type.Span, "qualified name"); err != nil {
					return err
				}
			}
		case ast.ItemLet:
			let, _ := b.Items.Let(it)
			if err := inside(let.Name.Span, sp, "let name"); err != nil {
				return err
			}
			if err := checkExpr(b, let.Value, sp); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkExpr(b *ast.Builder, id ast.ExprID, parent source.Span) error {
	e := b.Exprs.Get(id)
	if e == nil {
		return fmt.Errorf("nil expr for id=%d", id)
	}
	if err := inside(e.Span, parent, "expr "+e.Kind.String()); err != nil {
		return err
	}
	if err := inside(e.Name.Span, e.Span, "expr name"); err != nil {
		return err
	}
	for _, arg := range e.Args {
		if err := inside(arg.Span, e.Span, "argument"); err != nil {
			return err
		}
		if err := checkExpr(b, arg.Value, arg.Span); err != nil {
			return err
		}
	}
	return nil
}

func inside(sp, outer source.Span, what string) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty %s span: %v", what, sp)
	}
	if sp.File != outer.File {
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, outer.File)
	}
	if !outer.Contains(sp) {
		return fmt.Errorf("%s span %v is outside %v", what, sp, outer)
	}
	return nil
}
