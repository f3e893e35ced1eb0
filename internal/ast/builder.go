package ast

import (
	"waldo/internal/source"
)

type Hints struct{ Files, Items, Exprs uint }

type Builder struct {
	Files *Files
	Items *Items
	Exprs *Exprs
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	return &Builder{
		Files: NewFiles(hints.Files),
		Items: NewItems(hints.Items),
		Exprs: NewExprs(hints.Exprs),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

// ForEachImport calls fn for every import of file in source order and
// stops at the first error.
func (b *Builder) ForEachImport(file FileID, fn func(id ItemID, imp *ImportItem) error) error {
	f := b.Files.Get(file)
	if f == nil {
		return nil
	}
	for _, id := range f.Items {
		imp, ok := b.Items.Import(id)
		if !ok {
			continue
		}
		if err := fn(id, imp); err != nil {
			return err
		}
	}
	return nil
}

// ForEachInstantiation calls fn for every let binding of file in source
// order with its value expression, and stops at the first error.
// The value is not guaranteed to be an instantiation; callers check Kind.
func (b *Builder) ForEachInstantiation(file FileID, fn func(id ItemID, let *LetItem, value *Expr) error) error {
	f := b.Files.Get(file)
	if f == nil {
		return nil
	}
	for _, id := range f.Items {
		let, ok := b.Items.Let(id)
		if !ok {
			continue
		}
		if err := fn(id, let, b.Exprs.Get(let.Value)); err != nil {
			return err
		}
	}
	return nil
}
