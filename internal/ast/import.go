package ast

import "waldo/internal/source"

type ImportKind uint8

const (
	// ImportComponent: `import a: component;` or the world-typed
	// `import a: component(ns:pkg/world);`.
	ImportComponent ImportKind = iota
	// ImportInterface: `import i: interface(ns:pkg/iface);`.
	ImportInterface
)

func (k ImportKind) String() string {
	if k == ImportInterface {
		return "interface"
	}
	return "component"
}

// ImportItem represents an import declaration.
type ImportItem struct {
	Name     Name
	Kind     ImportKind
	Type     *QualifiedID // nil for an untyped component import
	KindSpan source.Span  // the 'component' / 'interface' keyword
	Span     source.Span
}

// Import returns the ImportItem for the given ItemID, or nil/false if invalid.
func (i *Items) Import(id ItemID) (*ImportItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemImport {
		return nil, false
	}
	return i.Imports.Get(uint32(item.Payload)), true
}

// NewImport creates a new import item.
func (i *Items) NewImport(span source.Span, name Name, kind ImportKind, typ *QualifiedID, kindSpan source.Span) ItemID {
	payload := i.Imports.Allocate(ImportItem{
		Name:     name,
		Kind:     kind,
		Type:     typ,
		KindSpan: kindSpan,
		Span:     span,
	})
	return i.New(ItemImport, span, PayloadID(payload))
}
