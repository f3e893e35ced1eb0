package ast

import (
	"waldo/internal/source"
)

type ItemKind uint8

const (
	ItemImport ItemKind = iota
	ItemLet
)

func (k ItemKind) String() string {
	switch k {
	case ItemImport:
		return "import"
	case ItemLet:
		return "let"
	default:
		return "item(?)"
	}
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type Items struct {
	Arena   *Arena[Item]
	Imports *Arena[ImportItem]
	Lets    *Arena[LetItem]
}

// NewItems creates per-kind arenas; capHint 0 means 1<<6.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena:   NewArena[Item](capHint),
		Imports: NewArena[ImportItem](capHint),
		Lets:    NewArena[LetItem](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payloadID PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payloadID,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}
