package ast

import (
	"waldo/internal/source"
)

// LetItem binds a name to an expression: `let x = instantiate(a);`.
type LetItem struct {
	Name          Name
	Value         ExprID
	EqualsSpan    source.Span
	SemicolonSpan source.Span
	Span          source.Span
}

func (i *Items) Let(id ItemID) (*LetItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemLet {
		return nil, false
	}
	return i.Lets.Get(uint32(item.Payload)), true
}

func (i *Items) NewLet(span source.Span, name Name, value ExprID, equalsSpan, semicolonSpan source.Span) ItemID {
	payload := i.Lets.Allocate(LetItem{
		Name:          name,
		Value:         value,
		EqualsSpan:    equalsSpan,
		SemicolonSpan: semicolonSpan,
		Span:          span,
	})
	return i.New(ItemLet, span, PayloadID(payload))
}
