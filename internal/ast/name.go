package ast

import (
	"strings"

	"waldo/internal/source"
)

// Name is an identifier occurrence: text without the '%' escape plus its span.
type Name struct {
	Text string
	Span source.Span
}

// QualifiedID is a package reference as written: namespace:package/element[@version].
type QualifiedID struct {
	Namespace Name
	Package   Name
	Element   Name
	Version   *Name
	Span      source.Span
}

// PackageName returns "ns:pkg" or "ns:pkg@version".
func (q *QualifiedID) PackageName() string {
	var b strings.Builder
	b.WriteString(q.Namespace.Text)
	b.WriteByte(':')
	b.WriteString(q.Package.Text)
	if q.Version != nil {
		b.WriteByte('@')
		b.WriteString(q.Version.Text)
	}
	return b.String()
}

// InterfaceName returns "ns:pkg/elem" or "ns:pkg/elem@version".
func (q *QualifiedID) InterfaceName() string {
	var b strings.Builder
	b.WriteString(q.Namespace.Text)
	b.WriteByte(':')
	b.WriteString(q.Package.Text)
	b.WriteByte('/')
	b.WriteString(q.Element.Text)
	if q.Version != nil {
		b.WriteByte('@')
		b.WriteString(q.Version.Text)
	}
	return b.String()
}

// NameSpan covers namespace through element, without the version.
func (q *QualifiedID) NameSpan() source.Span {
	return q.Namespace.Span.Cover(q.Element.Span)
}
