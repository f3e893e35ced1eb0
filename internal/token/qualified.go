package token

import (
	"strings"

	"waldo/internal/source"
)

// Part is one component of a qualified name with its own span.
type Part struct {
	Text string
	Span source.Span
}

// QualifiedParts is a QualifiedName token split into its pieces.
type QualifiedParts struct {
	Namespace Part
	Package   Part
	Element   Part
	Version   *Part // nil when no @version suffix
}

// SplitQualified splits ns:pkg/elem[@ver]. ok is false if the text does not
// have that shape; the lexer only emits QualifiedName tokens that split.
func SplitQualified(tok Token) (QualifiedParts, bool) {
	var out QualifiedParts
	text := tok.Text
	base := tok.Span.Start

	colon := strings.IndexByte(text, ':')
	if colon <= 0 {
		return out, false
	}
	slash := strings.IndexByte(text[colon+1:], '/')
	if slash <= 0 {
		return out, false
	}
	slash += colon + 1
	end := len(text)
	at := strings.IndexByte(text[slash+1:], '@')
	if at == 0 {
		return out, false
	}
	if at > 0 {
		end = slash + 1 + at
	}
	if end == slash+1 {
		return out, false
	}

	part := func(from, to int) Part {
		return Part{
			Text: text[from:to],
			Span: source.Span{File: tok.Span.File, Start: base + uint32(from), End: base + uint32(to)}, // #nosec G115 -- offsets bounded by token span
		}
	}
	out.Namespace = part(0, colon)
	out.Package = part(colon+1, slash)
	out.Element = part(slash+1, end)
	if at > 0 {
		if end+1 == len(text) {
			return out, false
		}
		v := part(end+1, len(text))
		out.Version = &v
	}
	return out, true
}
