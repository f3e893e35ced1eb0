package token

import (
	"strings"

	"waldo/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsPunct reports whether the token is punctuation.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case Colon, Semicolon, Comma, LParen, RParen, Assign, Dot:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwImport, KwComponent, KwInterface, KwLet, KwInstantiate:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Name returns the identifier text without the keyword escape.
func (t Token) Name() string {
	if t.Kind == Ident {
		return strings.TrimPrefix(t.Text, "%")
	}
	return t.Text
}
