package diag

import (
	"fmt"
	"strings"

	"waldo/internal/source"
)

// ErrorKind categorizes pipeline failures.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindLex
	KindParse
	KindUnresolvedName
	KindDuplicateName
	KindUnsupportedFeature
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "LexError"
	case KindParse:
		return "ParseError"
	case KindUnresolvedName:
		return "UnresolvedName"
	case KindDuplicateName:
		return "DuplicateName"
	case KindUnsupportedFeature:
		return "UnsupportedFeature"
	default:
		return "UnknownError"
	}
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrLex                = &Error{kind: KindLex, Message: "lex error"}
	ErrParse              = &Error{kind: KindParse, Message: "parse error"}
	ErrUnresolvedName     = &Error{kind: KindUnresolvedName, Message: "unresolved name"}
	ErrDuplicateName      = &Error{kind: KindDuplicateName, Message: "duplicate name"}
	ErrUnsupportedFeature = &Error{kind: KindUnsupportedFeature, Message: "unsupported feature"}
)

// Error is the single failure value produced by the lexer, parser and
// resolver. Path, Pos and Snippet stay empty until Rewrite runs.
type Error struct {
	Code    Code
	Message string
	Span    source.Span
	Symbol  string // "interface", "component import", ...
	Name    string // the name that failed to resolve or collided
	Notes   []Note

	Path    string
	Pos     source.LineCol
	Snippet string

	kind ErrorKind
}

// Errorf builds an Error for code at span.
func Errorf(code Code, span source.Span, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// WithSymbol records the symbol kind and the attempted name.
func (e *Error) WithSymbol(symbol, name string) *Error {
	e.Symbol = symbol
	e.Name = name
	return e
}

// WithNote attaches a secondary location.
func (e *Error) WithNote(span source.Span, msg string) *Error {
	e.Notes = append(e.Notes, Note{Span: span, Msg: msg})
	return e
}

// Kind returns the taxonomy bucket of the error.
func (e *Error) Kind() ErrorKind {
	if e.kind != KindUnknown {
		return e.kind
	}
	return e.Code.Kind()
}

// Rewritten reports whether presentation data has been attached.
func (e *Error) Rewritten() bool {
	return e.Path != ""
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Rewritten() {
		fmt.Fprintf(&b, "%s:%d:%d: ", e.Path, e.Pos.Line, e.Pos.Col)
	}
	b.WriteString(e.Message)
	if e.Snippet != "" {
		b.WriteByte('\n')
		b.WriteString(e.Snippet)
	}
	return b.String()
}

// Is reports whether target is a sentinel of the same kind, or an error
// with the same code and span.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.kind != KindUnknown {
		return t.kind == e.Kind()
	}
	return t.Code == e.Code && t.Span == e.Span
}

// Diagnostic converts the error back into a bag entry.
func (e *Error) Diagnostic() Diagnostic {
	d := NewError(e.Code, e.Span, e.Message)
	d.Notes = append(d.Notes, e.Notes...)
	return d
}
