package lexer

import (
	"fmt"

	"github.com/coreos/go-semver/semver"

	"waldo/internal/diag"
	"waldo/internal/token"
)

type wordResult uint8

const (
	wordMissing  wordResult = iota // нет стартового символа
	wordOK                         // слово прочитано
	wordDangling                   // слово закончилось на '-'
)

// scanWord читает kebab-слово [A-Za-z_][A-Za-z0-9_]*(-[A-Za-z0-9_]+)*.
func (lx *Lexer) scanWord() wordResult {
	if !isIdentStartByte(lx.cursor.Peek()) {
		return wordMissing
	}
	for {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.cursor.Peek() != '-' {
			return wordOK
		}
		lx.cursor.Bump()
		if !isIdentContinueByte(lx.cursor.Peek()) {
			return wordDangling
		}
	}
}

func (lx *Lexer) tokenFrom(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanIdentOrQualified сканирует Ident, %Ident, ключевые слова и
// квалифицированные имена ns:pkg/elem[@version].
// Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrQualified() token.Token {
	start := lx.cursor.Mark()
	escaped := lx.cursor.Eat('%')

	switch lx.scanWord() {
	case wordMissing:
		tok := lx.tokenFrom(token.Invalid, start)
		lx.errLex(diag.LexBadIdent, tok.Span, "expected identifier after '%'")
		return tok
	case wordDangling:
		tok := lx.tokenFrom(token.Invalid, start)
		lx.errLex(diag.LexBadIdent, tok.Span, "dangling '-' in identifier "+quoteText(tok.Text))
		return tok
	}

	if !escaped && lx.cursor.Peek() == ':' {
		if tok, ok := lx.scanQualifiedTail(start); ok {
			return tok
		}
	}

	tok := lx.tokenFrom(token.Ident, start)
	if escaped {
		return tok
	}
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// scanQualifiedTail пробует дочитать ":pkg/elem[@version]" после namespace.
// Если после ':' нет "pkg/", курсор откатывается и ok == false:
// тогда это Ident, за которым следует ':'.
func (lx *Lexer) scanQualifiedTail(start Mark) (token.Token, bool) {
	afterNS := lx.cursor.Mark()
	lx.cursor.Bump() // ':'
	if lx.scanWord() != wordOK || lx.cursor.Peek() != '/' {
		lx.cursor.Reset(afterNS)
		return token.Token{}, false
	}
	lx.cursor.Bump() // '/'

	elemStart := lx.cursor.Mark()
	switch lx.scanWord() {
	case wordMissing:
		tok := lx.tokenFrom(token.Invalid, start)
		lx.errLex(diag.LexBadQualifiedName, tok.Span, "expected element name after '/' in "+quoteText(tok.Text))
		return tok, true
	case wordDangling:
		sp := lx.cursor.SpanFrom(elemStart)
		lx.errLex(diag.LexBadIdent, sp, "dangling '-' in identifier "+quoteText(sp.Slice(lx.file.Content)))
		return lx.tokenFrom(token.Invalid, start), true
	}

	if lx.cursor.Peek() == '@' {
		at := lx.cursor.Mark()
		lx.cursor.Bump()
		verStart := lx.cursor.Mark()
		for isVersionByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		text := lx.cursor.SpanFrom(verStart).Slice(lx.file.Content)
		if _, err := semver.NewVersion(text); text == "" || err != nil {
			lx.errLex(diag.LexBadVersion, lx.cursor.SpanFrom(at), fmt.Sprintf("invalid version %q: expected semver like 1.2.3", text))
			return lx.tokenFrom(token.Invalid, start), true
		}
	}
	return lx.tokenFrom(token.QualifiedName, start), true
}
