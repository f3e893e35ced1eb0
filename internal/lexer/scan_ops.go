package lexer

import (
	"unicode/utf8"

	"waldo/internal/diag"
	"waldo/internal/token"
)

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch lx.cursor.Peek() {
	case ':':
		lx.cursor.Bump()
		return emit(token.Colon)
	case ';':
		lx.cursor.Bump()
		return emit(token.Semicolon)
	case ',':
		lx.cursor.Bump()
		return emit(token.Comma)
	case '(':
		lx.cursor.Bump()
		return emit(token.LParen)
	case ')':
		lx.cursor.Bump()
		return emit(token.RParen)
	case '=':
		lx.cursor.Bump()
		return emit(token.Assign)
	case '.':
		lx.cursor.Bump()
		return emit(token.Dot)
	}

	// неизвестный символ: съедаем целую руну, чтобы span не резал UTF-8
	if _, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:]); sz > 1 {
		lx.cursor.Off += uint32(sz) // #nosec G115 -- rune size is at most 4
	} else {
		lx.cursor.Bump()
	}
	tok := emit(token.Invalid)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteText(tok.Text))
	return tok
}
