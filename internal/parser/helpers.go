package parser

import (
	"waldo/internal/diag"
	"waldo/internal/source"
	"waldo/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan - лучший span для диагностики.
// На EOF указываем на позицию сразу после последнего токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errAt(code, p.getDiagnosticSpan(), msg+", found "+describe(p.lx.Peek()))
	return token.Token{Kind: token.Invalid, Span: p.getDiagnosticSpan()}, false
}

// errAt фиксирует первую ошибку. Если парсер упёрся в Invalid токен,
// ошибку уже сообщил лексер, и дублировать её не нужно.
func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	if p.failed() {
		return
	}
	if _, lexFailed := p.lx.FirstError(); lexFailed && p.lx.Peek().Kind == token.Invalid {
		d := diag.NewError(code, sp, msg)
		p.failure = &d
		return
	}
	b := diag.ReportError(p.opts.Reporter, code, sp, msg)
	b.Emit()
	d := b.Diagnostic()
	p.failure = &d
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF, token.Invalid:
		return tok.Kind.Describe()
	case token.Ident, token.QualifiedName:
		return tok.Kind.Describe() + " '" + tok.Text + "'"
	default:
		return tok.Kind.Describe()
	}
}
