package parser

import (
	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/token"
)

// parseLetItem: let IDENT '=' expr ';'
func (p *Parser) parseLetItem() (ast.ItemID, bool) {
	letTok := p.advance()

	name, ok := p.parseName("instantiation name after 'let'")
	if !ok {
		return ast.NoItemID, false
	}
	eq, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after instantiation name")
	if !ok {
		return ast.NoItemID, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoItemID, false
	}
	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after instantiation")
	if !ok {
		return ast.NoItemID, false
	}
	span := letTok.Span.Cover(semi.Span)
	return p.arenas.Items.NewLet(span, name, value, eq.Span, semi.Span), true
}

// parseExpr:
//
//	instantiate(component, args...)
//	name
//	name.member
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	switch tok := p.lx.Peek(); tok.Kind {
	case token.KwInstantiate:
		return p.parseInstantiate()
	case token.Ident:
		return p.parseNameTail(p.advance())
	default:
		p.errAt(diag.SynExpectExpression, p.getDiagnosticSpan(), "expected expression, found "+describe(tok))
		return ast.NoExprID, false
	}
}

// parseNameTail достраивает выражение после уже съеденного идентификатора.
func (p *Parser) parseNameTail(ident token.Token) (ast.ExprID, bool) {
	if !p.at(token.Dot) {
		return p.arenas.Exprs.NewName(nameOf(ident)), true
	}
	p.advance() // '.'
	member, ok := p.parseName("export name after '.'")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewProject(nameOf(ident), member), true
}

// parseInstantiate: 'instantiate' '(' IDENT { ',' arg } [','] ')'
func (p *Parser) parseInstantiate() (ast.ExprID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'instantiate'"); !ok {
		return ast.NoExprID, false
	}
	component, ok := p.parseName("component name")
	if !ok {
		return ast.NoExprID, false
	}

	var (
		args      []ast.Arg
		seenNamed bool
	)
	for p.at(token.Comma) {
		p.advance()
		if p.at(token.RParen) {
			break // висячая запятая
		}
		arg, ok := p.parseArg()
		if !ok {
			return ast.NoExprID, false
		}
		if arg.Kind == ast.ArgUnnamed && seenNamed {
			p.errAt(diag.SynPositionalAfterNamed, arg.Span, "positional argument after named argument")
			return ast.NoExprID, false
		}
		seenNamed = seenNamed || arg.Kind == ast.ArgNamed
		args = append(args, arg)
	}

	rp, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ',' or ')' in instantiate")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewInstantiate(kw.Span.Cover(rp.Span), component, args), true
}

// parseArg: после идентификатора смотрим один токен вперёд:
// ':' значит именованный аргумент, иначе позиционный.
func (p *Parser) parseArg() (ast.Arg, bool) {
	if !p.at(token.Ident) {
		value, ok := p.parseExpr()
		if !ok {
			return ast.Arg{}, false
		}
		return ast.Arg{Kind: ast.ArgUnnamed, Value: value, Span: p.arenas.Exprs.Get(value).Span}, true
	}

	ident := p.advance()
	if !p.at(token.Colon) {
		value, ok := p.parseNameTail(ident)
		if !ok {
			return ast.Arg{}, false
		}
		return ast.Arg{Kind: ast.ArgUnnamed, Value: value, Span: p.arenas.Exprs.Get(value).Span}, true
	}

	p.advance() // ':'
	value, ok := p.parseExpr()
	if !ok {
		return ast.Arg{}, false
	}
	span := ident.Span.Cover(p.arenas.Exprs.Get(value).Span)
	return ast.Arg{Kind: ast.ArgNamed, Name: nameOf(ident), Value: value, Span: span}, true
}
