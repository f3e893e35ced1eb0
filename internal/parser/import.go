package parser

import (
	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/token"
)

// parseImportItem распознаёт формы:
//
//	import a: component;
//	import a: component(ns:pkg/world);        // world-typed, резолвер пока не поддерживает
//	import i: interface(ns:pkg/iface[@1.2.3]);
func (p *Parser) parseImportItem() (ast.ItemID, bool) {
	importTok := p.advance() // если мы здесь, то это точно KwImport

	name, ok := p.parseName("import name after 'import'")
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(token.Colon, diag.SynExpectColon, "expected ':' after import name"); !ok {
		return ast.NoItemID, false
	}

	var (
		kind ast.ImportKind
		typ  *ast.QualifiedID
	)
	kindTok := p.lx.Peek()
	switch kindTok.Kind {
	case token.KwComponent:
		p.advance()
		kind = ast.ImportComponent
		if p.at(token.LParen) {
			if typ, ok = p.parseParenQualified("'component('"); !ok {
				return ast.NoItemID, false
			}
		}
	case token.KwInterface:
		p.advance()
		kind = ast.ImportInterface
		if _, ok = p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'interface'"); !ok {
			return ast.NoItemID, false
		}
		if typ, ok = p.parseQualifiedTail("'interface('"); !ok {
			return ast.NoItemID, false
		}
	default:
		p.errAt(diag.SynExpectImportKind, p.getDiagnosticSpan(), "expected 'component' or 'interface', found "+describe(kindTok))
		return ast.NoItemID, false
	}

	semi, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after import")
	if !ok {
		return ast.NoItemID, false
	}
	span := importTok.Span.Cover(semi.Span)
	return p.arenas.Items.NewImport(span, name, kind, typ, kindTok.Span), true
}

// parseParenQualified: '(' QUALNAME ')'
func (p *Parser) parseParenQualified(ctx string) (*ast.QualifiedID, bool) {
	p.advance() // '('
	return p.parseQualifiedTail(ctx)
}

// parseQualifiedTail: QUALNAME ')'
func (p *Parser) parseQualifiedTail(ctx string) (*ast.QualifiedID, bool) {
	tok, ok := p.expect(token.QualifiedName, diag.SynExpectQualifiedName, "expected qualified name like ns:pkg/name after "+ctx)
	if !ok {
		return nil, false
	}
	parts, ok := token.SplitQualified(tok)
	if !ok {
		p.errAt(diag.LexBadQualifiedName, tok.Span, "malformed qualified name '"+tok.Text+"'")
		return nil, false
	}
	q := &ast.QualifiedID{
		Namespace: ast.Name{Text: parts.Namespace.Text, Span: parts.Namespace.Span},
		Package:   ast.Name{Text: parts.Package.Text, Span: parts.Package.Span},
		Element:   ast.Name{Text: parts.Element.Text, Span: parts.Element.Span},
		Span:      tok.Span,
	}
	if parts.Version != nil {
		q.Version = &ast.Name{Text: parts.Version.Text, Span: parts.Version.Span}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after qualified name"); !ok {
		return nil, false
	}
	return q, true
}
