package parser

import (
	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/lexer"
	"waldo/internal/source"
	"waldo/internal/token"
)

type Options struct {
	// Reporter receives the parser's error. Lexical errors go to the
	// reporter configured on the lexer.
	Reporter diag.Reporter
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
	// Err is the first lexical or syntax error; parsing stops there.
	Err *diag.Error
}

// Parser - состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	failure  *diag.Diagnostic
}

// ParseFile - входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(
	fs *source.FileSet,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	p := newParser(fs, lx, arenas, opts)
	p.parseItems()

	res := Result{File: p.file}
	if br, ok := opts.Reporter.(diag.BagReporter); ok {
		res.Bag = br.Bag
	} else if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		res.Bag = br.Bag
	}
	if d, ok := p.firstError(); ok {
		res.Err = d.Err()
	}
	return res
}

func newParser(fs *source.FileSet, lx *lexer.Lexer, arenas *ast.Builder, opts Options) *Parser {
	f := lx.File()
	whole := source.Span{File: f.ID, End: uint32(len(f.Content))} // #nosec G115 -- FileSet bounds content size
	return &Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(whole),
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) failed() bool {
	return p.failure != nil
}

// firstError: ошибки лексера всегда не позже ошибки парсера,
// поэтому они имеют приоритет.
func (p *Parser) firstError() (diag.Diagnostic, bool) {
	if d, ok := p.lx.FirstError(); ok {
		return d, true
	}
	if p.failure != nil {
		return *p.failure, true
	}
	return diag.Diagnostic{}, false
}

// parseItems - основной цикл верхнего уровня: пока не EOF и нет ошибки - parseItem.
func (p *Parser) parseItems() {
	for !p.at(token.EOF) {
		itemID, ok := p.parseItem()
		if !ok {
			return
		}
		p.arenas.PushItem(p.file, itemID)
	}
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	switch p.lx.Peek().Kind {
	case token.KwImport:
		return p.parseImportItem()
	case token.KwLet:
		return p.parseLetItem()
	default:
		p.errAt(diag.SynUnexpectedToken, p.lx.Peek().Span, "expected 'import' or 'let', found "+describe(p.lx.Peek()))
		return ast.NoItemID, false
	}
}

// parseName ожидает Ident и возвращает ast.Name без '%'.
func (p *Parser) parseName(what string) (ast.Name, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected "+what)
	if !ok {
		return ast.Name{}, false
	}
	return nameOf(tok), true
}

func nameOf(tok token.Token) ast.Name {
	return ast.Name{Text: tok.Name(), Span: tok.Span}
}
