// Package resolve turns a parsed document into a document.Document by
// looking names up in the document itself and in an external universe.
//
// Resolution runs in two passes: every import first, then every
// instantiation. Instantiations may only refer to imports, so source order
// between the two kinds does not matter, while duplicates are reported at
// the later declaration. The first failure stops resolution.
package resolve

import (
	"go.uber.org/zap"

	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/document"
	"waldo/internal/source"
	"waldo/internal/universe"
)

// Resolve resolves file against u. The returned error, if any, is a
// *diag.Error carrying a span inside the file.
func Resolve(builder *ast.Builder, file ast.FileID, u universe.Universe) (*document.Document, error) {
	fr := fileResolver{
		builder:   builder,
		file:      file,
		universe:  u,
		doc:       document.New(),
		imports:   make(map[string]source.Span),
		instances: make(map[string]source.Span),
	}
	if err := fr.resolveImports(); err != nil {
		return nil, err
	}
	if err := fr.resolveInstantiations(); err != nil {
		return nil, err
	}
	Logger().Debug("document resolved",
		zap.Int("imports", fr.doc.Imports.Len()),
		zap.Int("instantiations", fr.doc.Instantiations.Len()),
	)
	return fr.doc, nil
}

// fileResolver держит состояние одного прохода; между документами не делится.
type fileResolver struct {
	builder  *ast.Builder
	file     ast.FileID
	universe universe.Universe
	doc      *document.Document

	// спаны первых объявлений для заметок о дубликатах
	imports   map[string]source.Span
	instances map[string]source.Span
}

func (fr *fileResolver) resolveImports() error {
	return fr.builder.ForEachImport(fr.file, func(_ ast.ItemID, imp *ast.ImportItem) error {
		return fr.declareImport(imp)
	})
}

func (fr *fileResolver) resolveInstantiations() error {
	return fr.builder.ForEachInstantiation(fr.file, func(_ ast.ItemID, let *ast.LetItem, value *ast.Expr) error {
		return fr.declareInstantiation(let, value)
	})
}

func duplicate(what string, name ast.Name, prev source.Span) *diag.Error {
	return diag.Errorf(diag.SemaDuplicateSymbol, name.Span, "duplicate %s name; %s", what, name.Text).
		WithSymbol(what, name.Text).
		WithNote(prev, "previously declared here")
}

func unresolved(what string, span source.Span, name, detail string) *diag.Error {
	return diag.Errorf(diag.SemaUnresolvedSymbol, span, "unresolved %s name; %s", what, detail).
		WithSymbol(what, name)
}
