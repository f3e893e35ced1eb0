package resolve

import (
	"go.uber.org/zap"

	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/document"
	"waldo/internal/universe"
)

// declareImport резолвит один импорт и заносит его в общее пространство имён импортов.
func (fr *fileResolver) declareImport(imp *ast.ImportItem) error {
	switch imp.Kind {
	case ast.ImportComponent:
		if imp.Type != nil {
			return diag.Errorf(diag.FutTypedComponentImport, imp.Type.Span,
				"world-typed component imports are not supported yet; %s", imp.Type.InterfaceName()).
				WithSymbol("world", imp.Type.InterfaceName())
		}
		if err := fr.checkImportName(imp.Name); err != nil {
			return err
		}
		fr.doc.Imports.AddComponent(document.ComponentImport{Name: imp.Name.Text})
		Logger().Debug("component import", zap.String("name", imp.Name.Text))

	case ast.ImportInterface:
		id, err := fr.lookupInterface(imp.Type)
		if err != nil {
			return err
		}
		if err := fr.checkImportName(imp.Name); err != nil {
			return err
		}
		qualified := imp.Type.InterfaceName()
		fr.doc.Imports.AddInstance(imp.Name.Text, document.InstanceImport{Name: qualified, Type: id})
		Logger().Debug("instance import",
			zap.String("name", imp.Name.Text),
			zap.String("interface", qualified),
			zap.Uint32("id", uint32(id)),
		)
	}
	fr.imports[imp.Name.Text] = imp.Name.Span
	return nil
}

func (fr *fileResolver) checkImportName(name ast.Name) error {
	if prev, ok := fr.imports[name.Text]; ok {
		return duplicate("import", name, prev)
	}
	return nil
}

// lookupInterface находит пакет, затем интерфейс внутри него.
func (fr *fileResolver) lookupInterface(q *ast.QualifiedID) (universe.InterfaceID, error) {
	pkgName := q.PackageName()
	pkg, ok := fr.universe.LookupPackage(pkgName)
	if !ok {
		return 0, unresolved("interface", q.NameSpan(), pkgName, "could not find package "+pkgName)
	}
	id, ok := fr.universe.LookupInterface(pkg, q.Element.Text)
	if !ok {
		return 0, unresolved("interface", q.NameSpan(), q.Element.Text, q.Element.Text)
	}
	return id, nil
}
