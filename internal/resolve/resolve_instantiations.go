package resolve

import (
	"go.uber.org/zap"

	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/document"
	"waldo/internal/source"
)

func (fr *fileResolver) declareInstantiation(let *ast.LetItem, value *ast.Expr) error {
	if value.Kind != ast.ExprInstantiate {
		return diag.Errorf(diag.SynExpectInstantiation, value.Span,
			"bad expression found %s; expected instantiation", foundWhat(value.Kind))
	}

	component, ok := fr.doc.Imports.ComponentNames.Get(value.Name.Text)
	if !ok {
		return unresolved("component import", value.Name.Span, value.Name.Text, value.Name.Text)
	}

	inst := &document.Instantiation{Component: component}
	argSpans := make(map[string]source.Span, len(value.Args))
	for i := range value.Args {
		arg := &value.Args[i]
		resolved, err := fr.resolveArg(arg)
		if err != nil {
			return err
		}
		if prev, dup := argSpans[arg.Name.Text]; dup {
			return duplicate("argument", arg.Name, prev)
		}
		argSpans[arg.Name.Text] = arg.Name.Span
		inst.Arguments.Set(arg.Name.Text, resolved)
	}

	if prev, dup := fr.instances[let.Name.Text]; dup {
		return duplicate("instantiation", let.Name, prev)
	}
	fr.instances[let.Name.Text] = let.Name.Span
	fr.doc.Instantiations.Set(let.Name.Text, inst)
	Logger().Debug("instantiation",
		zap.String("name", let.Name.Text),
		zap.String("component", value.Name.Text),
		zap.Int("args", inst.Arguments.Len()),
	)
	return nil
}

// resolveArg: `name: i` передаёт весь экземпляр, `name: i.item` - его экспорт.
// Экспорт не проверяется по интерфейсу.
func (fr *fileResolver) resolveArg(arg *ast.Arg) (document.InstantiationArg, error) {
	if arg.Kind == ast.ArgUnnamed {
		return document.InstantiationArg{}, diag.Errorf(diag.FutPositionalArgument, arg.Span,
			"positional instantiation arguments are not supported yet").
			WithSymbol("argument", "")
	}
	value := fr.builder.Exprs.Get(arg.Value)
	switch value.Kind {
	case ast.ExprName, ast.ExprProject:
		instance, ok := fr.doc.Imports.InstanceNames.Get(value.Name.Text)
		if !ok {
			return document.InstantiationArg{}, unresolved("instance import", value.Name.Span, value.Name.Text, value.Name.Text)
		}
		if value.Kind == ast.ExprName {
			return document.InstantiationArg{Kind: document.ArgInstance, Instance: instance}, nil
		}
		return document.InstantiationArg{Kind: document.ArgInstanceExport, Instance: instance, Export: value.Member.Text}, nil
	default:
		return document.InstantiationArg{}, diag.Errorf(diag.FutNestedInstantiation, value.Span,
			"nested instantiations are not supported yet; %s", value.Name.Text).
			WithSymbol("argument", arg.Name.Text)
	}
}

func foundWhat(k ast.ExprKind) string {
	if k == ast.ExprProject {
		return "export"
	}
	return "name"
}
