package resolve

import (
	"errors"
	"strings"
	"testing"

	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/document"
	"waldo/internal/lexer"
	"waldo/internal/parser"
	"waldo/internal/source"
	"waldo/internal/universe"
)

// parseSnippet разбирает src и падает, если синтаксис неверен.
func parseSnippet(t *testing.T, src string) (*ast.Builder, ast.FileID, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.wld", []byte(src)))
	bag := diag.NewBag(16)
	reporter := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(fs, lexer.New(file, lexer.Options{Reporter: reporter}), b, parser.Options{Reporter: reporter})
	if res.Err != nil {
		t.Fatalf("parse %q: %v", src, res.Err)
	}
	return b, res.File, file
}

func testUniverse() *universe.Static {
	u := universe.NewStatic()
	logging := u.AddPackage("wasi:logging@0.1.0")
	u.AddInterface(logging, "logging")
	pkg := u.AddPackage("pkg:name")
	u.AddInterface(pkg, "iface")
	u.AddInterface(pkg, "other")
	return u
}

func resolveSnippet(t *testing.T, src string) (*document.Document, *source.File, error) {
	t.Helper()
	b, file, srcFile := parseSnippet(t, src)
	doc, err := Resolve(b, file, testUniverse())
	return doc, srcFile, err
}

func mustResolve(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, _, err := resolveSnippet(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func TestResolve_MinimalDocument(t *testing.T) {
	b, file, _ := parseSnippet(t, "import a: component;\nlet x = instantiate(a);")
	doc, err := Resolve(b, file, universe.NewStatic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Imports.ComponentNames.Len() != 1 || doc.Imports.InstanceNames.Len() != 0 {
		t.Fatalf("imports: %d components, %d instances",
			doc.Imports.ComponentNames.Len(), doc.Imports.InstanceNames.Len())
	}
	id, ok := doc.Imports.ComponentNames.Get("a")
	if !ok || doc.Imports.Component(id).Name != "a" || doc.Imports.Component(id).Type != nil {
		t.Fatalf("component a not recorded correctly")
	}
	inst, ok := doc.Instantiations.Get("x")
	if !ok {
		t.Fatal("instantiation x missing")
	}
	if inst.Component != id || inst.Arguments.Len() != 0 {
		t.Fatalf("instantiation x = %+v", inst)
	}
}

func TestResolve_InstanceImports(t *testing.T) {
	doc := mustResolve(t, "import i: interface(pkg:name/iface);\nimport log: interface(wasi:logging/logging@0.1.0);")
	tests := []struct {
		local string
		name  string
	}{
		{"i", "pkg:name/iface"},
		{"log", "wasi:logging/logging@0.1.0"},
	}
	for _, tt := range tests {
		id, ok := doc.Imports.InstanceNames.Get(tt.local)
		if !ok {
			t.Fatalf("instance %s missing", tt.local)
		}
		if got := doc.Imports.Instance(id).Name; got != tt.name {
			t.Errorf("instance %s name = %q, want %q", tt.local, got, tt.name)
		}
	}
	if got := doc.Imports.InstanceNames.Keys(); strings.Join(got, ",") != "i,log" {
		t.Fatalf("instance order = %v", got)
	}
}

func TestResolve_Arguments(t *testing.T) {
	doc := mustResolve(t, strings.Join([]string{
		"import a: component;",
		"import i: interface(pkg:name/iface);",
		"import log: interface(wasi:logging/logging@0.1.0);",
		"let x = instantiate(a, whole: i, part: log.write,);",
	}, "\n"))
	inst, _ := doc.Instantiations.Get("x")
	iID, _ := doc.Imports.InstanceNames.Get("i")
	logID, _ := doc.Imports.InstanceNames.Get("log")

	whole, ok := inst.Arguments.Get("whole")
	if !ok || whole.Kind != document.ArgInstance || whole.Instance != iID {
		t.Fatalf("whole = %+v", whole)
	}
	part, ok := inst.Arguments.Get("part")
	if !ok || part.Kind != document.ArgInstanceExport || part.Instance != logID || part.Export != "write" {
		t.Fatalf("part = %+v", part)
	}
	if got := strings.Join(inst.Arguments.Keys(), ","); got != "whole,part" {
		t.Fatalf("argument order = %s", got)
	}
}

func TestResolve_InstantiationOrder(t *testing.T) {
	doc := mustResolve(t, "import a: component;\nlet z = instantiate(a);\nlet b = instantiate(a);\nlet m = instantiate(a);")
	if got := strings.Join(doc.Instantiations.Keys(), ","); got != "z,b,m" {
		t.Fatalf("order = %s", got)
	}
}

func TestResolve_ImportsResolvedFirst(t *testing.T) {
	doc := mustResolve(t, "let x = instantiate(a);\nimport a: component;")
	if _, ok := doc.Instantiations.Get("x"); !ok {
		t.Fatal("instantiation x missing")
	}
}

func TestResolve_SeparateNamespaces(t *testing.T) {
	doc := mustResolve(t, "import a: component;\nlet a = instantiate(a);")
	if !doc.Imports.Declared("a") || !doc.Instantiations.Has("a") {
		t.Fatal("import and instantiation named a must coexist")
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    error
		code    diag.Code
		span    string
		symbol  string
		ident   string
		message string
	}{
		{
			name: "package miss",
			src:  "import i: interface(nope:name/iface);",
			kind: diag.ErrUnresolvedName, code: diag.SemaUnresolvedSymbol,
			span: "nope:name/iface", symbol: "interface", ident: "nope:name",
			message: "unresolved interface name; could not find package nope:name",
		},
		{
			name: "versioned package miss",
			src:  "import i: interface(wasi:logging/logging@0.2.0);",
			kind: diag.ErrUnresolvedName, code: diag.SemaUnresolvedSymbol,
			span: "wasi:logging/logging", symbol: "interface", ident: "wasi:logging@0.2.0",
			message: "unresolved interface name; could not find package wasi:logging@0.2.0",
		},
		{
			name: "element miss",
			src:  "import i: interface(pkg:name/missing);",
			kind: diag.ErrUnresolvedName, code: diag.SemaUnresolvedSymbol,
			span: "pkg:name/missing", symbol: "interface", ident: "missing",
			message: "unresolved interface name; missing",
		},
		{
			name: "component not imported",
			src:  "let x = instantiate(a);",
			kind: diag.ErrUnresolvedName, code: diag.SemaUnresolvedSymbol,
			span: "a", symbol: "component import", ident: "a",
			message: "unresolved component import name; a",
		},
		{
			name: "instance used as component",
			src:  "import i: interface(pkg:name/iface);\nlet x = instantiate(i);",
			kind: diag.ErrUnresolvedName, code: diag.SemaUnresolvedSymbol,
			span: "i", symbol: "component import", ident: "i",
			message: "unresolved component import name; i",
		},
		{
			name: "argument not imported",
			src:  "import a: component;\nlet x = instantiate(a, dep: j);",
			kind: diag.ErrUnresolvedName, code: diag.SemaUnresolvedSymbol,
			span: "j", symbol: "instance import", ident: "j",
			message: "unresolved instance import name; j",
		},
		{
			name: "component as argument",
			src:  "import a: component;\nimport b: component;\nlet x = instantiate(a, dep: b.item);",
			kind: diag.ErrUnresolvedName, code: diag.SemaUnresolvedSymbol,
			span: "b", symbol: "instance import", ident: "b",
			message: "unresolved instance import name; b",
		},
		{
			name: "duplicate component import",
			src:  "import a: component;\nimport a: component;",
			kind: diag.ErrDuplicateName, code: diag.SemaDuplicateSymbol,
			span: "a", symbol: "import", ident: "a",
			message: "duplicate import name; a",
		},
		{
			name: "duplicate across import kinds",
			src:  "import a: component;\nimport a: interface(pkg:name/iface);",
			kind: diag.ErrDuplicateName, code: diag.SemaDuplicateSymbol,
			span: "a", symbol: "import", ident: "a",
			message: "duplicate import name; a",
		},
		{
			name: "duplicate instantiation",
			src:  "import a: component;\nlet x = instantiate(a);\nlet x = instantiate(a);",
			kind: diag.ErrDuplicateName, code: diag.SemaDuplicateSymbol,
			span: "x", symbol: "instantiation", ident: "x",
			message: "duplicate instantiation name; x",
		},
		{
			name: "duplicate argument",
			src:  "import a: component;\nimport i: interface(pkg:name/iface);\nlet x = instantiate(a, dep: i, dep: i.f);",
			kind: diag.ErrDuplicateName, code: diag.SemaDuplicateSymbol,
			span: "dep", symbol: "argument", ident: "dep",
			message: "duplicate argument name; dep",
		},
		{
			name: "name instead of instantiation",
			src:  "import a: component;\nlet x = a;",
			kind: diag.ErrParse, code: diag.SynExpectInstantiation,
			span: "a",
			message: "bad expression found name; expected instantiation",
		},
		{
			name: "export instead of instantiation",
			src:  "import i: interface(pkg:name/iface);\nlet x = i.f;",
			kind: diag.ErrParse, code: diag.SynExpectInstantiation,
			span: "i.f",
			message: "bad expression found export; expected instantiation",
		},
		{
			name: "world typed component",
			src:  "import a: component(wasi:cli/command);",
			kind: diag.ErrUnsupportedFeature, code: diag.FutTypedComponentImport,
			span: "wasi:cli/command", symbol: "world", ident: "wasi:cli/command",
			message: "world-typed component imports are not supported yet; wasi:cli/command",
		},
		{
			name: "positional argument",
			src:  "import a: component;\nimport i: interface(pkg:name/iface);\nlet x = instantiate(a, i);",
			kind: diag.ErrUnsupportedFeature, code: diag.FutPositionalArgument,
			span: "i", symbol: "argument",
			message: "positional instantiation arguments are not supported yet",
		},
		{
			name: "nested instantiation",
			src:  "import a: component;\nlet x = instantiate(a, dep: instantiate(a));",
			kind: diag.ErrUnsupportedFeature, code: diag.FutNestedInstantiation,
			span: "instantiate(a)", symbol: "argument", ident: "dep",
			message: "nested instantiations are not supported yet; a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, file, err := resolveSnippet(t, tt.src)
			if err == nil {
				t.Fatal("expected an error")
			}
			if doc != nil {
				t.Fatal("document must be nil on failure")
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("error %v is not %v", err, tt.kind)
			}
			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *diag.Error", err)
			}
			if de.Code != tt.code {
				t.Fatalf("code = %s, want %s", de.Code.ID(), tt.code.ID())
			}
			if de.Message != tt.message {
				t.Fatalf("message = %q, want %q", de.Message, tt.message)
			}
			if got := de.Span.Slice(file.Content); got != tt.span {
				t.Fatalf("span slices to %q, want %q", got, tt.span)
			}
			if de.Symbol != tt.symbol || de.Name != tt.ident {
				t.Fatalf("symbol/name = %q/%q, want %q/%q", de.Symbol, de.Name, tt.symbol, tt.ident)
			}
		})
	}
}

func TestResolve_DuplicateNotePointsAtFirst(t *testing.T) {
	src := "import a: component;\nimport a: component;"
	_, _, err := resolveSnippet(t, src)
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("unexpected error %v", err)
	}
	if len(de.Notes) != 1 {
		t.Fatalf("expected one note, got %d", len(de.Notes))
	}
	if de.Notes[0].Span.Start != 7 || de.Span.Start != 28 {
		t.Fatalf("note at %d, error at %d", de.Notes[0].Span.Start, de.Span.Start)
	}
}

func TestResolve_StopsAtFirstError(t *testing.T) {
	_, _, err := resolveSnippet(t, "import i: interface(nope:x/y);\nlet x = instantiate(missing);")
	if !errors.Is(err, diag.ErrUnresolvedName) || !strings.Contains(err.Error(), "nope:x") {
		t.Fatalf("expected the import error first, got %v", err)
	}
}
