package parser

import (
	"fmt"
	"strings"
	"testing"

	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/lexer"
	"waldo/internal/source"
	"waldo/internal/testkit"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// makeTestParser - хелпер для создания парсера с тестовой строкой
func makeTestParser(input string) (*Parser, *source.FileSet, *ast.Builder, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wld", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	arenas := ast.NewBuilder(ast.Hints{})
	p := newParser(fs, lx, arenas, Options{Reporter: reporter})
	return p, fs, arenas, bag
}

// parseSource разбирает весь документ и проверяет инварианты спанов.
func parseSource(t *testing.T, input string) (*ast.Builder, Result, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.wld", []byte(input)))
	bag := diag.NewBag(100)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{})

	res := ParseFile(fs, lx, b, Options{Reporter: reporter})
	if res.Err == nil {
		if err := testkit.CheckSpanInvariants(b, res.File, file); err != nil {
			t.Fatalf("span invariants: %v", err)
		}
	}
	return b, res, file
}

// mustParse - как parseSource, но ошибка разбора фатальна.
func mustParse(t *testing.T, input string) (*ast.Builder, ast.FileID) {
	t.Helper()
	b, res, _ := parseSource(t, input)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v (bag: %s)", res.Err, diagnosticsSummary(res.Bag))
	}
	return b, res.File
}

// expectParseError проверяет код и то, что спан ошибки вырезает want.
func expectParseError(t *testing.T, input string, code diag.Code, want string) *diag.Error {
	t.Helper()
	_, res, file := parseSource(t, input)
	if res.Err == nil {
		t.Fatalf("expected %s, parse succeeded", code.ID())
	}
	if res.Err.Code != code {
		t.Fatalf("expected %s, got %s: %s", code.ID(), res.Err.Code.ID(), res.Err.Message)
	}
	if got := res.Err.Span.Slice(file.Content); got != want {
		t.Fatalf("error span %v slices to %q, want %q (%s)", res.Err.Span, got, want, res.Err.Message)
	}
	return res.Err
}
