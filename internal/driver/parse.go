package driver

import (
	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/lexer"
	"waldo/internal/parser"
	"waldo/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
	// Err is the first lexical or syntax error, already rewritten.
	Err error
}

// Parse loads and parses path. A syntax error is returned in
// ParseResult.Err; the returned error is reserved for I/O failures.
func Parse(path string) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseFile(fs, fs.Get(fileID)), nil
}

func parseFile(fs *source.FileSet, file *source.File) *ParseResult {
	bag := diag.NewBag(1)
	reporter := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{})
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	res := parser.ParseFile(fs, lx, builder, parser.Options{Reporter: reporter})

	out := &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  res.File,
		Bag:     bag,
	}
	if res.Err != nil {
		out.Err = diag.Rewrite(res.Err, fs)
	}
	return out
}
