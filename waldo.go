// Package waldo parses composition documents and resolves them against a
// universe of WIT packages.
//
//	import a: component;
//	import log: interface(wasi:logging/logging@0.1.0);
//	let x = instantiate(a, logging: log);
package waldo

import (
	"waldo/internal/ast"
	"waldo/internal/diag"
	"waldo/internal/document"
	"waldo/internal/lexer"
	"waldo/internal/parser"
	"waldo/internal/resolve"
	"waldo/internal/source"
	"waldo/internal/universe"
)

type (
	Document          = document.Document
	Imports           = document.Imports
	ComponentImport   = document.ComponentImport
	InstanceImport    = document.InstanceImport
	ComponentImportID = document.ComponentImportID
	InstanceImportID  = document.InstanceImportID
	Instantiation     = document.Instantiation
	Instantiations    = document.Instantiations
	InstantiationArg  = document.InstantiationArg
	InstantiationArgs = document.InstantiationArgs

	Universe    = universe.Universe
	InterfaceID = universe.InterfaceID
	WorldID     = universe.WorldID

	// Error is the only error type ParseDocument returns.
	Error     = diag.Error
	ErrorKind = diag.ErrorKind
)

const (
	ArgInstance       = document.ArgInstance
	ArgInstanceExport = document.ArgInstanceExport
)

// Sentinels for errors.Is.
var (
	ErrLex                = diag.ErrLex
	ErrParse              = diag.ErrParse
	ErrUnresolvedName     = diag.ErrUnresolvedName
	ErrDuplicateName      = diag.ErrDuplicateName
	ErrUnsupportedFeature = diag.ErrUnsupportedFeature
)

// ParseDocument lexes, parses and resolves contents. path is used only in
// error messages, which carry path:line:col and a source snippet.
// It does no I/O and may be called concurrently with a shared Universe.
func ParseDocument(u Universe, path string, contents []byte) (*Document, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, contents))

	// лексер и парсер останавливаются на первой ошибке, отчёты не копим
	var first diag.FirstReporter
	builder := ast.NewBuilder(ast.Hints{})
	lx := lexer.New(file, lexer.Options{Reporter: &first})
	res := parser.ParseFile(fs, lx, builder, parser.Options{Reporter: &first})
	if res.Err != nil {
		return nil, diag.Rewrite(res.Err, fs)
	}

	doc, err := resolve.Resolve(builder, res.File, u)
	if err != nil {
		return nil, diag.Rewrite(err, fs)
	}
	return doc, nil
}
