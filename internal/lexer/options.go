package lexer

import (
	"waldo/internal/diag"
	"waldo/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки только запоминаем (и продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.first == nil {
		d := diag.NewError(code, sp, msg)
		lx.first = &d
	}
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

// FirstError returns the first lexical error seen so far.
func (lx *Lexer) FirstError() (diag.Diagnostic, bool) {
	if lx.first == nil {
		return diag.Diagnostic{}, false
	}
	return *lx.first, true
}
