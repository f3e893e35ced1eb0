package diagfmt

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"waldo/internal/diag"
	"waldo/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics one per line, sorted by location:
//
//	error SEM3001 doc.wld:1:21 unresolved interface name; could not find package pkg:name
//
// Notes become extra "note" lines after their diagnostic when includeNotes is set.
func FormatShort(diags []diag.Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	rendered := make([][]shortDiagnostic, 0, len(diags))
	for _, d := range diags {
		entry := []shortDiagnostic{shortEntry(severityLabel(d.Severity), d.Code.ID(), d.Primary, d.Message, fs)}
		if includeNotes {
			for _, n := range d.Notes {
				entry = append(entry, shortEntry("note", d.Code.ID(), n.Span, n.Msg, fs))
			}
		}
		rendered = append(rendered, entry)
	}

	slices.SortStableFunc(rendered, func(a, b []shortDiagnostic) int {
		di, dj := a[0], b[0]
		return cmp.Or(
			cmp.Compare(di.Path, dj.Path),
			cmp.Compare(di.Line, dj.Line),
			cmp.Compare(di.Column, dj.Column),
			cmp.Compare(di.Code, dj.Code),
			cmp.Compare(di.Message, dj.Message),
		)
	})

	lines := make([]string, 0, len(diags))
	for _, entry := range rendered {
		for _, d := range entry {
			lines = append(lines, fmt.Sprintf("%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message))
		}
	}
	return strings.Join(lines, "\n")
}

// Short пишет FormatShort(bag.Items()) и перевод строки.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	if out := FormatShort(bag.Items(), fs, includeNotes); out != "" {
		fmt.Fprintln(w, out)
	}
}

func shortEntry(sev, code string, sp source.Span, msg string, fs *source.FileSet) shortDiagnostic {
	out := shortDiagnostic{Severity: sev, Code: code, Message: msg}
	if f, ok := fs.Lookup(sp.File); ok {
		pos := f.Position(sp.Start)
		out.Path = f.FormatPath("auto", fs.BaseDir())
		out.Line, out.Column = pos.Line, pos.Col
	}
	return out
}

func severityLabel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}
