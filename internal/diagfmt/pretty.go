package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"waldo/internal/diag"
	"waldo/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Bold),
		path:   mk(color.FgWhite, color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		note:   mk(color.FgCyan),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f, ok := fs.Lookup(d.Primary.File)
		if !ok {
			fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
			continue
		}
		pos := f.Position(d.Primary.Start)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), pos.Line, pos.Col),
			pal.severity(d.Severity).Sprint(d.Severity),
			pal.code.Sprint(d.Code.ID()),
			d.Message,
		)
		writeContext(w, f, d.Primary, opts.Context, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf, ok := fs.Lookup(n.Span.File)
			if !ok {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			np := nf.Position(n.Span.Start)
			fmt.Fprintf(w, "  %s %s at %s:%d:%d\n", pal.note.Sprint("note:"), n.Msg, formatPath(nf, fs, opts.PathMode), np.Line, np.Col)
			writeContext(w, nf, n.Span, 0, pal)
		}
	}
}

// writeContext печатает строку со span и до ctx строк вокруг неё.
func writeContext(w io.Writer, f *source.File, sp source.Span, ctx int8, pal palette) {
	pos := f.Position(sp.Start)
	ctxLines := uint32(max(ctx, 0))
	first := uint32(1)
	if pos.Line > ctxLines {
		first = pos.Line - ctxLines
	}
	last := min(pos.Line+ctxLines, f.LineCount())
	width := len(strconv.FormatUint(uint64(last), 10))
	gutter := strings.Repeat(" ", width)

	fmt.Fprintf(w, "%s\n", pal.gutter.Sprintf("%s |", gutter))
	for ln := first; ln <= last; ln++ {
		line := f.GetLine(ln)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width, ln), line)
		if ln != pos.Line {
			continue
		}
		col := min(int(pos.Col-1), len(line))
		end := min(col+int(sp.Len()), len(line))
		carets := max(1, runewidth.StringWidth(line[col:end]))
		fmt.Fprintf(w, "%s %s%s\n",
			pal.gutter.Sprintf("%s |", gutter),
			strings.Repeat(" ", runewidth.StringWidth(line[:col])),
			pal.caret.Sprint("^"+strings.Repeat("~", carets-1)),
		)
	}
}
