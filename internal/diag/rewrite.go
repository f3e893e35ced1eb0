package diag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"waldo/internal/source"
)

// Rewrite attaches the display path, position and a caret snippet to the
// first *Error found in err's chain. It runs at most once per error and
// never changes the error kind. Errors of other types pass through.
func Rewrite(err error, fs *source.FileSet) error {
	var e *Error
	if err == nil || fs == nil || !errors.As(err, &e) || e.Rewritten() {
		return err
	}
	file, ok := fs.Lookup(e.Span.File)
	if !ok {
		return err
	}
	e.Path = file.FormatPath("relative", fs.BaseDir())
	e.Pos = file.Position(e.Span.Start)
	e.Snippet = Snippet(file, e.Span)
	for _, n := range e.Notes {
		nf, ok := fs.Lookup(n.Span.File)
		if !ok {
			continue
		}
		pos := nf.Position(n.Span.Start)
		e.Snippet += fmt.Sprintf("\nnote: %s at %s:%d:%d", n.Msg, nf.FormatPath("relative", fs.BaseDir()), pos.Line, pos.Col)
	}
	return err
}

// Snippet renders the line holding span.Start with a caret underline.
// Spans crossing a line break are underlined to the end of the first line.
func Snippet(file *source.File, span source.Span) string {
	pos := file.Position(span.Start)
	line := file.GetLine(pos.Line)
	lineNo := strconv.FormatUint(uint64(pos.Line), 10)
	gutter := strings.Repeat(" ", len(lineNo))

	col := min(int(pos.Col-1), len(line))
	end := col + int(span.Len())
	if end > len(line) {
		end = len(line)
	}
	carets := max(1, runewidth.StringWidth(line[col:end]))

	var b strings.Builder
	fmt.Fprintf(&b, "%s |\n", gutter)
	fmt.Fprintf(&b, "%s | %s\n", lineNo, line)
	fmt.Fprintf(&b, "%s | %s%s", gutter, padFor(line[:col]), strings.Repeat("^", carets))
	return b.String()
}

// padFor keeps tabs so the caret lines up with tab-indented source.
func padFor(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
