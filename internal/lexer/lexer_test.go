package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"waldo/internal/diag"
	"waldo/internal/lexer"
	"waldo/internal/source"
	"waldo/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wld", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: reporter}), reporter
}

// collectAllTokens собирает все токены до EOF
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) []token.Token {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
	return tokens
}

func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != expectedKind {
		t.Errorf("%q: expected kind %v, got %v", input, expectedKind, tok.Kind)
	}
	if tok.Text != expectedText {
		t.Errorf("%q: expected text %q, got %q", input, expectedText, tok.Text)
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Errorf("%q: expected single token, then got %v(%q)", input, next.Kind, next.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ====== идентификаторы и ключевые слова ======

func TestIdentifiers_Kebab(t *testing.T) {
	for _, in := range []string{"foo", "_bar", "x123", "my-component", "wasi-http-1", "UPPER-case", "a_b-c"} {
		t.Run(in, func(t *testing.T) {
			expectSingleToken(t, in, token.Ident, in)
		})
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"import", token.KwImport},
		{"component", token.KwComponent},
		{"interface", token.KwInterface},
		{"let", token.KwLet},
		{"instantiate", token.KwInstantiate},
		{"Let", token.Ident},
		{"imports", token.Ident},
		{"let-me", token.Ident},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestKeywordEscape(t *testing.T) {
	lx, rep := makeTestLexer("%import %let")
	toks := collectAllTokens(lx)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %v", rep.ErrorMessages())
	}
	for i, want := range []string{"import", "let"} {
		if toks[i].Kind != token.Ident || toks[i].Name() != want {
			t.Errorf("token %d = %v(%q), want escaped ident %q", i, toks[i].Kind, toks[i].Text, want)
		}
	}
	if toks[0].Span.Start != 0 || toks[0].Span.End != 7 {
		t.Errorf("escape must be part of the span, got %v", toks[0].Span)
	}
}

func TestIdentifier_Errors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
		start uint32
		end   uint32
	}{
		{"abc-", diag.LexBadIdent, 0, 4},
		{"abc--d", diag.LexBadIdent, 0, 4},
		{"% x", diag.LexBadIdent, 0, 1},
		{"#", diag.LexUnknownChar, 0, 1},
		{"λ", diag.LexUnknownChar, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, rep := makeTestLexer(tt.input)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Fatalf("expected Invalid, got %v", tok.Kind)
			}
			if len(rep.diagnostics) == 0 {
				t.Fatal("expected a diagnostic")
			}
			d := rep.diagnostics[0]
			if d.Code != tt.code || d.Primary.Start != tt.start || d.Primary.End != tt.end {
				t.Fatalf("got %s at %v, want %s at %d-%d", d.Code.ID(), d.Primary, tt.code.ID(), tt.start, tt.end)
			}
		})
	}
}

// ====== квалифицированные имена ======

func TestQualifiedNames(t *testing.T) {
	for _, in := range []string{
		"wasi:http/types",
		"wasi:io/streams@0.2.0",
		"my-org:my-pkg/the-iface@1.0.0-rc.1+build.5",
	} {
		t.Run(in, func(t *testing.T) {
			expectSingleToken(t, in, token.QualifiedName, in)
		})
	}
}

func TestQualifiedName_FallsBackToIdentColon(t *testing.T) {
	// без "pkg/" после ':' - обычный Ident и ':'
	tests := []struct {
		input string
		kinds []token.Kind
	}{
		{"a: component", []token.Kind{token.Ident, token.Colon, token.KwComponent}},
		{"a:component;", []token.Kind{token.Ident, token.Colon, token.KwComponent, token.Semicolon}},
		{"x:y.z", []token.Kind{token.Ident, token.Colon, token.Ident, token.Dot, token.Ident}},
		{"%ns:pkg/x", nil}, // экранированное имя не начинает qualified name
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if tt.kinds == nil {
				lx, _ := makeTestLexer(tt.input)
				if tok := lx.Next(); tok.Kind != token.Ident || tok.Text != "%ns" {
					t.Fatalf("got %v(%q)", tok.Kind, tok.Text)
				}
				return
			}
			expectTokens(t, tt.input, tt.kinds)
		})
	}
}

func TestQualifiedName_Errors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
		start uint32
		end   uint32
	}{
		{"ns:pkg/", diag.LexBadQualifiedName, 0, 7},
		{"ns:pkg/)", diag.LexBadQualifiedName, 0, 7},
		{"ns:pkg/el-", diag.LexBadIdent, 7, 10},
		{"ns:pkg/el@", diag.LexBadVersion, 9, 10},
		{"ns:pkg/el@1.0", diag.LexBadVersion, 9, 13},
		{"ns:pkg/el@v1.2.3", diag.LexBadVersion, 9, 16},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, rep := makeTestLexer(tt.input)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Fatalf("expected Invalid, got %v(%q)", tok.Kind, tok.Text)
			}
			if len(rep.diagnostics) != 1 {
				t.Fatalf("expected one diagnostic, got %v", rep.ErrorMessages())
			}
			d := rep.diagnostics[0]
			if d.Code != tt.code || d.Primary.Start != tt.start || d.Primary.End != tt.end {
				t.Fatalf("got %s at %v, want %s at %d-%d", d.Code.ID(), d.Primary, tt.code.ID(), tt.start, tt.end)
			}
		})
	}
}

// ====== пунктуация и trivia ======

func TestPunctuation(t *testing.T) {
	expectTokens(t, ": ; , ( ) = .", []token.Kind{
		token.Colon, token.Semicolon, token.Comma, token.LParen, token.RParen, token.Assign, token.Dot,
	})
}

func TestTrivia_Kinds(t *testing.T) {
	input := "  \t\r\n\n// line\n/* block /* nested */ */let"
	lx, rep := makeTestLexer(input)
	tok := lx.Next()
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %v", rep.ErrorMessages())
	}
	if tok.Kind != token.KwLet {
		t.Fatalf("expected let, got %v", tok.Kind)
	}
	want := []token.TriviaKind{
		token.TriviaSpace, token.TriviaNewline, token.TriviaLineComment,
		token.TriviaNewline, token.TriviaBlockComment,
	}
	if len(tok.Leading) != len(want) {
		t.Fatalf("expected %d trivia, got %d: %+v", len(want), len(tok.Leading), tok.Leading)
	}
	for i, k := range want {
		if tok.Leading[i].Kind != k {
			t.Errorf("trivia %d = %v, want %v", i, tok.Leading[i].Kind, k)
		}
	}
	if tok.Leading[4].Text != "/* block /* nested */ */" {
		t.Errorf("nested block comment text = %q", tok.Leading[4].Text)
	}
}

func TestTrivia_UnterminatedBlockComment(t *testing.T) {
	lx, rep := makeTestLexer("let /* open /* nested */")
	toks := collectAllTokens(lx)
	if len(toks) != 2 || toks[1].Kind != token.EOF {
		t.Fatalf("expected let, EOF; got %s", tokensToString(toks))
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected unterminated comment, got %v", rep.ErrorMessages())
	}
	if sp := rep.diagnostics[0].Primary; sp.Start != 4 || sp.End != 24 {
		t.Fatalf("unexpected span %v", sp)
	}
}

func TestLoneSlashIsUnknown(t *testing.T) {
	lx, rep := makeTestLexer("a / b")
	toks := collectAllTokens(lx)
	if toks[1].Kind != token.Invalid || toks[2].Kind != token.Ident {
		t.Fatalf("got %s", tokensToString(toks))
	}
	if !rep.HasErrors() {
		t.Fatal("expected unknown character diagnostic")
	}
}

// ====== спаны ======

func TestSpanFidelity(t *testing.T) {
	input := "import a: component;\n// c\nimport i: interface(wasi:io/streams@0.2.0);\nlet x = instantiate(a, arg: i.item,);"
	lx, rep := makeTestLexer(input)
	toks := collectAllTokens(lx)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %v", rep.ErrorMessages())
	}
	var prevEnd uint32
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			if int(tok.Span.Start) != len(input) || tok.Span.Len() != 0 {
				t.Errorf("EOF span %v", tok.Span)
			}
			continue
		}
		if got := input[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("span %v slices to %q, token text %q", tok.Span, got, tok.Text)
		}
		if tok.Span.Start < prevEnd {
			t.Errorf("token %q overlaps previous", tok.Text)
		}
		for _, tv := range tok.Leading {
			if input[tv.Span.Start:tv.Span.End] != tv.Text || tv.Span.End > tok.Span.Start {
				t.Errorf("trivia %q misplaced at %v", tv.Text, tv.Span)
			}
		}
		prevEnd = tok.Span.End
	}
}

func TestLexer_PeekBehavior(t *testing.T) {
	lx, _ := makeTestLexer("let x")
	p1 := lx.Peek()
	p2 := lx.Peek()
	if p1.Kind != token.KwLet || p2.Kind != token.KwLet {
		t.Fatalf("Peek must be stable, got %v then %v", p1.Kind, p2.Kind)
	}
	if n := lx.Next(); n.Kind != token.KwLet {
		t.Fatalf("Next after Peek = %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.Ident {
		t.Fatalf("expected ident, got %v", n.Kind)
	}
	for range 3 {
		if n := lx.Next(); n.Kind != token.EOF {
			t.Fatalf("expected sticky EOF, got %v", n.Kind)
		}
	}
}

func TestLexer_EmptyAndWhitespace(t *testing.T) {
	for _, in := range []string{"", "   \n\t// only comment"} {
		lx, rep := makeTestLexer(in)
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Errorf("%q: expected EOF, got %v", in, tok.Kind)
		}
		if rep.HasErrors() {
			t.Errorf("%q: unexpected errors", in)
		}
	}
}

func TestNewAt_StartsMidFile(t *testing.T) {
	fs := source.NewFileSet()
	src := "import a: component;\nlet x = instantiate(a);"
	file := fs.Get(fs.AddVirtual("at.wld", []byte(src)))
	off := uint32(strings.Index(src, "let"))

	lx := lexer.NewAt(file, off, lexer.Options{})
	tok := lx.Next()
	if tok.Kind != token.KwLet || tok.Span.Start != off {
		t.Fatalf("expected let at %d, got %v at %v", off, tok.Kind, tok.Span)
	}

	// restartable: two independent runs give the same stream
	a := lexer.Tokenize(file, lexer.Options{})
	b := lexer.Tokenize(file, lexer.Options{})
	if tokensToString(a) != tokensToString(b) {
		t.Fatal("tokenize must be deterministic")
	}
}

func TestFirstErrorWithoutReporter(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("e.wld", []byte("let # x ns:p/q@1")))
	lx := lexer.New(file, lexer.Options{})
	if _, ok := lx.FirstError(); ok {
		t.Fatal("no error before lexing")
	}
	toks := collectAllTokens(lx)
	d, ok := lx.FirstError()
	if !ok || d.Code != diag.LexUnknownChar || d.Primary.Start != 4 {
		t.Fatalf("FirstError = %+v, %v (tokens %s)", d, ok, tokensToString(toks))
	}
}
