package fuzztests

import (
	"testing"

	"waldo/internal/diag"
	"waldo/internal/lexer"
	"waldo/internal/source"
	"waldo/internal/token"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.wld", input))

		bag := diag.NewBag(64)
		tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

		// токены идут подряд, не выходят за файл и заканчиваются EOF
		var prevEnd uint32
		for i, tok := range tokens {
			if tok.Span.Start < prevEnd || tok.Span.End < tok.Span.Start || int(tok.Span.End) > len(input) {
				t.Fatalf("token %d (%v) has bad span %+v after %d", i, tok.Kind, tok.Span, prevEnd)
			}
			prevEnd = tok.Span.End
		}
		if last := tokens[len(tokens)-1]; last.Kind != token.EOF {
			t.Fatalf("last token is %v, want EOF", last.Kind)
		}
	})
}
