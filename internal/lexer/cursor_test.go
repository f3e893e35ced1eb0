package lexer

import (
	"testing"

	"waldo/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.wld", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte("a\nb") {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("Peek() = %q, want %q", got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatal("expected EOF with zero bytes")
	}
}

func TestPeek2(t *testing.T) {
	cursor := NewCursor(createFile("abc"))
	if b0, b1, ok := cursor.Peek2(); !ok || b0 != 'a' || b1 != 'b' {
		t.Errorf("Peek2 at start = (%q, %q, %v)", b0, b1, ok)
	}
	cursor.Bump()
	cursor.Bump()
	// остался один байт
	if b0, b1, ok := cursor.Peek2(); ok || b0 != 0 || b1 != 0 {
		t.Errorf("Peek2 at end = (%q, %q, %v), want failure", b0, b1, ok)
	}
}

func TestEatAndMarkReset(t *testing.T) {
	cursor := NewCursor(createFile("ab:c"))
	mark := cursor.Mark()
	if !cursor.Eat('a') || cursor.Eat('x') {
		t.Fatal("Eat must consume only matching bytes")
	}
	cursor.Bump()
	if sp := cursor.SpanFrom(mark); sp.Start != 0 || sp.End != 2 {
		t.Fatalf("SpanFrom = %v", sp)
	}
	cursor.Reset(mark)
	if cursor.Peek() != 'a' {
		t.Fatalf("Reset did not rewind, at %q", cursor.Peek())
	}
}

func TestNewCursorAtClamps(t *testing.T) {
	file := createFile("let x")
	if c := NewCursorAt(file, 4); c.Peek() != 'x' {
		t.Fatalf("expected to start at 'x', got %q", c.Peek())
	}
	if c := NewCursorAt(file, 99); !c.EOF() || c.Off != 5 {
		t.Fatalf("offset past end must clamp to EOF, got %d", c.Off)
	}
}
