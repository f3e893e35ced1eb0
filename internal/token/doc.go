// Package token defines lexical token kinds and trivia for waldo documents.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - An escaped identifier (%let) keeps the '%' in Text and Span;
//     Token.Name() strips it.
//   - A qualified name (ns:pkg/elem@1.2.3) is a single QualifiedName token;
//     SplitQualified recovers its parts with their own spans.
//   - Comments and whitespace never appear in the main token stream,
//     only as leading Trivia.
package token
