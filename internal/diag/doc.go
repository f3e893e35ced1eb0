// Package diag defines the diagnostic model shared by the lexer, the parser
// and the resolver.
//
// Phases emit findings through a Reporter. BagReporter collects everything
// (used by the tokenize command, which keeps going after errors), while
// FirstReporter keeps only the first error, matching the fail-fast contract
// of the parser.
//
// Error is the value that leaves the pipeline. It carries a Code (and thus a
// Kind), a message and a Span, and nothing about files. Rewrite attaches the
// display path, line/column and a snippet once, at the public boundary.
//
// Codes are grouped by phase: LEX1xxx, SYN2xxx, SEM3xxx, FUT7xxx.
// Rendering lives in internal/diagfmt.
package diag
