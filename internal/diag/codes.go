package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadIdent                 Code = 1003
	LexBadQualifiedName         Code = 1004
	LexBadVersion               Code = 1005

	// Парсерные
	SynInfo                 Code = 2000
	SynUnexpectedToken      Code = 2001
	SynExpectIdentifier     Code = 2002
	SynExpectSemicolon      Code = 2003
	SynExpectColon          Code = 2004
	SynExpectImportKind     Code = 2005
	SynExpectQualifiedName  Code = 2006
	SynExpectExpression     Code = 2007
	SynExpectInstantiation  Code = 2008
	SynUnclosedParen        Code = 2009
	SynPositionalAfterNamed Code = 2010

	// Семантические
	SemaInfo             Code = 3000
	SemaUnresolvedSymbol Code = 3001
	SemaDuplicateSymbol  Code = 3002

	// Зарезервированные возможности
	FutInfo                 Code = 7000
	FutTypedComponentImport Code = 7001
	FutPositionalArgument   Code = 7002
	FutNestedInstantiation  Code = 7003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadIdent:                 "Malformed identifier",
	LexBadQualifiedName:         "Malformed qualified name",
	LexBadVersion:               "Malformed version",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectColon:              "Expected ':'",
	SynExpectImportKind:         "Expected 'component' or 'interface'",
	SynExpectQualifiedName:      "Expected qualified name",
	SynExpectExpression:         "Expected expression",
	SynExpectInstantiation:      "Expected instantiation",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynPositionalAfterNamed:     "Positional argument after named argument",
	SemaInfo:                    "Semantic information",
	SemaUnresolvedSymbol:        "Unresolved name",
	SemaDuplicateSymbol:         "Duplicate name",
	FutInfo:                     "Reserved feature",
	FutTypedComponentImport:     "world-typed component imports are not supported yet",
	FutPositionalArgument:       "positional instantiation arguments are not supported yet",
	FutNestedInstantiation:      "nested instantiation arguments are not supported yet",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("FUT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Kind maps a code onto the error taxonomy.
func (c Code) Kind() ErrorKind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return KindLex
	case ic >= 2000 && ic < 3000:
		return KindParse
	case c == SemaDuplicateSymbol:
		return KindDuplicateName
	case ic >= 3000 && ic < 4000:
		return KindUnresolvedName
	case ic >= 7000 && ic < 8000:
		return KindUnsupportedFeature
	}
	return KindUnknown
}
