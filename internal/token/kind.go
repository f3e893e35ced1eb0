package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident is a kebab-case identifier, possibly %-escaped.
	Ident
	// QualifiedName is a package path: namespace:package/element[@version].
	QualifiedName

	KwImport      // import
	KwComponent   // component
	KwInterface   // interface
	KwLet         // let
	KwInstantiate // instantiate

	Colon     // :
	Semicolon // ;
	Comma     // ,
	LParen    // (
	RParen    // )
	Assign    // =
	Dot       // .
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	QualifiedName: "QualifiedName",
	KwImport:      "KwImport",
	KwComponent:   "KwComponent",
	KwInterface:   "KwInterface",
	KwLet:         "KwLet",
	KwInstantiate: "KwInstantiate",
	Colon:         "Colon",
	Semicolon:     "Semicolon",
	Comma:         "Comma",
	LParen:        "LParen",
	RParen:        "RParen",
	Assign:        "Assign",
	Dot:           "Dot",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

var kindSpellings = map[Kind]string{
	EOF:           "end of file",
	Ident:         "identifier",
	QualifiedName: "qualified name",
	KwImport:      "'import'",
	KwComponent:   "'component'",
	KwInterface:   "'interface'",
	KwLet:         "'let'",
	KwInstantiate: "'instantiate'",
	Colon:         "':'",
	Semicolon:     "';'",
	Comma:         "','",
	LParen:        "'('",
	RParen:        "')'",
	Assign:        "'='",
	Dot:           "'.'",
}

// Describe returns the user-facing spelling used in "expected X" messages.
func (k Kind) Describe() string {
	if s, ok := kindSpellings[k]; ok {
		return s
	}
	return "invalid token"
}
