package token

var keywords = map[string]Kind{
	"import":      KwImport,
	"component":   KwComponent,
	"interface":   KwInterface,
	"let":         KwLet,
	"instantiate": KwInstantiate,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
