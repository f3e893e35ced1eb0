package lexer

import "strconv"

// ASCII only: WIT identifiers have no Unicode form.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// semver alphabet: digits, letters, '.', '-', '+'
func isVersionByte(b byte) bool {
	return isIdentContinueByte(b) || b == '.' || b == '-' || b == '+'
}

func quoteText(s string) string {
	return strconv.Quote(s)
}
