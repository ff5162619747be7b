package tokenizer

// reservedWords are the words that can never be binding identifiers.
// Contextual keywords (as, from, let, async, of, get, set, static) stay IDENTIFIER.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true, "continue": true,
	"debugger": true, "default": true, "delete": true, "do": true, "else": true, "enum": true,
	"export": true, "extends": true, "false": true, "finally": true, "for": true, "function": true,
	"if": true, "import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true, "with": true,
}

// valueKeywords end an expression, so a following slash is division.
var valueKeywords = map[string]bool{
	"this": true, "super": true, "null": true, "true": true, "false": true,
}

// headKeywords take a parenthesized head followed by a statement, so a slash
// after the closing parenthesis starts a regular expression.
var headKeywords = map[string]bool{
	"if": true, "while": true, "for": true, "with": true,
}

// IsReservedWord reports whether word is a reserved word.
func IsReservedWord(word string) bool {
	return reservedWords[word]
}

// punctuators sorted longest first for maximal munch
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
}

// IsValueKeyword reports whether word is a reserved word that is also a value
// (this, super, null, true, false).
func IsValueKeyword(word string) bool {
	return valueKeywords[word]
}
