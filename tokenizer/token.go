package tokenizer

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	LINE_COMMENT  // // line comment
	BLOCK_COMMENT // /* block comment */

	// Literals
	STRING   // 'text', "text"
	TEMPLATE // `text ${expr}`
	REGEXP   // /pattern/flags
	NUMBER   // numeric literals, including hex, bigint and separators

	// Words
	IDENTIFIER // identifiers and contextual keywords (from, as, let, async, ...)
	KEYWORD    // reserved words (import, export, default, function, ...)

	// Others
	PUNCTUATOR // operators and delimiters
)

// String returns the string representation of TokenType
func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case WHITESPACE:
		return "WHITESPACE"
	case LINE_COMMENT:
		return "LINE_COMMENT"
	case BLOCK_COMMENT:
		return "BLOCK_COMMENT"
	case STRING:
		return "STRING"
	case TEMPLATE:
		return "TEMPLATE"
	case REGEXP:
		return "REGEXP"
	case NUMBER:
		return "NUMBER"
	case IDENTIFIER:
		return "IDENTIFIER"
	case KEYWORD:
		return "KEYWORD"
	case PUNCTUATOR:
		return "PUNCTUATOR"
	default:
		return "UNKNOWN"
	}
}

// Mode is the lexical state the tokenizer is in while reading a token.
type Mode int

const (
	ModeCode Mode = iota
	ModeLineComment
	ModeBlockComment
	ModeStringLiteral // quoted strings, template literals and regular expressions
)

func (m Mode) String() string {
	switch m {
	case ModeCode:
		return "code"
	case ModeLineComment:
		return "line comment"
	case ModeBlockComment:
		return "block comment"
	case ModeStringLiteral:
		return "string literal"
	default:
		return "unknown"
	}
}

// Position represents a position in the source code
type Position struct {
	Line   int // 1-based
	Column int // 1-based, counted in runes
	Offset int // byte offset
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string // raw source text
	Position Position
	Mode     Mode // lexical mode the token was read in

	// Names lists the identifiers inside the substitutions of a template literal
	Names []string
}

// End returns the byte offset just past the token.
func (t Token) End() int {
	return t.Position.Offset + len(t.Value)
}

// IsTrivia reports whether the token is whitespace or a comment.
func (t Token) IsTrivia() bool {
	return t.Type == WHITESPACE || t.Type == LINE_COMMENT || t.Type == BLOCK_COMMENT
}

// HasLineTerminator reports whether the token text contains a line break.
func (t Token) HasLineTerminator() bool {
	for _, r := range t.Value {
		if isLineTerminator(r) {
			return true
		}
	}

	return false
}

// Is reports whether the token is a punctuator, keyword or identifier with the given text.
func (t Token) Is(value string) bool {
	return (t.Type == PUNCTUATOR || t.Type == KEYWORD || t.Type == IDENTIFIER) && t.Value == value
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}
