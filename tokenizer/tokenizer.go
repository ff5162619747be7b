package tokenizer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shibukawa/esmt"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// Tokenizer splits JavaScript source into tokens without parsing it
type Tokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
	SkipComments   bool
}

// New creates a new Tokenizer
func New(input string, options ...TokenizerOptions) *Tokenizer {
	opts := TokenizerOptions{}
	if len(options) > 0 {
		opts = options[0]
	}

	return &Tokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. The iterator stops after the first error.
func (t *Tokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		s := &scanner{
			input:  t.input,
			line:   1,
			column: 1,
		}

		for {
			token, err := s.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			// Filtering based on options
			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}

			if t.options.SkipComments && (token.Type == LINE_COMMENT || token.Type == BLOCK_COMMENT) {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice, ending with EOF
func (t *Tokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, len(t.input)/4+1)

	for token, err := range t.Tokens() {
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}

// Internal scanner implementation
type scanner struct {
	input  string
	offset int // byte offset of the current rune
	line   int
	column int
	mode   Mode

	prev    Token // last significant token, used to tell regexps from division
	hasPrev bool

	parens     []bool // open parentheses; true when the parenthesis starts an if/while/for/with head
	closesHead bool   // the last ")" closed a statement head
}

func (s *scanner) eof() bool {
	return s.offset >= len(s.input)
}

// peek returns the current rune, or -1 at end of input
func (s *scanner) peek() rune {
	if s.eof() {
		return -1
	}

	r, _ := utf8.DecodeRuneInString(s.input[s.offset:])

	return r
}

// peekByte looks n bytes ahead of the current rune
func (s *scanner) peekByte(n int) byte {
	if s.offset+n >= len(s.input) {
		return 0
	}

	return s.input[s.offset+n]
}

// advance consumes the current rune
func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, width := utf8.DecodeRuneInString(s.input[s.offset:])
	s.offset += width

	switch {
	case r == '\r' && s.peek() == '\n':
		s.column++
	case isLineTerminator(r):
		s.line++
		s.column = 1
	default:
		s.column++
	}
}

func (s *scanner) position() Position {
	return Position{Line: s.line, Column: s.column, Offset: s.offset}
}

func (s *scanner) fail(err error, at Position) error {
	return &esmt.ParseError{Line: at.Line, Column: at.Column, Err: err}
}

func (s *scanner) token(tokenType TokenType, start Position) Token {
	token := Token{
		Type:     tokenType,
		Value:    s.input[start.Offset:s.offset],
		Position: start,
		Mode:     s.mode,
	}

	if tokenType == PUNCTUATOR {
		s.trackParen(token.Value)
	}

	if !token.IsTrivia() {
		s.prev = token
		s.hasPrev = true
	}

	s.mode = ModeCode

	return token
}

func (s *scanner) trackParen(value string) {
	switch value {
	case "(":
		s.parens = append(s.parens, s.hasPrev && s.prev.Type == KEYWORD && headKeywords[s.prev.Value])
	case ")":
		s.closesHead = false

		if n := len(s.parens); n > 0 {
			s.closesHead = s.parens[n-1]
			s.parens = s.parens[:n-1]
		}
	}
}

// nextToken gets the next token
func (s *scanner) nextToken() (Token, error) {
	start := s.position()
	s.mode = ModeCode

	if s.eof() {
		return Token{Type: EOF, Position: start, Mode: ModeCode}, nil
	}

	r := s.peek()

	switch {
	case isWhitespace(r):
		return s.readWhitespace(start), nil
	case r == '/' && s.peekByte(1) == '/':
		return s.readLineComment(start), nil
	case r == '/' && s.peekByte(1) == '*':
		return s.readBlockComment(start)
	case r == '\'' || r == '"':
		return s.readString(start, r)
	case r == '`':
		return s.readTemplate(start)
	case r == '/' && s.regexpAllowed():
		return s.readRegExp(start)
	case isIdentifierStart(r):
		return s.readWord(start), nil
	case isDigit(r) || (r == '.' && isDigit(rune(s.peekByte(1)))):
		return s.readNumber(start), nil
	default:
		return s.readPunctuator(start), nil
	}
}

// regexpAllowed decides whether a slash starts a regular expression literal
func (s *scanner) regexpAllowed() bool {
	if !s.hasPrev {
		return true
	}

	switch s.prev.Type {
	case NUMBER, STRING, TEMPLATE, REGEXP, IDENTIFIER:
		return false
	case KEYWORD:
		return !valueKeywords[s.prev.Value]
	case PUNCTUATOR:
		switch s.prev.Value {
		case ")":
			return s.closesHead
		case "]", "++", "--":
			return false
		}
	}

	return true
}

// readWhitespace reads whitespace and line terminators
func (s *scanner) readWhitespace(start Position) Token {
	for !s.eof() && isWhitespace(s.peek()) {
		s.advance()
	}

	return s.token(WHITESPACE, start)
}

// readLineComment reads line comments up to, but not including, the line terminator
func (s *scanner) readLineComment(start Position) Token {
	s.mode = ModeLineComment

	for !s.eof() && !isLineTerminator(s.peek()) {
		s.advance()
	}

	return s.token(LINE_COMMENT, start)
}

// readBlockComment reads block comments
func (s *scanner) readBlockComment(start Position) (Token, error) {
	s.mode = ModeBlockComment

	// '/*'
	s.advance()
	s.advance()

	for {
		if s.eof() {
			return Token{}, s.fail(esmt.ErrUnterminatedComment, start)
		}

		if s.peek() == '*' && s.peekByte(1) == '/' {
			s.advance()
			s.advance()

			return s.token(BLOCK_COMMENT, start), nil
		}

		s.advance()
	}
}

// readString reads single or double quoted string literals
func (s *scanner) readString(start Position, quote rune) (Token, error) {
	s.mode = ModeStringLiteral
	s.advance() // opening quote

	for {
		if s.eof() {
			return Token{}, s.fail(esmt.ErrUnterminatedString, start)
		}

		r := s.peek()
		switch {
		case r == '\\':
			s.advance()

			if s.eof() {
				return Token{}, s.fail(esmt.ErrUnterminatedString, start)
			}

			// line continuation may be CRLF
			crlf := s.peek() == '\r' && s.peekByte(1) == '\n'

			s.advance()

			if crlf {
				s.advance()
			}
		case r == quote:
			s.advance()

			return s.token(STRING, start), nil
		case r == '\n' || r == '\r':
			return Token{}, s.fail(esmt.ErrUnterminatedString, start)
		default:
			s.advance()
		}
	}
}

// readTemplate reads template literals, including nested substitutions
func (s *scanner) readTemplate(start Position) (Token, error) {
	s.mode = ModeStringLiteral
	s.advance() // opening backtick

	var names []string

	for {
		if s.eof() {
			return Token{}, s.fail(esmt.ErrUnterminatedTemplate, start)
		}

		switch r := s.peek(); {
		case r == '\\':
			s.advance()
			s.advance()
		case r == '`':
			s.advance()

			token := s.token(TEMPLATE, start)
			token.Names = names

			return token, nil
		case r == '$' && s.peekByte(1) == '{':
			s.advance()
			s.advance()

			inner, err := s.skipSubstitution(start)
			if err != nil {
				return Token{}, err
			}

			names = append(names, inner...)

			s.mode = ModeStringLiteral
		default:
			s.advance()
		}
	}
}

// skipSubstitution consumes the code inside ${ ... } up to the matching brace
// and returns the identifiers it contains, including those of nested templates
func (s *scanner) skipSubstitution(templateStart Position) ([]string, error) {
	var names []string

	depth := 0

	for {
		token, err := s.nextToken()
		if err != nil {
			return nil, err
		}

		switch {
		case token.Type == EOF:
			return nil, s.fail(esmt.ErrUnterminatedTemplate, templateStart)
		case token.Type == IDENTIFIER:
			names = append(names, token.Value)
		case token.Type == TEMPLATE:
			names = append(names, token.Names...)
		case token.Type != PUNCTUATOR:
		case token.Value == "{":
			depth++
		case token.Value == "}":
			if depth == 0 {
				return names, nil
			}

			depth--
		}
	}
}

// readRegExp reads regular expression literals with their flags
func (s *scanner) readRegExp(start Position) (Token, error) {
	s.mode = ModeStringLiteral
	s.advance() // opening slash

	inClass := false

	for {
		if s.eof() || isLineTerminator(s.peek()) {
			return Token{}, s.fail(esmt.ErrUnterminatedRegExp, start)
		}

		switch s.peek() {
		case '\\':
			s.advance()

			if s.eof() || isLineTerminator(s.peek()) {
				return Token{}, s.fail(esmt.ErrUnterminatedRegExp, start)
			}
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				s.advance()

				for !s.eof() && isIdentifierPart(s.peek()) {
					s.advance()
				}

				return s.token(REGEXP, start), nil
			}
		}

		s.advance()
	}
}

// readWord reads identifiers and keywords
func (s *scanner) readWord(start Position) Token {
	for !s.eof() {
		r := s.peek()
		if r == '\\' && s.peekByte(1) == 'u' {
			// unicode escape inside an identifier
			s.advance()
			continue
		}

		if !isIdentifierPart(r) {
			break
		}

		s.advance()
	}

	if reservedWords[s.input[start.Offset:s.offset]] {
		return s.token(KEYWORD, start)
	}

	return s.token(IDENTIFIER, start)
}

// readNumber reads numeric literals
func (s *scanner) readNumber(start Position) Token {
	radix := s.peek() == '0' && strings.ContainsRune("xXoObB", rune(s.peekByte(1)))
	seenDot := false
	afterExponent := false

	for !s.eof() {
		r := s.peek()

		switch {
		case isDigit(r) || unicode.IsLetter(r) || r == '_':
			afterExponent = !radix && (r == 'e' || r == 'E')
		case r == '.' && !seenDot && !radix:
			seenDot = true
			afterExponent = false
		case (r == '+' || r == '-') && afterExponent:
			afterExponent = false
		default:
			return s.token(NUMBER, start)
		}

		s.advance()
	}

	return s.token(NUMBER, start)
}

// readPunctuator reads operators and delimiters using maximal munch
func (s *scanner) readPunctuator(start Position) Token {
	rest := s.input[s.offset:]

	for _, p := range punctuators {
		if !strings.HasPrefix(rest, p) {
			continue
		}

		// a?.5:1 is a conditional, not optional chaining
		if p == "?." && isDigit(rune(s.peekByte(2))) {
			continue
		}

		for range len(p) {
			s.advance()
		}

		return s.token(PUNCTUATOR, start)
	}

	s.advance()

	return s.token(PUNCTUATOR, start)
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

func isWhitespace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff' || isLineTerminator(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return r == '$' || r == '_' || r == '\\' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	if r < 0 {
		return false
	}

	return isIdentifierStart(r) || isDigit(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc) ||
		r == '\u200c' || r == '\u200d'
}

// IsIdentifierName reports whether name can be written as a bare identifier.
func IsIdentifierName(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		if r == '\\' {
			return false
		}

		if i == 0 && !isIdentifierStart(r) {
			return false
		}

		if !isIdentifierPart(r) {
			return false
		}
	}

	return true
}
