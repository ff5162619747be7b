// Package parser locates the import and export declarations in JavaScript
// source text and decodes them into an intermediate.Module. Everything that
// is not a module declaration is left unparsed.
package parser

import (
	"slices"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/intermediate"
	tok "github.com/shibukawa/esmt/tokenizer"
)

// Parse scans src and returns the structural model of its module declarations.
//
// Lexical errors and brackets that never balance are reported as
// *esmt.ParseError. Declarations of an unrecognized shape are reported as
// *esmt.UnsupportedSyntaxError.
func Parse(src string) (*intermediate.Module, error) {
	all, err := tok.New(src).AllTokens()
	if err != nil {
		return nil, err
	}

	s := newScanner(src, all)

	if err := s.run(); err != nil {
		return nil, err
	}

	return s.module, nil
}

// scanner walks the significant tokens of one source file.
type scanner struct {
	src    string
	tokens []tok.Token // significant tokens, terminated by EOF
	nl     []bool      // nl[i] is true when a line break precedes tokens[i]

	stack    []tok.Token // open brackets of ordinary code
	module   *intermediate.Module
	exported map[string]bool
}

func newScanner(src string, all []tok.Token) *scanner {
	s := &scanner{
		src:      src,
		tokens:   make([]tok.Token, 0, len(all)),
		nl:       make([]bool, 0, len(all)),
		module:   &intermediate.Module{},
		exported: make(map[string]bool),
	}

	identifiers := make(map[string]bool)
	newline := false

	for _, t := range all {
		if t.IsTrivia() {
			newline = newline || t.HasLineTerminator()
			continue
		}

		switch t.Type {
		case tok.IDENTIFIER:
			identifiers[t.Value] = true
		case tok.TEMPLATE:
			for _, name := range t.Names {
				identifiers[name] = true
			}
		}

		s.tokens = append(s.tokens, t)
		s.nl = append(s.nl, newline)
		newline = false
	}

	for name := range identifiers {
		s.module.Identifiers = append(s.module.Identifiers, name)
	}

	slices.Sort(s.module.Identifiers)

	return s
}

func (s *scanner) run() error {
	i := s.prologue()

	for s.tokens[i].Type != tok.EOF {
		t := s.tokens[i]

		if t.Type == tok.KEYWORD && (t.Value == "import" || t.Value == "export") {
			next, handled, err := s.declaration(i)
			if err != nil {
				return err
			}

			if handled {
				i = next
				continue
			}
		}

		if err := s.track(t); err != nil {
			return err
		}

		i++
	}

	if len(s.stack) > 0 {
		return unbalanced(s.stack[len(s.stack)-1])
	}

	return nil
}

// prologue collects the leading string-literal statements and returns the
// index of the first token after them.
func (s *scanner) prologue() int {
	i := 0

	for s.tokens[i].Type == tok.STRING {
		t := s.tokens[i]
		next := s.tokens[i+1]

		var end int

		switch {
		case next.Is(";"):
			end = next.End()
			i += 2
		case next.Type == tok.EOF || (s.nl[i+1] && !continuesExpression(next)):
			end = t.End()
			i++
		default:
			return i
		}

		s.module.Directives = append(s.module.Directives, intermediate.Directive{
			Text: t.Value,
			Span: intermediate.Span{Start: t.Position.Offset, End: end},
		})
	}

	return i
}

// track keeps the bracket depth of ordinary code.
func (s *scanner) track(t tok.Token) error {
	var err error

	s.stack, err = push(s.stack, t)

	return err
}

// declaration decides whether the import/export keyword at i starts a module
// declaration. When it does, the declaration is recorded and the index of the
// first token after its removed span is returned.
func (s *scanner) declaration(i int) (int, bool, error) {
	kw := s.tokens[i]
	next := s.tokens[i+1]

	if i > 0 {
		if prev := s.tokens[i-1]; prev.Is(".") || prev.Is("?.") || prev.Is("#") {
			return i, false, nil
		}
	}

	if kw.Value == "import" && (next.Is("(") || next.Is(".")) {
		return i, false, nil
	}

	if next.Type == tok.PUNCTUATOR {
		switch next.Value {
		case ":", "(", ",", ")", "]", "}", "=":
			return i, false, nil
		}
	}

	if len(s.stack) > 0 {
		return 0, false, s.unsupported(i, i, kw.Value+" declarations are only allowed at module top level")
	}

	if !s.atBoundary(i) {
		return 0, false, s.unsupported(i, i, kw.Value+" must start a statement")
	}

	if kw.Value == "import" {
		next, err := s.importDeclaration(i)
		return next, true, err
	}

	next2, err := s.exportDeclaration(i)

	return next2, true, err
}

func (s *scanner) atBoundary(i int) bool {
	if i == 0 || s.nl[i] {
		return true
	}

	prev := s.tokens[i-1]

	return prev.Is(";") || prev.Is("}")
}

func (s *scanner) span(from, to int) intermediate.Span {
	return intermediate.Span{Start: s.tokens[from].Position.Offset, End: s.tokens[to].End()}
}

func (s *scanner) position(i int) intermediate.Position {
	p := s.tokens[i].Position
	return intermediate.Position{Line: p.Line, Column: p.Column}
}

// text returns the source text of tokens[from..to], or "" when the range is empty.
func (s *scanner) text(from, to int) string {
	if to < from {
		return ""
	}

	return s.src[s.tokens[from].Position.Offset:s.tokens[to].End()]
}

func (s *scanner) unsupported(from, to int, reason string) error {
	p := s.tokens[from].Position

	return &esmt.UnsupportedSyntaxError{
		Line:   p.Line,
		Column: p.Column,
		Text:   s.text(from, to),
		Reason: reason,
	}
}

// export registers an exported name, rejecting duplicates.
func (s *scanner) export(name string, at int) error {
	if s.exported[name] {
		p := s.tokens[at].Position

		return &esmt.UnsupportedSyntaxError{
			Line:   p.Line,
			Column: p.Column,
			Text:   name,
			Reason: "duplicate export of " + name,
			Err:    esmt.ErrDuplicateExport,
		}
	}

	s.exported[name] = true

	return nil
}

func push(stack []tok.Token, t tok.Token) ([]tok.Token, error) {
	if t.Type != tok.PUNCTUATOR {
		return stack, nil
	}

	switch t.Value {
	case "{", "(", "[":
		return append(stack, t), nil
	case "}", ")", "]":
		if len(stack) == 0 {
			return stack, &esmt.ParseError{Line: t.Position.Line, Column: t.Position.Column, Err: esmt.ErrUnexpectedCloser}
		}

		open := stack[len(stack)-1]
		if closer(open.Value) != t.Value {
			return stack, unbalanced(open)
		}

		return stack[:len(stack)-1], nil
	}

	return stack, nil
}

func closer(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	default:
		return "}"
	}
}

func unbalanced(open tok.Token) error {
	return &esmt.ParseError{Line: open.Position.Line, Column: open.Position.Column, Err: esmt.ErrUnbalancedBrackets}
}

// endsExpression reports whether t can be the last token of an expression.
func endsExpression(t tok.Token) bool {
	switch t.Type {
	case tok.IDENTIFIER, tok.NUMBER, tok.STRING, tok.TEMPLATE, tok.REGEXP:
		return true
	case tok.KEYWORD:
		return tok.IsValueKeyword(t.Value)
	case tok.PUNCTUATOR:
		switch t.Value {
		case ")", "]", "}", "++", "--":
			return true
		}
	}

	return false
}

// continuesExpression reports whether t, appearing after a line break, keeps
// the previous statement going instead of starting a new one.
func continuesExpression(t tok.Token) bool {
	switch t.Type {
	case tok.TEMPLATE:
		return true
	case tok.KEYWORD:
		return t.Value == "instanceof" || t.Value == "in"
	case tok.PUNCTUATOR:
		switch t.Value {
		case "{", "!", "~", "++", "--":
			return false
		}

		return true
	}

	return false
}
