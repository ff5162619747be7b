package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/esmt/intermediate"
	tok "github.com/shibukawa/esmt/tokenizer"
)

// importDeclaration records the import statement starting at i.
func (s *scanner) importDeclaration(i int) (int, error) {
	end, err := s.specifierEnd(i)
	if err != nil {
		return 0, err
	}

	match, ok := s.classify(importStatement, i, end)
	if !ok {
		return 0, s.unsupported(i, end, "unrecognized import form")
	}

	decl, err := s.buildImport(i, end, match)
	if err != nil {
		return 0, err
	}

	s.module.Imports = append(s.module.Imports, decl)

	return end + 1, nil
}

// exportDeclaration records the export statement starting at i.
func (s *scanner) exportDeclaration(i int) (int, error) {
	next := s.tokens[i+1]

	switch {
	case next.Is("{"):
		return s.exportList(i)
	case next.Is("*"):
		return s.exportAll(i)
	case next.Is("default"):
		return s.exportDefault(i)
	case next.Is("var"), next.Is("const"), next.Type == tok.IDENTIFIER && next.Value == "let":
		return s.exportVariables(i)
	case s.isFunctionOrClass(i + 1):
		return s.exportFunctionOrClass(i)
	}

	return 0, s.unsupported(i, i+1, "unrecognized export form")
}

func (s *scanner) exportList(i int) (int, error) {
	closeIdx, err := s.matching(i + 1)
	if err != nil {
		return 0, err
	}

	end := closeIdx

	switch n := s.tokens[closeIdx+1]; {
	case n.Type == tok.IDENTIFIER && n.Value == "from":
		if end, err = s.specifierEnd(closeIdx); err != nil {
			return 0, err
		}
	case n.Is(";"):
		end = closeIdx + 1
	case n.Type == tok.EOF || s.nl[closeIdx+1]:
	default:
		end = s.lineEnd(closeIdx)
	}

	return s.recordExport(exportListStatement, i, end)
}

func (s *scanner) exportAll(i int) (int, error) {
	end, err := s.specifierEnd(i)
	if err != nil {
		return 0, err
	}

	return s.recordExport(exportAllStatement, i, end)
}

func (s *scanner) recordExport(statement pc.Parser[tok.Token], i, end int) (int, error) {
	match, ok := s.classify(statement, i, end)
	if !ok {
		return 0, s.unsupported(i, end, "unrecognized export form")
	}

	decl, err := s.buildExport(i, end, match)
	if err != nil {
		return 0, err
	}

	for _, b := range decl.Bindings {
		if err := s.export(b.Exported, i); err != nil {
			return 0, err
		}
	}

	s.module.Exports = append(s.module.Exports, decl)

	return end + 1, nil
}

// exportVariables records "export var|let|const". Only the export keyword is
// removed; the declaration stays in the body.
func (s *scanner) exportVariables(i int) (int, error) {
	exprEnd, _, err := s.expressionEnd(i + 2)
	if err != nil {
		return 0, err
	}

	if exprEnd < i+2 {
		return 0, s.unsupported(i, i+1, "missing variable name")
	}

	decl := intermediate.ExportDeclaration{
		Declaration: true,
		Span:        intermediate.Span{Start: s.tokens[i].Position.Offset, End: s.tokens[i+1].Position.Offset},
		Position:    s.position(i),
	}

	var stack []tok.Token

	start := i + 2

	for j := i + 2; j <= exprEnd+1; j++ {
		if j <= exprEnd {
			t := s.tokens[j]
			if len(stack) > 0 || !t.Is(",") {
				stack, err = push(stack, t)
				if err != nil {
					return 0, err
				}

				continue
			}
		}

		// declarator tokens[start..j-1]
		name := s.tokens[start]
		if j == start || name.Type != tok.IDENTIFIER || (j > start+1 && !s.tokens[start+1].Is("=")) {
			return 0, s.unsupported(i, exprEnd, "only simple variable declarations can be exported")
		}

		if err := s.export(name.Value, start); err != nil {
			return 0, err
		}

		decl.Bindings = append(decl.Bindings, intermediate.ExportBinding{Local: name.Value, Exported: name.Value})
		start = j + 1
	}

	s.module.Exports = append(s.module.Exports, decl)

	return i + 1, nil
}

// exportFunctionOrClass records "export function|class name". Only the export
// keyword is removed.
func (s *scanner) exportFunctionOrClass(i int) (int, error) {
	name := s.declarationName(i + 1)
	if name < 0 {
		return 0, s.unsupported(i, i+1, "exported declarations need a name")
	}

	if err := s.export(s.tokens[name].Value, name); err != nil {
		return 0, err
	}

	s.module.Exports = append(s.module.Exports, intermediate.ExportDeclaration{
		Bindings:    []intermediate.ExportBinding{{Local: s.tokens[name].Value, Exported: s.tokens[name].Value}},
		Declaration: true,
		Span:        intermediate.Span{Start: s.tokens[i].Position.Offset, End: s.tokens[i+1].Position.Offset},
		Position:    s.position(i),
	})

	return i + 1, nil
}

// exportDefault records "export default". A named function or class keeps its
// declaration in the body; anything else is an expression.
func (s *scanner) exportDefault(i int) (int, error) {
	if err := s.export("default", i+1); err != nil {
		return 0, err
	}

	j := i + 2
	t := s.tokens[j]

	// import(...) and import.meta are expressions
	dynamicImport := t.Is("import") && (s.tokens[j+1].Is("(") || s.tokens[j+1].Is("."))

	if t.Is("var") || t.Is("const") || (t.Is("import") && !dynamicImport) || t.Is("export") || t.Is("default") {
		return 0, s.unsupported(i, j, "unrecognized export default form")
	}

	if s.isFunctionOrClass(j) {
		if name := s.declarationName(j); name >= 0 {
			s.module.Default = &intermediate.ExportDefault{
				Name:     s.tokens[name].Value,
				Span:     intermediate.Span{Start: s.tokens[i].Position.Offset, End: t.Position.Offset},
				Position: s.position(i),
			}

			return j, nil
		}

		closeIdx, err := s.bodyEnd(j)
		if err != nil {
			return 0, err
		}

		end := closeIdx
		if s.tokens[closeIdx+1].Is(";") {
			end++
		}

		s.module.Default = &intermediate.ExportDefault{
			Expression: s.text(j, closeIdx),
			Span:       s.span(i, end),
			Position:   s.position(i),
		}

		return end + 1, nil
	}

	exprEnd, end, err := s.expressionEnd(j)
	if err != nil {
		return 0, err
	}

	if exprEnd < j {
		return 0, s.unsupported(i, i+1, "export default needs a value")
	}

	s.module.Default = &intermediate.ExportDefault{
		Expression: s.text(j, exprEnd),
		Span:       s.span(i, end),
		Position:   s.position(i),
	}

	return end + 1, nil
}

func (s *scanner) isFunctionOrClass(j int) bool {
	t := s.tokens[j]
	if t.Is("function") || t.Is("class") {
		return true
	}

	return t.Type == tok.IDENTIFIER && t.Value == "async" && s.tokens[j+1].Is("function") && !s.nl[j+1]
}

// declarationName returns the index of the name of the function or class
// declaration starting at j, or -1 when it is anonymous.
func (s *scanner) declarationName(j int) int {
	if s.tokens[j].Is("async") {
		j++
	}

	if s.tokens[j].Is("function") {
		j++

		if s.tokens[j].Is("*") {
			j++
		}
	} else {
		j++
	}

	if s.tokens[j].Type == tok.IDENTIFIER {
		return j
	}

	return -1
}

// specifierEnd returns the index of the last token of an import or export-all
// statement: the module specifier plus an optional semicolon. Trailing tokens
// on the same line are included so that classification rejects them.
func (s *scanner) specifierEnd(start int) (int, error) {
	var (
		stack []tok.Token
		err   error
	)

	after := false

	for j := start + 1; ; j++ {
		t := s.tokens[j]
		if t.Type == tok.EOF {
			if len(stack) > 0 {
				return 0, unbalanced(stack[len(stack)-1])
			}

			return j - 1, nil
		}

		if len(stack) == 0 {
			if t.Is(";") {
				return j, nil
			}

			if after && s.nl[j] {
				return j - 1, nil
			}
		}

		if stack, err = push(stack, t); err != nil {
			return 0, err
		}

		if !after && len(stack) == 0 && t.Type == tok.STRING && (j == start+1 || s.tokens[j-1].Is("from")) {
			after = true

			switch n := s.tokens[j+1]; {
			case n.Is(";"):
				return j + 1, nil
			case n.Type == tok.EOF || s.nl[j+1]:
				return j, nil
			}
		}
	}
}

// lineEnd extends a statement from j to the next semicolon or line break.
func (s *scanner) lineEnd(j int) int {
	for k := j + 1; ; k++ {
		t := s.tokens[k]
		if t.Type == tok.EOF || s.nl[k] {
			return k - 1
		}

		if t.Is(";") {
			return k
		}
	}
}

// matching returns the index of the bracket closing the one at open.
func (s *scanner) matching(open int) (int, error) {
	var (
		stack []tok.Token
		err   error
	)

	for j := open; ; j++ {
		t := s.tokens[j]
		if t.Type == tok.EOF {
			return 0, unbalanced(stack[len(stack)-1])
		}

		if stack, err = push(stack, t); err != nil {
			return 0, err
		}

		if len(stack) == 0 {
			return j, nil
		}
	}
}

// bodyEnd returns the index of the closing brace of the function or class
// body that follows j.
func (s *scanner) bodyEnd(j int) (int, error) {
	var (
		stack []tok.Token
		err   error
	)

	for k := j + 1; ; k++ {
		t := s.tokens[k]
		if t.Type == tok.EOF {
			if len(stack) > 0 {
				return 0, unbalanced(stack[len(stack)-1])
			}

			return 0, s.unsupported(j, k-1, "missing declaration body")
		}

		if len(stack) == 0 && t.Is("{") {
			return s.matching(k)
		}

		if stack, err = push(stack, t); err != nil {
			return 0, err
		}
	}
}

// expressionEnd finds where the expression starting at start ends, applying
// automatic semicolon insertion at line breaks. It returns the index of the
// last expression token and the index of the last statement token, which
// includes a terminating semicolon.
func (s *scanner) expressionEnd(start int) (int, int, error) {
	var (
		stack []tok.Token
		err   error
	)

	for j := start; ; j++ {
		t := s.tokens[j]
		if t.Type == tok.EOF {
			if len(stack) > 0 {
				return 0, 0, unbalanced(stack[len(stack)-1])
			}

			return j - 1, j - 1, nil
		}

		if len(stack) == 0 && t.Is(";") {
			return j - 1, j, nil
		}

		if stack, err = push(stack, t); err != nil {
			return 0, 0, err
		}

		if len(stack) == 0 {
			n := s.tokens[j+1]
			if n.Type == tok.EOF {
				return j, j, nil
			}

			if s.nl[j+1] && endsExpression(t) && !continuesExpression(n) {
				return j, j, nil
			}
		}
	}
}
