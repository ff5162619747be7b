package parser

import (
	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/esmt/intermediate"
	cmn "github.com/shibukawa/esmt/parser/parsercommon"
	tok "github.com/shibukawa/esmt/tokenizer"
)

var (
	importKeyword = cmn.Word("import")
	exportKeyword = cmn.Word("export")
	fromKeyword   = cmn.Word("from")
	asKeyword     = cmn.Word("as")

	moduleSpecifier = cmn.Tag("source", cmn.String)
)

// import statement
var (
	// a, a as b, default as b
	importSpecifier = cmn.Pair("imported", "local",
		cmn.IdentifierName,
		pc.Optional(pc.Seq(asKeyword, cmn.Identifier)),
	)
	defaultImport   = cmn.Tag("default", cmn.Identifier)
	namespaceImport = cmn.TagLast("namespace", cmn.Star, asKeyword, cmn.Identifier)
	namedImports    = cmn.List("import specifiers", importSpecifier)

	importClause = pc.Or(
		pc.Seq(defaultImport, pc.Optional(pc.Seq(cmn.Comma, pc.Or(namespaceImport, namedImports)))),
		namespaceImport,
		namedImports,
	)

	importStatement = pc.Or(
		pc.Seq(importKeyword, importClause, fromKeyword, moduleSpecifier, cmn.Semicolon, cmn.EOS),
		pc.Seq(importKeyword, moduleSpecifier, cmn.Semicolon, cmn.EOS),
	)
)

// export list and export-all statements
var (
	// a, a as b, a as default
	exportSpecifier = cmn.Pair("local", "exported",
		cmn.IdentifierName,
		pc.Optional(pc.Seq(asKeyword, cmn.IdentifierName)),
	)

	exportListStatement = pc.Seq(
		exportKeyword,
		cmn.List("export specifiers", exportSpecifier),
		pc.Optional(pc.Seq(fromKeyword, moduleSpecifier)),
		cmn.Semicolon,
		cmn.EOS,
	)

	exportAllStatement = pc.Seq(
		exportKeyword,
		cmn.Tag("wildcard", cmn.Star),
		pc.Optional(pc.Seq(asKeyword, cmn.Tag("namespace", cmn.IdentifierName))),
		fromKeyword,
		moduleSpecifier,
		cmn.Semicolon,
		cmn.EOS,
	)
)

// classify runs one statement grammar over tokens[from..to].
func (s *scanner) classify(statement pc.Parser[tok.Token], from, to int) ([]pc.Token[tok.Token], bool) {
	pctx := pc.NewParseContext[tok.Token]()
	pctx.OrMode = pc.OrModeTryFast

	pTokens := cmn.ToParserToken(s.tokens[from : to+1])

	consume, match, err := statement(pctx, pTokens)
	if err != nil || consume != len(pTokens) {
		return nil, false
	}

	return match, true
}

// buildImport converts a matched import statement.
func (s *scanner) buildImport(from, to int, match []pc.Token[tok.Token]) (intermediate.ImportDeclaration, error) {
	decl := intermediate.ImportDeclaration{
		Span:     s.span(from, to),
		Position: s.position(from),
	}

	var imported tok.Token

	for _, m := range match {
		switch m.Type {
		case "source":
			source, err := cmn.Unquote(m.Val.Value)
			if err != nil {
				return decl, s.unsupported(from, to, "invalid module specifier: "+err.Error())
			}

			decl.Source = source
		case "default":
			decl.Bindings = append(decl.Bindings, intermediate.ImportBinding{
				Imported: "default",
				Local:    m.Val.Value,
				Kind:     intermediate.DefaultBinding,
			})
		case "namespace":
			decl.Bindings = append(decl.Bindings, intermediate.ImportBinding{
				Imported: "*",
				Local:    m.Val.Value,
				Kind:     intermediate.NamespaceBinding,
			})
		case "imported":
			imported = m.Val
		case "local":
			// {default} and {class} are not bindings
			if m.Val.Type != tok.IDENTIFIER {
				return decl, s.unsupported(from, to, m.Val.Value+" cannot be imported without an alias")
			}

			binding := intermediate.ImportBinding{
				Imported: imported.Value,
				Local:    m.Val.Value,
				Kind:     intermediate.NamedBinding,
			}

			if imported.Value == "default" {
				binding.Kind = intermediate.DefaultBinding
			}

			decl.Bindings = append(decl.Bindings, binding)
		}
	}

	return decl, nil
}

// buildExport converts a matched export list or export-all statement.
func (s *scanner) buildExport(from, to int, match []pc.Token[tok.Token]) (intermediate.ExportDeclaration, error) {
	decl := intermediate.ExportDeclaration{
		Span:     s.span(from, to),
		Position: s.position(from),
	}

	var (
		locals   []tok.Token
		exported []tok.Token
	)

	for _, m := range match {
		switch m.Type {
		case "source":
			source, err := cmn.Unquote(m.Val.Value)
			if err != nil {
				return decl, s.unsupported(from, to, "invalid module specifier: "+err.Error())
			}

			decl.Source = source
			decl.Reexport = true
		case "wildcard":
			decl.Wildcard = true
		case "namespace":
			locals = append(locals, m.Val)
			exported = append(exported, m.Val)
		case "local":
			locals = append(locals, m.Val)
		case "exported":
			exported = append(exported, m.Val)
		}
	}

	for i, local := range locals {
		name := local.Value
		if decl.Wildcard {
			name = "*"
		} else if !decl.Reexport && local.Type != tok.IDENTIFIER {
			return decl, s.unsupported(from, to, local.Value+" is not a local binding")
		}

		decl.Bindings = append(decl.Bindings, intermediate.ExportBinding{
			Local:    name,
			Exported: exported[i].Value,
		})
	}

	// export * as ns is a namespace export, not a copy of every key
	if decl.Wildcard && len(decl.Bindings) > 0 {
		decl.Wildcard = false
	}

	return decl, nil
}
