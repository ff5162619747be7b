package parsercommon

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/shibukawa/esmt/tokenizer"
)

var (
	// String parses a quoted string literal.
	String = PrimitiveType("string", tok.STRING)
	// Identifier parses a binding identifier (never a reserved word).
	Identifier = PrimitiveType("identifier", tok.IDENTIFIER)
	// IdentifierName parses any word, including reserved words.
	IdentifierName = PrimitiveType("identifierName", tok.IDENTIFIER, tok.KEYWORD)

	// BraceOpen parses an opening brace.
	BraceOpen = Punct("{")
	// BraceClose parses a closing brace.
	BraceClose = Punct("}")
	// Comma parses a comma delimiter.
	Comma = Punct(",")
	// Star parses an asterisk.
	Star = Punct("*")
	// Semicolon parses an optional statement terminator.
	Semicolon = pc.Optional(Punct(";"))

	// EOS matches end of stream.
	EOS = pc.EOS[tok.Token]()
)

// PrimitiveType matches one token of any of the given types.
func PrimitiveType(typeName string, types ...tok.TokenType) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// Punct matches one punctuator token with the exact text.
func Punct(value string) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && tokens[0].Val.Type == tok.PUNCTUATOR && tokens[0].Val.Value == value {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// Word matches one identifier or keyword token spelled as any of the words.
// Contextual keywords such as "from" and "as" are identifiers to the tokenizer.
func Word(words ...string) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && (tokens[0].Val.Type == tok.IDENTIFIER || tokens[0].Val.Type == tok.KEYWORD) {
			if slices.Contains(words, tokens[0].Val.Value) {
				return 1, tokens[:1], nil
			}
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// Tag labels the first token matched by the sequence.
func Tag(typeStr string, p ...pc.Parser[tok.Token]) pc.Parser[tok.Token] {
	return pc.Trans(pc.Seq(p...), func(pctx *pc.ParseContext[tok.Token], src []pc.Token[tok.Token]) (converted []pc.Token[tok.Token], err error) {
		converted = slices.Clone(src)
		if len(converted) > 0 {
			converted[0].Type = typeStr
		}

		return converted, nil
	})
}

// TagLast collapses the sequence into its last token, labelled.
func TagLast(typeStr string, p ...pc.Parser[tok.Token]) pc.Parser[tok.Token] {
	return pc.Trans(pc.Seq(p...), func(pctx *pc.ParseContext[tok.Token], src []pc.Token[tok.Token]) (converted []pc.Token[tok.Token], err error) {
		if len(src) == 0 {
			return src, nil
		}

		last := src[len(src)-1]
		last.Type = typeStr

		return []pc.Token[tok.Token]{last}, nil
	})
}

// Pair collapses "name" or "name as alias" into two labelled tokens: the
// first and the last name. Without an alias both carry the same word.
func Pair(firstType, secondType string, p ...pc.Parser[tok.Token]) pc.Parser[tok.Token] {
	return pc.Trans(pc.Seq(p...), func(pctx *pc.ParseContext[tok.Token], src []pc.Token[tok.Token]) (converted []pc.Token[tok.Token], err error) {
		if len(src) == 0 {
			return src, nil
		}

		first := src[0]
		first.Type = firstType
		second := src[len(src)-1]
		second.Type = secondType

		return []pc.Token[tok.Token]{first, second}, nil
	})
}

// List parses "{ item, item, ... }" with an optional trailing comma.
func List(label string, item pc.Parser[tok.Token]) pc.Parser[tok.Token] {
	return pc.Seq(
		BraceOpen,
		pc.Optional(pc.Seq(
			item,
			pc.ZeroOrMore(label, pc.Seq(Comma, item)),
			pc.Optional(Comma),
		)),
		BraceClose,
	)
}

// ToParserToken wraps tokenizer tokens for the combinators.
func ToParserToken(tokens []tok.Token) []pc.Token[tok.Token] {
	results := make([]pc.Token[tok.Token], len(tokens))

	for i, token := range tokens {
		pcToken := pc.Token[tok.Token]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: token,
			Raw: token.Value,
		}
		results[i] = pcToken
	}

	return results
}
