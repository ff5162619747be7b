package parser

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/testhelper"
)

func TestParseImports(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		source   string
		bindings []intermediate.ImportBinding
		span     intermediate.Span
	}{
		{
			name:   "default",
			src:    "import a from 'x';",
			source: "x",
			bindings: []intermediate.ImportBinding{
				{Imported: "default", Local: "a", Kind: intermediate.DefaultBinding},
			},
			span: intermediate.Span{Start: 0, End: 18},
		},
		{
			name:   "named with rename and no semicolon",
			src:    `import {a, b as c} from "x"`,
			source: "x",
			bindings: []intermediate.ImportBinding{
				{Imported: "a", Local: "a", Kind: intermediate.NamedBinding},
				{Imported: "b", Local: "c", Kind: intermediate.NamedBinding},
			},
			span: intermediate.Span{Start: 0, End: 27},
		},
		{
			name:   "namespace",
			src:    "import * as ns from './ns';",
			source: "./ns",
			bindings: []intermediate.ImportBinding{
				{Imported: "*", Local: "ns", Kind: intermediate.NamespaceBinding},
			},
			span: intermediate.Span{Start: 0, End: 27},
		},
		{
			name:   "default and named",
			src:    "import a, {b,} from 'x';",
			source: "x",
			bindings: []intermediate.ImportBinding{
				{Imported: "default", Local: "a", Kind: intermediate.DefaultBinding},
				{Imported: "b", Local: "b", Kind: intermediate.NamedBinding},
			},
			span: intermediate.Span{Start: 0, End: 24},
		},
		{
			name:   "default and namespace",
			src:    "import a, * as ns from 'x';",
			source: "x",
			bindings: []intermediate.ImportBinding{
				{Imported: "default", Local: "a", Kind: intermediate.DefaultBinding},
				{Imported: "*", Local: "ns", Kind: intermediate.NamespaceBinding},
			},
			span: intermediate.Span{Start: 0, End: 27},
		},
		{
			name:   "default by name",
			src:    "import {default as a} from 'x';",
			source: "x",
			bindings: []intermediate.ImportBinding{
				{Imported: "default", Local: "a", Kind: intermediate.DefaultBinding},
			},
			span: intermediate.Span{Start: 0, End: 31},
		},
		{
			name:   "side effect only",
			src:    "import 'polyfill';",
			source: "polyfill",
			span:   intermediate.Span{Start: 0, End: 18},
		},
		{
			name:   "multi-line with comments",
			src:    "import {\n  a, // first\n  /* second */ b\n} from 'x';\nfoo();",
			source: "x",
			bindings: []intermediate.ImportBinding{
				{Imported: "a", Local: "a", Kind: intermediate.NamedBinding},
				{Imported: "b", Local: "b", Kind: intermediate.NamedBinding},
			},
			span: intermediate.Span{Start: 0, End: 51},
		},
		{
			name:   "escaped specifier",
			src:    `import a from 'd\'\x41';`,
			source: "d'A",
			bindings: []intermediate.ImportBinding{
				{Imported: "default", Local: "a", Kind: intermediate.DefaultBinding},
			},
			span: intermediate.Span{Start: 0, End: 24},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, err := Parse(tt.src)
			assert.NoError(t, err)
			assert.Equal(t, 1, len(module.Imports))

			imp := module.Imports[0]
			assert.Equal(t, tt.source, imp.Source)
			assert.Equal(t, tt.bindings, imp.Bindings)
			assert.Equal(t, tt.span, imp.Span)
			assert.Equal(t, intermediate.Position{Line: 1, Column: 1}, imp.Position)
		})
	}
}

func TestParseExports(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want intermediate.ExportDeclaration
	}{
		{
			name: "local list",
			src:  "export {a, b as c};",
			want: intermediate.ExportDeclaration{
				Bindings: []intermediate.ExportBinding{{Local: "a", Exported: "a"}, {Local: "b", Exported: "c"}},
				Span:     intermediate.Span{Start: 0, End: 19},
			},
		},
		{
			name: "local list without semicolon",
			src:  "export {a}\nfoo()",
			want: intermediate.ExportDeclaration{
				Bindings: []intermediate.ExportBinding{{Local: "a", Exported: "a"}},
				Span:     intermediate.Span{Start: 0, End: 10},
			},
		},
		{
			name: "local as default",
			src:  "export {a as default};",
			want: intermediate.ExportDeclaration{
				Bindings: []intermediate.ExportBinding{{Local: "a", Exported: "default"}},
				Span:     intermediate.Span{Start: 0, End: 22},
			},
		},
		{
			name: "re-export",
			src:  "export {a, default as b} from 'x';",
			want: intermediate.ExportDeclaration{
				Bindings: []intermediate.ExportBinding{{Local: "a", Exported: "a"}, {Local: "default", Exported: "b"}},
				Source:   "x",
				Reexport: true,
				Span:     intermediate.Span{Start: 0, End: 34},
			},
		},
		{
			name: "re-export with from on the next line",
			src:  "export {a}\n  from 'x'\nfoo()",
			want: intermediate.ExportDeclaration{
				Bindings: []intermediate.ExportBinding{{Local: "a", Exported: "a"}},
				Source:   "x",
				Reexport: true,
				Span:     intermediate.Span{Start: 0, End: 21},
			},
		},
		{
			name: "wildcard",
			src:  "export * from 'x';",
			want: intermediate.ExportDeclaration{
				Source:   "x",
				Reexport: true,
				Wildcard: true,
				Span:     intermediate.Span{Start: 0, End: 18},
			},
		},
		{
			name: "namespace re-export",
			src:  "export * as ns from 'x';",
			want: intermediate.ExportDeclaration{
				Bindings: []intermediate.ExportBinding{{Local: "*", Exported: "ns"}},
				Source:   "x",
				Reexport: true,
				Span:     intermediate.Span{Start: 0, End: 24},
			},
		},
		{
			name: "variables",
			src:  "export var a = 1, b = {c: [2, 3]}, d;",
			want: intermediate.ExportDeclaration{
				Bindings:    []intermediate.ExportBinding{{Local: "a", Exported: "a"}, {Local: "b", Exported: "b"}, {Local: "d", Exported: "d"}},
				Declaration: true,
				Span:        intermediate.Span{Start: 0, End: 7},
			},
		},
		{
			name: "let",
			src:  "export let a = 1",
			want: intermediate.ExportDeclaration{
				Bindings:    []intermediate.ExportBinding{{Local: "a", Exported: "a"}},
				Declaration: true,
				Span:        intermediate.Span{Start: 0, End: 7},
			},
		},
		{
			name: "function",
			src:  "export function f() {}",
			want: intermediate.ExportDeclaration{
				Bindings:    []intermediate.ExportBinding{{Local: "f", Exported: "f"}},
				Declaration: true,
				Span:        intermediate.Span{Start: 0, End: 7},
			},
		},
		{
			name: "async function",
			src:  "export async function f() {}",
			want: intermediate.ExportDeclaration{
				Bindings:    []intermediate.ExportBinding{{Local: "f", Exported: "f"}},
				Declaration: true,
				Span:        intermediate.Span{Start: 0, End: 7},
			},
		},
		{
			name: "generator",
			src:  "export function* g() {}",
			want: intermediate.ExportDeclaration{
				Bindings:    []intermediate.ExportBinding{{Local: "g", Exported: "g"}},
				Declaration: true,
				Span:        intermediate.Span{Start: 0, End: 7},
			},
		},
		{
			name: "class",
			src:  "export class C extends B {}",
			want: intermediate.ExportDeclaration{
				Bindings:    []intermediate.ExportBinding{{Local: "C", Exported: "C"}},
				Declaration: true,
				Span:        intermediate.Span{Start: 0, End: 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, err := Parse(tt.src)
			assert.NoError(t, err)
			assert.Equal(t, 1, len(module.Exports))

			tt.want.Position = intermediate.Position{Line: 1, Column: 1}
			assert.Equal(t, tt.want, module.Exports[0])
		})
	}
}

func TestParseExportDefault(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want intermediate.ExportDefault
	}{
		{
			name: "expression",
			src:  "export default foo;",
			want: intermediate.ExportDefault{Expression: "foo", Span: intermediate.Span{Start: 0, End: 19}},
		},
		{
			name: "multi-line object",
			src:  "export default {\n  a: 1,\n  b: 2\n}\nfoo();",
			want: intermediate.ExportDefault{Expression: "{\n  a: 1,\n  b: 2\n}", Span: intermediate.Span{Start: 0, End: 33}},
		},
		{
			name: "expression continued on the next line",
			src:  "export default a\n  + b\nfoo()",
			want: intermediate.ExportDefault{Expression: "a\n  + b", Span: intermediate.Span{Start: 0, End: 22}},
		},
		{
			name: "named function keeps its declaration",
			src:  "export default function foo() {}",
			want: intermediate.ExportDefault{Name: "foo", Span: intermediate.Span{Start: 0, End: 15}},
		},
		{
			name: "named async function",
			src:  "export default async function foo() {}",
			want: intermediate.ExportDefault{Name: "foo", Span: intermediate.Span{Start: 0, End: 15}},
		},
		{
			name: "named class",
			src:  "export default class Foo {}",
			want: intermediate.ExportDefault{Name: "Foo", Span: intermediate.Span{Start: 0, End: 15}},
		},
		{
			name: "anonymous function",
			src:  "export default function (a = {}) { return a; }\nfoo();",
			want: intermediate.ExportDefault{Expression: "function (a = {}) { return a; }", Span: intermediate.Span{Start: 0, End: 46}},
		},
		{
			name: "anonymous class",
			src:  "export default class extends Base {};",
			want: intermediate.ExportDefault{Expression: "class extends Base {}", Span: intermediate.Span{Start: 0, End: 37}},
		},
		{
			name: "dynamic import",
			src:  "export default import('./x');",
			want: intermediate.ExportDefault{Expression: "import('./x')", Span: intermediate.Span{Start: 0, End: 29}},
		},
		{
			name: "import meta",
			src:  "export default import.meta.url;",
			want: intermediate.ExportDefault{Expression: "import.meta.url", Span: intermediate.Span{Start: 0, End: 31}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, err := Parse(tt.src)
			assert.NoError(t, err)
			assert.NotZero(t, module.Default)

			tt.want.Position = intermediate.Position{Line: 1, Column: 1}
			assert.Equal(t, tt.want, *module.Default)
		})
	}
}

func TestParseDirectives(t *testing.T) {
	src := "'use strict';\n\"use asm\"\nimport a from 'x';\n'not a directive';"

	module, err := Parse(src)
	assert.NoError(t, err)
	assert.Equal(t, []intermediate.Directive{
		{Text: "'use strict'", Span: intermediate.Span{Start: 0, End: 13}},
		{Text: `"use asm"`, Span: intermediate.Span{Start: 14, End: 23}},
	}, module.Directives)
	assert.Equal(t, 1, len(module.Imports))
	assert.Equal(t, intermediate.Position{Line: 3, Column: 1}, module.Imports[0].Position)
}

func TestParseDirectiveThatIsAnExpression(t *testing.T) {
	module, err := Parse("'use strict' + x;")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(module.Directives))
}

func TestParseIgnoresOrdinaryCode(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "property access", src: "obj.import = 1; foo.export(); a?.import;"},
		{name: "dynamic import", src: "import('x').then(function (m) { return m; });"},
		{name: "import meta", src: "var u = import.meta.url;"},
		{name: "object keys", src: "var o = { import: 1, export: 2, default: 3 };"},
		{name: "method names", src: "class A {\n  import() {}\n  export() {}\n}"},
		{name: "strings", src: "var s = \"import a from 'b'\";\nvar t = 'export default x';"},
		{name: "comments", src: "// import a from 'b'\n/* export default x;\n*/\nfoo();"},
		{name: "template", src: "var s = `\nimport a from 'b'\n${x}`;"},
		{name: "regular expression", src: "var r = /import a from 'b'/;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, err := Parse(tt.src)
			assert.NoError(t, err)
			assert.Equal(t, 0, len(module.Imports))
			assert.Equal(t, 0, len(module.Exports))
			assert.Zero(t, module.Default)
		})
	}
}

func TestParseOrderAndSpans(t *testing.T) {
	src := "import a from 'a';\nfoo(a);\nexport {a};\nexport default a;\n"

	module, err := Parse(src)
	assert.NoError(t, err)

	var texts []string
	for _, r := range module.Removals() {
		texts = append(texts, src[r.Span.Start:r.Span.End])
	}

	assert.Equal(t, []string{"import a from 'a';", "export {a};", "export default a;"}, texts)
	assert.Equal(t, intermediate.Position{Line: 3, Column: 1}, module.Exports[0].Position)
	assert.Equal(t, intermediate.Position{Line: 4, Column: 1}, module.Default.Position)
}

func TestParseIdentifiers(t *testing.T) {
	module, err := Parse("import a from 'x';\nfoo(a, __dependency1__, 'str');")
	assert.NoError(t, err)
	assert.Equal(t, []string{"__dependency1__", "a", "foo", "from"}, module.Identifiers)
}

func TestParseIdentifiersInTemplates(t *testing.T) {
	module, err := Parse("import a from 'x';\nlog(`${__dependency1__} ${`${b}`}`);")
	assert.NoError(t, err)
	assert.Equal(t, []string{"__dependency1__", "a", "b", "from", "log"}, module.Identifiers)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		line    int
		column  int
	}{
		{name: "missing closing brace" + testhelper.CaseAt(t), src: "import {a from 'x';", wantErr: esmt.ErrUnbalancedBrackets, line: 1, column: 8},
		{name: "unclosed paren in code" + testhelper.CaseAt(t), src: "foo(\n  1;", wantErr: esmt.ErrUnbalancedBrackets, line: 1, column: 4},
		{name: "mismatched bracket" + testhelper.CaseAt(t), src: "foo(];", wantErr: esmt.ErrUnbalancedBrackets, line: 1, column: 4},
		{name: "unexpected closer" + testhelper.CaseAt(t), src: "a = 1)", wantErr: esmt.ErrUnexpectedCloser, line: 1, column: 6},
		{name: "unclosed default class" + testhelper.CaseAt(t), src: "export default class {", wantErr: esmt.ErrUnbalancedBrackets, line: 1, column: 22},
		{name: "unterminated string" + testhelper.CaseAt(t), src: "import a from 'x;", wantErr: esmt.ErrUnterminatedString, line: 1, column: 15},
		{name: "unterminated comment" + testhelper.CaseAt(t), src: "import a from 'x';\n/*", wantErr: esmt.ErrUnterminatedComment, line: 2, column: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var parseErr *esmt.ParseError
			assert.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.line, parseErr.Line)
			assert.Equal(t, tt.column, parseErr.Column)
		})
	}
}

func TestParseUnsupportedSyntax(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		line    int
		column  int
	}{
		{name: "missing from" + testhelper.CaseAt(t), src: "import a 'x';", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "missing specifier" + testhelper.CaseAt(t), src: "import {a} from;", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "keyword without alias" + testhelper.CaseAt(t), src: "import {default} from 'x';", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "trailing tokens" + testhelper.CaseAt(t), src: "import a from 'x' foo();", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "nested import" + testhelper.CaseAt(t), src: "if (x) {\n  import a from 'x';\n}", wantErr: esmt.ErrUnsupportedSyntax, line: 2, column: 3},
		{name: "inside call" + testhelper.CaseAt(t), src: "foo(\nexport default 1)", wantErr: esmt.ErrUnsupportedSyntax, line: 2, column: 1},
		{name: "not at statement start" + testhelper.CaseAt(t), src: "x = 1 import a from 'x'", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 7},
		{name: "unknown export" + testhelper.CaseAt(t), src: "export foo;", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "empty default" + testhelper.CaseAt(t), src: "export default;", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "default var" + testhelper.CaseAt(t), src: "export default var a = 1;", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "anonymous function export" + testhelper.CaseAt(t), src: "export function () {}", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "destructuring" + testhelper.CaseAt(t), src: "export var {a} = b;", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "keyword as local export" + testhelper.CaseAt(t), src: "export {default};", wantErr: esmt.ErrUnsupportedSyntax, line: 1, column: 1},
		{name: "duplicate name" + testhelper.CaseAt(t), src: "export {a};\nexport {b as a};", wantErr: esmt.ErrDuplicateExport, line: 2, column: 1},
		{name: "duplicate default" + testhelper.CaseAt(t), src: "export default 1;\nexport {a as default};", wantErr: esmt.ErrDuplicateExport, line: 2, column: 1},
		{name: "two defaults" + testhelper.CaseAt(t), src: "export default 1;\nexport default 2;", wantErr: esmt.ErrDuplicateExport, line: 2, column: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var syntaxErr *esmt.UnsupportedSyntaxError
			assert.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tt.line, syntaxErr.Line)
			assert.Equal(t, tt.column, syntaxErr.Column)
		})
	}
}
