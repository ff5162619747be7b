package intermediate

import (
	"encoding/json"
	"fmt"
	"slices"
)

// DefaultName is the exported name of the default export
const DefaultName = "default"

// Span is a half-open byte range [Start, End) of the original source
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Position is a human readable source location
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Directive is one string-literal statement of the directive prologue
type Directive struct {
	Text string `json:"text"` // the literal including its quotes, e.g. 'use strict'
	Span Span   `json:"span"`
}

// Statement returns the directive as a complete statement
func (d Directive) Statement() string {
	return d.Text + ";"
}

// BindingKind classifies an import binding
type BindingKind int

const (
	DefaultBinding BindingKind = iota
	NamedBinding
	NamespaceBinding
)

func (k BindingKind) String() string {
	switch k {
	case DefaultBinding:
		return "default"
	case NamedBinding:
		return "named"
	case NamespaceBinding:
		return "namespace"
	default:
		return "unknown"
	}
}

// MarshalJSON writes the kind as its name
func (k BindingKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// ImportBinding is one local name introduced by an import statement
type ImportBinding struct {
	Imported string      `json:"imported"` // "default" for default bindings, "*" for namespaces
	Local    string      `json:"local"`
	Kind     BindingKind `json:"kind"`
}

// ImportDeclaration is one import statement
type ImportDeclaration struct {
	Source   string          `json:"source"` // decoded module specifier
	Bindings []ImportBinding `json:"bindings,omitempty"`
	Span     Span            `json:"span"`
	Position Position        `json:"position"`
}

// ExportBinding maps a local (or re-exported) name to its exported name
type ExportBinding struct {
	Local    string `json:"local"` // "*" for export * as ns
	Exported string `json:"exported"`
}

// ExportDeclaration is one non-default export statement
type ExportDeclaration struct {
	Bindings []ExportBinding `json:"bindings,omitempty"`

	// Source is set for re-exports only
	Source   string `json:"source,omitempty"`
	Reexport bool   `json:"reexport,omitempty"`
	Wildcard bool   `json:"wildcard,omitempty"`

	// Declaration is true for export var/let/const/function/class; the declaration
	// itself stays in the body and only the export keyword is removed
	Declaration bool `json:"declaration,omitempty"`

	Span     Span     `json:"span"`
	Position Position `json:"position"`
}

// ExportDefault is the export default statement
type ExportDefault struct {
	// Expression is the exported value's source text when the default is an expression
	Expression string `json:"expression,omitempty"`

	// Name is set when the default wraps a named function or class declaration
	Name string `json:"name,omitempty"`

	Span     Span     `json:"span"`
	Position Position `json:"position"`
}

// IsDeclaration reports whether the default export wraps a named declaration
func (d *ExportDefault) IsDeclaration() bool {
	return d.Name != ""
}

// Module is the structural model of one source file. It is immutable once
// built by the parser.
type Module struct {
	Directives []Directive         `json:"directives,omitempty"`
	Imports    []ImportDeclaration `json:"imports,omitempty"`
	Exports    []ExportDeclaration `json:"exports,omitempty"`
	Default    *ExportDefault      `json:"default,omitempty"`

	// Identifiers lists every identifier appearing in the source, sorted
	Identifiers []string `json:"-"`
}

// RemovalKind tells which declaration a removal belongs to
type RemovalKind int

const (
	RemoveDirective RemovalKind = iota
	RemoveImport
	RemoveExport
	RemoveDefault
)

// Removal is one span that generators cut out of the body
type Removal struct {
	Kind  RemovalKind
	Index int // index into Directives, Imports or Exports
	Span  Span
}

// Removals returns every declaration span in source order
func (m *Module) Removals() []Removal {
	removals := make([]Removal, 0, len(m.Directives)+len(m.Imports)+len(m.Exports)+1)

	for i, d := range m.Directives {
		removals = append(removals, Removal{Kind: RemoveDirective, Index: i, Span: d.Span})
	}

	for i, imp := range m.Imports {
		removals = append(removals, Removal{Kind: RemoveImport, Index: i, Span: imp.Span})
	}

	for i, exp := range m.Exports {
		removals = append(removals, Removal{Kind: RemoveExport, Index: i, Span: exp.Span})
	}

	if m.Default != nil {
		removals = append(removals, Removal{Kind: RemoveDefault, Span: m.Default.Span})
	}

	slices.SortFunc(removals, func(a, b Removal) int {
		return a.Span.Start - b.Span.Start
	})

	return removals
}

// SpecifierUse tells how a specifier first appears in the module
type SpecifierUse int

const (
	UsedByImport SpecifierUse = iota
	UsedByReexport
)

// Specifier is one module reference with its first use
type Specifier struct {
	Source string
	Use    SpecifierUse
}

// Specifiers returns the module references of imports and re-exports,
// deduplicated and in order of first occurrence
func (m *Module) Specifiers() []Specifier {
	var result []Specifier

	seen := make(map[string]bool)

	for _, r := range m.Removals() {
		var spec Specifier

		switch r.Kind {
		case RemoveImport:
			spec = Specifier{Source: m.Imports[r.Index].Source, Use: UsedByImport}
		case RemoveExport:
			exp := m.Exports[r.Index]
			if !exp.Reexport {
				continue
			}

			spec = Specifier{Source: exp.Source, Use: UsedByReexport}
		default:
			continue
		}

		if seen[spec.Source] {
			continue
		}

		seen[spec.Source] = true
		result = append(result, spec)
	}

	return result
}

// Names returns every binding name that appears in the model
func (m *Module) Names() []string {
	var names []string

	for _, imp := range m.Imports {
		for _, b := range imp.Bindings {
			names = append(names, b.Local, b.Imported)
		}
	}

	for _, exp := range m.Exports {
		for _, b := range exp.Bindings {
			names = append(names, b.Local, b.Exported)
		}
	}

	if m.Default != nil && m.Default.Name != "" {
		names = append(names, m.Default.Name)
	}

	return names
}

// ExportedNames returns the names on the export surface, excluding the default
// export and wildcard re-exports
func (m *Module) ExportedNames() []string {
	var names []string

	for _, exp := range m.Exports {
		for _, b := range exp.Bindings {
			names = append(names, b.Exported)
		}
	}

	return names
}

// HasExports reports whether the module writes anything onto an export surface
func (m *Module) HasExports() bool {
	return len(m.Exports) > 0 || m.Default != nil
}
