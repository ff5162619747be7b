// Package langcommon holds the rendering shared by every module convention:
// splicing the source body, binding imports and assigning exports.
package langcommon

import (
	"strings"

	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/naming"
)

// Settings are the options one generator renders with
type Settings struct {
	ModuleName    string
	DefaultKey    string
	Global        string
	ReturnExports bool
}

// Dependency is one module reference and the alias its value is bound to
type Dependency struct {
	Source string
	Alias  string
}

// Plan is the convention independent part of one output
type Plan struct {
	Surface      string       // name of the export surface, empty when nothing is exported
	Directives   []string     // directive statements in source order
	Dependencies []Dependency // deduplicated, in order of first occurrence
	Imports      []string     // one statement per import binding
	Body         string       // source text with every declaration removed
	Exports      []string     // export assignments, appended after the body
}

// Sources returns the specifier of every dependency
func (p *Plan) Sources() []string {
	sources := make([]string, len(p.Dependencies))
	for i, d := range p.Dependencies {
		sources[i] = d.Source
	}

	return sources
}

// Aliases returns the alias of every dependency
func (p *Plan) Aliases() []string {
	aliases := make([]string, len(p.Dependencies))
	for i, d := range p.Dependencies {
		aliases[i] = d.Alias
	}

	return aliases
}

// Build plans the output for module. surface is the expression exports are
// written to; it is ignored when the module exports nothing. Synthetic names
// come from alloc so they never collide with names of the module.
func Build(module *intermediate.Module, source string, alloc *naming.Allocator, surface string, settings Settings) *Plan {
	plan := &Plan{}
	if module.HasExports() {
		plan.Surface = surface
	}

	for _, d := range module.Directives {
		plan.Directives = append(plan.Directives, d.Statement())
	}

	aliases := make(map[string]string)

	for _, spec := range module.Specifiers() {
		prefix := "dependency"
		if spec.Use == intermediate.UsedByReexport {
			prefix = "reexport"
		}

		alias := alloc.Next(prefix)
		aliases[spec.Source] = alias
		plan.Dependencies = append(plan.Dependencies, Dependency{Source: spec.Source, Alias: alias})
	}

	for _, imp := range module.Imports {
		alias := aliases[imp.Source]

		for _, b := range imp.Bindings {
			var value string

			switch b.Kind {
			case intermediate.DefaultBinding:
				value = Member(alias, settings.DefaultKey)
			case intermediate.NamedBinding:
				value = Member(alias, b.Imported)
			case intermediate.NamespaceBinding:
				value = alias
			}

			plan.Imports = append(plan.Imports, "var "+b.Local+" = "+value+";")
		}
	}

	key := func(exported string) string {
		if exported == intermediate.DefaultName {
			return settings.DefaultKey
		}

		return exported
	}

	var body strings.Builder

	last := 0

	for _, r := range module.Removals() {
		body.WriteString(source[last:r.Span.Start])
		last = r.Span.End

		switch r.Kind {
		case intermediate.RemoveExport:
			exp := module.Exports[r.Index]
			alias := aliases[exp.Source]

			if exp.Wildcard {
				plan.Exports = append(plan.Exports, copyAll(surface, alias, alloc.Next("key"), settings.DefaultKey))
				continue
			}

			for _, b := range exp.Bindings {
				var value string

				switch {
				case !exp.Reexport:
					value = b.Local
				case b.Local == "*":
					value = alias
				default:
					value = Member(alias, key(b.Local))
				}

				plan.Exports = append(plan.Exports, Member(surface, key(b.Exported))+" = "+value+";")
			}
		case intermediate.RemoveDefault:
			def := module.Default
			if def.IsDeclaration() {
				plan.Exports = append(plan.Exports, Member(surface, settings.DefaultKey)+" = "+def.Name+";")
			} else {
				body.WriteString(Member(surface, settings.DefaultKey) + " = " + def.Expression + ";")
			}
		}
	}

	body.WriteString(source[last:])

	plan.Body = body.String()
	if plan.Body != "" && !strings.HasSuffix(plan.Body, "\n") {
		plan.Body += "\n"
	}

	return plan
}

// copyAll copies every own property except the default key.
func copyAll(surface, alias, key, defaultKey string) string {
	lines := []string{
		"for (var " + key + " in " + alias + ") {",
		"  if (Object.prototype.hasOwnProperty.call(" + alias + ", " + key + ") && " + key + " !== " + Quote(defaultKey) + ") {",
		"    " + surface + "[" + key + "] = " + alias + "[" + key + "];",
		"  }",
		"}",
	}

	return strings.Join(lines, "\n")
}
