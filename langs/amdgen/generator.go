// Package amdgen renders a module as an AMD define() call.
package amdgen

import (
	"io"

	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/langs/langcommon"
	"github.com/shibukawa/esmt/naming"
)

// Convention is the name used in configuration and error messages
const Convention = "amd"

// Generator generates AMD modules from the intermediate model
type Generator struct {
	Module   *intermediate.Module
	Source   string
	Settings langcommon.Settings
	Names    *naming.Allocator
}

// Option is a function that configures Generator
type Option func(*Generator)

// WithSettings sets the rendering options
func WithSettings(settings langcommon.Settings) Option {
	return func(g *Generator) {
		g.Settings = settings
	}
}

// WithModuleName sets the module identifier passed to define()
func WithModuleName(name string) Option {
	return func(g *Generator) {
		g.Settings.ModuleName = name
	}
}

// WithReturnExports makes the factory build and return its export object
// instead of receiving the "exports" dependency
func WithReturnExports(enabled bool) Option {
	return func(g *Generator) {
		g.Settings.ReturnExports = enabled
	}
}

// WithNames sets the allocator synthetic names are taken from
func WithNames(names *naming.Allocator) Option {
	return func(g *Generator) {
		g.Names = names
	}
}

// New creates a new Generator
func New(module *intermediate.Module, source string, opts ...Option) *Generator {
	g := &Generator{
		Module:   module,
		Source:   source,
		Settings: langcommon.Settings{DefaultKey: intermediate.DefaultName},
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.Names == nil {
		g.Names = naming.New(append(module.Names(), module.Identifiers...)...)
	}

	return g
}

type templateData struct {
	*langcommon.Plan

	ModuleName    string
	Specifiers    []string
	Params        []string
	ReturnExports bool
}

// Generate writes the AMD module
func (g *Generator) Generate(w io.Writer) error {
	if err := langcommon.CheckSettings(Convention, g.Module, g.Settings); err != nil {
		return err
	}

	surface := g.Names.Name("exports")
	plan := langcommon.Build(g.Module, g.Source, g.Names, surface, g.Settings)

	data := templateData{
		Plan:       plan,
		ModuleName: g.Settings.ModuleName,
		Specifiers: plan.Sources(),
		Params:     plan.Aliases(),
	}

	if plan.Surface != "" {
		if g.Settings.ReturnExports {
			data.ReturnExports = true
		} else {
			data.Specifiers = append(data.Specifiers, "exports")
			data.Params = append(data.Params, plan.Surface)
		}
	}

	return langcommon.Render(w, Convention, amdTemplate, data)
}

const amdTemplate = `define({{if .ModuleName}}{{quote .ModuleName}}, {{end}}[{{quoteList .Specifiers}}], function({{join .Params ", "}}) {
{{range .Directives}}  {{.}}
{{end}}{{if .ReturnExports}}  var {{.Surface}} = {};
{{end}}{{range .Imports}}  {{.}}
{{end}}{{.Body}}{{range .Exports}}{{indent .}}
{{end}}{{if .ReturnExports}}  return {{.Surface}};
{{end}}});
`
