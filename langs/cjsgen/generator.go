// Package cjsgen renders a module as CommonJS: require() calls at the top and
// assignments to exports at the bottom, without a wrapper function.
package cjsgen

import (
	"io"

	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/langs/langcommon"
	"github.com/shibukawa/esmt/naming"
)

// Convention is the name used in configuration and error messages
const Convention = "cjs"

// exportsObject is the exports handle CommonJS loaders provide
const exportsObject = "exports"

// Generator generates CommonJS modules from the intermediate model
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

// Generate writes the CommonJS module. The module name is not part of the
// output.
func (g *Generator) Generate(w io.Writer) error {
	if err := langcommon.CheckSettings(Convention, g.Module, g.Settings); err != nil {
		return err
	}

	plan := langcommon.Build(g.Module, g.Source, g.Names, exportsObject, g.Settings)

	return langcommon.Render(w, Convention, cjsTemplate, plan)
}

const cjsTemplate = `{{range .Directives}}{{.}}
{{end}}{{range .Dependencies}}var {{.Alias}} = require({{quote .Source}});
{{end}}{{range .Imports}}{{.}}
{{end}}{{.Body}}{{range .Exports}}{{.}}
{{end}}`
