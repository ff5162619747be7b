// Package yuigen renders a module as a YUI.add() registration.
package yuigen

import (
	"io"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/langs/langcommon"
	"github.com/shibukawa/esmt/naming"
)

// Convention is the name used in configuration and error messages
const Convention = "yui"

// Generator generates YUI modules from the intermediate model
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

// WithModuleName sets the registered module name
func WithModuleName(name string) Option {
	return func(g *Generator) {
		g.Settings.ModuleName = name
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

	ModuleName string
}

// Generate writes the YUI module. YUI modules are always registered by name.
func (g *Generator) Generate(w io.Writer) error {
	if g.Settings.ModuleName == "" {
		return &esmt.ConfigurationError{Convention: Convention, Option: "module_name", Err: esmt.ErrModuleNameRequired}
	}

	if err := langcommon.CheckSettings(Convention, g.Module, g.Settings); err != nil {
		return err
	}

	surface := g.Names.Name("exports")

	data := templateData{
		Plan:       langcommon.Build(g.Module, g.Source, g.Names, surface, g.Settings),
		ModuleName: g.Settings.ModuleName,
	}

	return langcommon.Render(w, Convention, yuiTemplate, data)
}

const yuiTemplate = `YUI.add({{quote .ModuleName}}, function(Y) {
{{range .Directives}}  {{.}}
{{end}}{{range .Dependencies}}  var {{.Alias}} = Y.require({{quote .Source}});
{{end}}{{if .Surface}}  var {{.Surface}} = {};
{{end}}{{range .Imports}}  {{.}}
{{end}}{{.Body}}{{range .Exports}}{{indent .}}
{{end}}{{if .Surface}}  return {{.Surface}};
{{end}}}, "@VERSION@", {"es": true, "requires": [{{quoteList .Sources}}]});
`
