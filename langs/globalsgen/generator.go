// Package globalsgen renders a module as an immediately invoked function that
// reads its dependencies from, and writes its exports to, a global object.
package globalsgen

import (
	"io"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/langs/langcommon"
	"github.com/shibukawa/esmt/naming"
)

// Convention is the name used in configuration and error messages
const Convention = "globals"

// Generator generates global-namespace scripts from the intermediate model
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

// WithModuleName sets the global property exports are written to
func WithModuleName(name string) Option {
	return func(g *Generator) {
		g.Settings.ModuleName = name
	}
}

// WithGlobal sets the global object, such as window or this
func WithGlobal(global string) Option {
	return func(g *Generator) {
		g.Settings.Global = global
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
		Settings: langcommon.Settings{DefaultKey: intermediate.DefaultName, Global: esmt.DefaultGlobal},
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
	Global     string
}

// Generate writes the script
func (g *Generator) Generate(w io.Writer) error {
	if !langcommon.IsIdentifierPath(g.Settings.Global) {
		return &esmt.ConfigurationError{Convention: Convention, Option: "global", Err: esmt.ErrInvalidGlobal}
	}

	if g.Module.HasExports() && g.Settings.ModuleName == "" {
		return &esmt.ConfigurationError{Convention: Convention, Option: "module_name", Err: esmt.ErrModuleNameRequired}
	}

	if err := langcommon.CheckSettings(Convention, g.Module, g.Settings); err != nil {
		return err
	}

	surface := g.Names.Name("exports")

	data := templateData{
		Plan:       langcommon.Build(g.Module, g.Source, g.Names, surface, g.Settings),
		ModuleName: g.Settings.ModuleName,
		Global:     g.Settings.Global,
	}

	return langcommon.Render(w, Convention, globalsTemplate, data)
}

const globalsTemplate = `(function() {
{{range .Directives}}  {{.}}
{{end}}{{range .Dependencies}}  var {{.Alias}} = {{member $.Global .Source}};
{{end}}{{if .Surface}}  var {{.Surface}} = {{member .Global .ModuleName}} = {{member .Global .ModuleName}} || {};
{{end}}{{range .Imports}}  {{.}}
{{end}}{{.Body}}{{range .Exports}}{{indent .}}
{{end}}})();
`
