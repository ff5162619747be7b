// Package compiler is the entry point of the transpiler. A Compiler scans its
// source once and renders the resulting model in any module convention.
package compiler

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/langs/langcommon"
	"github.com/shibukawa/esmt/naming"
	"github.com/shibukawa/esmt/parser"
)

// Compiler holds one scanned module. Generation never changes it, so the
// same Compiler can render every convention in any order, and from several
// goroutines at once.
type Compiler struct {
	source     string
	moduleName string
	options    esmt.Options
	module     *intermediate.Module
	names      *naming.Allocator
}

// Option is a function that configures Compiler
type Option func(*Compiler)

// WithOptions applies every non-zero field of opts
func WithOptions(opts esmt.Options) Option {
	return func(c *Compiler) {
		c.options = c.options.Merge(opts)
	}
}

// WithDefaultKey sets the export surface key of the default export
func WithDefaultKey(key string) Option {
	return func(c *Compiler) {
		c.options.DefaultKey = key
	}
}

// WithGlobal sets the global object of the globals convention
func WithGlobal(global string) Option {
	return func(c *Compiler) {
		c.options.Global = global
	}
}

// WithReturnExports makes AMD factories return their exports
func WithReturnExports(enabled bool) Option {
	return func(c *Compiler) {
		c.options.ReturnExports = enabled
	}
}

// New scans source and returns a compiler for it. moduleName may be empty for
// anonymous modules. Scan errors (*esmt.ParseError, *esmt.UnsupportedSyntaxError)
// are returned here, before any output is rendered.
func New(source, moduleName string, opts ...Option) (*Compiler, error) {
	c := &Compiler{
		source:     source,
		moduleName: moduleName,
		options:    esmt.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}

	module, err := parser.Parse(source)
	if err != nil {
		Logger().Debug("scan failed", zap.String("module", moduleName), zap.Error(err))
		return nil, err
	}

	c.module = module
	c.names = naming.New(append(module.Names(), module.Identifiers...)...)

	Logger().Debug("module scanned",
		zap.String("module", moduleName),
		zap.Int("directives", len(module.Directives)),
		zap.Int("imports", len(module.Imports)),
		zap.Int("exports", len(module.Exports)),
		zap.Bool("default", module.Default != nil),
	)

	return c, nil
}

// Configure returns a compiler that shares the scanned module of c and
// renders with opts applied on top of the options of c.
func (c *Compiler) Configure(opts ...Option) *Compiler {
	clone := *c
	for _, opt := range opts {
		opt(&clone)
	}

	return &clone
}

// Module returns the scanned model. It must not be modified.
func (c *Compiler) Module() *intermediate.Module {
	return c.module
}

// ModuleName returns the effective module identifier: the override from the
// options, else the name given to New.
func (c *Compiler) ModuleName() string {
	if c.options.ModuleName != "" {
		return c.options.ModuleName
	}

	return c.moduleName
}

// ToAMD renders the module as an AMD define() call
func (c *Compiler) ToAMD() (string, error) {
	return c.Generate(AMD)
}

// ToYUI renders the module as a YUI.add() registration
func (c *Compiler) ToYUI() (string, error) {
	return c.Generate(YUI)
}

// ToCJS renders the module as CommonJS
func (c *Compiler) ToCJS() (string, error) {
	return c.Generate(CJS)
}

// ToGlobals renders the module as a script using a global namespace
func (c *Compiler) ToGlobals() (string, error) {
	return c.Generate(Globals)
}

// Generate renders the module in the given convention. Every call works on a
// fresh copy of the name allocator, so repeated calls return identical output.
func (c *Compiler) Generate(convention Convention) (string, error) {
	factory, ok := backends[convention]
	if !ok {
		return "", fmt.Errorf("%w: %s", esmt.ErrUnknownConvention, convention)
	}

	settings := langcommon.Settings{
		ModuleName:    c.ModuleName(),
		DefaultKey:    c.options.DefaultKey,
		Global:        c.options.Global,
		ReturnExports: c.options.ReturnExports,
	}

	var buf strings.Builder

	if err := factory(c.module, c.source, settings, c.names.Fork()).Generate(&buf); err != nil {
		Logger().Debug("generation failed", zap.Stringer("convention", convention), zap.Error(err))
		return "", err
	}

	Logger().Debug("generated", zap.Stringer("convention", convention), zap.String("module", c.ModuleName()))

	return buf.String(), nil
}
