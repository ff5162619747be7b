package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/shibukawa/esmt/compiler"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}

	return c.Ctx
}

func (c *Context) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}

	return c.Stdout
}

func (c *Context) stderr() io.Writer {
	if c.Stderr == nil {
		return os.Stderr
	}

	return c.Stderr
}

// status prints a progress line unless --quiet is set
func (c *Context) status(attr color.Attribute, format string, args ...any) {
	if c.Quiet {
		return
	}

	color.New(attr).Fprintf(c.stdout(), format+"\n", args...)
}

// CLI represents the command-line interface
var CLI struct {
	Config    string       `help:"Configuration file path" default:"esmt.yaml"`
	Verbose   bool         `help:"Enable verbose output" short:"v"`
	Quiet     bool         `help:"Suppress output" short:"q"`
	Transpile TranspileCmd `cmd:"" help:"Transpile module files to one convention"`
	Build     BuildCmd     `cmd:"" help:"Transpile the input directory to every enabled target"`
	Check     CheckCmd     `cmd:"" help:"Scan module files and report their declarations"`
	Init      InitCmd      `cmd:"" help:"Initialize a new esmt project"`
	Version   VersionCmd   `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.stdout(), "esmt v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("esmt"),
		kong.Description("Rewrite ES module declarations as AMD, YUI, CommonJS or global scripts"),
	)

	if CLI.Verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			compiler.SetLogger(logger)

			defer logger.Sync() //nolint:errcheck
		}
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Ctx:     signalCtx,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
