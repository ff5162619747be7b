package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/compiler"
)

// TranspileCmd represents the transpile command
type TranspileCmd struct {
	Files         []string `arg:"" help:"Module files to transpile" type:"existingfile"`
	Type          string   `short:"t" help:"Module convention: amd, yui, cjs or globals" default:"amd"`
	ModuleName    string   `short:"m" help:"Module name (default: file path without extension)"`
	Root          string   `help:"Directory module names are relative to" type:"path"`
	Output        string   `short:"o" help:"Output directory (default: next to each input file)" type:"path"`
	Stdout        bool     `help:"Write the result to stdout"`
	Watch         bool     `short:"w" help:"Watch for file changes and transpile again"`
	DefaultKey    string   `help:"Export surface key of the default export"`
	Global        string   `help:"Global object of the globals convention"`
	ReturnExports bool     `help:"Make AMD factories return their exports"`
}

func (t *TranspileCmd) Run(ctx *Context) error {
	if len(t.Files) == 0 {
		return ErrNoInputFiles
	}

	if t.ModuleName != "" && len(t.Files) > 1 {
		return ErrModuleNameWithManyFiles
	}

	if t.Stdout && t.Watch {
		return ErrStdoutWithWatch
	}

	convention, err := compiler.ParseConvention(t.Type)
	if err != nil {
		return err
	}

	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	opts := config.OptionsFor(convention.String()).Merge(esmt.Options{
		ModuleName:    t.ModuleName,
		DefaultKey:    t.DefaultKey,
		Global:        t.Global,
		ReturnExports: t.ReturnExports,
	})

	if err := t.transpile(ctx, convention, opts, t.Files); err != nil {
		return err
	}

	if !t.Watch {
		return nil
	}

	return t.watch(ctx, convention, opts)
}

func (t *TranspileCmd) transpile(ctx *Context, convention compiler.Convention, opts esmt.Options, files []string) error {
	for _, file := range files {
		c, err := compileFile(file, moduleName(t.Root, file), opts)
		if err != nil {
			return err
		}

		out, err := c.Generate(convention)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		if t.Stdout {
			fmt.Fprint(ctx.stdout(), out)
			continue
		}

		path := t.outputPath(file, convention)
		if err := writeFile(path, out); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		if ctx.Verbose {
			ctx.status(color.FgGreen, "Generated: %s", path)
		}
	}

	if !t.Stdout {
		ctx.status(color.FgGreen, "Transpiled %d file(s) to %s", len(files), convention)
	}

	return nil
}

// outputPath returns foo.amd.js next to foo.js, or foo.js inside --output
func (t *TranspileCmd) outputPath(file string, convention compiler.Convention) string {
	if t.Output != "" {
		rel := filepath.Base(file)
		if t.Root != "" {
			if r, err := filepath.Rel(t.Root, file); err == nil && !strings.HasPrefix(r, "..") {
				rel = r
			}
		}

		return filepath.Join(t.Output, rel)
	}

	return strings.TrimSuffix(file, filepath.Ext(file)) + convention.Extension()
}

func (t *TranspileCmd) watch(ctx *Context, convention compiler.Convention, opts esmt.Options) error {
	files := make([]string, 0, len(t.Files))

	for _, file := range t.Files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}

		files = append(files, abs)
	}

	byAbs := make(map[string]string, len(files))
	for i, abs := range files {
		byAbs[abs] = t.Files[i]
	}

	w, err := newWatcher(files, func(path string) bool {
		abs, err := filepath.Abs(path)
		return err == nil && slices.Contains(files, abs)
	}, func(_ context.Context, changed []string) error {
		var inputs []string

		for _, path := range changed {
			if abs, err := filepath.Abs(path); err == nil {
				inputs = append(inputs, byAbs[abs])
			}
		}

		return t.transpile(ctx, convention, opts, inputs)
	}, ctx.stderr())
	if err != nil {
		return err
	}

	ctx.status(color.FgCyan, "Watching %d file(s) for changes", len(files))

	return w.run(ctx.context())
}
