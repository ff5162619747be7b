package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/compiler"
)

// BuildCmd represents the build command
type BuildCmd struct {
	Input    string `short:"i" help:"Input directory (default: input_dir from config)" type:"path"`
	Parallel int    `help:"Number of files transpiled at once" default:"0"` // 0 means use CPU count
	Watch    bool   `short:"w" help:"Watch for file changes and rebuild"`
}

// target is one enabled output convention with its resolved settings
type target struct {
	convention compiler.Convention
	output     string
	opts       []compiler.Option
}

func (b *BuildCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	inputDir := b.Input
	if inputDir == "" {
		inputDir = config.InputDir
	}

	targets, err := buildTargets(config)
	if err != nil {
		return err
	}

	files, err := collectFiles(inputDir, config)
	if err != nil {
		return err
	}

	ctx.status(color.FgBlue, "Building %d file(s) from %s", len(files), inputDir)

	if err := b.build(ctx, inputDir, files, targets); err != nil {
		return err
	}

	if !b.Watch {
		return nil
	}

	w, err := newWatcher([]string{inputDir}, config.HasSourceExtension, func(_ context.Context, changed []string) error {
		return b.build(ctx, inputDir, changed, targets)
	}, ctx.stderr())
	if err != nil {
		return err
	}

	ctx.status(color.FgCyan, "Watching %s for changes", inputDir)

	return w.run(ctx.context())
}

func buildTargets(config *esmt.Config) ([]target, error) {
	var targets []target

	for _, name := range config.EnabledTargets() {
		convention, err := compiler.ParseConvention(name)
		if err != nil {
			return nil, err
		}

		opts := config.OptionsFor(name)

		targets = append(targets, target{
			convention: convention,
			output:     config.Targets[name].Output,
			opts: []compiler.Option{
				compiler.WithDefaultKey(opts.DefaultKey),
				compiler.WithGlobal(opts.Global),
				compiler.WithReturnExports(opts.ReturnExports),
			},
		})
	}

	return targets, nil
}

// collectFiles lists every source file under dir
func collectFiles(dir string, config *esmt.Config) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && config.HasSourceExtension(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	return files, nil
}

// build scans every file once and renders it for every target. Files are
// processed in parallel; each has its own compiler.
func (b *BuildCmd) build(ctx *Context, inputDir string, files []string, targets []target) error {
	parallel := b.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	eg, egCtx := errgroup.WithContext(ctx.context())
	eg.SetLimit(parallel)

	var written atomic.Int64

	for _, file := range files {
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return egCtx.Err()
			}

			c, err := compileFile(file, moduleName(inputDir, file), esmt.Options{})
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(inputDir, file)
			if err != nil {
				return err
			}

			for _, t := range targets {
				out, err := c.Configure(t.opts...).Generate(t.convention)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}

				path := filepath.Join(t.output, rel)
				if err := writeFile(path, out); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}

				written.Add(1)

				if ctx.Verbose {
					ctx.status(color.FgGreen, "Generated: %s", path)
				}
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	ctx.status(color.FgGreen, "Wrote %d file(s) for %d target(s)", written.Load(), len(targets))

	return nil
}
