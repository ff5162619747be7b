package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/shibukawa/esmt"
)

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(ctx *Context) error {
	path := ctx.Config
	if path == "" {
		path = esmt.DefaultConfigFile
	}

	if fileExists(path) && !i.Force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if ctx.Verbose {
		color.Blue("Initializing esmt project")
	}

	if err := writeFile(path, sampleConfig); err != nil {
		return fmt.Errorf("failed to create sample configuration: %w", err)
	}

	src := filepath.Join(filepath.Dir(path), "src")
	if err := ensureDir(src); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", src, err)
	}

	if !fileExists(filepath.Join(src, "main.js")) {
		if err := writeFile(filepath.Join(src, "main.js"), sampleModule); err != nil {
			return fmt.Errorf("failed to create sample module: %w", err)
		}
	}

	if !ctx.Quiet {
		ctx.status(color.FgGreen, "esmt project initialized successfully")
		fmt.Fprintln(ctx.stdout(), "\nNext steps:")
		fmt.Fprintln(ctx.stdout(), "1. Edit esmt.yaml to choose your targets")
		fmt.Fprintln(ctx.stdout(), "2. Write ES modules in the src/ directory")
		fmt.Fprintln(ctx.stdout(), "3. Run 'esmt build' to transpile them")
	}

	return nil
}

const sampleConfig = `# Directory containing ES module sources
input_dir: "./src"

# Files with these extensions are transpiled
extensions: [".js", ".mjs"]

# Each target writes to output_dir/<target> unless output is set
output_dir: "./dist"

# Options shared by every target
options:
  default_key: "default"
  global: "window"

targets:
  amd:
    options:
      return_exports: false
  yui:
    disabled: true
  cjs:
    output: "./dist/cjs"
  globals:
    options:
      global: "window"
`

const sampleModule = `import greeting from './greeting';

export default function main() {
  return greeting;
}
`
