package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/compiler"
	"github.com/shibukawa/esmt/intermediate"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Files []string `arg:"" help:"Module files to scan" type:"existingfile"`
	Root  string   `help:"Directory module names are relative to" type:"path"`
	JSON  bool     `help:"Print the scanned declarations as JSON"`
}

// checkResult is the report of one file
type checkResult struct {
	File   string               `json:"file"`
	Module string               `json:"module"`
	Scan   *intermediate.Module `json:"scan,omitempty"`
	Error  *checkError          `json:"error,omitempty"`
}

type checkError struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (c *CheckCmd) Run(ctx *Context) error {
	if len(c.Files) == 0 {
		return ErrNoInputFiles
	}

	results := make([]checkResult, 0, len(c.Files))
	failed := 0

	for _, file := range c.Files {
		result := c.check(file)
		if result.Error != nil {
			failed++
		}

		results = append(results, result)
	}

	if c.JSON {
		enc := json.NewEncoder(ctx.stdout())
		enc.SetIndent("", "  ")

		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			printCheckResult(ctx, result)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCheckFailed, failed, len(results))
	}

	return nil
}

func (c *CheckCmd) check(file string) checkResult {
	result := checkResult{
		File:   file,
		Module: moduleName(c.Root, file),
	}

	data, err := os.ReadFile(file)
	if err != nil {
		result.Error = &checkError{Message: err.Error()}
		return result
	}

	comp, err := compiler.New(string(data), result.Module)
	if err != nil {
		result.Error = newCheckError(err)
		return result
	}

	result.Scan = comp.Module()

	return result
}

func newCheckError(err error) *checkError {
	var (
		parseErr  *esmt.ParseError
		syntaxErr *esmt.UnsupportedSyntaxError
	)

	switch {
	case errors.As(err, &parseErr):
		return &checkError{Message: err.Error(), Line: parseErr.Line, Column: parseErr.Column}
	case errors.As(err, &syntaxErr):
		return &checkError{Message: err.Error(), Line: syntaxErr.Line, Column: syntaxErr.Column}
	default:
		return &checkError{Message: err.Error()}
	}
}

func printCheckResult(ctx *Context, result checkResult) {
	if result.Error != nil {
		color.New(color.FgRed).Fprintf(ctx.stdout(), "✗ %s: %s\n", result.File, result.Error.Message)
		return
	}

	m := result.Scan

	exports := len(m.ExportedNames())
	if m.Default != nil {
		exports++
	}

	ctx.status(color.FgGreen, "✓ %s (%s): %d import(s), %d export(s)", result.File, result.Module, len(m.Imports), exports)

	if !ctx.Verbose {
		return
	}

	for _, spec := range m.Specifiers() {
		fmt.Fprintf(ctx.stdout(), "    depends on %q\n", spec.Source)
	}

	if names := m.ExportedNames(); len(names) > 0 {
		fmt.Fprintf(ctx.stdout(), "    exports %s\n", strings.Join(names, ", "))
	}
}
