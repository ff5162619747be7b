package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/compiler"
)

// moduleName derives a module name from a file path: the path relative to
// root, with forward slashes and without its extension.
func moduleName(root, path string) string {
	name := path
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			name = rel
		}
	}

	name = filepath.ToSlash(name)
	name = strings.TrimPrefix(name, "./")

	return strings.TrimSuffix(name, filepath.Ext(name))
}

// compileFile reads and scans one module file
func compileFile(path, name string, opts esmt.Options) (*compiler.Compiler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	c, err := compiler.New(string(data), name, compiler.WithOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// loadConfig loads the configuration and resolves input_dir relative to the
// configuration file
func loadConfig(ctx *Context) (*esmt.Config, error) {
	config, err := esmt.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if ctx.Config != "" {
		base := filepath.Dir(ctx.Config)
		config.InputDir = rebase(base, config.InputDir)

		for name, target := range config.Targets {
			target.Output = rebase(base, target.Output)
			config.Targets[name] = target
		}
	}

	return config, nil
}

func rebase(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Clean(filepath.Join(base, path))
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}

	return nil
}

// writeFile writes content to a file, creating directories if necessary
func writeFile(path, content string) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return os.WriteFile(path, []byte(content), 0644)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
