package esmt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./src", config.InputDir)
	assert.Equal(t, "./dist", config.OutputDir)
	assert.Equal(t, []string{".js", ".mjs"}, config.Extensions)
	assert.Equal(t, DefaultExportKey, config.Options.DefaultKey)
	assert.Equal(t, DefaultGlobal, config.Options.Global)
	assert.Equal(t, []string{"amd", "yui", "cjs", "globals"}, config.EnabledTargets())
	assert.Equal(t, "./dist/cjs", config.Targets["cjs"].Output)
}

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(`
input_dir: ./lib
output_dir: ./out
extensions: [".es6"]
options:
  default_key: value
targets:
  amd:
    output: ./out/amd
    options:
      return_exports: true
  globals:
    options:
      global: self
  yui:
    disabled: true
`))
	assert.NoError(t, err)

	assert.Equal(t, "./lib", config.InputDir)
	assert.Equal(t, []string{".es6"}, config.Extensions)
	assert.Equal(t, []string{"amd", "cjs", "globals"}, config.EnabledTargets())
	assert.Equal(t, "./out/globals", config.Targets["globals"].Output)

	amd := config.OptionsFor("amd")
	assert.True(t, amd.ReturnExports)
	assert.Equal(t, "value", amd.DefaultKey)
	assert.Equal(t, "window", amd.Global)

	globals := config.OptionsFor("globals")
	assert.Equal(t, "self", globals.Global)
	assert.False(t, globals.ReturnExports)

	assert.True(t, config.HasSourceExtension("a/b.es6"))
	assert.False(t, config.HasSourceExtension("a/b.js"))
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		validation bool
	}{
		{
			name: "unknown field",
			yaml: "input: ./src\n",
		},
		{
			name:       "unknown target",
			yaml:       "targets:\n  umd:\n    output: ./umd\n",
			validation: true,
		},
		{
			name:       "module name in options",
			yaml:       "options:\n  module_name: app\n",
			validation: true,
		},
		{
			name:       "module name in target",
			yaml:       "targets:\n  amd:\n    options:\n      module_name: app\n",
			validation: true,
		},
		{
			name:       "extension without dot",
			yaml:       "extensions: [js]\n",
			validation: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
			assert.Equal(t, tt.validation, errors.Is(err, ErrConfigValidation))
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ESMT_OUT", "/tmp/out")
	t.Setenv("ESMT_GLOBAL", "self")

	assert.Equal(t, "/tmp/out/amd", expandEnvVars("${ESMT_OUT}/amd"))
	assert.Equal(t, "/tmp/out/cjs", expandEnvVars("$ESMT_OUT/cjs"))
	assert.Equal(t, "plain", expandEnvVars("plain"))

	config, err := ParseConfig([]byte("output_dir: ${ESMT_OUT}\noptions:\n  global: $ESMT_GLOBAL\n"))
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/out", config.OutputDir)
	assert.Equal(t, "/tmp/out/amd", config.Targets["amd"].Output)
	assert.Equal(t, "self", config.Options.Global)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	config, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	path := filepath.Join(dir, DefaultConfigFile)
	assert.NoError(t, os.WriteFile(path, []byte("input_dir: ./modules\n"), 0o644))

	config, err = LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "./modules", config.InputDir)
	assert.Equal(t, "./dist/amd", config.Targets["amd"].Output)
}
