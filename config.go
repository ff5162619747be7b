package esmt

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is the configuration file looked up by the CLI
const DefaultConfigFile = "esmt.yaml"

// TargetNames lists the convention names accepted as build targets
var TargetNames = []string{"amd", "yui", "cjs", "globals"}

// Config represents the esmt project configuration
type Config struct {
	InputDir   string                  `yaml:"input_dir"`
	OutputDir  string                  `yaml:"output_dir"`
	Extensions []string                `yaml:"extensions"`
	Options    Options                 `yaml:"options"`
	Targets    map[string]TargetConfig `yaml:"targets"`
}

// TargetConfig represents the settings of one output convention
type TargetConfig struct {
	Output   string  `yaml:"output"`
	Disabled *bool   `yaml:"disabled"` // Pointer to distinguish between unset and true. If nil or false, the target is enabled
	Options  Options `yaml:"options"`
}

// IsEnabled returns true if the target is not explicitly disabled
func (t *TargetConfig) IsEnabled() bool {
	return t.Disabled == nil || !*t.Disabled
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Return default configuration if file doesn't exist
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML configuration. Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&config)

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	for name, target := range config.Targets {
		if !slices.Contains(TargetNames, name) {
			return fmt.Errorf("%w: unknown target '%s': must be one of %s", ErrConfigValidation, name, strings.Join(TargetNames, ", "))
		}

		if target.Options.ModuleName != "" {
			return fmt.Errorf("%w: target '%s': module_name is derived from file paths and cannot be set", ErrConfigValidation, name)
		}
	}

	if config.Options.ModuleName != "" {
		return fmt.Errorf("%w: options.module_name is derived from file paths and cannot be set", ErrConfigValidation)
	}

	for _, ext := range config.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension '%s' must start with '.'", ErrConfigValidation, ext)
		}
	}

	return nil
}

// DefaultConfig returns the default configuration. Every target is enabled
// and writes to a subdirectory of the output directory named after it.
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.InputDir == "" {
		config.InputDir = "./src"
	}

	if config.OutputDir == "" {
		config.OutputDir = "./dist"
	}

	if len(config.Extensions) == 0 {
		config.Extensions = []string{".js", ".mjs"}
	}

	config.Options = config.Options.WithDefaults()

	if config.Targets == nil {
		config.Targets = make(map[string]TargetConfig)
	}

	for _, name := range TargetNames {
		target := config.Targets[name]
		if target.Output == "" {
			target.Output = config.OutputDir + "/" + name
		}

		config.Targets[name] = target
	}
}

// EnabledTargets returns the names of the enabled targets in a stable order
func (c *Config) EnabledTargets() []string {
	var names []string

	for name, target := range c.Targets {
		if target.IsEnabled() {
			names = append(names, name)
		}
	}

	sort.Slice(names, func(i, j int) bool {
		return slices.Index(TargetNames, names[i]) < slices.Index(TargetNames, names[j])
	})

	return names
}

// OptionsFor returns the project options with the target's overrides applied
func (c *Config) OptionsFor(target string) Options {
	return c.Options.Merge(c.Targets[target].Options)
}

// HasSourceExtension reports whether path is a file the build should transpile
func (c *Config) HasSourceExtension(path string) bool {
	for _, ext := range c.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	plainEnvVar  = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return plainEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in every path of config
func expandConfigEnvVars(config *Config) {
	config.InputDir = expandEnvVars(config.InputDir)
	config.OutputDir = expandEnvVars(config.OutputDir)
	config.Options.Global = expandEnvVars(config.Options.Global)

	for name, target := range config.Targets {
		target.Output = expandEnvVars(target.Output)
		config.Targets[name] = target
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
