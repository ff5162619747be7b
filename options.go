package esmt

// Default option values
const (
	DefaultExportKey = "default"
	DefaultGlobal    = "window"
)

// Options are the per-transpilation settings shared by every convention.
type Options struct {
	// ModuleName overrides the module identifier given to the compiler
	ModuleName string `yaml:"module_name,omitempty" json:"module_name,omitempty"`

	// DefaultKey is the export surface property that holds the default export
	DefaultKey string `yaml:"default_key,omitempty" json:"default_key,omitempty"`

	// Global is the namespace root for the globals convention
	Global string `yaml:"global,omitempty" json:"global,omitempty"`

	// ReturnExports makes the AMD factory build and return its export surface
	// instead of receiving the "exports" dependency
	ReturnExports bool `yaml:"return_exports,omitempty" json:"return_exports,omitempty"`
}

// DefaultOptions returns options with every default applied.
func DefaultOptions() Options {
	return Options{
		DefaultKey: DefaultExportKey,
		Global:     DefaultGlobal,
	}
}

// WithDefaults fills unset fields from DefaultOptions.
func (o Options) WithDefaults() Options {
	if o.DefaultKey == "" {
		o.DefaultKey = DefaultExportKey
	}

	if o.Global == "" {
		o.Global = DefaultGlobal
	}

	return o
}

// Merge returns o with every non-zero field of override applied on top.
func (o Options) Merge(override Options) Options {
	if override.ModuleName != "" {
		o.ModuleName = override.ModuleName
	}

	if override.DefaultKey != "" {
		o.DefaultKey = override.DefaultKey
	}

	if override.Global != "" {
		o.Global = override.Global
	}

	if override.ReturnExports {
		o.ReturnExports = true
	}

	return o
}
