package compiler

import (
	"fmt"
	"io"
	"strings"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/langs/amdgen"
	"github.com/shibukawa/esmt/langs/cjsgen"
	"github.com/shibukawa/esmt/langs/globalsgen"
	"github.com/shibukawa/esmt/langs/langcommon"
	"github.com/shibukawa/esmt/langs/yuigen"
	"github.com/shibukawa/esmt/naming"
)

// Convention is one of the module conventions a compiler can emit
type Convention int

const (
	AMD Convention = iota
	YUI
	CJS
	Globals
)

func (c Convention) String() string {
	switch c {
	case AMD:
		return amdgen.Convention
	case YUI:
		return yuigen.Convention
	case CJS:
		return cjsgen.Convention
	case Globals:
		return globalsgen.Convention
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// Extension returns the file name suffix used for build outputs
func (c Convention) Extension() string {
	return "." + c.String() + ".js"
}

// Conventions returns every supported convention in a stable order
func Conventions() []Convention {
	return []Convention{AMD, YUI, CJS, Globals}
}

// ParseConvention parses a convention name such as "amd" or "CommonJS"
func ParseConvention(name string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "amd":
		return AMD, nil
	case "yui":
		return YUI, nil
	case "cjs", "commonjs":
		return CJS, nil
	case "globals", "global", "iife":
		return Globals, nil
	}

	return 0, fmt.Errorf("%w: %q", esmt.ErrUnknownConvention, name)
}

// Backend renders one module in one convention
type Backend interface {
	Generate(w io.Writer) error
}

type backendFactory func(module *intermediate.Module, source string, settings langcommon.Settings, names *naming.Allocator) Backend

var backends = map[Convention]backendFactory{
	AMD: func(module *intermediate.Module, source string, settings langcommon.Settings, names *naming.Allocator) Backend {
		return amdgen.New(module, source, amdgen.WithSettings(settings), amdgen.WithNames(names))
	},
	YUI: func(module *intermediate.Module, source string, settings langcommon.Settings, names *naming.Allocator) Backend {
		return yuigen.New(module, source, yuigen.WithSettings(settings), yuigen.WithNames(names))
	},
	CJS: func(module *intermediate.Module, source string, settings langcommon.Settings, names *naming.Allocator) Backend {
		return cjsgen.New(module, source, cjsgen.WithSettings(settings), cjsgen.WithNames(names))
	},
	Globals: func(module *intermediate.Module, source string, settings langcommon.Settings, names *naming.Allocator) Backend {
		return globalsgen.New(module, source, globalsgen.WithSettings(settings), globalsgen.WithNames(names))
	},
}
