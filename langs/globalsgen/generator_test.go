package globalsgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/parser"
	"github.com/shibukawa/esmt/testhelper"
)

func generate(t *testing.T, src string, opts ...Option) (string, error) {
	t.Helper()

	module, err := parser.Parse(src)
	assert.NoError(t, err)

	var buf strings.Builder

	err = New(module, src, opts...).Generate(&buf)

	return buf.String(), err
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts []Option
		want string
	}{
		{
			name: "no declarations",
			src:  "foo();\n",
			want: testhelper.Dedent(t, `
				(function() {
				foo();
				})();
				`),
		},
		{
			name: "dependencies and default declaration",
			src:  "import a from './x';\nexport default function f() { return a; }\n",
			opts: []Option{WithModuleName("m")},
			want: testhelper.Dedent(t, `
				(function() {
				  var __dependency1__ = window["./x"];
				  var __exports__ = window.m = window.m || {};
				  var a = __dependency1__["default"];

				function f() { return a; }
				  __exports__["default"] = f;
				})();
				`),
		},
		{
			name: "custom global",
			src:  "'use strict';\nimport {b} from 'lib';\nexport {b};\n",
			opts: []Option{WithModuleName("my-module"), WithGlobal("this.app")},
			want: testhelper.Dedent(t, `
				(function() {
				  'use strict';
				  var __dependency1__ = this.app.lib;
				  var __exports__ = this.app["my-module"] = this.app["my-module"] || {};
				  var b = __dependency1__.b;



				  __exports__.b = b;
				})();
				`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generate(t, tt.src, tt.opts...)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		opts    []Option
		option  string
		wantErr error
	}{
		{
			name:    "exports without a module name",
			src:     "export default 1;",
			option:  "module_name",
			wantErr: esmt.ErrModuleNameRequired,
		},
		{
			name:    "global is not an identifier path",
			src:     "foo();",
			opts:    []Option{WithGlobal("window[0]")},
			option:  "global",
			wantErr: esmt.ErrInvalidGlobal,
		},
		{
			name:    "empty global",
			src:     "foo();",
			opts:    []Option{WithGlobal("")},
			option:  "global",
			wantErr: esmt.ErrInvalidGlobal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generate(t, tt.src, tt.opts...)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Equal(t, "", got)

			var configErr *esmt.ConfigurationError
			assert.True(t, errors.As(err, &configErr))
			assert.Equal(t, Convention, configErr.Convention)
			assert.Equal(t, tt.option, configErr.Option)
		})
	}
}
