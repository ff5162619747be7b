package langcommon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/shibukawa/esmt"
	"github.com/shibukawa/esmt/intermediate"
	"github.com/shibukawa/esmt/tokenizer"
)

// Member returns the property access obj.key, or obj["key"] when key is not
// a plain identifier.
func Member(obj, key string) string {
	if tokenizer.IsIdentifierName(key) && !tokenizer.IsReservedWord(key) {
		return obj + "." + key
	}

	return obj + "[" + Quote(key) + "]"
}

// Quote returns s as a double quoted JavaScript string literal.
func Quote(s string) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode

	return strings.TrimSuffix(buf.String(), "\n")
}

// QuoteList quotes every value and joins them with commas.
func QuoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = Quote(v)
	}

	return strings.Join(quoted, ", ")
}

// Indent prefixes every non-empty line with two spaces.
func Indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "  " + line
		}
	}

	return strings.Join(lines, "\n")
}

// Funcs are the template helpers available to every convention template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"quote":     Quote,
		"quoteList": QuoteList,
		"member":    Member,
		"indent":    Indent,
		"join":      strings.Join,
	}
}

// Render executes a convention template and writes the result.
func Render(w io.Writer, name, text string, data any) error {
	tmpl, err := template.New(name).Funcs(Funcs()).Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	_, err = io.WriteString(w, buf.String())

	return err
}

// CheckSettings validates the options shared by every convention.
func CheckSettings(convention string, module *intermediate.Module, settings Settings) error {
	if settings.DefaultKey == "" {
		return &esmt.ConfigurationError{Convention: convention, Option: "default_key", Err: esmt.ErrInvalidDefaultKey}
	}

	if settings.DefaultKey == intermediate.DefaultName {
		return nil
	}

	for _, name := range module.ExportedNames() {
		if name == settings.DefaultKey {
			return &esmt.ConfigurationError{
				Convention: convention,
				Option:     "default_key",
				Err:        fmt.Errorf("%w: %s", esmt.ErrDefaultKeyCollision, name),
			}
		}
	}

	return nil
}

// IsIdentifierPath reports whether s is a dotted path of identifiers such as
// "window" or "this.app".
func IsIdentifierPath(s string) bool {
	if s == "" {
		return false
	}

	for i, part := range strings.Split(s, ".") {
		if i == 0 && part == "this" {
			continue
		}

		if !tokenizer.IsIdentifierName(part) || tokenizer.IsReservedWord(part) {
			return false
		}
	}

	return true
}
