package testhelper

import (
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
)

var leadingSpaces = regexp.MustCompile(`^([ \t]+)`)

// Dedent removes the indentation of a raw string literal that starts with a
// line break. The indentation of the first content line is stripped from
// every line, so the closing backtick may sit on its own indented line.
func Dedent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}

	indent := leadingSpaces.FindString(lines[1])

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}

	return strings.Join(lines[1:], "\n")
}

// CaseAt returns " (file:line)" of the caller, for table case names that point
// back at the case definition.
func CaseAt(t *testing.T) string {
	t.Helper()

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return ""
	}

	return fmt.Sprintf(" (%s:%d)", filepath.Base(file), line)
}
