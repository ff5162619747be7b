package esmt

import (
	"errors"
	"fmt"
)

// Common errors used throughout the esmt packages
var (
	// ErrUnterminatedString indicates a quoted string literal was not closed.
	// Tokenizer errors
	ErrUnterminatedString = errors.New("unterminated string literal")
	// ErrUnterminatedComment indicates a block comment was not closed.
	ErrUnterminatedComment = errors.New("unterminated block comment")
	// ErrUnterminatedTemplate indicates a template literal was not closed.
	ErrUnterminatedTemplate = errors.New("unterminated template literal")
	// ErrUnterminatedRegExp indicates a regular expression literal was not closed on its line.
	ErrUnterminatedRegExp = errors.New("unterminated regular expression literal")

	// ErrUnbalancedBrackets indicates a bracket, brace or parenthesis was never closed.
	// Scanner errors
	ErrUnbalancedBrackets = errors.New("unbalanced brackets")
	// ErrUnexpectedCloser indicates a closing bracket without a matching opener.
	ErrUnexpectedCloser = errors.New("unexpected closing bracket")
	// ErrUnsupportedSyntax indicates an import/export statement of an unknown shape.
	ErrUnsupportedSyntax = errors.New("unsupported module syntax")
	// ErrDuplicateExport indicates the same exported name was declared twice.
	ErrDuplicateExport = errors.New("duplicate export name")

	// ErrModuleNameRequired indicates the convention needs a module name but none was given.
	// Generator errors
	ErrModuleNameRequired = errors.New("module name is required")
	// ErrDefaultKeyCollision indicates the default-export key is also used as a named export.
	ErrDefaultKeyCollision = errors.New("default export key collides with a named export")
	// ErrInvalidDefaultKey indicates the default-export key is empty.
	ErrInvalidDefaultKey = errors.New("invalid default export key")
	// ErrInvalidGlobal indicates the global object name is not an identifier path.
	ErrInvalidGlobal = errors.New("invalid global object name")
	// ErrUnknownConvention indicates an unsupported output convention was requested.
	ErrUnknownConvention = errors.New("unknown module convention")

	// ErrConfigValidation is returned when configuration validation fails.
	// Configuration errors
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrConfigFileNotFound indicates a configuration file could not be located.
	ErrConfigFileNotFound = errors.New("configuration file not found")
)

// ParseError reports malformed lexical structure. It aborts the transpilation
// before any generator runs.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedSyntaxError reports an import or export statement whose shape is
// not one of the recognized forms.
type UnsupportedSyntaxError struct {
	Line   int
	Column int
	Text   string
	Reason string
	Err    error
}

func (e *UnsupportedSyntaxError) Error() string {
	msg := fmt.Sprintf("unsupported syntax at line %d, column %d", e.Line, e.Column)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	if e.Text != "" {
		msg += fmt.Sprintf(" in %q", e.Text)
	}

	return msg
}

func (e *UnsupportedSyntaxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}

	return ErrUnsupportedSyntax
}

// ConfigurationError reports an option that is invalid for one convention.
// Other conventions may still be generated from the same module.
type ConfigurationError struct {
	Convention string
	Option     string
	Err        error
}

func (e *ConfigurationError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("%s: %v", e.Convention, e.Err)
	}

	return fmt.Sprintf("%s: option %s: %v", e.Convention, e.Option, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
