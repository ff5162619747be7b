package main

import "errors"

// Sentinel errors
var (
	ErrNoInputFiles            = errors.New("no input files")
	ErrModuleNameWithManyFiles = errors.New("--module-name can only be used with a single file")
	ErrStdoutWithWatch         = errors.New("--stdout cannot be combined with --watch")
	ErrCheckFailed             = errors.New("some files failed to scan")
	ErrConfigExists            = errors.New("configuration file already exists")
)
