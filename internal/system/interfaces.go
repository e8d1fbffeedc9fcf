// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
)

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Run executes a command and captures stdout and stderr separately.
	// A non-zero exit is reported as an error together with the Result.
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

var defaultExecutor CommandExecutor = &osExecutor{}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return defaultExecutor
}

// SetDefaultExecutor sets the default CommandExecutor (useful for testing).
func SetDefaultExecutor(exec CommandExecutor) {
	defaultExecutor = exec
}

// ResetDefaults restores the default OS implementations.
func ResetDefaults() {
	defaultExecutor = &osExecutor{}
}
