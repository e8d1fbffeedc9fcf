package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for projrouter
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitRegistryMissing   = 2
	ExitRegistryMalformed = 3
	ExitInvalidInput      = 4
	ExitPortUnavailable   = 5
	ExitProjectNotFound   = 6
	ExitCommandFailed     = 7
	ExitVerification      = 8
	ExitCheckFailed       = 9
)

// Kind classifies a RouterError.
type Kind string

const (
	KindGeneral               Kind = "General"
	KindRegistryMissing       Kind = "RegistryMissing"
	KindRegistryMalformed     Kind = "RegistryMalformed"
	KindInvalidName           Kind = "InvalidName"
	KindInvalidPort           Kind = "InvalidPort"
	KindPortConflict          Kind = "PortConflict"
	KindPortInUse             Kind = "PortInUse"
	KindProjectNotFound       Kind = "ProjectNotFound"
	KindExternalCommandFailed Kind = "ExternalCommandFailed"
	KindVerificationFailed    Kind = "VerificationFailed"
	KindCheckFailed           Kind = "CheckFailed"
)

// RouterError is the base error type for projrouter
type RouterError struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error

	// Command, Stdout and Stderr are set for ExternalCommandFailed.
	Command string
	Stdout  string
	Stderr  string

	// URL is set for VerificationFailed.
	URL string

	// Discrepancies is set for CheckFailed.
	Discrepancies []string
}

func (e *RouterError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if e.Kind == KindExternalCommandFailed {
		fmt.Fprintf(&b, "\nstdout:\n%s\nstderr:\n%s", e.Stdout, e.Stderr)
	}
	if len(e.Discrepancies) > 0 {
		b.WriteString(":\n- ")
		b.WriteString(strings.Join(e.Discrepancies, "\n- "))
	}
	return b.String()
}

func (e *RouterError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *RouterError) ExitCode() int {
	return e.Code
}

// New creates a new RouterError
func New(kind Kind, code int, message string) *RouterError {
	return &RouterError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a RouterError
func Wrap(kind Kind, code int, message string, cause error) *RouterError {
	return &RouterError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// RegistryMissing returns an error for an absent registry file
func RegistryMissing(path string) *RouterError {
	return New(KindRegistryMissing, ExitRegistryMissing, fmt.Sprintf("registry not found: %s", path))
}

// RegistryMalformed returns an error for a registry that cannot be used
func RegistryMalformed(message string, cause error) *RouterError {
	return Wrap(KindRegistryMalformed, ExitRegistryMalformed, message, cause)
}

// InvalidName returns an error for a project name outside [a-zA-Z0-9_-]
func InvalidName(name string) *RouterError {
	return New(KindInvalidName, ExitInvalidInput,
		fmt.Sprintf("invalid project name %q (allowed: a-zA-Z0-9_-)", name))
}

// InvalidPort returns an error for a port outside 1-65535
func InvalidPort(port int) *RouterError {
	return New(KindInvalidPort, ExitInvalidInput, fmt.Sprintf("invalid port %d (allowed: 1-65535)", port))
}

// PortConflict returns an error when another project already owns the port
func PortConflict(port int, owner string) *RouterError {
	return New(KindPortConflict, ExitPortUnavailable,
		fmt.Sprintf("port %d is already used by project %s in the registry", port, owner))
}

// PortInUse returns an error when something already listens on the port
func PortInUse(port int) *RouterError {
	return New(KindPortInUse, ExitPortUnavailable, fmt.Sprintf("port %d is already in use on 127.0.0.1", port))
}

// ProjectNotFound returns an error for a project missing from the registry
func ProjectNotFound(name string) *RouterError {
	return New(KindProjectNotFound, ExitProjectNotFound, fmt.Sprintf("project not found in registry: %s", name))
}

// CommandFailed returns an error for an external command that exited non-zero
func CommandFailed(command, stdout, stderr string, cause error) *RouterError {
	e := Wrap(KindExternalCommandFailed, ExitCommandFailed, fmt.Sprintf("command failed: %s", command), cause)
	e.Command = command
	e.Stdout = stdout
	e.Stderr = stderr
	return e
}

// VerificationFailed returns an error for a health probe that failed after apply
func VerificationFailed(what, url string) *RouterError {
	e := New(KindVerificationFailed, ExitVerification, fmt.Sprintf("%s health check failed: %s", what, url))
	e.URL = url
	return e
}

// CheckFailed returns an aggregated error for a failed audit
func CheckFailed(discrepancies []string) *RouterError {
	e := New(KindCheckFailed, ExitCheckFailed, "check failed")
	e.Discrepancies = append([]string(nil), discrepancies...)
	return e
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var routerErr *RouterError
	if errors.As(err, &routerErr) {
		return routerErr.ExitCode()
	}
	return ExitGeneralError
}

// KindOf returns the Kind of the first RouterError in err's chain,
// or KindGeneral when there is none.
func KindOf(err error) Kind {
	var routerErr *RouterError
	if errors.As(err, &routerErr) {
		return routerErr.Kind
	}
	return KindGeneral
}

// IsKind reports whether err's chain contains a RouterError of the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
