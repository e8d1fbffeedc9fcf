// Package errors provides typed errors with exit codes for projrouter.
//
// # Error Types
//
// RouterError is the base error type. It carries a Kind, an exit code, a
// user-facing message and an optional wrapped cause:
//
//	type RouterError struct {
//	    Kind    Kind   // Classification (RegistryMissing, PortConflict, ...)
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// Some kinds carry extra context: ExternalCommandFailed keeps the command
// line and its captured stdout/stderr, VerificationFailed keeps the URL that
// failed, and CheckFailed keeps every discrepancy found by an audit.
//
// # Exit Codes
//
//	ExitSuccess           = 0
//	ExitGeneralError      = 1
//	ExitRegistryMissing   = 2
//	ExitRegistryMalformed = 3
//	ExitInvalidInput      = 4 // InvalidName, InvalidPort
//	ExitPortUnavailable   = 5 // PortConflict, PortInUse
//	ExitProjectNotFound   = 6
//	ExitCommandFailed     = 7
//	ExitVerification      = 8
//	ExitCheckFailed       = 9
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
