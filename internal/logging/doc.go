// Package logging provides logging utilities for projrouter.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("writing routes", "path", path, "projects", len(projects))
//	logging.Warn("disable-stop failed", "service", svc, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Activating %s on port %d...", name, port)
//	logging.UserSuccess("Activated %s", name)
//	logging.UserWarning("Could not stop %s", svc)
//	logging.UserError("%v", err)
//
// Output destinations (swappable through the Stdout/Stderr variables):
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// # Status Indicators
//
// User functions prepend status indicators:
//   - ℹ (info)
//   - ✓ (success)
//   - ⚠ (warning)
//   - ✗ (error)
package logging
