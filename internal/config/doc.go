// Package config holds projrouter's fixed settings and input validation.
//
// Settings that live in the registry file (root, domain, HTTPS port, routes
// file) belong to package registry. This package covers everything else:
//
//   - Validation of project names (^[a-zA-Z0-9_-]+$) and ports (1-65535)
//   - Derived names: systemd service "proj-<name>.service", project directory
//   - Host paths outside the registry (unit directory, audit state directory)
//   - Timeouts bounding TCP probes, HTTP probes and external commands
package config
