// Package supervisor manages the per-project backend processes.
//
// Each project runs as the systemd service "proj-<name>.service". The
// package has two halves:
//
//   - Supervisor: lifecycle commands (daemon-reload, enable --now,
//     disable --now, is-active). Systemd implements it on top of a
//     system.CommandExecutor so tests can record and fake systemctl.
//   - DescriptorWriter: materializes the project's executable entry point
//     and its unit file. UnitWriter is the systemd implementation.
//
// The reconciler never caches process state; it asks the Supervisor every
// time.
package supervisor
