// Package reconcile keeps the registry, the generated nginx routes and the
// per-project backend services in agreement.
//
// A Reconciler reads the registry fresh at the start of every operation.
// Mutations (Activate, Deactivate, Resync) apply their changes in a fixed
// order and stop at the first failing step. Steps already completed stay
// committed; rerunning the same command is the recovery path. Check is
// read-only and reports every discrepancy it finds in one pass.
//
// Apply order for Activate:
//
//  1. project directory, entry point and unit descriptor
//  2. supervisor index reload, then enable and start the service
//  3. registry persisted with the new port
//  4. routes rendered, written, validated and the proxy reloaded
//  5. local and external health verified
package reconcile
