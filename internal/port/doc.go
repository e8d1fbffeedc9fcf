// Package port suggests free backend ports.
//
// A port is free when no project in the registry owns it and nothing is
// accepting connections on it at 127.0.0.1. The suggestion is advisory: the
// port is not reserved, and Activate checks both conditions again.
//
//	p, err := port.Allocate(reg, port.Range{From: 9000, To: 9999}, prober)
//
// # Allocation Strategy
//
// First-fit: the lowest free port in the range is chosen, which keeps
// project ports clustered at the bottom of the range as projects come and
// go.
package port
