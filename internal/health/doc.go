// Package health provides the probes used to verify backends.
//
// Two primitives, both bounded by explicit timeouts:
//
//	health.PortOpen(host, port, timeout)       // TCP connect succeeds
//	health.HTTPOK(url, timeout, insecureTLS)   // GET returns 2xx in time
//
// insecureTLS skips certificate verification. It is only used for probes
// through the public domain, where development hosts often serve
// self-signed or partial chains.
//
// Prober bundles both so callers can substitute fakes in tests. URL helpers
// build the local and external /health URLs for a project.
package health
