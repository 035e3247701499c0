// Package app wires the application together: it owns the logger, drives
// the configuration loader, validates the resulting model, and runs the
// requested targets. The cli package produces its Config; cmd/cli maps its
// errors onto process exit codes.
package app
