// Package runner executes targets: each command of a target runs as a
// single synchronous child process, in declaration order, and the target
// halts at the first command that does not exit zero. The package
// distinguishes a tool that ran and failed (ExitError, carrying the tool's
// own exit code) from a tool that could not be launched at all (StartError,
// mapped to the shell's 126/127 convention).
package runner
