package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// ExitError reports a command that ran to completion and exited non-zero.
// Code is the tool's own exit status and is propagated to the process exit
// of the CLI.
type ExitError struct {
	Target string
	Argv   []string
	Code   int
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return fmt.Sprintf("target %q: command %q exited with status %d", e.Target, strings.Join(e.Argv, " "), e.Code)
}

// StartError reports a command that could not be launched at all: the
// program was not found, was not executable, or the invocation was
// malformed. Keeping this distinct from ExitError lets callers tell a
// misconfigured taskfile apart from an actual lint or test failure.
type StartError struct {
	Target  string
	Program string
	Err     error
}

// Error implements the error interface for StartError.
func (e *StartError) Error() string {
	return fmt.Sprintf("target %q: cannot launch %q: %v", e.Target, e.Program, e.Err)
}

// Unwrap exposes the underlying launch failure.
func (e *StartError) Unwrap() error {
	return e.Err
}

// ExitCode maps the launch failure onto the shell convention: 127 for a
// program that was not found, 126 otherwise.
func (e *StartError) ExitCode() int {
	if errors.Is(e.Err, exec.ErrNotFound) || errors.Is(e.Err, fs.ErrNotExist) {
		return 127
	}
	return 126
}

// classifyWaitError converts the error returned by exec.Cmd.Run into the
// runner's taxonomy.
func classifyWaitError(target string, argv []string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Target: target, Argv: argv, Code: exitErr.ExitCode()}
	}
	return &StartError{Target: target, Program: argv[0], Err: err}
}
