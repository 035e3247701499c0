package config

import (
	"fmt"
)

// Model is the unified representation of a loaded taskfile. Targets keep the
// order they were declared in so listings are stable.
type Model struct {
	Targets []*Target
}

// Target is a named, invokable sequence of commands. Targets are independent
// of one another: no target references or depends on another, and every
// invocation is stateless with respect to prior invocations.
type Target struct {
	Name        string
	Description string
	Commands    []*Command
}

// Command is a single external process invocation within a target. Argv and
// Args are fixed at load time; FilesGlob and ArgsFrom are resolved at
// execution time because they depend on the state of the working tree.
type Command struct {
	// Argv holds the program and any leading arguments taken from the run
	// block's label after shell-style word splitting.
	Argv []string

	// Args are additional arguments, already evaluated to plain strings.
	Args []string

	// FilesGlob is an optional glob pattern whose matches are appended to
	// the argument list when the command runs. Empty means no file selection.
	FilesGlob string

	// ArgsFrom is the argv of an optional producer command. The producer
	// runs first and the whitespace-separated fields of its stdout are
	// appended to the argument list.
	ArgsFrom []string

	// Dir is the working directory for the command. Empty means the
	// runner's own working directory.
	Dir string

	// Env holds extra environment variables layered over the process
	// environment.
	Env map[string]string
}

// Program returns the executable name of the command, or "" when the
// command is malformed.
func (c *Command) Program() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}

// Target looks up a target by name. It returns nil when no such target
// exists.
func (m *Model) Target(name string) *Target {
	for _, t := range m.Targets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Validate checks the structural invariants of the model: target names are
// unique, every target has at least one command, and every command names a
// program.
func (m *Model) Validate() error {
	seen := make(map[string]struct{}, len(m.Targets))
	for _, t := range m.Targets {
		if t.Name == "" {
			return fmt.Errorf("target with empty name")
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("target %q is defined more than once", t.Name)
		}
		seen[t.Name] = struct{}{}

		if len(t.Commands) == 0 {
			return fmt.Errorf("target %q has no run blocks", t.Name)
		}
		for i, c := range t.Commands {
			if c.Program() == "" {
				return fmt.Errorf("target %q: run block %d has an empty command", t.Name, i+1)
			}
		}
	}
	return nil
}
