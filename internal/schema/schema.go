// Package schema holds the HCL decode structs for taskfiles. These structs
// mirror the file syntax one-to-one; the hcl package translates them into
// the format-agnostic config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// LocalsBlock represents a `locals` block. Its attributes are evaluated by
// the loader into the `local.*` scope before targets are translated.
type LocalsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Run represents a `run` block within a target. The label carries the
// program and any leading arguments as a single shell-style command line.
// The attribute fields stay as expressions so the loader can evaluate them
// against the env/local scope.
type Run struct {
	CommandLine string         `hcl:"command_line,label"`
	Args        hcl.Expression `hcl:"args,optional"`
	Files       hcl.Expression `hcl:"files,optional"`
	ArgsFrom    hcl.Expression `hcl:"args_from,optional"`
	Dir         hcl.Expression `hcl:"dir,optional"`
	Env         hcl.Expression `hcl:"env,optional"`
}

// Target represents a `target` block: a named sequence of run blocks.
type Target struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Runs        []*Run `hcl:"run,block"`
}

// Root represents the top-level structure of a taskfile.
type Root struct {
	Locals  []*LocalsBlock `hcl:"locals,block"`
	Targets []*Target      `hcl:"target,block"`
}
