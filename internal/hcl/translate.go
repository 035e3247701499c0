package hcl

import (
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/hashicorp/hcl/v2"

	"github.com/vk/taskgridgo/internal/config"
	"github.com/vk/taskgridgo/internal/schema"
)

// translateTarget converts an HCL target block into the agnostic model.
func translateTarget(t *schema.Target, evalCtx *hcl.EvalContext) (*config.Target, error) {
	target := &config.Target{
		Name:        t.Name,
		Description: t.Description,
	}
	for i, run := range t.Runs {
		cmd, err := translateRun(run, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("target %q, run block %d: %w", t.Name, i+1, err)
		}
		target.Commands = append(target.Commands, cmd)
	}
	return target, nil
}

// translateRun converts a run block into a command. The block label is split
// with shell word rules into the program and its leading arguments; the
// attribute expressions are evaluated against the env/local scope.
func translateRun(run *schema.Run, evalCtx *hcl.EvalContext) (*config.Command, error) {
	argv, err := splitCommandLine(run.CommandLine)
	if err != nil {
		return nil, err
	}

	args, err := evalStringSlice(run.Args, evalCtx, "args")
	if err != nil {
		return nil, err
	}
	filesGlob, err := evalString(run.Files, evalCtx, "files")
	if err != nil {
		return nil, err
	}
	dir, err := evalString(run.Dir, evalCtx, "dir")
	if err != nil {
		return nil, err
	}
	env, err := evalStringMap(run.Env, evalCtx, "env")
	if err != nil {
		return nil, err
	}

	var argsFrom []string
	argsFromLine, err := evalString(run.ArgsFrom, evalCtx, "args_from")
	if err != nil {
		return nil, err
	}
	if argsFromLine != "" {
		argsFrom, err = splitCommandLine(argsFromLine)
		if err != nil {
			return nil, fmt.Errorf("args_from: %w", err)
		}
	}

	return &config.Command{
		Argv:      argv,
		Args:      args,
		FilesGlob: filesGlob,
		ArgsFrom:  argsFrom,
		Dir:       dir,
		Env:       env,
	}, nil
}

// splitCommandLine splits a command line into argv with shell word rules.
// Shell command substitution is rejected outright: nothing here runs through
// a shell, so a `$(...)` in the command position would become a literal
// (and useless) program name. The args_from attribute is the supported way
// to feed one command's output into another's argument list.
func splitCommandLine(line string) ([]string, error) {
	if strings.Contains(line, "$(") || strings.Contains(line, "`") {
		return nil, fmt.Errorf("command %q uses shell command substitution, which is not executed; use the args_from attribute to append another command's output", line)
	}

	argv, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("cannot split command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return argv, nil
}
