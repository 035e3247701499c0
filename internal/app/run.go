package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/vk/taskgridgo/internal/config"
	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/runner"
)

// UnknownTargetError reports a requested target name that the taskfile does
// not define. cmd/cli maps it onto a usage-style exit code.
type UnknownTargetError struct {
	Name string
}

// Error implements the error interface for UnknownTargetError.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q", e.Name)
}

// Run executes the main application logic: list targets when asked (or when
// none were requested), otherwise resolve every requested name up front and
// run the targets sequentially, stopping at the first failure.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.List || len(a.config.Targets) == 0 {
		return a.listTargets()
	}

	// Resolve before running so a typo in the second name doesn't leave the
	// first target half-applied to the working tree.
	targets := make([]*config.Target, 0, len(a.config.Targets))
	for _, name := range a.config.Targets {
		target := a.model.Target(name)
		if target == nil {
			return &UnknownTargetError{Name: name}
		}
		targets = append(targets, target)
	}

	run := runner.New(a.outW, a.errW)
	if err := run.RunTargets(ctx, targets); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// listTargets prints the available targets with their descriptions.
func (a *App) listTargets() error {
	fmt.Fprintln(a.outW, "Available targets:")
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	for _, t := range a.model.Targets {
		fmt.Fprintf(tw, "  %s\t%s\n", t.Name, t.Description)
	}
	return tw.Flush()
}
