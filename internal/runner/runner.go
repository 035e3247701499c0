package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/vk/taskgridgo/internal/config"
	"github.com/vk/taskgridgo/internal/ctxlog"
)

var (
	targetHeading = color.New(color.FgCyan, color.Bold)
	failureLine   = color.New(color.FgRed, color.Bold)
)

// Runner executes targets sequentially. It holds the writers that child
// processes inherit for stdout and stderr.
type Runner struct {
	outW io.Writer
	errW io.Writer
}

// New creates a Runner whose child processes write to the given writers.
func New(outW, errW io.Writer) *Runner {
	return &Runner{outW: outW, errW: errW}
}

// RunTarget executes every command of a target in order and halts at the
// first failure. The returned error is an *ExitError or *StartError for
// command failures, or the context error when the run was cancelled.
func (r *Runner) RunTarget(ctx context.Context, target *config.Target) error {
	logger := ctxlog.FromContext(ctx).With("target", target.Name)
	targetHeading.Fprintf(r.errW, "==> %s\n", target.Name)
	logger.Debug("Target started.", "commands", len(target.Commands))

	for i, cmd := range target.Commands {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("target %q cancelled: %w", target.Name, err)
		}

		logger.Debug("Running command.", "index", i+1, "argv", strings.Join(cmd.Argv, " "))
		if err := r.runCommand(ctx, target, cmd); err != nil {
			failureLine.Fprintf(r.errW, "==> %s failed: %v\n", target.Name, err)
			logger.Error("Command failed.", "index", i+1, "error", err)
			return err
		}
	}

	logger.Debug("Target finished.")
	return nil
}

// RunTargets executes the named targets one after another, stopping at the
// first target that fails. Targets are independent: running several in one
// invocation is the same as invoking each standalone, in order.
func (r *Runner) RunTargets(ctx context.Context, targets []*config.Target) error {
	for _, t := range targets {
		if err := r.RunTarget(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
