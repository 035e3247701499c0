package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/taskgridgo/internal/app"
	"github.com/vk/taskgridgo/internal/cli"
	"github.com/vk/taskgridgo/internal/hcl"
	"github.com/vk/taskgridgo/internal/runner"
)

// main is the entrypoint for the taskgridgo application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(code)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	taskApp, err := app.NewApp(outW, errW, appConfig, loader)
	if err != nil {
		return err
	}

	return taskApp.Run(ctx)
}

// exitCode maps the error taxonomy onto process exit statuses: flag and
// taskfile problems exit 2, a tool that ran and failed propagates its own
// code, a tool that could not be launched exits 126/127 per shell
// convention, and cancellation exits 130.
func exitCode(err error) int {
	var cliErr *cli.ExitError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}

	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var startErr *runner.StartError
	if errors.As(err, &startErr) {
		return startErr.ExitCode()
	}

	var unknownTarget *app.UnknownTargetError
	if errors.As(err, &unknownTarget) {
		return 2
	}

	if errors.Is(err, context.Canceled) {
		return 130
	}

	return 1
}
