package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/config"
	"github.com/vk/taskgridgo/internal/ctxlog"
)

// newTestRunner returns a runner with captured stdout/stderr and a context
// whose logger writes into the stderr buffer.
func newTestRunner() (*Runner, context.Context, *bytes.Buffer, *bytes.Buffer) {
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(errBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)
	return New(outBuf, errBuf), ctx, outBuf, errBuf
}

func target(name string, commands ...*config.Command) *config.Target {
	return &config.Target{Name: name, Commands: commands}
}

func TestRunTarget_SucceedingCommandsRunInOrder(t *testing.T) {
	r, ctx, outBuf, _ := newTestRunner()

	err := r.RunTarget(ctx, target("t",
		&config.Command{Argv: []string{"echo", "first"}},
		&config.Command{Argv: []string{"echo", "second"}},
	))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", outBuf.String())
}

func TestRunTarget_PropagatesToolExitCode(t *testing.T) {
	r, ctx, _, _ := newTestRunner()

	err := r.RunTarget(ctx, target("t",
		&config.Command{Argv: []string{"sh", "-c", "exit 3"}},
	))
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "t", exitErr.Target)
}

func TestRunTarget_HaltsAtFirstFailure(t *testing.T) {
	r, ctx, _, _ := newTestRunner()
	sentinel := filepath.Join(t.TempDir(), "ran-anyway")

	err := r.RunTarget(ctx, target("t",
		&config.Command{Argv: []string{"false"}},
		&config.Command{Argv: []string{"touch", sentinel}},
	))
	require.Error(t, err)

	_, statErr := os.Stat(sentinel)
	assert.True(t, os.IsNotExist(statErr), "command after the failing one must not run")
}

func TestRunTarget_MissingToolIsStartErrorNotExitError(t *testing.T) {
	r, ctx, _, _ := newTestRunner()

	err := r.RunTarget(ctx, target("t",
		&config.Command{Argv: []string{"taskgridgo-no-such-tool-5a1d"}},
	))
	require.Error(t, err)

	var startErr *StartError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, 127, startErr.ExitCode())

	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr), "a launch failure must not look like a tool failure")
}

func TestRunTarget_ArgsFromFeedsProducerOutputIntoArgv(t *testing.T) {
	r, ctx, _, _ := newTestRunner()
	dir := t.TempDir()

	err := r.RunTarget(ctx, target("t",
		&config.Command{
			Argv:     []string{"touch"},
			ArgsFrom: []string{"echo", "one.py", "two.py"},
			Dir:      dir,
		},
	))
	require.NoError(t, err)

	for _, name := range []string{"one.py", "two.py"} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr, "expected %s to be created", name)
	}
}

func TestRunTarget_FailingArgsFromFailsBeforeMainCommand(t *testing.T) {
	r, ctx, _, _ := newTestRunner()
	dir := t.TempDir()

	err := r.RunTarget(ctx, target("t",
		&config.Command{
			Argv:     []string{"touch", "sentinel"},
			ArgsFrom: []string{"sh", "-c", "exit 9"},
			Dir:      dir,
		},
	))
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 9, exitErr.Code)

	_, statErr := os.Stat(filepath.Join(dir, "sentinel"))
	assert.True(t, os.IsNotExist(statErr), "main command must not run when args_from fails")
}

func TestRunTarget_GlobExpandsRelativeToDir(t *testing.T) {
	r, ctx, _, _ := newTestRunner()
	dir := t.TempDir()
	for _, name := range []string{"a.py", "b.py", "keep.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	err := r.RunTarget(ctx, target("t",
		&config.Command{Argv: []string{"rm"}, FilesGlob: "*.py", Dir: dir},
	))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "a.py"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "keep.txt"))
	assert.NoError(t, statErr)
}

func TestRunTarget_EmptyGlobStillInvokesTool(t *testing.T) {
	r, ctx, outBuf, errBuf := newTestRunner()

	err := r.RunTarget(ctx, target("t",
		&config.Command{Argv: []string{"echo", "ran"}, FilesGlob: "*.nomatch", Dir: t.TempDir()},
	))
	require.NoError(t, err)
	assert.Equal(t, "ran\n", outBuf.String())
	assert.Contains(t, errBuf.String(), "files glob matched nothing")
}

func TestRunTarget_EnvAttributeLayersOverProcessEnv(t *testing.T) {
	r, ctx, outBuf, _ := newTestRunner()

	err := r.RunTarget(ctx, target("t",
		&config.Command{
			Argv: []string{"sh", "-c", "printf '%s' \"$TGG_PROBE\""},
			Env:  map[string]string{"TGG_PROBE": "layered"},
		},
	))
	require.NoError(t, err)
	assert.Equal(t, "layered", outBuf.String())
}

func TestRunTarget_CancelledContext(t *testing.T) {
	r, baseCtx, _, _ := newTestRunner()
	ctx, cancel := context.WithCancel(baseCtx)
	cancel()

	err := r.RunTarget(ctx, target("t",
		&config.Command{Argv: []string{"echo", "never"}},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTargets_StopsAtFirstFailingTarget(t *testing.T) {
	r, ctx, _, _ := newTestRunner()
	sentinel := filepath.Join(t.TempDir(), "second-ran")

	err := r.RunTargets(ctx, []*config.Target{
		target("first", &config.Command{Argv: []string{"false"}}),
		target("second", &config.Command{Argv: []string{"touch", sentinel}}),
	})
	require.Error(t, err)

	_, statErr := os.Stat(sentinel)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunTarget_EachInvocationIsIndependent(t *testing.T) {
	r, ctx, _, _ := newTestRunner()
	dir := t.TempDir()
	counter := filepath.Join(dir, "runs.log")

	coverage := target("coverage",
		&config.Command{Argv: []string{"sh", "-c", "echo run >> runs.log"}, Dir: dir},
	)

	require.NoError(t, r.RunTarget(ctx, coverage))
	require.NoError(t, r.RunTarget(ctx, coverage))

	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, "run\nrun\n", string(data), "two invocations must produce two independent runs")
}
