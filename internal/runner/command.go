package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vk/taskgridgo/internal/config"
	"github.com/vk/taskgridgo/internal/ctxlog"
)

// runCommand resolves the full argument list for one command, spawns the
// process, and waits for it. The child inherits the runner's writers, the
// process environment plus any env attribute, and the command's working
// directory.
func (r *Runner) runCommand(ctx context.Context, target *config.Target, c *config.Command) error {
	argv, err := r.resolveArgv(ctx, target, c)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdout = r.outW
	cmd.Stderr = r.errW
	if len(c.Env) > 0 {
		cmd.Env = mergedEnv(c.Env)
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("target %q cancelled: %w", target.Name, ctxErr)
		}
		return classifyWaitError(target.Name, argv, err)
	}
	return nil
}

// resolveArgv assembles the final argument list: the label argv, the
// evaluated args, the fields of the args_from producer's stdout, then the
// glob matches. Empty dynamic selections append nothing; whether zero input
// files is an error stays the invoked tool's business.
func (r *Runner) resolveArgv(ctx context.Context, target *config.Target, c *config.Command) ([]string, error) {
	logger := ctxlog.FromContext(ctx).With("target", target.Name)

	argv := make([]string, 0, len(c.Argv)+len(c.Args))
	argv = append(argv, c.Argv...)
	argv = append(argv, c.Args...)

	if len(c.ArgsFrom) > 0 {
		fields, err := r.produceArgs(ctx, target, c)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			logger.Warn("args_from command produced no output.", "producer", strings.Join(c.ArgsFrom, " "))
		}
		argv = append(argv, fields...)
	}

	if c.FilesGlob != "" {
		matches, err := expandGlob(c.FilesGlob, c.Dir)
		if err != nil {
			return nil, &StartError{Target: target.Name, Program: c.Program(), Err: err}
		}
		if len(matches) == 0 {
			logger.Warn("files glob matched nothing.", "glob", c.FilesGlob)
		}
		argv = append(argv, matches...)
	}

	return argv, nil
}

// produceArgs runs the args_from command and splits its stdout into fields.
// A failing producer fails the whole command before the main program is
// ever spawned.
func (r *Runner) produceArgs(ctx context.Context, target *config.Target, c *config.Command) ([]string, error) {
	producer := exec.CommandContext(ctx, c.ArgsFrom[0], c.ArgsFrom[1:]...)
	producer.Dir = c.Dir
	producer.Stderr = r.errW
	if len(c.Env) > 0 {
		producer.Env = mergedEnv(c.Env)
	}

	var stdout bytes.Buffer
	producer.Stdout = &stdout
	if err := producer.Run(); err != nil {
		classified := classifyWaitError(target.Name, c.ArgsFrom, err)
		return nil, fmt.Errorf("args_from: %w", classified)
	}
	return strings.Fields(stdout.String()), nil
}

// expandGlob expands a glob pattern relative to the command's working
// directory and returns the matches as paths relative to that directory, so
// the invoked tool sees the same paths a shell glob in that directory would
// produce. Matches are already sorted by filepath.Glob.
func expandGlob(pattern, dir string) ([]string, error) {
	if dir == "" {
		return filepath.Glob(pattern)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	rel := make([]string, 0, len(matches))
	for _, m := range matches {
		p, err := filepath.Rel(dir, m)
		if err != nil {
			return nil, err
		}
		rel = append(rel, p)
	}
	return rel, nil
}

// mergedEnv layers the command's env attribute over the process environment.
func mergedEnv(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
