// Package testutil provides the shared harness for integration tests: it
// materializes taskfiles into a temp directory, runs the app against them
// with captured output, and hands back the outcome for assertions.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/app"
	"github.com/vk/taskgridgo/internal/config"
	"github.com/vk/taskgridgo/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Stdout is what the invoked commands wrote to standard output, plus
	// any target listing.
	Stdout string
	// LogOutput interleaves the app's logs with the commands' stderr.
	LogOutput string
	// Err is the startup or run error, nil on success.
	Err error
	// Model is the loaded taskfile model, nil when startup failed.
	Model *config.Model
	// Dir is the temp directory the taskfiles were written to.
	Dir string
}

// RunTaskfile writes a single taskfile and runs the given targets against it.
func RunTaskfile(t *testing.T, taskfileHCL string, targets ...string) *HarnessResult {
	t.Helper()
	return RunTaskfiles(t, map[string]string{"taskgrid.hcl": taskfileHCL}, targets...)
}

// RunTaskfiles writes the given files (relative paths under one temp root)
// and runs the app with the root as the taskfile directory. It uses a
// background context; tests that need cancellation call the app directly.
func RunTaskfiles(t *testing.T, files map[string]string, targets ...string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	// Taskfiles under test can reach the temp root as env.TGG_TEST_DIR,
	// e.g. for a run block's dir attribute.
	t.Setenv("TGG_TEST_DIR", tmpDir)
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	appConfig, err := app.NewConfig(app.Config{
		TaskfilePath: tmpDir,
		LogLevel:     "debug",
		LogFormat:    "text",
		Targets:      targets,
	})
	require.NoError(t, err)

	outBuf := &SafeBuffer{}
	logBuf := &SafeBuffer{}

	testApp, err := app.NewApp(outBuf, logBuf, appConfig, hcl.NewLoader())
	if err != nil {
		return &HarnessResult{
			Stdout:    outBuf.String(),
			LogOutput: logBuf.String(),
			Err:       err,
			Dir:       tmpDir,
		}
	}

	runErr := testApp.Run(context.Background())

	if os.Getenv("TGG_TEST_LOGS") == "true" {
		t.Logf("--- Full log output for %s ---\n%s", t.Name(), logBuf.String())
	}

	return &HarnessResult{
		Stdout:    outBuf.String(),
		LogOutput: logBuf.String(),
		Err:       runErr,
		Model:     testApp.Model(),
		Dir:       tmpDir,
	}
}
