package error_handling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/taskgridgo/internal/app"
	"github.com/vk/taskgridgo/internal/testutil"
)

func TestErrorHandling_UnknownTargetName(t *testing.T) {
	result := testutil.RunTaskfile(t, `
		target "lint" {
			run "true" {}
		}
	`, "deploy")

	require.Error(t, result.Err)
	var unknown *app.UnknownTargetError
	require.ErrorAs(t, result.Err, &unknown)
	assert.Equal(t, "deploy", unknown.Name)
}

// All requested names are resolved before anything runs, so a typo in the
// second name does not leave the first target's side effects behind.
func TestErrorHandling_UnknownTargetResolvedBeforeAnyExecution(t *testing.T) {
	result := testutil.RunTaskfile(t, `
		target "lint" {
			run "touch lint-ran" {
				dir = env.TGG_TEST_DIR
			}
		}
	`, "lint", "deploy")

	require.Error(t, result.Err)
	_, statErr := os.Stat(filepath.Join(result.Dir, "lint-ran"))
	assert.True(t, os.IsNotExist(statErr))
}
