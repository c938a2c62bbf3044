package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var harnessScenarios = filepath.Join("..", "harness", "testdata", "scenarios")

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	stdout, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	stdout, _, err := execute(NewTestCommand(&RootOptions{Format: "json"}), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "ok", decodeResponse(t, stdout).Status)
}

func TestTestCommandRunsHarnessScenarios(t *testing.T) {
	stdout, _, err := execute(NewTestCommand(&RootOptions{Format: "json"}), harnessScenarios)
	require.NoError(t, err, stdout)

	resp := decodeResponse(t, stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(3), resp.Data["total"])
	assert.Equal(t, float64(3), resp.Data["passed"])
}

func TestTestCommandFilter(t *testing.T) {
	stdout, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), harnessScenarios, "--filter", "modern_*")
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ modern_panel_ngui")
	assert.Contains(t, stdout, "✓ modern_panel_ugui")
	assert.NotContains(t, stdout, "legacy_menu_ugui")
	assert.Contains(t, stdout, "2 passed, 0 failed, 2 total")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), harnessScenarios, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// copyScenario copies one harness scenario into a fresh scenarios dir,
// pointing its project at the absolute fixture path.
func copyScenario(t *testing.T, name string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(dir, 0755))

	content := "name: " + name + "\n" +
		"description: Panel as NGUI\n" +
		"project: " + absPath(t, modernProject) + "\n" +
		"asset: prefab-panel\n" +
		"target: ngui\n" +
		"assertions:\n" +
		"  - type: node_count\n" +
		"    count: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644))
	return dir
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	dir := copyScenario(t, "panel")

	stdout, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir, "--update")
	require.NoError(t, err, stdout)

	golden := filepath.Join(dir, "..", "golden", "panel.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scenario: panel")
	assert.Contains(t, string(data), "target ngui:")

	// A second run compares against the golden just written.
	_, _, err = execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := copyScenario(t, "panel")
	goldenDir := filepath.Join(dir, "..", "golden")
	require.NoError(t, os.MkdirAll(goldenDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "panel.golden"), []byte("stale\n"), 0644))

	stdout, _, err := execute(NewTestCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, stdout)
	assert.Equal(t, ErrCodeScenarioFailed, resp.Error.Code)
	assert.Equal(t, float64(1), resp.Data["failed"])
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nbogus: 1\n"), 0644))

	stdout, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ bad.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}
