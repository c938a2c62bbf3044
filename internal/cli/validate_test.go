package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExportedFolder(t *testing.T) {
	in := exportModern(t)

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), in)
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ All 2 IR file(s) valid")
	assert.Contains(t, stdout, "Panel.json (3 nodes)")
}

func TestValidateValidJSON(t *testing.T) {
	in := exportModern(t)

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), filepath.Join(in, "Item.json"))
	require.NoError(t, err)

	resp := decodeResponse(t, stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, true, resp.Data["valid"])
}

func TestValidateReportsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{"name": "A"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(`not json`), 0644))

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, stdout)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeInvalidIR, resp.Error.Code)
	assert.Equal(t, float64(2), resp.Data["invalid"])

	files, ok := resp.Data["files"].([]any)
	require.True(t, ok)
	require.Len(t, files, 2)
	assert.Contains(t, files[0].(map[string]any)["error"], "schema mismatch")
	assert.Equal(t, "not valid JSON", files[1].(map[string]any)["error"])
}

func TestValidateSkipsResourceList(t *testing.T) {
	in := exportModern(t)

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), in)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "resource_list.json")
}

func TestValidateRejectsResourceListByContent(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "resources.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"resources": []}`), 0644))

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), p)
	require.Error(t, err)
	assert.Contains(t, stdout, "resource list, not an IR document")
}

func TestValidateNonExistentPath(t *testing.T) {
	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/ir")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeNotFound)
}

func TestValidateEmptyDirectory(t *testing.T) {
	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "no IR files found")
}

func TestValidateMissingArgs(t *testing.T) {
	_, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
