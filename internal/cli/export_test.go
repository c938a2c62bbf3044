package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uibridge/internal/manifest"
)

func TestExportFolderJSON(t *testing.T) {
	out := t.TempDir()
	cmd := NewExportCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(cmd,
		"--project", modernProject,
		"--folder", "db://assets/ui",
		"--subfolders",
		"--resources",
		"--out", out,
	)
	require.NoError(t, err)

	resp := decodeResponse(t, stdout)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(2), resp.Data["total"])
	assert.Equal(t, float64(2), resp.Data["succeeded"])
	assert.Equal(t, "completed", resp.Data["state"])
	assert.Equal(t, "typed", resp.Data["layer"])
	assert.Equal(t, float64(3), resp.Data["resources"])
	assert.NotEmpty(t, resp.Data["run_id"])

	assert.FileExists(t, filepath.Join(out, "Panel.json"))
	assert.FileExists(t, filepath.Join(out, "Item.json"))
	assert.FileExists(t, filepath.Join(out, manifest.ReservedName))
}

func TestExportPreserveFolders(t *testing.T) {
	out := t.TempDir()
	cmd := NewExportCommand(&RootOptions{Format: "text"})

	stdout, _, err := execute(cmd,
		"--project", modernProject,
		"--folder", "db://assets/ui",
		"--subfolders",
		"--preserve-folders",
		"--out", out,
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "exported 2 of 2 prefabs")
	assert.Contains(t, stdout, "✓ db://assets/ui/Panel.prefab")
	assert.FileExists(t, filepath.Join(out, "Panel.json"))
	assert.FileExists(t, filepath.Join(out, "sub", "Item.json"))
	assert.NoFileExists(t, filepath.Join(out, manifest.ReservedName))
}

func TestExportNoPrefabs(t *testing.T) {
	cmd := NewExportCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(cmd,
		"--project", modernProject,
		"--folder", "db://assets/missing",
		"--out", t.TempDir(),
	)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, stdout)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNoAssets, resp.Error.Code)
}

func TestExportRequiresProjectAndOut(t *testing.T) {
	cmd := NewExportCommand(&RootOptions{Format: "text"})

	stdout, _, err := execute(cmd, "--project", modernProject)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "--project and --out are required")
}

func TestExportSkipUnchangedNeedsLedger(t *testing.T) {
	cmd := NewExportCommand(&RootOptions{Format: "text"})

	_, _, err := execute(cmd,
		"--project", modernProject,
		"--out", t.TempDir(),
		"--skip-unchanged",
	)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--db")
}

func TestExportInvalidProfile(t *testing.T) {
	cmd := NewExportCommand(&RootOptions{Format: "text"})

	_, _, err := execute(cmd,
		"--project", modernProject,
		"--out", t.TempDir(),
		"--profile", "ancient",
	)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExportSkipsUnchangedWithLedger(t *testing.T) {
	out := t.TempDir()
	db := filepath.Join(t.TempDir(), "runs.db")
	args := []string{
		"--project", modernProject,
		"--folder", "db://assets/ui",
		"--subfolders",
		"--out", out,
		"--db", db,
		"--resources",
	}

	stdout, _, err := execute(NewExportCommand(&RootOptions{Format: "json"}), args...)
	require.NoError(t, err)
	assert.Equal(t, float64(2), decodeResponse(t, stdout).Data["succeeded"])

	stdout, _, err = execute(NewExportCommand(&RootOptions{Format: "json"}), append(args, "--skip-unchanged")...)
	require.NoError(t, err)
	resp := decodeResponse(t, stdout)
	assert.Equal(t, float64(2), resp.Data["skipped"])
	assert.Equal(t, float64(0), resp.Data["succeeded"])
	assert.Equal(t, float64(3), resp.Data["resources"], "skipped items keep their resources")

	m, err := manifest.Read(filepath.Join(out, manifest.ReservedName))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Len())

	stdout, _, err = execute(NewRunsCommand(&RootOptions{Format: "json"}), "--db", db)
	require.NoError(t, err)
	runs, ok := decodeResponse(t, stdout).Data["runs"].([]any)
	require.True(t, ok)
	assert.Len(t, runs, 2)
}

func TestExportConfigFile(t *testing.T) {
	out := t.TempDir()
	cfg := writeConfig(t, "export:\n  project: "+absPath(t, modernProject)+"\n  folder: db://assets/ui\n  out: "+out+"\n")
	cmd := NewExportCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(cmd, "--config", cfg)
	require.NoError(t, err)

	resp := decodeResponse(t, stdout)
	assert.Equal(t, float64(1), resp.Data["succeeded"])
	assert.FileExists(t, filepath.Join(out, "Panel.json"))
}

func TestExportFlagOverridesConfig(t *testing.T) {
	out := t.TempDir()
	cfg := writeConfig(t, "export:\n  project: "+absPath(t, modernProject)+"\n  folder: db://assets/missing\n  out: "+out+"\n")
	cmd := NewExportCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(cmd, "--config", cfg, "--folder", "db://assets/ui")
	require.NoError(t, err)
	assert.Equal(t, float64(1), decodeResponse(t, stdout).Data["succeeded"])
}

func TestExportBadConfig(t *testing.T) {
	cfg := writeConfig(t, "export:\n  nonsense: true\n")
	cmd := NewExportCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(cmd, "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeConfig, decodeResponse(t, stdout).Error.Code)
}

func TestExportOneByUUID(t *testing.T) {
	out := t.TempDir()
	cmd := NewExportOneCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(cmd,
		"--project", modernProject,
		"--uuid", "prefab-panel",
		"--out", out,
	)
	require.NoError(t, err)
	assert.Equal(t, float64(1), decodeResponse(t, stdout).Data["succeeded"])
	assert.FileExists(t, filepath.Join(out, "Panel.json"))
}

func TestExportOneByFile(t *testing.T) {
	out := t.TempDir()
	cmd := NewExportOneCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(cmd,
		"--project", modernProject,
		"--file", filepath.Join(modernProject, "assets", "ui", "sub", "Item.prefab"),
		"--out", out,
	)
	require.NoError(t, err)
	assert.Equal(t, float64(1), decodeResponse(t, stdout).Data["succeeded"])
	assert.FileExists(t, filepath.Join(out, "Item.json"))
}

func TestExportOneUnknownUUID(t *testing.T) {
	cmd := NewExportOneCommand(&RootOptions{Format: "json"})

	stdout, _, err := execute(cmd,
		"--project", modernProject,
		"--uuid", "nope",
		"--out", t.TempDir(),
	)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ErrCodeNotFound, decodeResponse(t, stdout).Error.Code)
}

func TestExportOneNeedsSelector(t *testing.T) {
	cmd := NewExportOneCommand(&RootOptions{Format: "text"})

	_, _, err := execute(cmd, "--project", modernProject, "--out", t.TempDir())
	require.Error(t, err)
}
