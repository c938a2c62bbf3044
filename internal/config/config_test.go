package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFull(t *testing.T) {
	data := []byte(`
profile: legacy
export:
  project: ./game
  folder: db://assets/ui
  out: ./ir
  subfolders: true
  resources: true
  skip_unchanged: true
  db: ledger.db
  yield_ms: 5
import:
  target: ngui
  auto_canvas: false
  preserve_folders: true
`)
	cfg, err := Parse("uibridge.yaml", data)
	require.NoError(t, err)

	assert.Equal(t, "legacy", cfg.Profile)
	assert.Equal(t, "db://assets/ui", cfg.Export.Folder)
	assert.True(t, cfg.Export.Subfolders)
	assert.True(t, cfg.Export.SkipUnchanged)
	assert.Equal(t, 5*time.Millisecond, cfg.Export.Yield())
	assert.Equal(t, "ngui", cfg.Import.Target)
	assert.False(t, cfg.Import.AutoCanvas)
	assert.True(t, cfg.Import.PreserveFolders)
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse("c.yaml", []byte("export:\n  out: ir\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Profile)
	assert.Equal(t, "db://assets", cfg.Export.Folder)
	assert.Equal(t, "ugui", cfg.Import.Target)
	assert.True(t, cfg.Import.AutoCanvas)

	empty, err := Parse("c.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), empty)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad profile", "profile: cocos3\n"},
		{"bad target", "import:\n  target: imgui\n"},
		{"yield out of range", "export:\n  yield_ms: 5000\n"},
		{"unknown field", "export:\n  outt: ir\n"},
		{"wrong type", "export:\n  subfolders: yes please\n"},
		{"folder with spaces", "export:\n  folder: db://my assets\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("c.yaml", []byte(tt.data))
			require.Error(t, err)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve), "want ValidationError, got %T: %v", err, err)
		})
	}
}

func TestValidationErrorPosition(t *testing.T) {
	_, err := Parse("c.yaml", []byte("profile: modern\nimport:\n  target: imgui\n"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	if ve.Pos.IsValid() {
		assert.Equal(t, "c.yaml", ve.Pos.Filename())
		assert.Contains(t, ve.Error(), "c.yaml:")
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uibridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  project: game\n  out: /abs/ir\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "game"), cfg.Export.Project)
	assert.Equal(t, "/abs/ir", cfg.Export.Out)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
