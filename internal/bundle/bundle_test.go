package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uibridge/internal/manifest"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return dir
}

func TestPackListUnpack(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"Panel.json":          `{"name":"Panel"}`,
		"sub/Item.json":       `{"name":"Item"}`,
		manifest.ReservedName: `{"resources":[]}`,
		".Panel.json-123":     "partial",
		".cache/ignored.json": "x",
	})
	archive := filepath.Join(t.TempDir(), "out"+Ext)

	st, err := Pack(dir, archive)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Files)

	entries, err := List(archive)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{manifest.ReservedName, "Panel.json", "sub/Item.json"}, names)

	dest := t.TempDir()
	ust, err := Unpack(archive, dest)
	require.NoError(t, err)
	assert.Equal(t, st, ust)

	data, err := os.ReadFile(filepath.Join(dest, "sub", "Item.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Item"}`, string(data))
}

func TestPackIsReproducible(t *testing.T) {
	dir := writeTree(t, map[string]string{"A.json": "a", "B.json": "b"})
	out := t.TempDir()

	_, err := Pack(dir, filepath.Join(out, "1"+Ext))
	require.NoError(t, err)
	_, err = Pack(dir, filepath.Join(out, "2"+Ext))
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(out, "1"+Ext))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(out, "2"+Ext))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPackSkipsItsOwnArchive(t *testing.T) {
	dir := writeTree(t, map[string]string{"A.json": "a"})
	archive := filepath.Join(dir, "self"+Ext)

	_, err := Pack(dir, archive)
	require.NoError(t, err)
	st, err := Pack(dir, archive)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Files)
}

func TestPackNotADirectory(t *testing.T) {
	_, err := Pack(filepath.Join(t.TempDir(), "missing"), filepath.Join(t.TempDir(), "x"+Ext))
	assert.Error(t, err)
}

func TestListRejectsNonXZ(t *testing.T) {
	p := filepath.Join(t.TempDir(), "plain.tar")
	require.NoError(t, os.WriteFile(p, []byte("not compressed at all"), 0o644))

	_, err := List(p)
	assert.ErrorIs(t, err, ErrNotXZ)
}
