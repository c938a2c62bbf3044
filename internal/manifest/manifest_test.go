package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uibridge/internal/ir"
)

func TestAddDeduplicatesByUUID(t *testing.T) {
	m := New()
	assert.True(t, m.Add(ir.Resource{Name: "a", Type: ir.ResourceSpriteFrame, UUID: "u1"}))
	assert.False(t, m.Add(ir.Resource{Name: "a-again", Type: ir.ResourceSpriteFrame, UUID: "u1"}))
	assert.True(t, m.Add(ir.Resource{Name: "nouuid", Type: ir.ResourceFont}))
	assert.True(t, m.Add(ir.Resource{Name: "nouuid", Type: ir.ResourceFont}))

	require.Equal(t, 3, m.Len())
	assert.Equal(t, "a", m.Resources()[0].Name, "first occurrence wins")
}

func TestMergeKeepsOrder(t *testing.T) {
	m := New()
	m.Merge([]ir.Resource{{Name: "x", UUID: "1"}, {Name: "y", UUID: "2"}})
	m.AddResource(ir.Resource{Name: "x", UUID: "1"})
	m.Merge([]ir.Resource{{Name: "z", UUID: "3"}})

	var names []string
	for _, r := range m.Resources() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"x", "y", "z"}, names)
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), ReservedName)
	m := New()
	m.Add(ir.Resource{Name: "btn", Type: ir.ResourceSpriteFrame, Path: "db://assets/btn.png/btn", UUID: "u1"})
	m.Add(ir.Resource{Name: "atlas.png", Type: ir.ResourceTexture, Path: "db://assets/atlas.png", UUID: "u2"})
	require.NoError(t, Write(path, m))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, m.Resources(), got.Resources())

	wantDigest, err := m.Digest()
	require.NoError(t, err)
	gotDigest, err := got.Digest()
	require.NoError(t, err)
	assert.Equal(t, wantDigest, gotDigest)
}

func TestMarshalEmpty(t *testing.T) {
	data, err := New().Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"resources":[]}`, string(data))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("/out/ui/resource_list.json"))
	assert.True(t, IsReserved(ReservedName))
	assert.False(t, IsReserved("/out/ui/Panel.json"))
}

func TestCheckMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	for _, f := range []string{"btn.PNG", "atlas.png", "fonts/title.fnt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}

	res, err := NewDirResolver(dir)
	require.NoError(t, err)

	m := New()
	m.Merge([]ir.Resource{
		{Name: "btn", Type: ir.ResourceSpriteFrame, UUID: "1"},
		{Name: "atlas.png", Type: ir.ResourceTexture, UUID: "2"},
		{Name: "title", Type: ir.ResourceBitmapFont, UUID: "3"},
		{Name: "body", Type: ir.ResourceFont, UUID: "4"},
		{Name: "icon", Type: ir.ResourceSpriteFrame, UUID: "5"},
		{Name: "thing", Type: "Prefab", UUID: "6"},
	})

	missing := CheckMissing(m, res)
	require.Len(t, missing, 2)
	assert.Equal(t, "body", missing[0].Name)
	assert.Equal(t, "icon", missing[1].Name)
}

func TestNewDirResolverMissingRoot(t *testing.T) {
	_, err := NewDirResolver(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
