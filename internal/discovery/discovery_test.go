package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uibridge/internal/source"
)

// fakeDB answers each (pattern, kind) query from a table. Unlisted queries
// return nothing.
type fakeDB struct {
	answers map[[2]string][]AssetRef
	errs    map[[2]string]error
	calls   [][2]string
}

func (f *fakeDB) QueryAssets(_ context.Context, pattern, kind string) ([]AssetRef, error) {
	key := [2]string{pattern, kind}
	f.calls = append(f.calls, key)
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.answers[key], nil
}

func (f *fakeDB) LoadAsset(context.Context, string) (*source.Node, error) {
	return nil, errors.New("not implemented")
}

const folder = "db://assets/ui"

var pattern = folder + "/**/*"

func TestFindTypedLayer(t *testing.T) {
	db := &fakeDB{answers: map[[2]string][]AssetRef{
		{pattern, KindPrefab}: {
			{UUID: "2", Path: "db://assets/ui/b.prefab"},
			{UUID: "1", Path: "db://assets/ui/a.prefab"},
			{UUID: "3", Path: "db://assets/ui/sub/c.prefab"},
		},
	}}

	refs, layer, err := NewFinder(db, nil).Find(context.Background(), folder, true)
	require.NoError(t, err)
	assert.Equal(t, LayerTyped, layer)
	assert.Equal(t, []string{"db://assets/ui/a.prefab", "db://assets/ui/b.prefab", "db://assets/ui/sub/c.prefab"}, paths(refs))
	assert.Len(t, db.calls, 1)
}

func TestFindDirectChildrenOnly(t *testing.T) {
	db := &fakeDB{answers: map[[2]string][]AssetRef{
		{pattern, KindPrefab}: {
			{UUID: "1", Path: "db://assets/ui/a.prefab"},
			{UUID: "3", Path: "db://assets/ui/sub/c.prefab"},
		},
	}}

	refs, _, err := NewFinder(db, nil).Find(context.Background(), folder+"/", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"db://assets/ui/a.prefab"}, paths(refs))
}

func TestFindFallsBackThroughLayers(t *testing.T) {
	tests := []struct {
		name  string
		db    *fakeDB
		layer Layer
		want  []string
	}{
		{
			name: "typed query errors, untyped filters by extension",
			db: &fakeDB{
				errs: map[[2]string]error{{pattern, KindPrefab}: errors.New("unsupported kind")},
				answers: map[[2]string][]AssetRef{{pattern, ""}: {
					{UUID: "1", Path: "db://assets/ui/a.prefab"},
					{UUID: "2", Path: "db://assets/ui/a.png"},
					{UUID: "3", Path: "db://assets/ui/b", Type: "cc.Prefab"},
				}},
			},
			layer: LayerUntyped,
			want:  []string{"db://assets/ui/a.prefab", "db://assets/ui/b"},
		},
		{
			name: "global query filtered by prefix",
			db: &fakeDB{answers: map[[2]string][]AssetRef{{GlobalPattern, ""}: {
				{UUID: "1", Path: "db://assets/ui/a.prefab"},
				{UUID: "2", Path: "db://assets/other/x.prefab"},
				{UUID: "3", Path: "db://assets/ui/a.png"},
			}}},
			layer: LayerGlobalPrefix,
			want:  []string{"db://assets/ui/a.prefab"},
		},
		{
			name: "global query with loose extension match",
			db: &fakeDB{answers: map[[2]string][]AssetRef{{GlobalPattern, ""}: {
				{UUID: "1", Path: "db://assets/ui/a.prefab.json"},
				{UUID: "2", Path: "db://assets/ui/a.png"},
			}}},
			layer: LayerGlobalLoose,
			want:  []string{"db://assets/ui/a.prefab.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, layer, err := NewFinder(tt.db, nil).Find(context.Background(), folder, true)
			require.NoError(t, err)
			assert.Equal(t, tt.layer, layer)
			assert.Equal(t, tt.want, paths(refs))
		})
	}
}

func TestFindExcludesBuiltins(t *testing.T) {
	db := &fakeDB{answers: map[[2]string][]AssetRef{
		{pattern, KindPrefab}: {
			{UUID: "1", Path: "db://assets/ui/internal/a.prefab"},
			{UUID: "2", Path: "db://assets/ui/builtin-button.prefab"},
			{UUID: "3", Path: "db://assets/ui/__tmp.prefab"},
			{UUID: "4", Path: "db://assets/ui/editor/e.prefab"},
		},
		{GlobalPattern, ""}: {
			{UUID: "5", Path: "db://internal/default.prefab"},
		},
	}}

	_, _, err := NewFinder(db, nil).Find(context.Background(), folder, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, folder, nf.Folder)
	assert.Len(t, db.calls, 3, "every layer tried")
}

func TestFindDeduplicates(t *testing.T) {
	db := &fakeDB{answers: map[[2]string][]AssetRef{
		{pattern, KindPrefab}: {
			{UUID: "1", Path: "db://assets/ui/a.prefab"},
			{UUID: "1", Path: "db://assets/ui/a.prefab"},
		},
	}}
	refs, _, err := NewFinder(db, nil).Find(context.Background(), folder, true)
	require.NoError(t, err)
	assert.Len(t, refs, 1)
}

func TestFindKeepsCopiesSharingUUID(t *testing.T) {
	db := &fakeDB{answers: map[[2]string][]AssetRef{
		{pattern, KindPrefab}: {
			{UUID: "1", Path: "db://assets/ui/b.prefab"},
			{UUID: "1", Path: "db://assets/ui/a.prefab"},
		},
	}}
	refs, _, err := NewFinder(db, nil).Find(context.Background(), folder, true)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "db://assets/ui/a.prefab", refs[0].Path)
}

func TestFindCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewFinder(&fakeDB{}, nil).Find(ctx, folder, true)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNormalizeFolder(t *testing.T) {
	assert.Equal(t, "db://assets/ui", NormalizeFolder("db://assets/ui/"))
	assert.Equal(t, "db://assets/ui", NormalizeFolder("assets/ui"))
	assert.Equal(t, "db://assets/ui", NormalizeFolder(`assets\ui`))
}

func TestAssetRefName(t *testing.T) {
	assert.Equal(t, "Panel", AssetRef{Path: "db://assets/ui/Panel.prefab"}.Name())
}

func TestLayerString(t *testing.T) {
	assert.Equal(t, "typed", LayerTyped.String())
	assert.Equal(t, "global-loose", LayerGlobalLoose.String())
	assert.Equal(t, "none", LayerNone.String())
}

func paths(refs []AssetRef) []string {
	var out []string
	for _, r := range refs {
		out = append(out, r.Path)
	}
	return out
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{GlobalPattern, "db://anything/at/all.png", true},
		{"db://assets/ui/**/*", "db://assets/ui/a/b.prefab", true},
		{"db://assets/ui/**/*", "db://assets/uix/b.prefab", false},
		{"db://assets/ui/*", "db://assets/ui/b.prefab", true},
		{"db://assets/ui/*", "db://assets/ui/a/b.prefab", false},
		{"db://assets/ui/*.prefab", "db://assets/ui/b.prefab", true},
		{"db://assets/ui/*.prefab", "db://assets/ui/b.png", false},
	}
	for _, tt := range tests {
		match, err := MatchPattern(tt.pattern)
		require.NoError(t, err)
		assert.Equal(t, tt.want, match(tt.path), "%s ~ %s", tt.pattern, tt.path)
	}

	_, err := MatchPattern("db://assets/[")
	assert.Error(t, err)
}
