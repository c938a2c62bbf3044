// Package discovery locates source assets in a host asset database.
//
// Hosts disagree on how much of their query API works: some honour the kind
// restriction, some ignore it, some only answer global queries. Finder walks a
// ladder of ever wider queries until one yields prefabs under the requested
// folder, then drops host built-ins and applies the depth restriction.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/roach88/uibridge/internal/source"
)

// KindPrefab is the asset kind queried for convertible trees.
const KindPrefab = "prefab"

// URLScheme prefixes every asset database URL.
const URLScheme = "db://"

// GlobalPattern matches every asset of the project.
const GlobalPattern = URLScheme + "**/*"

// PrefabExt is the file extension of prefab assets.
const PrefabExt = ".prefab"

// AssetRef identifies one asset in the host database.
type AssetRef struct {
	UUID string `json:"uuid"`
	// Path is the database URL, e.g. db://assets/ui/Panel.prefab.
	Path string `json:"path"`
	// Type is the host type name, e.g. cc.Prefab. It may be empty.
	Type string `json:"type,omitempty"`
}

// Name returns the asset name: the last path element without extension.
func (r AssetRef) Name() string {
	base := path.Base(r.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

// AssetDatabase is the host capability the batch needs.
type AssetDatabase interface {
	// QueryAssets returns the assets matching a db:// glob. An empty kind
	// means any kind.
	QueryAssets(ctx context.Context, pattern, kind string) ([]AssetRef, error)

	// LoadAsset materializes the source tree of the asset with uuid.
	LoadAsset(ctx context.Context, uuid string) (*source.Node, error)
}

// Fingerprinter is implemented by databases that can digest the raw bytes
// of an asset without loading it. The batch driver uses it to skip assets
// that have not changed since their last successful conversion.
type Fingerprinter interface {
	SourceDigest(ctx context.Context, uuid string) (string, error)
}

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("no assets found")

// NotFoundError reports a folder for which every search layer came back
// empty.
type NotFoundError struct {
	Folder string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no prefabs found under %s", e.Folder)
}

// Is makes errors.Is(err, ErrNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Layer identifies which search produced the result.
type Layer int

// Search layers, from narrowest to widest.
const (
	LayerNone Layer = iota
	LayerTyped
	LayerUntyped
	LayerGlobalPrefix
	LayerGlobalLoose
)

func (l Layer) String() string {
	switch l {
	case LayerTyped:
		return "typed"
	case LayerUntyped:
		return "untyped"
	case LayerGlobalPrefix:
		return "global-prefix"
	case LayerGlobalLoose:
		return "global-loose"
	default:
		return "none"
	}
}

// Finder runs the layered search.
type Finder struct {
	db     AssetDatabase
	logger *slog.Logger
}

// NewFinder returns a finder over db. A nil logger uses slog.Default().
func NewFinder(db AssetDatabase, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{db: db, logger: logger}
}

// Find returns the prefabs under folder sorted by path, and the layer that
// found them. With recursive false only direct children of folder qualify.
// Query errors are logged and move the search to the next layer; only an
// exhausted ladder is an error.
func (f *Finder) Find(ctx context.Context, folder string, recursive bool) ([]AssetRef, Layer, error) {
	folder = NormalizeFolder(folder)
	pattern := folder + "/**/*"

	steps := []struct {
		layer Layer
		query func() ([]AssetRef, error)
	}{
		{LayerTyped, func() ([]AssetRef, error) {
			return f.db.QueryAssets(ctx, pattern, KindPrefab)
		}},
		{LayerUntyped, func() ([]AssetRef, error) {
			refs, err := f.db.QueryAssets(ctx, pattern, "")
			return filter(refs, IsPrefabLike), err
		}},
		{LayerGlobalPrefix, func() ([]AssetRef, error) {
			refs, err := f.db.QueryAssets(ctx, GlobalPattern, "")
			if err != nil {
				return nil, err
			}
			under := filter(refs, func(r AssetRef) bool { return IsUnder(r.Path, folder) })
			if found := filter(under, IsPrefabLike); len(found) > 0 {
				return found, nil
			}
			return filter(under, hasPrefabSubstring), nil
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, LayerNone, err
		}
		refs, err := step.query()
		if err != nil {
			f.logger.Debug("asset query failed", "layer", step.layer.String(), "folder", folder, "error", err)
			continue
		}
		refs = f.finish(refs, folder, recursive)
		if len(refs) == 0 {
			f.logger.Debug("asset query empty", "layer", step.layer.String(), "folder", folder)
			continue
		}
		layer := step.layer
		if layer == LayerGlobalPrefix && !anyPrefabLike(refs) {
			layer = LayerGlobalLoose
		}
		f.logger.Debug("assets found", "layer", layer.String(), "folder", folder, "count", len(refs))
		return refs, layer, nil
	}

	return nil, LayerNone, &NotFoundError{Folder: folder}
}

func (f *Finder) finish(refs []AssetRef, folder string, recursive bool) []AssetRef {
	out := make([]AssetRef, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		if IsBuiltin(r.Path) || !IsUnder(r.Path, folder) {
			continue
		}
		if !recursive && !IsDirectChild(r.Path, folder) {
			continue
		}
		// Only exact repeats are dropped. Copies sharing a uuid under
		// different paths reach the driver, which reports them as skipped.
		key := r.UUID + "\x00" + r.Path
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// NormalizeFolder turns a folder into a db:// URL without trailing slash.
func NormalizeFolder(folder string) string {
	folder = strings.TrimSpace(strings.ReplaceAll(folder, "\\", "/"))
	if !strings.HasPrefix(folder, URLScheme) {
		folder = URLScheme + strings.TrimPrefix(folder, "/")
	}
	return strings.TrimRight(folder, "/")
}

// IsUnder reports whether p lies anywhere below folder.
func IsUnder(p, folder string) bool {
	return strings.HasPrefix(p, folder+"/")
}

// IsDirectChild reports whether p lies directly in folder.
func IsDirectChild(p, folder string) bool {
	if !IsUnder(p, folder) {
		return false
	}
	return !strings.Contains(strings.TrimPrefix(p, folder+"/"), "/")
}

// IsPrefabLike reports whether an asset looks like a prefab by extension or
// host type name.
func IsPrefabLike(r AssetRef) bool {
	if strings.EqualFold(path.Ext(r.Path), PrefabExt) {
		return true
	}
	t := strings.ToLower(r.Type)
	return t == KindPrefab || strings.HasSuffix(t, ".prefab")
}

func hasPrefabSubstring(r AssetRef) bool {
	return strings.Contains(strings.ToLower(r.Path), PrefabExt)
}

func anyPrefabLike(refs []AssetRef) bool {
	for _, r := range refs {
		if IsPrefabLike(r) {
			return true
		}
	}
	return false
}

// builtinMarkers identify host and editor assets that are never exported.
var builtinMarkers = []string{"db://internal", "/internal/", "builtin", "/editor/"}

// IsBuiltin reports whether p belongs to the host rather than the project.
func IsBuiltin(p string) bool {
	lower := strings.ToLower(p)
	for _, m := range builtinMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return strings.HasPrefix(path.Base(p), "__")
}

// MatchPattern compiles a db:// query pattern. A trailing /**/* matches
// anything below the prefix, a trailing /* matches direct children, and any
// other pattern is matched with path.Match.
func MatchPattern(pattern string) (func(string) bool, error) {
	if pattern == GlobalPattern {
		return func(string) bool { return true }, nil
	}
	if prefix, ok := strings.CutSuffix(pattern, "/**/*"); ok {
		return func(p string) bool { return IsUnder(p, prefix) }, nil
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return func(p string) bool { return IsDirectChild(p, prefix) }, nil
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	return func(p string) bool {
		ok, _ := path.Match(pattern, p)
		return ok
	}, nil
}

func filter(refs []AssetRef, keep func(AssetRef) bool) []AssetRef {
	var out []AssetRef
	for _, r := range refs {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
