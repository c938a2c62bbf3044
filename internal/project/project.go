package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/roach88/uibridge/internal/discovery"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/source"
)

// AssetsDir is the directory db://assets maps to.
const AssetsDir = "assets"

// MetaExt is the extension of asset metadata files.
const MetaExt = ".meta"

// ErrUnknownAsset is returned for a uuid the project does not index.
var ErrUnknownAsset = errors.New("unknown asset")

// Asset is one indexed asset or sub-asset.
type Asset struct {
	discovery.AssetRef

	// File is the path on disk, for sub-assets the owning file.
	File string
	// Parent is the uuid of the owning file for sub-assets.
	Parent string
	// Meta is the sub-asset entry of the owning .meta, if any.
	Meta gjson.Result
}

// Project indexes the assets of a project directory.
type Project struct {
	root    string
	profile source.Profile
	logger  *slog.Logger

	assets []*Asset
	byUUID map[string]*Asset
}

// Option configures Open.
type Option func(*Project)

// WithProfile overrides the detected source profile.
func WithProfile(p source.Profile) Option {
	return func(pr *Project) { pr.profile = p }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(pr *Project) { pr.logger = l }
}

// Open indexes the project at root.
func Open(root string, opts ...Option) (*Project, error) {
	info, err := os.Stat(filepath.Join(root, AssetsDir))
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open project: %s is not a directory", filepath.Join(root, AssetsDir))
	}

	p := &Project{root: root, byUUID: make(map[string]*Asset)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.profile == nil {
		p.profile = DetectProfile(root)
	}

	if err := p.index(); err != nil {
		return nil, err
	}
	p.logger.Debug("project indexed", "root", root, "profile", p.profile.Name(), "assets", len(p.assets))
	return p, nil
}

// DetectProfile reads the engine version from project.json. Projects without
// a readable version are treated as Modern.
func DetectProfile(root string) source.Profile {
	data, err := os.ReadFile(filepath.Join(root, "project.json"))
	if err != nil {
		return source.Modern
	}
	version := gjson.GetBytes(data, "version").String()
	if strings.HasPrefix(version, "1.") {
		return source.Legacy
	}
	return source.Modern
}

// Root returns the project directory.
func (p *Project) Root() string { return p.root }

// Profile returns the source profile in use.
func (p *Project) Profile() source.Profile { return p.profile }

func (p *Project) index() error {
	base := filepath.Join(p.root, AssetsDir)
	err := filepath.WalkDir(base, func(file string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() || filepath.Ext(file) != MetaExt {
			return nil
		}
		return p.indexMeta(base, file)
	})
	if err != nil {
		return fmt.Errorf("index project: %w", err)
	}
	sort.Slice(p.assets, func(i, j int) bool { return p.assets[i].Path < p.assets[j].Path })
	return nil
}

func (p *Project) indexMeta(base, metaFile string) error {
	data, err := os.ReadFile(metaFile)
	if err != nil {
		return err
	}
	meta := gjson.ParseBytes(data)
	uuid := meta.Get("uuid").String()
	if uuid == "" {
		p.logger.Debug("meta without uuid", "file", metaFile)
		return nil
	}

	file := strings.TrimSuffix(metaFile, MetaExt)
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		// Folder metas carry a uuid too but name no asset.
		return nil
	}
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return err
	}
	dbPath := "db://" + AssetsDir + "/" + filepath.ToSlash(rel)

	p.add(&Asset{
		AssetRef: discovery.AssetRef{UUID: uuid, Path: dbPath, Type: typeForExt(path.Ext(dbPath))},
		File:     file,
	})

	meta.Get("subMetas").ForEach(func(key, sub gjson.Result) bool {
		subUUID := sub.Get("uuid").String()
		if subUUID == "" {
			return true
		}
		p.add(&Asset{
			AssetRef: discovery.AssetRef{UUID: subUUID, Path: dbPath + "/" + key.String(), Type: TypeSpriteFrame},
			File:     file,
			Parent:   uuid,
			Meta:     sub,
		})
		return true
	})
	return nil
}

func (p *Project) add(a *Asset) {
	if prev, dup := p.byUUID[a.UUID]; dup {
		p.logger.Warn("duplicate uuid", "uuid", a.UUID, "first", prev.Path, "second", a.Path)
		return
	}
	p.byUUID[a.UUID] = a
	p.assets = append(p.assets, a)
}

// Host type names.
const (
	TypePrefab      = "cc.Prefab"
	TypeScene       = "cc.SceneAsset"
	TypeTexture     = "cc.Texture2D"
	TypeSpriteFrame = "cc.SpriteFrame"
	TypeAtlas       = "cc.SpriteAtlas"
	TypeBitmapFont  = "cc.BitmapFont"
	TypeTTFFont     = "cc.TTFFont"
)

func typeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".prefab":
		return TypePrefab
	case ".fire":
		return TypeScene
	case ".png", ".jpg", ".jpeg", ".webp":
		return TypeTexture
	case ".plist":
		return TypeAtlas
	case ".fnt":
		return TypeBitmapFont
	case ".ttf", ".otf":
		return TypeTTFFont
	default:
		return ""
	}
}

// Lookup returns the asset with uuid.
func (p *Project) Lookup(uuid string) (*Asset, bool) {
	a, ok := p.byUUID[uuid]
	return a, ok
}

// Assets returns every indexed asset sorted by path. The returned slice
// MUST NOT be mutated by the caller.
func (p *Project) Assets() []*Asset {
	return p.assets
}

// QueryAssets implements discovery.AssetDatabase. Patterns are db:// URLs
// ending in /**/* (recursive), /* (direct children) or a path.Match glob.
// Sub-assets are never returned. The only kind understood is "prefab".
func (p *Project) QueryAssets(ctx context.Context, pattern, kind string) ([]discovery.AssetRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if kind != "" && kind != discovery.KindPrefab {
		return nil, fmt.Errorf("query kind %q not supported", kind)
	}
	match, err := discovery.MatchPattern(pattern)
	if err != nil {
		return nil, err
	}

	var out []discovery.AssetRef
	for _, a := range p.assets {
		if a.Parent != "" || !match(a.Path) {
			continue
		}
		if kind == discovery.KindPrefab && a.Type != TypePrefab {
			continue
		}
		out = append(out, a.AssetRef)
	}
	return out, nil
}

// LoadAsset implements discovery.AssetDatabase.
func (p *Project) LoadAsset(ctx context.Context, uuid string) (*source.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, ok := p.byUUID[uuid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, uuid)
	}
	if a.Type != TypePrefab && a.Type != TypeScene {
		return nil, fmt.Errorf("asset %s is %s, not a prefab", a.Path, a.Type)
	}
	n, err := p.LoadFile(a.File)
	if err != nil {
		return nil, err
	}
	n.UUID = uuid
	return n, nil
}

// SourceDigest implements discovery.Fingerprinter over the prefab bytes.
func (p *Project) SourceDigest(ctx context.Context, uuid string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	a, ok := p.byUUID[uuid]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAsset, uuid)
	}
	data, err := os.ReadFile(a.File)
	if err != nil {
		return "", fmt.Errorf("read prefab: %w", err)
	}
	return ir.SourceDigest(data), nil
}

// LoadFile parses the prefab at file, resolving asset references against
// the project.
func (p *Project) LoadFile(file string) (*source.Node, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read prefab: %w", err)
	}
	n, err := Parse(data, p.profile, p)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(file), err)
	}
	return n, nil
}

// RefForFile returns the asset reference of a file inside the project.
func (p *Project) RefForFile(file string) (discovery.AssetRef, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return discovery.AssetRef{}, false
	}
	for _, a := range p.assets {
		if a.Parent != "" {
			continue
		}
		if fa, err := filepath.Abs(a.File); err == nil && fa == abs {
			return a.AssetRef, true
		}
	}
	return discovery.AssetRef{}, false
}
