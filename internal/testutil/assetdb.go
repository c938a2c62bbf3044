package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/uibridge/internal/discovery"
	"github.com/roach88/uibridge/internal/source"
)

// ErrNoAsset is returned by MemoryDB.LoadAsset for an unknown uuid.
var ErrNoAsset = errors.New("no such asset")

// MemoryDB is an in-memory discovery.AssetDatabase. Assets are returned in
// insertion order; QueryAssets honours the kind restriction unless
// IgnoreKind is set, which mimics hosts whose typed query always comes back
// empty.
type MemoryDB struct {
	mu sync.Mutex

	refs    []discovery.AssetRef
	trees   map[string]func() *source.Node
	loadErr map[string]error
	digests map[string]string

	IgnoreKind bool
	Loads      []string
}

// NewMemoryDB returns an empty database.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		trees:   make(map[string]func() *source.Node),
		loadErr: make(map[string]error),
		digests: make(map[string]string),
	}
}

// Add registers an asset. build is called on every load so each load gets a
// fresh tree.
func (db *MemoryDB) Add(ref discovery.AssetRef, build func() *source.Node) *MemoryDB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.refs = append(db.refs, ref)
	db.trees[ref.UUID] = build
	return db
}

// FailLoad makes loading uuid return err.
func (db *MemoryDB) FailLoad(uuid string, err error) *MemoryDB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.loadErr[uuid] = err
	return db
}

// SetDigest sets the source digest reported for uuid.
func (db *MemoryDB) SetDigest(uuid, digest string) *MemoryDB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.digests[uuid] = digest
	return db
}

// QueryAssets implements discovery.AssetDatabase.
func (db *MemoryDB) QueryAssets(ctx context.Context, pattern, kind string) ([]discovery.AssetRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	match, err := discovery.MatchPattern(pattern)
	if err != nil {
		return nil, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if kind != "" && db.IgnoreKind {
		return nil, nil
	}
	var out []discovery.AssetRef
	for _, r := range db.refs {
		if !match(r.Path) {
			continue
		}
		if kind == discovery.KindPrefab && !discovery.IsPrefabLike(r) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// LoadAsset implements discovery.AssetDatabase.
func (db *MemoryDB) LoadAsset(ctx context.Context, uuid string) (*source.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.Loads = append(db.Loads, uuid)
	if err := db.loadErr[uuid]; err != nil {
		return nil, err
	}
	build, ok := db.trees[uuid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoAsset, uuid)
	}
	return build(), nil
}

// SourceDigest implements discovery.Fingerprinter. Assets without a set
// digest report their uuid.
func (db *MemoryDB) SourceDigest(ctx context.Context, uuid string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if d, ok := db.digests[uuid]; ok {
		return d, nil
	}
	return "digest-" + uuid, nil
}

// LoadCount returns how many loads have been attempted.
func (db *MemoryDB) LoadCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.Loads)
}
