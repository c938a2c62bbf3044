package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/roach88/uibridge/internal/convert"
	"github.com/roach88/uibridge/internal/discovery"
	"github.com/roach88/uibridge/internal/events"
	"github.com/roach88/uibridge/internal/fsutil"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/manifest"
	"github.com/roach88/uibridge/internal/source"
	"github.com/roach88/uibridge/internal/store"
)

// FallbackName names outputs whose asset and root node are both unnamed.
const FallbackName = "exported_prefab"

// IRExt is the extension of written IR files.
const IRExt = ".json"

// Ledger records runs. *store.Store satisfies it.
type Ledger interface {
	BeginRun(ctx context.Context, run store.Run) (store.Run, error)
	WriteItem(ctx context.Context, item store.Item) error
	FinishRun(ctx context.Context, id string, state store.RunState, counts store.Counts, manifestDigest string) error
	LastSuccess(ctx context.Context, uuid string) (store.Item, bool, error)
}

// Driver runs batch exports against one asset database.
type Driver struct {
	db      discovery.AssetDatabase
	finder  *discovery.Finder
	profile source.Profile
	sink    events.Sink
	ledger  Ledger
	ids     IDGenerator
	clock   Clock
	yield   time.Duration
	logger  *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithProfile selects the source profile. The default is source.Modern.
func WithProfile(p source.Profile) Option {
	return func(d *Driver) { d.profile = p }
}

// WithSink sets where run events go.
func WithSink(s events.Sink) Option {
	return func(d *Driver) { d.sink = s }
}

// WithLedger records runs and items in l.
func WithLedger(l Ledger) Option {
	return func(d *Driver) { d.ledger = l }
}

// WithIDGenerator sets the run ID source.
func WithIDGenerator(g IDGenerator) Option {
	return func(d *Driver) { d.ids = g }
}

// WithClock sets the event clock.
func WithClock(c Clock) Option {
	return func(d *Driver) { d.clock = c }
}

// WithYieldInterval sleeps for iv between items.
func WithYieldInterval(iv time.Duration) Option {
	return func(d *Driver) { d.yield = iv }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// NewDriver returns a driver over db.
func NewDriver(db discovery.AssetDatabase, opts ...Option) *Driver {
	d := &Driver{
		db:      db,
		profile: source.Modern,
		sink:    events.Nop(),
		ids:     UUIDv7Generator{},
		clock:   NewClock(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.profile == nil {
		d.profile = source.Modern
	}
	d.finder = discovery.NewFinder(db, d.logger)
	return d
}

// Run exports every prefab under req.SourceFolder.
//
// The returned error is non-nil only when the run could not proceed: an
// invalid output root, no assets found, a cancelled context or a manifest
// that could not be written. Per-item failures are reported in
// Result.Items and never abort the run.
func (d *Driver) Run(ctx context.Context, req Request) (*Result, error) {
	r := newRun(d.ids.Generate(), req)
	logger := d.logger.With("run", r.id)

	if err := prepareOutputRoot(req.OutputPath); err != nil {
		return d.fail(r, discovery.LayerNone, err)
	}

	r.state = StateScanning
	logger.Info("scanning", "folder", r.folder, "recursive", req.IncludeSubfolders)
	refs, layer, err := d.finder.Find(ctx, r.folder, req.IncludeSubfolders)
	if err != nil {
		return d.fail(r, layer, err)
	}
	logger.Debug("scan complete", "layer", layer.String(), "count", len(refs))

	return d.convert(ctx, r, refs, layer)
}

// ExportOne converts a single asset. It skips discovery but otherwise runs
// like a batch of one: events, ledger and manifest behave the same.
func (d *Driver) ExportOne(ctx context.Context, ref discovery.AssetRef, req Request) (*Result, error) {
	if req.SourceFolder == "" {
		req.SourceFolder = dirOf(ref.Path)
	}
	r := newRun(d.ids.Generate(), req)
	if err := prepareOutputRoot(req.OutputPath); err != nil {
		return d.fail(r, discovery.LayerNone, err)
	}
	return d.convert(ctx, r, []discovery.AssetRef{ref}, discovery.LayerNone)
}

func (d *Driver) convert(ctx context.Context, r *run, refs []discovery.AssetRef, layer discovery.Layer) (*Result, error) {
	logger := d.logger.With("run", r.id)
	r.state = StateConverting
	r.total = len(refs)
	r.ledger = d.beginLedger(ctx, r)

	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", "done", i, "total", r.total)
			d.finishLedger(ctx, r, store.RunFailed, "")
			return d.fail(r, layer, err)
		}

		it := d.item(ctx, r, ref)
		r.record(it)
		if it.Err != nil {
			logger.Warn("item failed", "asset", ref.Path, "uuid", ref.UUID, "error", it.Err)
		} else {
			logger.Debug("item done", "asset", ref.Path, "status", string(it.Status), "losses", it.Losses)
		}
		d.writeLedgerItem(ctx, r, int64(i+1), it)
		d.emit(r, events.Progress(i+1, r.total))
		d.pause(ctx)
	}

	res := r.result(layer)
	if r.req.ExportResourceManifest {
		p := filepath.Join(r.req.OutputPath, manifest.ReservedName)
		if err := manifest.Write(p, r.manifest); err != nil {
			werr := &WriteError{Asset: manifest.ReservedName, Path: p, Err: err}
			d.finishLedger(ctx, r, store.RunFailed, "")
			return d.fail(r, layer, werr)
		}
		res.ManifestPath = p
	}

	r.state = StateCompleted
	res.State = r.state
	digest, _ := r.manifest.Digest()
	d.finishLedger(ctx, r, store.RunCompleted, digest)

	msg := completionMessage(r.counts)
	logger.Info("run complete", "succeeded", r.counts.Succeeded, "failed", r.counts.Failed, "skipped", r.counts.Skipped)
	d.emit(r, events.Completion(msg))
	return res, nil
}

// item converts one asset. Panics inside the tree walk are recovered here
// and reported as a conversion failure of this item only.
func (d *Driver) item(ctx context.Context, r *run, ref discovery.AssetRef) (it Item) {
	it = Item{Asset: ref}
	defer func() {
		if rec := recover(); rec != nil {
			it.Status = store.ItemFailed
			it.Err = convert.Recovered(rec)
		}
	}()

	if ref.UUID != "" && r.seen[ref.UUID] {
		it.Status = store.ItemSkipped
		return it
	}
	r.seen[ref.UUID] = true

	it.SourceDigest = d.sourceDigest(ctx, ref)
	if last, ok := d.unchanged(ctx, r, ref, it.SourceDigest); ok {
		it.Status = store.ItemSkipped
		it.Output = last.Output
		it.Digest = last.DocumentDigest
		it.Losses = last.Losses
		it.Resources = last.Resources
		r.outputs[last.Output] = true
		// The file on disk still references these, so the rewritten
		// manifest must too.
		r.manifest.Merge(last.Resources)
		return it
	}

	tree, err := d.db.LoadAsset(ctx, ref.UUID)
	if err != nil {
		return failed(it, &LoadError{Asset: ref.Path, Err: err})
	}
	if tree == nil {
		return failed(it, &LoadError{Asset: ref.Path, Err: errors.New("empty asset")})
	}

	var res convert.Resources
	loss := &ir.LossReport{}
	doc, err := convert.NewSerializer(d.profile, convert.WithCollector(&res), convert.WithLoss(loss)).Serialize(tree)
	if err != nil {
		return failed(it, err)
	}
	data, err := ir.Marshal(doc)
	if err != nil {
		return failed(it, &convert.ConversionError{Code: convert.ErrCodeEncode, Message: err.Error(), Err: err})
	}

	out := r.outputFor(ref, doc.Name)
	if err := fsutil.WriteFileAtomic(out, data); err != nil {
		return failed(it, &WriteError{Asset: ref.Path, Path: out, Err: err})
	}

	it.Status = store.ItemSucceeded
	it.Output = out
	it.Losses = loss.Len()
	it.Digest, _ = ir.DocumentDigest(doc)
	it.Resources = res
	r.manifest.Merge(res)
	r.loss.Merge(loss)
	return it
}

func failed(it Item, err error) Item {
	it.Status = store.ItemFailed
	it.Err = err
	return it
}

func (d *Driver) sourceDigest(ctx context.Context, ref discovery.AssetRef) string {
	fp, ok := d.db.(discovery.Fingerprinter)
	if !ok || d.ledger == nil {
		return ""
	}
	digest, err := fp.SourceDigest(ctx, ref.UUID)
	if err != nil {
		d.logger.Debug("source digest unavailable", "asset", ref.Path, "error", err)
		return ""
	}
	return digest
}

// unchanged looks up the last successful conversion of ref and reports it
// when the source is unchanged and its output is still on disk at the path
// this run would write. Output written for another folder or layout does
// not count.
func (d *Driver) unchanged(ctx context.Context, r *run, ref discovery.AssetRef, digest string) (store.Item, bool) {
	if !r.req.SkipUnchanged || r.ledger == nil || digest == "" {
		return store.Item{}, false
	}
	// Unnamed assets are named after their root node, which needs a load.
	if sanitize(ref.Name()) == "" {
		return store.Item{}, false
	}
	last, ok, err := r.ledger.LastSuccess(ctx, ref.UUID)
	if err != nil {
		d.logger.Warn("ledger lookup failed", "asset", ref.Path, "error", err)
		return store.Item{}, false
	}
	if !ok || last.SourceDigest != digest {
		return store.Item{}, false
	}
	if want := r.nextOutput(ref, ""); filepath.Clean(last.Output) != want {
		d.logger.Debug("previous output elsewhere", "asset", ref.Path, "previous", last.Output, "want", want)
		return store.Item{}, false
	}
	if !fsutil.Exists(last.Output) {
		return store.Item{}, false
	}
	return last, true
}

// outputFor picks the IR file for ref and claims it. Names come from the
// asset, then the root node, then FallbackName. A name already claimed in
// this run gets a numeric suffix.
func (r *run) outputFor(ref discovery.AssetRef, nodeName string) string {
	out := r.nextOutput(ref, nodeName)
	r.outputs[out] = true
	return out
}

// nextOutput is outputFor without the claim.
func (r *run) nextOutput(ref discovery.AssetRef, nodeName string) string {
	name := sanitize(ref.Name())
	if name == "" {
		name = sanitize(nodeName)
	}
	if name == "" {
		name = FallbackName
	}

	dir := r.req.OutputPath
	if r.req.PreserveFolders {
		rel := strings.TrimPrefix(dirOf(ref.Path), r.folder)
		rel = strings.Trim(rel, "/")
		if rel != "" && !strings.HasPrefix(rel, "db:") {
			dir = filepath.Join(dir, filepath.FromSlash(rel))
		}
	}

	out := filepath.Join(dir, name+IRExt)
	for n := 2; r.outputs[out]; n++ {
		out = filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, n, IRExt))
	}
	return out
}

// dirOf returns the folder part of a db:// URL. path.Dir would collapse the
// scheme's double slash.
func dirOf(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}

func sanitize(name string) string {
	name = strings.TrimSpace(name)
	return strings.Map(func(c rune) rune {
		switch c {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return c
	}, name)
}

func prepareOutputRoot(root string) error {
	if strings.TrimSpace(root) == "" {
		return invalidOutputRoot(root, "empty path")
	}
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return invalidOutputRoot(root, "not a directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return invalidOutputRoot(root, err.Error())
	}
	return nil
}

func (d *Driver) fail(r *run, layer discovery.Layer, err error) (*Result, error) {
	r.state = StateFailed
	d.logger.Error("run failed", "run", r.id, "error", err)
	d.emit(r, events.Error(err.Error()))
	return r.result(layer), err
}

func (d *Driver) emit(r *run, e events.Event) {
	e.Seq = d.clock.Next()
	e.RunID = r.id
	if err := d.sink.Write(e); err != nil {
		d.logger.Warn("event sink failed", "run", r.id, "error", err)
	}
}

// pause yields the processor between items.
func (d *Driver) pause(ctx context.Context) {
	runtime.Gosched()
	if d.yield <= 0 {
		return
	}
	t := time.NewTimer(d.yield)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func completionMessage(c store.Counts) string {
	msg := fmt.Sprintf("exported %d of %d prefabs", c.Succeeded, c.Total)
	var extra []string
	if c.Failed > 0 {
		extra = append(extra, fmt.Sprintf("%d failed", c.Failed))
	}
	if c.Skipped > 0 {
		extra = append(extra, fmt.Sprintf("%d skipped", c.Skipped))
	}
	if len(extra) > 0 {
		msg += " (" + strings.Join(extra, ", ") + ")"
	}
	return msg
}
