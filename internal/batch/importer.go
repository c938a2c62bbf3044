package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/roach88/uibridge/internal/convert"
	"github.com/roach88/uibridge/internal/events"
	"github.com/roach88/uibridge/internal/fsutil"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/manifest"
	"github.com/roach88/uibridge/internal/store"
	"github.com/roach88/uibridge/internal/target"
)

// ImportRequest describes building destination trees from IR files.
type ImportRequest struct {
	// InputPath is one IR file or a folder searched recursively.
	InputPath  string
	OutputPath string

	// PreserveFolders mirrors the input folder layout under OutputPath.
	PreserveFolders bool

	// ResourceDir, when set, is searched for the textures and fonts the
	// input's resource list names. Unresolved ones are reported in
	// ImportResult.Missing.
	ResourceDir string
}

// ImportItem is the outcome of one IR file.
type ImportItem struct {
	Input  string
	Output string
	Status store.ItemStatus
	Losses int
	Err    error
}

// ImportResult is what a finished import returns.
type ImportResult struct {
	Framework string
	Items     []ImportItem
	store.Counts
	Missing []ir.Resource
	Loss    *ir.LossReport
}

// Importer builds destination trees for one framework.
type Importer struct {
	mapper target.Mapper
	sink   events.Sink
	clock  Clock
	logger *slog.Logger
}

// NewImporter returns an importer writing trees built by m. A nil sink
// discards events and a nil logger uses slog.Default.
func NewImporter(m target.Mapper, sink events.Sink, logger *slog.Logger) *Importer {
	if sink == nil {
		sink = events.Nop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{mapper: m, sink: sink, clock: NewClock(), logger: logger}
}

// Import builds every IR file under req.InputPath. Like Run, only failures
// that stop the whole import are returned as errors.
func (im *Importer) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	res := &ImportResult{Framework: im.mapper.Framework(), Items: []ImportItem{}, Loss: &ir.LossReport{}}

	files, base, err := collectIR(req.InputPath)
	if err != nil {
		im.emit(events.Error(err.Error()))
		return res, err
	}
	if err := prepareOutputRoot(req.OutputPath); err != nil {
		im.emit(events.Error(err.Error()))
		return res, err
	}

	claimed := make(map[string]bool, len(files))
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			im.emit(events.Error(err.Error()))
			return res, err
		}
		it := im.file(file, base, req, claimed)
		if it.Err != nil {
			im.logger.Warn("import failed", "file", file, "error", it.Err)
		}
		res.Items = append(res.Items, it)
		res.Tally(it.Status)
		im.emit(events.Progress(i+1, len(files)))
		runtime.Gosched()
	}

	if req.ResourceDir != "" {
		missing, err := im.checkResources(base, req.ResourceDir)
		if err != nil {
			im.logger.Warn("resource check skipped", "error", err)
		}
		res.Missing = missing
	}

	msg := fmt.Sprintf("imported %d of %d files as %s", res.Succeeded, res.Total, res.Framework)
	if res.Failed > 0 {
		msg += fmt.Sprintf(" (%d failed)", res.Failed)
	}
	im.emit(events.Completion(msg))
	return res, nil
}

func (im *Importer) file(file, base string, req ImportRequest, claimed map[string]bool) (it ImportItem) {
	it = ImportItem{Input: file}
	defer func() {
		if rec := recover(); rec != nil {
			it.Status = store.ItemFailed
			it.Err = convert.Recovered(rec)
		}
	}()

	data, err := os.ReadFile(file)
	if err != nil {
		return importFailed(it, &LoadError{Asset: file, Err: err})
	}
	doc, err := ir.Unmarshal(data)
	if err != nil {
		return importFailed(it, fmt.Errorf("%s: %w", filepath.Base(file), err))
	}

	loss := &ir.LossReport{}
	root, err := convert.NewBuilder(im.mapper, convert.WithLoss(loss)).Build(doc, nil)
	if err != nil {
		return importFailed(it, err)
	}
	out, err := target.Dump(root)
	if err != nil {
		return importFailed(it, err)
	}

	dir := req.OutputPath
	if req.PreserveFolders {
		if rel, err := filepath.Rel(base, filepath.Dir(file)); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			dir = filepath.Join(dir, rel)
		}
	}
	it.Output = im.outputFor(dir, file, doc.Name, claimed)
	if err := fsutil.WriteFileAtomic(it.Output, out); err != nil {
		return importFailed(it, &WriteError{Asset: file, Path: it.Output, Err: err})
	}

	it.Status = store.ItemSucceeded
	it.Losses = loss.Len()
	return it
}

// outputFor names the tree built from file and claims the name. The input's
// base name is used first since export already made it unique within its
// folder, then the document name, then FallbackName. A name already claimed
// in this import gets a numeric suffix.
func (im *Importer) outputFor(dir, file, docName string, claimed map[string]bool) string {
	name := sanitize(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
	if name == "" {
		name = sanitize(docName)
	}
	if name == "" {
		name = FallbackName
	}

	fw := im.mapper.Framework()
	out := filepath.Join(dir, target.OutputName(fw, name))
	for n := 2; claimed[out]; n++ {
		out = filepath.Join(dir, target.OutputName(fw, fmt.Sprintf("%s_%d", name, n)))
	}
	claimed[out] = true
	return out
}

func importFailed(it ImportItem, err error) ImportItem {
	it.Status = store.ItemFailed
	it.Err = err
	return it
}

// checkResources resolves the resource list next to the input against dir.
func (im *Importer) checkResources(base, dir string) ([]ir.Resource, error) {
	listPath := filepath.Join(base, manifest.ReservedName)
	if !fsutil.Exists(listPath) {
		return nil, fmt.Errorf("no %s in %s", manifest.ReservedName, base)
	}
	m, err := manifest.Read(listPath)
	if err != nil {
		return nil, err
	}
	resolver, err := manifest.NewDirResolver(dir)
	if err != nil {
		return nil, err
	}
	missing := manifest.CheckMissing(m, resolver)
	for _, r := range missing {
		im.logger.Warn("missing resource", "name", r.Name, "type", string(r.Type), "uuid", r.UUID)
	}
	return missing, nil
}

func (im *Importer) emit(e events.Event) {
	e.Seq = im.clock.Next()
	if err := im.sink.Write(e); err != nil {
		im.logger.Warn("event sink failed", "error", err)
	}
}

// collectIR lists the IR files named by input in lexical order, skipping
// the resource list. base is the folder relative paths are taken from.
func collectIR(input string) (files []string, base string, err error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, "", &LoadError{Asset: input, Err: err}
	}
	if !info.IsDir() {
		if manifest.IsReserved(input) {
			return nil, "", &LoadError{Asset: input, Err: fmt.Errorf("%s is not an IR file", manifest.ReservedName)}
		}
		return []string{input}, filepath.Dir(input), nil
	}

	err = filepath.WalkDir(input, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() || !strings.EqualFold(filepath.Ext(p), IRExt) || manifest.IsReserved(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, "", &LoadError{Asset: input, Err: err}
	}
	return files, input, nil
}
