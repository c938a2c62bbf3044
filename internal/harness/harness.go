package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/uibridge/internal/convert"
	"github.com/roach88/uibridge/internal/discovery"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/project"
	"github.com/roach88/uibridge/internal/source"
	"github.com/roach88/uibridge/internal/target"
)

// Harness runs scenarios against one opened project.
type Harness struct {
	project *project.Project
	logger  *slog.Logger
}

// Run executes a scenario and returns its result. Errors are returned for
// scenarios that cannot run at all; failed assertions are reported in the
// result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := []project.Option{project.WithLogger(logger)}
	if scenario.Profile != "" {
		p, err := source.ParseProfile(scenario.Profile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, project.WithProfile(p))
	}
	p, err := project.Open(scenario.Project, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}

	h := &Harness{project: p, logger: logger}
	return h.run(ctx, scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	ref, err := h.resolve(scenario.Asset)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Profile = h.project.Profile().Name()

	doc, err := h.serialize(ctx, ref.UUID, result)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Digest, err = ir.DocumentDigest(doc)
	if err != nil {
		return nil, err
	}

	if err := h.checkStability(ctx, ref.UUID, result); err != nil {
		return nil, err
	}

	if scenario.Target != "" {
		m, err := target.NewMapper(scenario.Target, target.Options{AutoCanvas: scenario.AutoCanvas})
		if err != nil {
			return nil, err
		}
		root, err := convert.NewBuilder(m, convert.WithLoss(result.Losses)).Build(doc, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s tree: %w", scenario.Target, err)
		}
		result.Target = root
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"asset", ref.Path,
		"pass", result.Pass,
	)
	return result, nil
}

// resolve finds the asset a scenario names, by db:// path or uuid.
func (h *Harness) resolve(asset string) (discovery.AssetRef, error) {
	if strings.HasPrefix(asset, discovery.URLScheme) {
		for _, a := range h.project.Assets() {
			if a.Path == asset {
				return a.AssetRef, nil
			}
		}
		return discovery.AssetRef{}, fmt.Errorf("%w: %s", project.ErrUnknownAsset, asset)
	}
	a, ok := h.project.Lookup(asset)
	if !ok {
		return discovery.AssetRef{}, fmt.Errorf("%w: %s", project.ErrUnknownAsset, asset)
	}
	return a.AssetRef, nil
}

func (h *Harness) serialize(ctx context.Context, uuid string, result *Result) (*ir.Document, error) {
	root, err := h.project.LoadAsset(ctx, uuid)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}
	var rs convert.Resources
	doc, err := convert.NewSerializer(h.project.Profile(),
		convert.WithCollector(&rs),
		convert.WithLoss(result.Losses),
	).Serialize(root)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize asset: %w", err)
	}
	result.Resources = append(result.Resources, rs...)
	return doc, nil
}

// checkStability encodes and decodes the document and serializes the prefab
// a second time, comparing digests each time.
func (h *Harness) checkStability(ctx context.Context, uuid string, result *Result) error {
	data, err := ir.Marshal(result.Document)
	if err != nil {
		return err
	}
	decoded, err := ir.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to decode own output: %w", err)
	}
	again, err := ir.DocumentDigest(decoded)
	if err != nil {
		return err
	}
	result.RoundTrip = again == result.Digest

	root, err := h.project.LoadAsset(ctx, uuid)
	if err != nil {
		return err
	}
	second, err := convert.NewSerializer(h.project.Profile()).Serialize(root)
	if err != nil {
		return err
	}
	d2, err := ir.DocumentDigest(second)
	if err != nil {
		return err
	}
	result.Idempotent = d2 == result.Digest
	return nil
}
