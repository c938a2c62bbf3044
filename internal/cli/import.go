package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uibridge/internal/batch"
	"github.com/roach88/uibridge/internal/config"
	"github.com/roach88/uibridge/internal/store"
	"github.com/roach88/uibridge/internal/target"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Config          string
	Target          string
	In              string
	Out             string
	PreserveFolders bool
	AutoCanvas      bool
	Resources       string
}

// ImportSummary is the payload of a finished import.
type ImportSummary struct {
	Framework string        `json:"framework"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Losses    int           `json:"losses"`
	Missing   []string      `json:"missing,omitempty"`
	Items     []ItemSummary `json:"items"`
}

func (s ImportSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d of %d files as %s (%d failed)", s.Succeeded, s.Total, s.Framework, s.Failed)
	for _, it := range s.Items {
		if it.Status == string(store.ItemSucceeded) {
			fmt.Fprintf(&b, "\n  ✓ %s -> %s", it.Asset, it.Output)
		} else {
			fmt.Fprintf(&b, "\n  ✗ %s: %s", it.Asset, it.Error)
		}
	}
	if len(s.Missing) > 0 {
		fmt.Fprintf(&b, "\nMissing resources (%d):", len(s.Missing))
		for _, m := range s.Missing {
			fmt.Fprintf(&b, "\n  %s", m)
		}
	}
	return b.String()
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build NGUI or UGUI trees from IR files",
		Long: `Build destination UI trees from one IR file or a folder of IR files.

Each tree is written as <name>.prefab.yaml (NGUI) or <name>_UGUI.prefab.yaml
(UGUI). With --resources, the textures and fonts named by the input's
resource_list.json are looked up in that folder and missing ones reported.

Examples:
  uibridge import --target ngui --in ./ir --out ./ngui
  uibridge import --target ugui --in ./ir/Panel.json --out ./ugui --auto-canvas`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "YAML config file")
	cmd.Flags().StringVar(&opts.Target, "target", "ugui", "destination framework (ngui|ugui)")
	cmd.Flags().StringVar(&opts.In, "in", "", "IR file or folder")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.PreserveFolders, "preserve-folders", false, "mirror the input folder layout")
	cmd.Flags().BoolVar(&opts.AutoCanvas, "auto-canvas", true, "wrap UGUI roots in a Canvas")
	cmd.Flags().StringVar(&opts.Resources, "resources", "", "folder to check referenced textures and fonts against")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (o *ImportOptions) applyConfig(cmd *cobra.Command) error {
	if o.Config == "" {
		return nil
	}
	cfg, err := config.Load(o.Config)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if !f.Changed("target") && cfg.Import.Target != "" {
		o.Target = cfg.Import.Target
	}
	if !f.Changed("auto-canvas") {
		o.AutoCanvas = cfg.Import.AutoCanvas
	}
	if !f.Changed("preserve-folders") {
		o.PreserveFolders = cfg.Import.PreserveFolders
	}
	if !f.Changed("resources") && cfg.Import.Resources != "" {
		o.Resources = cfg.Import.Resources
	}
	return nil
}

func runImport(opts *ImportOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := configureLogging(opts.RootOptions, cmd.ErrOrStderr())

	if err := opts.applyConfig(cmd); err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	m, err := target.NewMapper(opts.Target, target.Options{AutoCanvas: opts.AutoCanvas})
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid target", err)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	im := batch.NewImporter(m, eventSink(opts.RootOptions, cmd.ErrOrStderr(), logger), logger)
	res, err := im.Import(ctx, batch.ImportRequest{
		InputPath:       opts.In,
		OutputPath:      opts.Out,
		PreserveFolders: opts.PreserveFolders,
		ResourceDir:     opts.Resources,
	})
	if err != nil {
		code, exit := ErrCodeGeneric, ExitFailure
		switch {
		case batch.IsLoadError(err):
			code, exit = ErrCodeNotFound, ExitCommandError
		case errors.Is(err, batch.ErrInvalidOutputRoot):
			code, exit = ErrCodeOutputRoot, ExitCommandError
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(exit, "import failed", err)
	}

	summary := ImportSummary{
		Framework: res.Framework,
		Total:     res.Total,
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Losses:    res.Loss.Len(),
		Items:     make([]ItemSummary, 0, len(res.Items)),
	}
	for _, it := range res.Items {
		is := ItemSummary{Asset: it.Input, Status: string(it.Status), Output: it.Output, Losses: it.Losses}
		if it.Err != nil {
			is.Error = it.Err.Error()
		}
		summary.Items = append(summary.Items, is)
	}
	for _, r := range res.Missing {
		summary.Missing = append(summary.Missing, fmt.Sprintf("%s %s (%s)", r.Type, r.Name, r.UUID))
	}

	if res.Failed > 0 {
		msg := fmt.Sprintf("%d of %d file(s) failed", res.Failed, res.Total)
		if err := formatter.Partial(summary, ErrCodeItemsFailed, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(summary)
}
