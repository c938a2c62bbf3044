package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/uibridge/internal/batch"
	"github.com/roach88/uibridge/internal/config"
	"github.com/roach88/uibridge/internal/discovery"
	"github.com/roach88/uibridge/internal/project"
	"github.com/roach88/uibridge/internal/source"
	"github.com/roach88/uibridge/internal/store"
)

// ExportOptions holds flags for the export and export-one commands.
type ExportOptions struct {
	*RootOptions
	Config string

	Project         string
	Folder          string
	Out             string
	Subfolders      bool
	Resources       bool
	PreserveFolders bool
	Profile         string
	Database        string
	SkipUnchanged   bool
	Yield           time.Duration

	// export-one selectors.
	UUID string
	File string

	// IDGenerator allows overriding run IDs (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator batch.IDGenerator
}

// ItemSummary is one asset in an export summary.
type ItemSummary struct {
	Asset  string `json:"asset"`
	UUID   string `json:"uuid"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Losses int    `json:"losses,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ExportSummary is the payload of a finished export.
type ExportSummary struct {
	RunID     string        `json:"run_id"`
	State     string        `json:"state"`
	Layer     string        `json:"layer"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Manifest  string        `json:"manifest,omitempty"`
	Resources int           `json:"resources"`
	Losses    int           `json:"losses"`
	Items     []ItemSummary `json:"items"`
}

func (s ExportSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: exported %d of %d prefabs (%d failed, %d skipped)", s.RunID, s.Succeeded, s.Total, s.Failed, s.Skipped)
	for _, it := range s.Items {
		switch it.Status {
		case string(store.ItemSucceeded):
			fmt.Fprintf(&b, "\n  ✓ %s -> %s", it.Asset, it.Output)
		case string(store.ItemSkipped):
			fmt.Fprintf(&b, "\n  - %s (unchanged)", it.Asset)
		default:
			fmt.Fprintf(&b, "\n  ✗ %s: %s", it.Asset, it.Error)
		}
	}
	if s.Manifest != "" {
		fmt.Fprintf(&b, "\nResource list: %s (%d resources)", s.Manifest, s.Resources)
	}
	return b.String()
}

func summarize(res *batch.Result) ExportSummary {
	s := ExportSummary{
		RunID:     res.RunID,
		State:     res.State.String(),
		Layer:     res.Layer.String(),
		Total:     res.Total,
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Skipped:   res.Skipped,
		Manifest:  res.ManifestPath,
		Losses:    res.Loss.Len(),
		Items:     make([]ItemSummary, 0, len(res.Items)),
	}
	if res.Manifest != nil {
		s.Resources = res.Manifest.Len()
	}
	for _, it := range res.Items {
		is := ItemSummary{
			Asset:  it.Asset.Path,
			UUID:   it.Asset.UUID,
			Status: string(it.Status),
			Output: it.Output,
			Losses: it.Losses,
		}
		if it.Err != nil {
			is.Error = it.Err.Error()
		}
		s.Items = append(s.Items, is)
	}
	return s
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every prefab under a folder to IR",
		Long: `Export Cocos Creator prefabs to IR files.

Prefabs under --folder are discovered through the project's asset database
(typed query, then untyped query, then a global scan). Each prefab becomes
one <name>.json file under --out. Failed prefabs never stop the batch.

Exit codes:
  0 - Every prefab exported or skipped
  1 - One or more prefabs failed
  2 - Command error (bad flags, no prefabs found, unusable output folder)

Examples:
  uibridge export --project ./game --folder db://assets/ui --out ./ir --subfolders
  uibridge export --config uibridge.yaml --db runs.db --skip-unchanged`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd, false)
		},
	}

	addExportFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Folder, "folder", "db://assets", "db:// folder to export")
	cmd.Flags().BoolVar(&opts.Subfolders, "subfolders", false, "include prefabs in subfolders")
	return cmd
}

// NewExportOneCommand creates the export-one command.
func NewExportOneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export-one",
		Short: "Export a single prefab to IR",
		Long: `Export one prefab, selected by --uuid or --file, to IR.

Example:
  uibridge export-one --project ./game --file ./game/assets/ui/Panel.prefab --out ./ir`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd, true)
		},
	}

	addExportFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.UUID, "uuid", "", "asset uuid")
	cmd.Flags().StringVar(&opts.File, "file", "", "prefab file inside the project")
	cmd.MarkFlagsMutuallyExclusive("uuid", "file")
	cmd.MarkFlagsOneRequired("uuid", "file")
	return cmd
}

func addExportFlags(cmd *cobra.Command, opts *ExportOptions) {
	cmd.Flags().StringVar(&opts.Config, "config", "", "YAML config file")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Cocos Creator project directory")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output directory")
	cmd.Flags().BoolVar(&opts.Resources, "resources", false, "write resource_list.json")
	cmd.Flags().BoolVar(&opts.PreserveFolders, "preserve-folders", false, "mirror the source folder layout")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "source profile (legacy|modern); detected when empty")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite run ledger")
	cmd.Flags().BoolVar(&opts.SkipUnchanged, "skip-unchanged", false, "skip prefabs unchanged since their last successful export (needs --db)")
	cmd.Flags().DurationVar(&opts.Yield, "yield", 0, "pause between prefabs")
}

// applyConfig fills every option whose flag was not set from the config
// file.
func (o *ExportOptions) applyConfig(cmd *cobra.Command) error {
	if o.Config == "" {
		return nil
	}
	cfg, err := config.Load(o.Config)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	setString := func(name string, dst *string, v string) {
		if !f.Changed(name) && v != "" {
			*dst = v
		}
	}
	setBool := func(name string, dst *bool, v bool) {
		if !f.Changed(name) {
			*dst = v
		}
	}

	setString("profile", &o.Profile, cfg.Profile)
	setString("project", &o.Project, cfg.Export.Project)
	setString("folder", &o.Folder, cfg.Export.Folder)
	setString("out", &o.Out, cfg.Export.Out)
	setString("db", &o.Database, cfg.Export.DB)
	setBool("subfolders", &o.Subfolders, cfg.Export.Subfolders)
	setBool("resources", &o.Resources, cfg.Export.Resources)
	setBool("preserve-folders", &o.PreserveFolders, cfg.Export.PreserveFolders)
	setBool("skip-unchanged", &o.SkipUnchanged, cfg.Export.SkipUnchanged)
	if !f.Changed("yield") {
		o.Yield = cfg.Export.Yield()
	}
	return nil
}

func runExport(opts *ExportOptions, cmd *cobra.Command, single bool) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := configureLogging(opts.RootOptions, cmd.ErrOrStderr())

	if err := opts.applyConfig(cmd); err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid config", err)
	}
	if opts.Project == "" || opts.Out == "" {
		msg := "--project and --out are required (as flags or in the config file)"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	if opts.SkipUnchanged && opts.Database == "" {
		msg := "--skip-unchanged needs a run ledger (--db)"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	projOpts := []project.Option{project.WithLogger(logger)}
	if opts.Profile != "" {
		p, err := source.ParseProfile(opts.Profile)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid profile", err)
		}
		projOpts = append(projOpts, project.WithProfile(p))
	}

	proj, err := project.Open(opts.Project, projOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeProject, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open project", err)
	}
	formatter.VerboseLog("Opened %s project %s (%d assets)", proj.Profile().Name(), proj.Root(), len(proj.Assets()))

	driverOpts := []batch.Option{
		batch.WithProfile(proj.Profile()),
		batch.WithLogger(logger),
		batch.WithSink(eventSink(opts.RootOptions, cmd.ErrOrStderr(), logger)),
		batch.WithYieldInterval(opts.Yield),
	}
	if opts.IDGenerator != nil {
		driverOpts = append(driverOpts, batch.WithIDGenerator(opts.IDGenerator))
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open ledger", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing ledger", "error", closeErr)
			}
		}()
		driverOpts = append(driverOpts, batch.WithLedger(st))
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	driver := batch.NewDriver(proj, driverOpts...)
	req := batch.Request{
		SourceFolder:           opts.Folder,
		OutputPath:             opts.Out,
		IncludeSubfolders:      opts.Subfolders,
		ExportResourceManifest: opts.Resources,
		PreserveFolders:        opts.PreserveFolders,
		SkipUnchanged:          opts.SkipUnchanged,
	}

	var res *batch.Result
	if single {
		ref, err := selectAsset(proj, opts)
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "asset not found", err)
		}
		req.SourceFolder = ""
		res, err = driver.ExportOne(ctx, ref, req)
		if err != nil {
			return exportError(formatter, err)
		}
	} else {
		res, err = driver.Run(ctx, req)
		if err != nil {
			return exportError(formatter, err)
		}
	}

	summary := summarize(res)
	if res.Failed > 0 {
		msg := fmt.Sprintf("%d of %d prefab(s) failed", res.Failed, res.Total)
		if err := formatter.Partial(summary, ErrCodeItemsFailed, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(summary)
}

func selectAsset(proj *project.Project, opts *ExportOptions) (discovery.AssetRef, error) {
	if opts.UUID != "" {
		a, ok := proj.Lookup(opts.UUID)
		if !ok {
			return discovery.AssetRef{}, fmt.Errorf("%w: %s", project.ErrUnknownAsset, opts.UUID)
		}
		return a.AssetRef, nil
	}
	ref, ok := proj.RefForFile(opts.File)
	if !ok {
		return discovery.AssetRef{}, fmt.Errorf("%w: %s is not an asset of the project", project.ErrUnknownAsset, opts.File)
	}
	return ref, nil
}

// exportError reports a run that could not proceed.
func exportError(formatter *OutputFormatter, err error) error {
	switch {
	case errors.Is(err, discovery.ErrNotFound):
		_ = formatter.Error(ErrCodeNoAssets, err.Error(), nil)
		return WrapExitError(ExitCommandError, "no prefabs found", err)
	case errors.Is(err, batch.ErrInvalidOutputRoot):
		_ = formatter.Error(ErrCodeOutputRoot, err.Error(), nil)
		return WrapExitError(ExitCommandError, "unusable output folder", err)
	case errors.Is(err, context.Canceled):
		_ = formatter.Error(ErrCodeGeneric, "export interrupted", nil)
		return WrapExitError(ExitFailure, "export interrupted", err)
	case batch.IsWriteError(err):
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to write resource list", err)
	default:
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "export failed", err)
	}
}
