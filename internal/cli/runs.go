package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uibridge/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Limit    int
	Run      string
}

// RunSummary is one ledger run.
type RunSummary struct {
	ID        string `json:"id"`
	Seq       int64  `json:"seq"`
	State     string `json:"state"`
	Profile   string `json:"profile"`
	Folder    string `json:"folder"`
	Output    string `json:"output"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
	Manifest  string `json:"manifest_digest,omitempty"`
}

// RunItem is one item of a ledger run.
type RunItem struct {
	Seq    int64  `json:"seq"`
	UUID   string `json:"uuid"`
	Asset  string `json:"asset"`
	Status string `json:"status"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RunsResult is the payload of the runs command.
type RunsResult struct {
	Runs  []RunSummary `json:"runs"`
	Items []RunItem    `json:"items,omitempty"`
}

func (r RunsResult) String() string {
	if len(r.Runs) == 0 {
		return "No runs recorded."
	}
	var b strings.Builder
	for i, run := range r.Runs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "#%d %s %s %s -> %s: %d ok, %d failed, %d skipped of %d",
			run.Seq, run.ID, run.State, run.Folder, run.Output,
			run.Succeeded, run.Failed, run.Skipped, run.Total)
	}
	for _, it := range r.Items {
		fmt.Fprintf(&b, "\n  %d %s %s", it.Seq, it.Status, it.Asset)
		if it.Error != "" {
			fmt.Fprintf(&b, ": %s", it.Error)
		}
	}
	return b.String()
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List export runs recorded in a ledger",
		Long: `List the export runs recorded in a SQLite run ledger, newest first.

With --run, show that run and its items instead.

Examples:
  uibridge runs --db runs.db
  uibridge runs --db runs.db --run 01928c4e-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite run ledger (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 for all)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show one run and its items")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res := RunsResult{Runs: []RunSummary{}}

	if opts.Run != "" {
		run, err := st.ReadRun(ctx, opts.Run)
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		items, err := st.ReadItems(ctx, opts.Run)
		if err != nil {
			_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
			return WrapExitError(ExitFailure, "failed to read items", err)
		}
		res.Runs = append(res.Runs, runSummary(run))
		for _, it := range items {
			res.Items = append(res.Items, RunItem{
				Seq:    it.Seq,
				UUID:   it.UUID,
				Asset:  it.Path,
				Status: string(it.Status),
				Output: it.Output,
				Error:  it.Error,
			})
		}
		return formatter.Success(res)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		_ = formatter.Error(ErrCodeLedger, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}
	for _, run := range runs {
		res.Runs = append(res.Runs, runSummary(run))
	}
	return formatter.Success(res)
}

func runSummary(run store.Run) RunSummary {
	return RunSummary{
		ID:        run.ID,
		Seq:       run.Seq,
		State:     string(run.State),
		Profile:   run.Profile,
		Folder:    run.Folder,
		Output:    run.OutputRoot,
		Total:     run.Total,
		Succeeded: run.Succeeded,
		Failed:    run.Failed,
		Skipped:   run.Skipped,
		Manifest:  run.ManifestDigest,
	}
}
