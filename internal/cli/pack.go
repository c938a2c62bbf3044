package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uibridge/internal/bundle"
)

// PackOptions holds flags for the pack command.
type PackOptions struct {
	*RootOptions
	In   string
	Out  string
	List bool
}

// PackResult is the payload of the pack command.
type PackResult struct {
	Archive string         `json:"archive"`
	Files   int            `json:"files"`
	Bytes   int64          `json:"bytes"`
	Entries []bundle.Entry `json:"entries,omitempty"`
}

func (r PackResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s: %d file(s), %d bytes", r.Archive, r.Files, r.Bytes)
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "\n  %s (%d)", e.Name, e.Size)
	}
	return b.String()
}

// NewPackCommand creates the pack command.
func NewPackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Bundle an export folder into a .tar.xz archive",
		Long: `Bundle the IR files and resource list under --in into one
reproducible .tar.xz archive. Packing the same folder twice gives identical
bytes.

Examples:
  uibridge pack --in ./ir --out ui.tar.xz
  uibridge pack --in ./ir --out ui.tar.xz --list`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.In, "in", "", "export folder")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "archive path (defaults to <in>"+bundle.Ext+")")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list the archive entries after packing")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runPack(opts *PackOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	out := opts.Out
	if out == "" {
		out = strings.TrimRight(opts.In, "/\\") + bundle.Ext
	}

	stats, err := bundle.Pack(opts.In, out)
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "pack failed", err)
	}
	formatter.VerboseLog("Packed %d file(s) from %s", stats.Files, opts.In)

	res := PackResult{Archive: out, Files: stats.Files, Bytes: stats.Bytes}
	if opts.List {
		entries, err := bundle.List(out)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitFailure, "failed to list archive", err)
		}
		res.Entries = entries
	}
	return formatter.Success(res)
}
