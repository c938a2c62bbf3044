package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/uibridge/internal/fsutil"
	"github.com/roach88/uibridge/internal/ir"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	Out string
}

type schemaWritten struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

func (s schemaWritten) String() string {
	return fmt.Sprintf("✓ Wrote IR schema to %s (%d bytes)", s.Path, s.Bytes)
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of IR documents",
		Long: `Print the JSON Schema describing IR documents, or write it to --out.

The schema is printed as is, without the output envelope, so it can be
piped straight into other tools.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the schema to this file")
	return cmd
}

func runSchema(opts *SchemaOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	data, err := ir.MarshalSchema()
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to build schema", err)
	}

	if opts.Out == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := fsutil.WriteFileAtomic(opts.Out, data); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to write schema", err)
	}
	return formatter.Success(schemaWritten{Path: opts.Out, Bytes: len(data)})
}
