package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/roach88/uibridge/internal/batch"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/manifest"
)

// FileValidation is the outcome of checking one IR file.
type FileValidation struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Nodes int    `json:"nodes,omitempty"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool             `json:"valid"`
	Files   []FileValidation `json:"files"`
	Invalid int              `json:"invalid"`
}

func (r ValidationResult) String() string {
	var b strings.Builder
	for _, f := range r.Files {
		if f.Valid {
			fmt.Fprintf(&b, "✓ %s (%d nodes)\n", f.File, f.Nodes)
		} else {
			fmt.Fprintf(&b, "✗ %s: %s\n", f.File, f.Error)
		}
	}
	if r.Valid {
		fmt.Fprintf(&b, "✓ All %d IR file(s) valid", len(r.Files))
	} else {
		fmt.Fprintf(&b, "%d of %d IR file(s) invalid", r.Invalid, len(r.Files))
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Check IR files against the document schema",
		Long: `Decode IR files and report every one that does not satisfy the
document schema. Folders are searched recursively for .json files;
resource_list.json is skipped.

Exit codes:
  0 - Every file is valid
  1 - One or more files are invalid
  2 - A path does not exist or holds no IR files`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	var files []string
	for _, p := range paths {
		found, err := irFiles(p)
		if err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "path not found", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		msg := "no IR files found"
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	res := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, f := range files {
		formatter.VerboseLog("Validating %s", f)
		fv := validateFile(f)
		if !fv.Valid {
			res.Valid = false
			res.Invalid++
		}
		res.Files = append(res.Files, fv)
	}

	if !res.Valid {
		msg := fmt.Sprintf("%d IR file(s) invalid", res.Invalid)
		if err := formatter.Partial(res, ErrCodeInvalidIR, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(res)
}

func validateFile(path string) FileValidation {
	fv := FileValidation{File: path}
	data, err := os.ReadFile(path)
	if err != nil {
		fv.Error = err.Error()
		return fv
	}
	if !gjson.ValidBytes(data) {
		fv.Error = "not valid JSON"
		return fv
	}
	if !gjson.GetBytes(data, "name").Exists() && gjson.GetBytes(data, "resources").IsArray() {
		fv.Error = "resource list, not an IR document"
		return fv
	}
	doc, err := ir.Unmarshal(data)
	if err != nil {
		fv.Error = err.Error()
		return fv
	}
	fv.Valid = true
	fv.Nodes = doc.CountNodes()
	return fv
}

// irFiles lists the IR files at p in lexical order.
func irFiles(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{p}, nil
	}
	var files []string
	err = filepath.WalkDir(p, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() || !strings.EqualFold(filepath.Ext(path), batch.IRExt) || manifest.IsReserved(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}
