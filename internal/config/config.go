// Package config loads the optional uibridge config file.
//
// A config file is YAML. It is first checked against the embedded CUE
// schema, which reports enum, range and unknown-field violations with file
// positions, then decoded strictly into Config.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config is a decoded config file.
type Config struct {
	// Profile is legacy or modern; empty detects it from the project.
	Profile string `yaml:"profile"`
	Export  Export `yaml:"export"`
	Import  Import `yaml:"import"`
}

// Export holds defaults for the export commands.
type Export struct {
	Project         string `yaml:"project"`
	Folder          string `yaml:"folder"`
	Out             string `yaml:"out"`
	Subfolders      bool   `yaml:"subfolders"`
	Resources       bool   `yaml:"resources"`
	PreserveFolders bool   `yaml:"preserve_folders"`
	SkipUnchanged   bool   `yaml:"skip_unchanged"`
	DB              string `yaml:"db"`
	YieldMS         int    `yaml:"yield_ms"`
}

// Yield returns the inter-item pause.
func (e Export) Yield() time.Duration {
	return time.Duration(e.YieldMS) * time.Millisecond
}

// Import holds defaults for the import command.
type Import struct {
	Target          string `yaml:"target"`
	AutoCanvas      bool   `yaml:"auto_canvas"`
	PreserveFolders bool   `yaml:"preserve_folders"`
	Resources       string `yaml:"resources"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		Export: Export{Folder: "db://assets"},
		Import: Import{Target: "ugui", AutoCanvas: true},
	}
}

// ValidationError reports a config file the schema rejects.
type ValidationError struct {
	Message string
	Pos     token.Pos
}

func (e *ValidationError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Load reads, validates and decodes the config file at path. Values the
// file leaves out keep their Defaults. Relative paths in the file are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse validates and decodes config data. name is used in error positions.
func Parse(name string, data []byte) (*Config, error) {
	if err := Validate(name, data); err != nil {
		return nil, err
	}

	cfg := Defaults()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks config data against the schema.
func Validate(name string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	file, err := cueyaml.Extract(name, data)
	if err != nil {
		return formatCUEError(err)
	}
	v := ctx.BuildFile(file)
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.Export.Project, &c.Export.Out, &c.Export.DB, &c.Import.Resources} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	first := errs[0]
	ve := &ValidationError{Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		ve.Pos = positions[0]
	}
	return ve
}
