package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var (
	modernProject = filepath.Join("..", "project", "testdata", "modern")
	legacyProject = filepath.Join("..", "project", "testdata", "legacy")
)

// execute runs cmd with args and returns what it wrote to stdout and
// stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// jsonResponse is CLIResponse with the payload kept as a generic map.
type jsonResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
	Error  *CLIError      `json:"error"`
}

func decodeResponse(t *testing.T, out string) jsonResponse {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "stdout: %s", out)
	return resp
}

// writeConfig writes a config file into a fresh temp dir. Relative paths in
// it resolve against that dir, so callers pass absolute ones.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "uibridge.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func absPath(t *testing.T, p string) string {
	t.Helper()
	a, err := filepath.Abs(p)
	require.NoError(t, err)
	return a
}
