package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/knitgraph/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "knitgraph dev\n", out)
}

func TestDemo_Strip(t *testing.T) {
	out, _, err := execute(t, "demo", "strip", "--counts", "2,3", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "   1 | ... | 3\n   0 | ... | 3\n", out)
}

func TestDemo_TaperWithDumps(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "taper.obj")
	cs := filepath.Join(dir, "taper.yaml")
	out, _, err := execute(t, "demo", "taper", "--counts", "6,3", "--summary", "--obj", obj, "--courses", cs)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "knit graph: 9 stitches, 2 courses"), out)
	assert.Contains(t, out, "   1 | --- | 3\n")

	data, err := os.ReadFile(obj)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# knitgraph mesh: 9 vertices, 5 faces\n"))

	// the dumped courses feed run
	tables := filepath.Join(dir, "tables.tsv")
	out, _, err = execute(t, "run", "--input", cs, "--tables", tables, "--tables-format", "tsv", "--pattern", "")
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err = os.ReadFile(tables)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id\t"))
}

func TestDemo_ConsolidatedPattern(t *testing.T) {
	out, _, err := execute(t, "demo", "taper", "--counts", "6,3", "--consolidate")
	require.NoError(t, err)
	assert.Contains(t, out, "   1 | - - -  | 3\n")
	assert.Contains(t, out, "   0 | ...... | 6\n")
}

func TestRun_Errors(t *testing.T) {
	_, _, err := execute(t, "run")
	assert.Error(t, err, "--input is required")

	_, _, err = execute(t, "run", "--input", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("courses: []\n"), 0o600))
	_, _, err = execute(t, "run", "--input", empty)
	assert.Error(t, err)

	_, _, err = execute(t, "demo", "cone")
	assert.Error(t, err)
	_, _, err = execute(t, "demo", "strip", "--counts", "3")
	assert.Error(t, err)
	_, _, err = execute(t, "demo", "tube", "--width", "0")
	assert.Error(t, err)
}

func TestConfigFromEnvAndFile(t *testing.T) {
	t.Setenv("KNITGRAPH_LOGGER_LEVEL", "loud")
	_, _, err := execute(t, "version")
	assert.ErrorIs(t, err, config.ErrInvalid)

	t.Setenv("KNITGRAPH_LOGGER_LEVEL", "info")
	path := filepath.Join(t.TempDir(), "knitgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mesh:\n  projection: xy\nlogger:\n  format: json\n"), 0o600))
	_, errOut, err := execute(t, "--config", path, "demo", "strip", "--counts", "2,3", "--log-level", "info")
	require.NoError(t, err)
	assert.Contains(t, errOut, `"msg":"run finished"`)
}
