package config_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/knitgraph/config"
)

func TestDefault_IsValid(t *testing.T) {
	d := config.Default()
	require.NoError(t, d.Validate())
	assert.Equal(t, 1.0, d.Builder.StitchWidth)
	assert.Equal(t, 15.0, d.Builder.AngleToleranceDeg)
	assert.Equal(t, "local", d.Mesh.Projection)
	assert.Equal(t, "knitgraph", d.Metrics.Namespace)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knitgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
builder:
  stitch_width: 2.5
  workers: 3
mesh:
  projection: xy
logger:
  level: debug
`), 0o600))
	t.Setenv("KNITGRAPH_BUILDER_WORKERS", "7")
	t.Setenv("KNITGRAPH_METRICS_ENABLED", "true")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Builder.StitchWidth)
	assert.Equal(t, 7, cfg.Builder.Workers, "environment beats the file")
	assert.Equal(t, "xy", cfg.Mesh.Projection)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 15.0, cfg.Builder.AngleToleranceDeg, "untouched keys keep defaults")
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadWith_FlagOverride(t *testing.T) {
	v := viper.New()
	v.Set("logger.level", "warn")
	cfg, err := config.LoadWith(v, "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("KNITGRAPH_MESH_PROJECTION", "polar")
	_, err := config.Load("")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestDecode(t *testing.T) {
	cfg, err := config.Decode([]byte("builder:\n  relax_factor: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.Builder.RelaxFactor)
	assert.Equal(t, 1.0, cfg.Builder.StitchWidth)

	_, err = config.Decode([]byte("builder: ["))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero width", func(c *config.Config) { c.Builder.StitchWidth = 0 }},
		{"negative distance", func(c *config.Config) { c.Builder.MaxWarpDistance = -1 }},
		{"angle above 90", func(c *config.Config) { c.Builder.AngleToleranceDeg = 91 }},
		{"relax below 1", func(c *config.Config) { c.Builder.RelaxFactor = 0.5 }},
		{"zero closure", func(c *config.Config) { c.Builder.ClosureTolerance = 0 }},
		{"infinite width", func(c *config.Config) { c.Builder.StitchWidth = math.Inf(1) }},
		{"NaN distance", func(c *config.Config) { c.Builder.MaxWarpDistance = math.NaN() }},
		{"infinite distance", func(c *config.Config) { c.Builder.MaxWarpDistance = math.Inf(1) }},
		{"NaN relax", func(c *config.Config) { c.Builder.RelaxFactor = math.NaN() }},
		{"infinite relax", func(c *config.Config) { c.Builder.RelaxFactor = math.Inf(1) }},
		{"infinite closure", func(c *config.Config) { c.Builder.ClosureTolerance = math.Inf(1) }},
		{"negative workers", func(c *config.Config) { c.Builder.Workers = -1 }},
		{"mesh workers", func(c *config.Config) { c.Mesh.Workers = -2 }},
		{"projection", func(c *config.Config) { c.Mesh.Projection = "uv" }},
		{"level", func(c *config.Config) { c.Logger.Level = "loud" }},
		{"format", func(c *config.Config) { c.Logger.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.Default()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), config.ErrInvalid)
		})
	}
}
