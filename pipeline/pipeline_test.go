package pipeline_test

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/knitgraph/config"
	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/courses"
	"github.com/katalvlaran/knitgraph/diag"
	"github.com/katalvlaran/knitgraph/geom"
	"github.com/katalvlaran/knitgraph/mesh"
	"github.com/katalvlaran/knitgraph/observability"
	"github.com/katalvlaran/knitgraph/pipeline"
)

func gen(t *testing.T, g courses.Generator) []geom.Polyline {
	t.Helper()
	cs, err := courses.Generate(g)
	require.NoError(t, err)

	return cs
}

func TestRun_Strip(t *testing.T) {
	res, err := pipeline.Run(context.Background(), gen(t, courses.Strip(4, 5)))
	require.NoError(t, err)

	st := res.Graph.Stats()
	assert.Equal(t, 20, st.Nodes)
	assert.Equal(t, 16, st.Weft)
	assert.Equal(t, 15, st.Warp)
	assert.Equal(t, 0, st.Leaves)
	assert.Equal(t, 12, res.Faces)
	assert.Len(t, res.Mesh.Faces, 12)
	assert.Zero(t, res.Fans)
	require.Len(t, res.Pattern, 4)
	for _, row := range res.Pattern {
		assert.Equal(t, 5, row.Count(mesh.Plain), "position %d", row.Position)
	}
	assert.Len(t, res.RunID, 36)
}

func TestRun_Taper(t *testing.T) {
	res, err := pipeline.Run(context.Background(), gen(t, courses.Taper(6, 3)))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Fans)
	assert.Equal(t, 5, res.Faces)
	require.Len(t, res.Pattern, 2)
	assert.Equal(t, 3, res.Pattern[1].Count(mesh.Decrease))
}

func TestRun_ApexCourse(t *testing.T) {
	cs := append(gen(t, courses.Taper(5, 3)), geom.Polyline{{Y: 2}})
	res, err := pipeline.Run(context.Background(), cs)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Faces)
	require.Len(t, res.Pattern, 3)
	assert.Equal(t, 1, res.Pattern[2].Count(mesh.Decrease), "the apex merges the course below")
}

func TestRun_ReversedCourse(t *testing.T) {
	cs := gen(t, courses.Taper(6, 3))
	cs[1] = cs[1].Reverse()
	res, err := pipeline.Run(context.Background(), cs)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Fans)
	assert.Equal(t, 5, res.Faces)
	assert.Equal(t, 3, res.Pattern[1].Count(mesh.Decrease))
}

func TestRun_OverhangingCourses(t *testing.T) {
	tests := []struct {
		counts []int
		faces  int
	}{
		{[]int{10, 4}, 9},
		{[]int{4, 8, 4}, 10},
	}
	for _, tt := range tests {
		res, err := pipeline.Run(context.Background(), gen(t, courses.Taper(tt.counts...)))
		require.NoError(t, err, "taper %v", tt.counts)
		assert.Equal(t, tt.faces, res.Faces, "taper %v", tt.counts)
	}
}

func TestRun_Tube(t *testing.T) {
	res, err := pipeline.Run(context.Background(), gen(t, courses.Tube(8, 8)))
	require.NoError(t, err)

	assert.Empty(t, res.Graph.Ends())
	assert.Equal(t, 8, res.Faces)
}

func TestRun_EmptyCourseStopsBeforeWarp(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg, "test")
	cs := []geom.Polyline{{{X: 0}, {X: 4}}, {}, {{X: 0, Y: 2}, {X: 4, Y: 2}}}

	res, err := pipeline.Run(context.Background(), cs, pipeline.WithMetrics(m))
	assert.Nil(t, res)
	require.ErrorIs(t, err, core.ErrNoWeftEdges)
	assert.Contains(t, err.Error(), "pipeline: seed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageFailures.WithLabelValues(pipeline.StageSeed)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration), "only seed ran")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Runs))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pipeline.Run(ctx, gen(t, courses.Strip(2, 3)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Deterministic(t *testing.T) {
	cs := gen(t, courses.Taper(7, 6, 4))
	a, err := pipeline.Run(context.Background(), cs, pipeline.WithMeshOptions(mesh.WithWorkers(1)))
	require.NoError(t, err)
	b, err := pipeline.Run(context.Background(), cs, pipeline.WithMeshOptions(mesh.WithWorkers(4)))
	require.NoError(t, err)

	assert.Equal(t, a.Graph.Edges(), b.Graph.Edges())
	assert.Equal(t, a.Cycles, b.Cycles)
	assert.Equal(t, a.Pattern, b.Pattern)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRun_LogsAndMetrics(t *testing.T) {
	zc, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg, "test")

	res, err := pipeline.Run(context.Background(), gen(t, courses.Strip(3, 4)),
		pipeline.WithLogger(zap.New(zc)), pipeline.WithMetrics(m))
	require.NoError(t, err)

	finished := logs.FilterMessage("stage finished")
	assert.Equal(t, 12, finished.Len())
	for _, e := range finished.All() {
		assert.Equal(t, res.RunID, e.ContextMap()["run_id"])
	}
	assert.Equal(t, 1, logs.FilterMessage("run finished").Len())

	assert.Equal(t, 12, testutil.CollectAndCount(m.StageDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.Nodes))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.Faces))
}

func TestRunOnMesh_RecoversCourses(t *testing.T) {
	src, err := pipeline.Run(context.Background(), gen(t, courses.Strip(4, 5)))
	require.NoError(t, err)

	first := geom.Polyline{{X: 0}, {X: 4}}
	last := geom.Polyline{{X: 0, Y: 3}, {X: 4, Y: 3}}
	res, err := pipeline.RunOnMesh(context.Background(), src.Mesh.TriMesh(), first, last, 4, 1e-9)
	require.NoError(t, err)
	assert.Equal(t, src.Graph.Stats().Nodes, res.Graph.Stats().Nodes)
	assert.Equal(t, src.Faces, res.Faces)

	_, err = pipeline.RunOnMesh(context.Background(), src.Mesh.TriMesh(), first, last, 1, 1e-9)
	assert.ErrorIs(t, err, geom.ErrBadMesh)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Mesh.Projection = "xy"
	cfg.Mesh.SkipDuality = true
	cfg.Builder.Workers = 2
	opts, err := pipeline.FromConfig(cfg)
	require.NoError(t, err)

	res, err := pipeline.Run(context.Background(), gen(t, courses.Strip(2, 3)), opts...)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Faces)

	cfg.Mesh.Projection = "polar"
	_, err = pipeline.FromConfig(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRun_ConsolidatedPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Mesh.ConsolidatePattern = true
	cfg.Mesh.MergeCreases = true
	opts, err := pipeline.FromConfig(cfg)
	require.NoError(t, err)

	res, err := pipeline.Run(context.Background(), gen(t, courses.Taper(6, 3)), opts...)
	require.NoError(t, err)
	require.Len(t, res.Pattern, 2)
	assert.Len(t, res.Pattern[1].Stitches, len(res.Pattern[0].Stitches))
	assert.Equal(t, 3, res.Pattern[1].Len())
	assert.Equal(t, 3, res.Pattern[1].Count(mesh.Decrease))
}

func TestFromConfig_RejectsInsteadOfPanicking(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"zero width", func(c *config.Config) { c.Builder.StitchWidth = 0 }},
		{"infinite distance", func(c *config.Config) { c.Builder.MaxWarpDistance = math.Inf(1) }},
		{"wide angle", func(c *config.Config) { c.Builder.AngleToleranceDeg = 120 }},
		{"NaN relax", func(c *config.Config) { c.Builder.RelaxFactor = math.NaN() }},
		{"negative workers", func(c *config.Config) { c.Builder.Workers = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			var err error
			require.NotPanics(t, func() { _, err = pipeline.FromConfig(cfg) })
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	cfg := config.Default()
	cfg.Builder.AngleToleranceDeg = 90
	_, err := pipeline.FromConfig(cfg)
	assert.NoError(t, err, "a right angle is the widest tolerance")
}

func ExampleRun() {
	cs, err := courses.Generate(courses.Taper(6, 3))
	if err != nil {
		panic(err)
	}
	res, err := pipeline.Run(context.Background(), cs)
	if err != nil {
		panic(err)
	}
	if err := diag.WritePattern(os.Stdout, res.Pattern); err != nil {
		panic(err)
	}
	// Output:
	//    1 | --- | 3
	//    0 | ...... | 6
}
