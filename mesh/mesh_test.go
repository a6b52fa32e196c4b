package mesh_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/builder"
	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/courses"
	"github.com/katalvlaran/knitgraph/geom"
	"github.com/katalvlaran/knitgraph/mesh"
)

// finished builds and finalizes the courses of gen.
func finished(t *testing.T, gen courses.Generator) *core.Graph {
	t.Helper()
	cs, err := courses.Generate(gen)
	require.NoError(t, err)
	b := builder.New()
	g, err := b.Build(context.Background(), cs)
	require.NoError(t, err)
	_, err = b.Finalize(context.Background(), g)
	require.NoError(t, err)

	return g
}

// planar builds a graph from XY points and weft edges, all at position 0.
func planar(t *testing.T, pts [][2]float64, edges [][2]int) *core.Graph {
	t.Helper()
	g := core.NewGraph()
	for i, p := range pts {
		require.NoError(t, g.AddNode(core.Node{ID: i, Rank: i, Point: r3.Vec{X: p[0], Y: p[1]}}))
	}
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1], core.Weft)
		require.NoError(t, err)
	}

	return g
}

func walk(t *testing.T, g *core.Graph, opts ...mesh.Option) (*mesh.Directed, []mesh.Cycle) {
	t.Helper()
	d, err := mesh.NewDirected(g, opts...)
	require.NoError(t, err)
	cycles, err := d.FindCycles(context.Background())
	require.NoError(t, err)

	return d, cycles
}

func TestFindCycles_Square(t *testing.T) {
	g := planar(t, [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}})
	d, cycles := walk(t, g, mesh.WithProjection(mesh.ProjectXY))

	require.Len(t, cycles, 2)
	assert.Equal(t, mesh.Cycle{ID: 0, Nodes: []int{0, 1, 2, 3}, Turning: cycles[0].Turning}, cycles[0])
	assert.InDelta(t, 2*math.Pi, cycles[0].Turning, 1e-9)
	assert.False(t, cycles[1].IsFace())
	assert.Equal(t, []int{0, 3, 2, 1}, cycles[1].Nodes)
	assert.InDelta(t, -2*math.Pi, cycles[1].Turning, 1e-9)

	assert.Equal(t, []int{2, 0}, d.Ring(1), "ascending polar angle")
	id, ok := d.FaceOf(0, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, id)
	id, ok = d.FaceOf(1, 0)
	assert.True(t, ok)
	assert.Equal(t, mesh.NoFace, id)
	_, ok = d.FaceOf(0, 2)
	assert.False(t, ok)
	assert.NoError(t, d.VerifyDuality())
}

func TestFindCycles_GridTurning(t *testing.T) {
	g := finished(t, courses.Strip(3, 4))
	d, cycles := walk(t, g)

	faces, err := d.Faces()
	require.NoError(t, err)
	assert.Len(t, faces, 6)
	assert.Len(t, cycles, 7)
	assert.Equal(t, []int{0, 1, 5, 4}, faces[0].Nodes)
	for i, c := range cycles {
		want := -2 * math.Pi
		if c.IsFace() {
			want = 2 * math.Pi
		}
		assert.InDelta(t, want, c.Turning, 1e-9, "cycle %d", i)
		assert.InDelta(t, c.Turning, d.Turning(c), 1e-9, "cycle %d", i)
	}
	assert.Equal(t, 2*g.EdgeCount(core.Weft, core.Warp), d.HalfEdgeCount())
	require.NoError(t, d.VerifyDuality())
}

func TestFindCycles_TubeUsesLocalPlanes(t *testing.T) {
	g := finished(t, courses.Tube(8, 8))
	d, cycles := walk(t, g)

	faces, err := d.Faces()
	require.NoError(t, err)
	assert.Len(t, faces, 8)
	assert.Len(t, cycles, 10, "two rim loops")
	for _, f := range faces {
		assert.Len(t, f.Nodes, 4)
	}
	require.NoError(t, d.VerifyDuality())
}

func TestFindCycles_DeterministicAcrossWorkers(t *testing.T) {
	g := finished(t, courses.Taper(7, 6, 4))
	_, one := walk(t, g, mesh.WithWorkers(1))
	_, many := walk(t, g, mesh.WithWorkers(5))
	assert.Equal(t, one, many)
}

func TestFindCycles_Cancelled(t *testing.T) {
	g := finished(t, courses.Strip(2, 3))
	d, err := mesh.NewDirected(g)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.FindCycles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerifyDuality_Failures(t *testing.T) {
	square := [][2]float64{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	ring := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}

	tests := []struct {
		name  string
		pts   [][2]float64
		edges [][2]int
	}{
		{"path has no face", [][2]float64{{0, 0}, {1, 0}, {2, 0}}, [][2]int{{0, 1}, {1, 2}}},
		{"spike inside a face", append(square, [2]float64{1, 1}), append(ring, [2]int{0, 4})},
		{"spike outside", append(square, [2]float64{3, 3}), append(ring, [2]int{2, 4})},
		{"isolated stitch", append(square, [2]float64{9, 9}), ring},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := walk(t, planar(t, tt.pts, tt.edges), mesh.WithProjection(mesh.ProjectXY))
			err := d.VerifyDuality()
			require.ErrorIs(t, err, core.ErrTopology)
			var te *core.TopologyError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "duality", te.Op)
		})
	}
}

func TestNewDirected_Errors(t *testing.T) {
	_, err := mesh.NewDirected(nil)
	assert.ErrorIs(t, err, mesh.ErrNilGraph)

	g := core.NewGraph()
	require.NoError(t, g.AddNode(core.Node{ID: 0}))
	_, err = mesh.NewDirected(g)
	assert.ErrorIs(t, err, core.ErrNoWeftEdges)

	d, err := mesh.NewDirected(planar(t, [][2]float64{{0, 0}, {1, 0}}, [][2]int{{0, 1}}))
	require.NoError(t, err)
	assert.ErrorIs(t, d.VerifyDuality(), mesh.ErrNotWalked)
	_, err = d.CreateMesh()
	assert.ErrorIs(t, err, mesh.ErrNotWalked)

	assert.Panics(t, func() { mesh.WithWorkers(0) })
	assert.Panics(t, func() { mesh.WithProjection(9) })
	p, err := mesh.ParseProjection("xy")
	require.NoError(t, err)
	assert.Equal(t, mesh.ProjectXY, p)
	_, err = mesh.ParseProjection("polar")
	assert.Error(t, err)
}

func TestCreateMesh_FansLargeFaces(t *testing.T) {
	var pts [][2]float64
	var edges [][2]int
	for i := 0; i < 6; i++ {
		a := 2 * math.Pi * float64(i) / 6
		pts = append(pts, [2]float64{math.Cos(a), math.Sin(a)})
		edges = append(edges, [2]int{i, (i + 1) % 6})
	}
	d, _ := walk(t, planar(t, pts, edges), mesh.WithProjection(mesh.ProjectXY))
	require.NoError(t, d.VerifyDuality())

	m, err := d.CreateMesh()
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 7)
	assert.Equal(t, mesh.NoNode, m.VertexNode[6])
	assert.InDelta(t, 0, r3.Norm(m.Vertices[6]), 1e-12)
	require.Len(t, m.Faces, 6)
	assert.Equal(t, []int{0, 1, 6}, m.Faces[0])
	assert.Equal(t, []int{5, 0, 6}, m.Faces[5])
}

func TestCreateMesh_RoundTrip(t *testing.T) {
	g := finished(t, courses.Strip(4, 5))
	d, _ := walk(t, g)
	m, err := d.CreateMesh()
	require.NoError(t, err)
	assert.Len(t, m.Faces, 12)
	for i, id := range m.VertexNode {
		assert.Equal(t, i, id)
	}

	first := geom.Polyline{{X: 0}, {X: 4}}
	last := geom.Polyline{{X: 0, Y: 3}, {X: 4, Y: 3}}
	contours, err := geom.MeshContours(m.TriMesh(), first, last, 4, 1e-9)
	require.NoError(t, err)
	require.Len(t, contours, g.PositionCount())
	for p, c := range contours {
		pts, _, err := c.Sample(builder.DefaultStitchWidth, 1e-9)
		require.NoError(t, err)
		assert.Len(t, pts, len(g.NodeIDsAt(p)), "position %d", p)
	}
}

func TestMakePatternData(t *testing.T) {
	tests := []struct {
		name  string
		gen   courses.Generator
		upper []mesh.StitchOp
	}{
		{
			name:  "decrease",
			gen:   courses.Taper(6, 3),
			upper: []mesh.StitchOp{mesh.Decrease, mesh.Decrease, mesh.Decrease},
		},
		{
			name: "increase",
			gen:  courses.Taper(3, 6),
			upper: []mesh.StitchOp{
				mesh.Plain, mesh.Increase, mesh.Plain, mesh.Increase, mesh.Plain, mesh.Increase,
			},
		},
		{
			name:  "plain",
			gen:   courses.Strip(2, 3),
			upper: []mesh.StitchOp{mesh.Plain, mesh.Plain, mesh.Plain},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := mesh.MakePatternData(finished(t, tt.gen))
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, len(rows[0].Stitches), rows[0].Count(mesh.Plain), "first course is plain")
			var ops []mesh.StitchOp
			for _, s := range rows[1].Stitches {
				ops = append(ops, s.Op)
			}
			assert.Equal(t, tt.upper, ops)
		})
	}

	_, err := mesh.MakePatternData(nil)
	assert.ErrorIs(t, err, mesh.ErrNilGraph)
	_, err = mesh.MakePatternData(core.NewGraph())
	assert.ErrorIs(t, err, mesh.ErrEmptyGraph)
	assert.Equal(t, "decrease", mesh.Decrease.String())
	assert.Equal(t, byte('+'), mesh.Increase.Symbol())
}

func TestConsolidate_AlignsToLowerPartners(t *testing.T) {
	// 0 1 2 / 3 4 / 5 6 7: 3 merges 0 and 1, 5 and 6 both grow from 3.
	g := core.NewGraph()
	rows := [][]int{{0, 1, 2}, {3, 4}, {5, 6, 7}}
	for p, row := range rows {
		for r, id := range row {
			require.NoError(t, g.AddNode(core.Node{ID: id, Position: p, Rank: r}))
			if r > 0 {
				_, err := g.AddEdge(row[r-1], id, core.Weft)
				require.NoError(t, err)
			}
		}
	}
	for _, e := range [][2]int{{0, 3}, {1, 3}, {2, 4}, {3, 5}, {3, 6}, {4, 7}} {
		_, err := g.AddEdge(e[0], e[1], core.Warp)
		require.NoError(t, err)
	}

	pattern, err := mesh.MakePatternData(g)
	require.NoError(t, err)
	grid, err := mesh.Consolidate(g, pattern)
	require.NoError(t, err)
	require.Len(t, grid, 3)

	nodes := func(r mesh.PatternRow) []int {
		var ids []int
		for _, s := range r.Stitches {
			ids = append(ids, s.Node)
		}
		return ids
	}
	assert.Equal(t, []int{0, 1, 2}, nodes(grid[0]))
	assert.Equal(t, []int{3, mesh.Gap, 4}, nodes(grid[1]))
	assert.Equal(t, []int{5, 6, 7}, nodes(grid[2]))
	assert.Equal(t, mesh.Decrease, grid[1].Stitches[0].Op)
	assert.Equal(t, mesh.Increase, grid[2].Stitches[1].Op)
	assert.Equal(t, 2, grid[1].Len())
	assert.Equal(t, 0, grid[1].Count(mesh.Plain))

	_, err = mesh.Consolidate(nil, pattern)
	assert.ErrorIs(t, err, mesh.ErrNilGraph)
	_, err = mesh.Consolidate(g, nil)
	assert.ErrorIs(t, err, mesh.ErrEmptyGraph)
}

func TestConsolidate_KeepsEveryStitch(t *testing.T) {
	for _, gen := range []courses.Generator{courses.Taper(3, 6), courses.Taper(6, 3), courses.Tube(8, 8)} {
		g := finished(t, gen)
		pattern, err := mesh.MakePatternData(g)
		require.NoError(t, err)
		grid, err := mesh.Consolidate(g, pattern)
		require.NoError(t, err)
		require.Len(t, grid, len(pattern))
		for i, r := range grid {
			assert.Len(t, r.Stitches, len(grid[0].Stitches), "rows share one width")
			assert.Equal(t, len(pattern[i].Stitches), r.Len())
			assert.Equal(t, pattern[i].Count(mesh.Decrease), r.Count(mesh.Decrease))
		}
	}
}

func TestMergeCreases(t *testing.T) {
	rows := []mesh.PatternRow{
		{Position: 0, Stitches: []mesh.Stitch{{Node: 0}, {Node: 1}, {Node: 2}}},
		{Position: 1, Stitches: []mesh.Stitch{
			{Node: 3, Op: mesh.Increase}, {Node: 4, Op: mesh.Decrease},
			{Node: 5}, {Node: 6, Op: mesh.Decrease}, {Node: mesh.Gap}, {Node: 7, Op: mesh.Increase},
			{Node: 8, Op: mesh.Decrease}, {Node: 9, Op: mesh.Increase}, {Node: 10, Op: mesh.Increase},
		}},
	}
	got := mesh.MergeCreases(rows)
	require.Len(t, got, 2)
	assert.Equal(t, rows[0], got[0])
	assert.Equal(t, []mesh.Stitch{
		{Node: 3}, {Node: 5}, {Node: 6, Op: mesh.Decrease}, {Node: mesh.Gap},
		{Node: 7}, {Node: 9, Op: mesh.Increase}, {Node: 10, Op: mesh.Increase},
	}, got[1].Stitches)
	assert.Len(t, rows[1].Stitches, 9, "input untouched")
}
