package diag_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/knitgraph/builder"
	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/courses"
	"github.com/katalvlaran/knitgraph/diag"
	"github.com/katalvlaran/knitgraph/geom"
	"github.com/katalvlaran/knitgraph/mesh"
)

func strip(t *testing.T) *core.Graph {
	t.Helper()
	cs, err := courses.Generate(courses.Strip(2, 3))
	require.NoError(t, err)
	g, err := builder.Build(context.Background(), cs)
	require.NoError(t, err)

	return g
}

func TestWriteTables_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, diag.WriteTables(&buf, strip(t), diag.FormatYAML))

	var got struct {
		Nodes []map[string]any `yaml:"nodes"`
		Edges []map[string]any `yaml:"edges"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Nodes, 6)
	assert.Len(t, got.Edges, 7)
	assert.Equal(t, "weft", got.Edges[0]["kind"])
	assert.Equal(t, "warp", got.Edges[6]["kind"])
	assert.Equal(t, true, got.Nodes[0]["end"])
}

func TestWriteTables_TSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, diag.WriteTables(&buf, strip(t), diag.FormatTSV))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 16)
	assert.Equal(t, "id\tposition\trank\tx\ty\tz\tend\tleaf\tincrease\tdecrease\tsegment", lines[0])
	assert.Equal(t, "0\t0\t0\t0\t0\t0\ttrue\tfalse\tfalse\tfalse\t-1", lines[1])
	assert.Equal(t, "", lines[7])
	assert.Equal(t, "0\t0\t1\tweft\t-1", lines[9])
}

func TestParseFormat(t *testing.T) {
	f, err := diag.ParseFormat("tsv")
	require.NoError(t, err)
	assert.Equal(t, diag.FormatTSV, f)
	_, err = diag.ParseFormat("xml")
	assert.ErrorIs(t, err, diag.ErrFormat)
	assert.ErrorIs(t, diag.WriteTables(&bytes.Buffer{}, strip(t), diag.Format(7)), diag.ErrFormat)
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, diag.WriteDOT(&buf, strip(t)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "strict graph knit {\n"))
	assert.Contains(t, out, `pos="0,0!"`)
	assert.Contains(t, out, "shape=box")
	assert.Contains(t, out, "n0 -- n1 [\n")
	assert.Contains(t, out, "n0 -- n3 [\n")
	assert.Contains(t, out, "kind=weft")
	assert.Contains(t, out, "kind=warp")

	back := simple.NewUndirectedGraph()
	require.NoError(t, dot.Unmarshal(buf.Bytes(), back))
	assert.Equal(t, 6, back.Nodes().Len())
	assert.Equal(t, 7, back.Edges().Len())

	assert.Error(t, diag.WriteDOT(&buf, nil))
}

func TestWriteDOT_KindFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, diag.WriteDOT(&buf, strip(t), core.Warp))
	out := buf.String()
	assert.Contains(t, out, "kind=warp")
	assert.NotContains(t, out, "kind=weft")

	back := simple.NewUndirectedGraph()
	require.NoError(t, dot.Unmarshal(buf.Bytes(), back))
	assert.Equal(t, 3, back.Edges().Len())
}

func TestWriteOBJ(t *testing.T) {
	m := &mesh.Mesh{
		Vertices:   []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		Faces:      [][]int{{0, 1, 2, 3}},
		VertexNode: []int{0, 1, 2, 3},
	}
	var buf bytes.Buffer
	require.NoError(t, diag.WriteOBJ(&buf, m))
	assert.Equal(t, "# knitgraph mesh: 4 vertices, 1 faces\nv 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n", buf.String())
	assert.Error(t, diag.WriteOBJ(&buf, nil))
}

func TestWritePattern(t *testing.T) {
	rows := []mesh.PatternRow{
		{Position: 0, Stitches: []mesh.Stitch{{Node: 0}, {Node: 1}, {Node: 2}}},
		{Position: 1, Stitches: []mesh.Stitch{{Node: 3, Op: mesh.Decrease}, {Node: 4, Op: mesh.Increase}}},
	}
	var buf bytes.Buffer
	require.NoError(t, diag.WritePattern(&buf, rows))
	assert.Equal(t, "   1 | -+ | 2\n   0 | ... | 3\n", buf.String())

	buf.Reset()
	rows[1].Stitches = []mesh.Stitch{{Node: 3, Op: mesh.Decrease}, {Node: mesh.Gap}, {Node: 4}}
	require.NoError(t, diag.WritePattern(&buf, rows))
	assert.Equal(t, "   1 | - . | 2\n   0 | ... | 3\n", buf.String())
}

func TestCourses_RoundTrip(t *testing.T) {
	in := []geom.Polyline{
		{{X: 0}, {X: 1.5, Z: 2}},
		{{Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}},
	}
	var buf bytes.Buffer
	require.NoError(t, diag.WriteCourses(&buf, in))
	out, err := diag.ReadCourses(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = diag.ReadCourses(strings.NewReader("courses:\n  - [[0, 1], [2, 1]]\n"))
	require.NoError(t, err)
	assert.Equal(t, geom.Polyline{{Y: 1}, {X: 2, Y: 1}}, out[0])

	_, err = diag.ReadCourses(strings.NewReader("courses:\n  - [[0]]\n"))
	assert.Error(t, err)
	_, err = diag.ReadCourses(strings.NewReader("courses: []\n"))
	assert.Error(t, err)
}

func ExampleSummary() {
	cs, _ := courses.Generate(courses.Strip(2, 3))
	g, _ := builder.Build(context.Background(), cs)
	fmt.Print(diag.Summary(g))
	// Output:
	// knit graph: 6 stitches, 2 courses, 4 weft, 3 warp, 0 contour, 4 ends, 0 leaves
	//   position 0: 3 stitches, open, 2 ends, 0 leaves, 3 warp up, +0 -0
	//   position 1: 3 stitches, open, 2 ends, 0 leaves, 0 warp up, +0 -0
}
