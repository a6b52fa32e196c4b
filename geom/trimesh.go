package geom

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/dijkstra"
)

// TriMesh is an indexed triangle mesh.
type TriMesh struct {
	Vertices []r3.Vec
	Faces    [][3]int
}

// Validate checks that the mesh has faces and every index is in range.
func (m *TriMesh) Validate() error {
	if m == nil || len(m.Faces) == 0 {
		return fmt.Errorf("%w: no faces", ErrBadMesh)
	}
	for fi, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("%w: face %d index %d", ErrBadMesh, fi, v)
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			return fmt.Errorf("%w: face %d is degenerate", ErrBadMesh, fi)
		}
	}

	return nil
}

// Triangulate fans every polygon of faces into triangles.
func Triangulate(vertices []r3.Vec, faces [][]int) *TriMesh {
	m := &TriMesh{Vertices: vertices}
	for _, f := range faces {
		for i := 1; i+1 < len(f); i++ {
			m.Faces = append(m.Faces, [3]int{f[0], f[i], f[i+1]})
		}
	}

	return m
}

// edgeGraph returns the mesh edge graph weighted by edge length.
func (m *TriMesh) edgeGraph() dijkstra.AdjacencyList {
	g := dijkstra.NewAdjacencyList(len(m.Vertices))
	seen := make(map[[2]int]struct{}, 3*len(m.Faces))
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			if _, ok := seen[[2]int{a, b}]; ok {
				continue
			}
			seen[[2]int{a, b}] = struct{}{}
			g.AddEdge(a, b, r3.Norm(r3.Sub(m.Vertices[a], m.Vertices[b])))
		}
	}

	return g
}

// boundaryVertices returns the mesh vertices lying within tol of pl; when none
// does, the single vertex closest to pl.
func (m *TriMesh) boundaryVertices(pl Polyline, tol float64) ([]int, error) {
	if len(pl) == 0 {
		return nil, ErrEmptyPolyline
	}
	var out []int
	best, bestD := -1, math.Inf(1)
	for i, v := range m.Vertices {
		d := pl.DistanceTo(v)
		if d <= tol {
			out = append(out, i)
		}
		if d < bestD {
			best, bestD = i, d
		}
	}
	if len(out) == 0 {
		if best < 0 {
			return nil, ErrNoBoundary
		}
		out = []int{best}
	}

	return out, nil
}

// GeodesicField returns, per vertex, dS/(dS+dE) where dS and dE are the
// shortest edge-path distances to the start and end boundaries. The field is
// 0 on the start boundary and 1 on the end boundary.
//
// Errors: ErrBadMesh, ErrNoBoundary, ErrDisconnected.
func (m *TriMesh) GeodesicField(start, end Polyline, tol float64) ([]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	src, err := m.boundaryVertices(start, tol)
	if err != nil {
		return nil, fmt.Errorf("start boundary: %w", err)
	}
	dst, err := m.boundaryVertices(end, tol)
	if err != nil {
		return nil, fmt.Errorf("end boundary: %w", err)
	}

	g := m.edgeGraph()
	dS, err := dijkstra.Dijkstra(g, src...)
	if err != nil {
		return nil, fmt.Errorf("geodesic field: %w", err)
	}
	dE, err := dijkstra.Dijkstra(g, dst...)
	if err != nil {
		return nil, fmt.Errorf("geodesic field: %w", err)
	}

	field := make([]float64, len(m.Vertices))
	for i := range field {
		if math.IsInf(dS[i], 1) || math.IsInf(dE[i], 1) {
			return nil, fmt.Errorf("%w: vertex %d", ErrDisconnected, i)
		}
		sum := dS[i] + dE[i]
		if sum == 0 {
			field[i] = 0.5
			continue
		}
		field[i] = dS[i] / sum
	}

	return field, nil
}

// levelEps keeps the first and last isocurve off the boundary vertices.
const levelEps = 1e-6

// MeshContours extracts count isocurves of the geodesic field between the
// start and end boundaries and returns them as courses ordered from start to
// end. Every course runs in the same direction as its predecessor.
//
// count must be ≥ 2. tol is the distance under which a mesh vertex counts as
// lying on a boundary polyline.
func MeshContours(m *TriMesh, start, end Polyline, count int, tol float64) ([]Polyline, error) {
	if count < 2 {
		return nil, fmt.Errorf("MeshContours: count=%d (must be ≥ 2): %w", count, ErrBadMesh)
	}
	field, err := m.GeodesicField(start, end, tol)
	if err != nil {
		return nil, fmt.Errorf("MeshContours: %w", err)
	}

	levels := floats.Span(make([]float64, count), levelEps, 1-levelEps)
	out := make([]Polyline, 0, count)
	ref := start[0]
	for _, lv := range levels {
		pl := m.isocurve(field, lv)
		if len(pl) == 0 {
			return nil, fmt.Errorf("MeshContours: level %.6f: %w", lv, ErrNoBoundary)
		}
		if r3.Norm(r3.Sub(pl[0], ref)) > r3.Norm(r3.Sub(pl[len(pl)-1], ref)) {
			pl = pl.Reverse()
		}
		ref = pl[0]
		out = append(out, pl)
	}

	return out, nil
}

// isocurve returns the longest polyline where field == level, built by
// marching triangles. Vertices with field ≥ level count as above.
func (m *TriMesh) isocurve(field []float64, level float64) Polyline {
	type key [2]int
	points := make(map[key]r3.Vec)
	links := make(map[key][]key)

	cross := func(a, b int) (key, bool) {
		if (field[a] >= level) == (field[b] >= level) {
			return key{}, false
		}
		if a > b {
			a, b = b, a
		}
		k := key{a, b}
		if _, ok := points[k]; !ok {
			t := (level - field[a]) / (field[b] - field[a])
			t = math.Max(0, math.Min(1, t))
			points[k] = r3.Add(m.Vertices[a], r3.Scale(t, r3.Sub(m.Vertices[b], m.Vertices[a])))
		}

		return k, true
	}

	for _, f := range m.Faces {
		var hit []key
		for i := 0; i < 3; i++ {
			if k, ok := cross(f[i], f[(i+1)%3]); ok {
				hit = append(hit, k)
			}
		}
		if len(hit) == 2 {
			links[hit[0]] = append(links[hit[0]], hit[1])
			links[hit[1]] = append(links[hit[1]], hit[0])
		}
	}
	if len(links) == 0 {
		return nil
	}

	keys := make([]key, 0, len(links))
	for k := range links {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}

		return keys[i][1] < keys[j][1]
	})

	// open chains start at degree-1 keys; what remains are closed loops
	visited := make(map[key]bool, len(keys))
	walk := func(from key) Polyline {
		pl := Polyline{points[from]}
		visited[from] = true
		cur := from
		for {
			next, ok := key{}, false
			for _, nb := range links[cur] {
				if !visited[nb] {
					next, ok = nb, true
					break
				}
			}
			if !ok {
				break
			}
			visited[next] = true
			pl = append(pl, points[next])
			cur = next
		}
		if len(links[from]) == 2 && len(pl) > 2 {
			pl = append(pl, points[from])
		}

		return pl
	}

	var best Polyline
	bestLen := -1.0
	consider := func(pl Polyline) {
		if l := pl.Length(); l > bestLen {
			best, bestLen = pl, l
		}
	}
	for _, k := range keys {
		if !visited[k] && len(links[k]) == 1 {
			consider(walk(k))
		}
	}
	for _, k := range keys {
		if !visited[k] {
			consider(walk(k))
		}
	}

	return best
}
