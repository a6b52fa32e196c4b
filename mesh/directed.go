// SPDX-License-Identifier: MIT
// Package: knitgraph/mesh
//
// directed.go - the directed network and its counter-clockwise rings.
//
// Contract:
//   - Only weft and warp edges are split; contour links are auxiliary.
//   - ring[v] lists the neighbours of v by ascending polar angle in v's
//     projection plane, ties broken by id.
//   - half-edges are indexed in (from, to) order.

package mesh

import (
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/geom"
)

const opDirected = "directed"

type halfEdge struct {
	from, to int
}

// Directed is the directed copy of a stitch graph used for face discovery.
// It snapshots the graph at construction; later graph changes are not seen.
type Directed struct {
	cfg meshConfig

	ids    []int
	nodes  map[int]core.Node
	planes map[int]geom.Plane
	ring   map[int][]int

	half  []halfEdge
	index map[halfEdge]int

	// set by FindCycles
	cycles []Cycle
	owner  []int
}

type courseShape struct {
	n      int
	closed bool
}

// NewDirected snapshots g into a directed network.
//
// Errors: ErrNilGraph; core.ErrNoWeftEdges in *core.TopologyError when g
// has neither weft nor warp edges.
func NewDirected(g *core.Graph, opts ...Option) (*Directed, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	edges := g.Edges(core.Weft, core.Warp)
	if len(edges) == 0 {
		return nil, &core.TopologyError{Op: opDirected, Position: -1, Segment: core.NoSegment,
			Detail: "nothing to walk", Err: core.ErrNoWeftEdges}
	}

	d := &Directed{
		cfg:    newMeshConfig(opts...),
		nodes:  make(map[int]core.Node),
		planes: make(map[int]geom.Plane),
		ring:   make(map[int][]int),
		index:  make(map[halfEdge]int, 2*len(edges)),
	}
	for _, n := range g.Nodes() {
		d.ids = append(d.ids, n.ID)
		d.nodes[n.ID] = n
	}

	incident := make(map[int][]core.Edge)
	for _, e := range edges {
		incident[e.From] = append(incident[e.From], e)
		incident[e.To] = append(incident[e.To], e)
		d.half = append(d.half, halfEdge{e.From, e.To}, halfEdge{e.To, e.From})
	}
	sort.Slice(d.half, func(i, j int) bool {
		if d.half[i].from != d.half[j].from {
			return d.half[i].from < d.half[j].from
		}

		return d.half[i].to < d.half[j].to
	})
	for i, h := range d.half {
		d.index[h] = i
	}

	shapes := make(map[int]courseShape)
	for _, p := range g.Positions() {
		shapes[p] = courseShape{n: len(g.NodeIDsAt(p)), closed: g.CourseClosed(p)}
	}
	for _, id := range d.ids {
		n := d.nodes[id]
		normal := r3.Vec{Z: 1}
		if d.cfg.projection == ProjectLocal {
			normal = d.localNormal(n, incident[id], shapes[n.Position])
		}
		d.planes[id] = geom.NewPlane(n.Point, normal)
		d.ring[id] = d.sortRing(id, incident[id])
	}

	d.cfg.logger.Debug("directed network built",
		zap.Int("nodes", len(d.ids)),
		zap.Int("half_edges", len(d.half)),
		zap.Stringer("projection", d.cfg.projection))

	return d, nil
}

// localNormal returns weft tangent × warp up at n. Offsets toward the next
// rank and the upper course count positive.
func (d *Directed) localNormal(n core.Node, edges []core.Edge, shape courseShape) r3.Vec {
	var tangent, up r3.Vec
	for _, e := range edges {
		o := d.nodes[e.Other(n.ID)]
		off := r3.Sub(o.Point, n.Point)
		switch e.Kind {
		case core.Weft:
			if after(n.Rank, o.Rank, shape) {
				tangent = r3.Add(tangent, off)
			} else {
				tangent = r3.Sub(tangent, off)
			}
		case core.Warp:
			if o.Position > n.Position {
				up = r3.Add(up, off)
			} else {
				up = r3.Sub(up, off)
			}
		}
	}

	return r3.Cross(tangent, up)
}

// after reports whether rank b follows rank a along its course.
func after(a, b int, shape courseShape) bool {
	if shape.closed && shape.n > 0 {
		return b == (a+1)%shape.n
	}

	return b > a
}

func (d *Directed) sortRing(id int, edges []core.Edge) []int {
	type spoke struct {
		id    int
		angle float64
	}
	pl := d.planes[id]
	ox, oy := pl.Project(d.nodes[id].Point)
	spokes := make([]spoke, 0, len(edges))
	for _, e := range edges {
		nb := e.Other(id)
		x, y := pl.Project(d.nodes[nb].Point)
		spokes = append(spokes, spoke{id: nb, angle: math.Atan2(y-oy, x-ox)})
	}
	sort.Slice(spokes, func(i, j int) bool {
		if spokes[i].angle != spokes[j].angle {
			return spokes[i].angle < spokes[j].angle
		}

		return spokes[i].id < spokes[j].id
	})
	out := make([]int, len(spokes))
	for i, s := range spokes {
		out[i] = s.id
	}

	return out
}

// Ring returns the neighbours of id in counter-clockwise order.
func (d *Directed) Ring(id int) []int { return append([]int(nil), d.ring[id]...) }

// NodeIDs returns the stitch ids, ascending.
func (d *Directed) NodeIDs() []int { return append([]int(nil), d.ids...) }

// HalfEdgeCount returns the number of half-edges (twice the weft and warp
// edge count).
func (d *Directed) HalfEdgeCount() int { return len(d.half) }

// next returns the half-edge following u→v on the walk: v→w where w precedes
// u in v's ring.
func (d *Directed) next(h halfEdge) halfEdge {
	ring := d.ring[h.to]
	k := 0
	for i, nb := range ring {
		if nb == h.from {
			k = i
			break
		}
	}

	return halfEdge{h.to, ring[(k-1+len(ring))%len(ring)]}
}

// turn returns the signed turning angle at v along u→v→w, measured in v's
// plane. Going back the way it came turns by -π.
func (d *Directed) turn(u, v, w int) float64 {
	if u == w {
		return -math.Pi
	}
	pl := d.planes[v]
	ux, uy := pl.Project(d.nodes[u].Point)
	vx, vy := pl.Project(d.nodes[v].Point)
	wx, wy := pl.Project(d.nodes[w].Point)
	ax, ay := vx-ux, vy-uy
	bx, by := wx-vx, wy-vy

	return math.Atan2(ax*by-ay*bx, ax*bx+ay*by)
}
