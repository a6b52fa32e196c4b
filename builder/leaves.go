// SPDX-License-Identifier: MIT
// Package: knitgraph/builder
//
// leaves.go - ConnectLeaves, the leaf-connection pass.
//
// Contract:
//   - A closed course without any warp edge first gets a seam anchor: its
//     rank-0 stitch links to the nearest stitch of an adjacent course.
//   - A leaf lying between two warp-anchored stitches of its course whose
//     partners are two distinct stitches of one course is left for the final
//     warp pass. When both anchors share their partner instead, the leaf joins
//     that fan. Every other leaf (a course-end overhang) is retried against
//     adjacent courses with MaxWarpDistance and AngleTolerance scaled by
//     RelaxFactor, without crossing existing warps, then linked to the end
//     stitch of another course nearest along weft and warp edges (straight
//     line distance when none is connected).
//   - A leaf with no partner at all fails with core.ErrNoWarpEdges.
//   - Finally every course must be reachable over weft and warp edges from
//     the first course, else core.ErrNoWarpEdges names the first one that
//     is not.
//
// Determinism: leaves are handled in ascending id; ties in distance break on
// smaller |Δposition|, then smaller id.

package builder

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/bfs"
	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/dijkstra"
)

// ConnectLeaves anchors leaves and verifies course reachability. It returns
// the number of warp edges created.
func (b *Builder) ConnectLeaves(ctx context.Context, g *core.Graph) (int, error) {
	if g == nil {
		return 0, ErrNilGraph
	}
	courses := loadCourses(g)
	index := make(map[int]int, len(courses)) // position → index in courses
	for i, c := range courses {
		index[c.position] = i
	}

	n := 0
	for i, c := range courses {
		if !c.closed || b.anchored(g, c) {
			continue
		}
		s := c.stitches[0]
		t, ok := nearest(s, adjacent(courses, i), math.Inf(1))
		if !ok {
			continue
		}
		if _, err := g.AddEdge(s.id, t.id, core.Warp); err != nil {
			return n, fmt.Errorf("ConnectLeaves: %w", err)
		}
		n++
	}

	for _, id := range g.Leaves() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if g.Degree(id, core.Warp) > 0 {
			continue
		}
		node, err := g.Node(id)
		if err != nil {
			return n, fmt.Errorf("ConnectLeaves: %w", err)
		}
		ci := index[node.Position]
		c := courses[ci]
		inside, shared, err := enclosed(g, c, node.Rank)
		if err != nil {
			return n, fmt.Errorf("ConnectLeaves: %w", err)
		}
		if inside {
			continue
		}
		s := c.stitches[node.Rank]
		t, ok := shared, shared.id >= 0
		if !ok {
			t, ok = b.relaxedPartner(g, courses, ci, s)
		}
		if !ok {
			if t, ok, err = closestEnd(g, s); err != nil {
				return n, fmt.Errorf("ConnectLeaves: %w", err)
			}
		}
		if !ok {
			return n, &core.TopologyError{
				Op:       opLeaves,
				Position: node.Position,
				Segment:  core.NoSegment,
				Detail:   fmt.Sprintf("stitch %d has no warp partner", id),
				Err:      core.ErrNoWarpEdges,
			}
		}
		if _, err = g.AddEdge(s.id, t.id, core.Warp); err != nil {
			return n, fmt.Errorf("ConnectLeaves: %w", err)
		}
		n++
	}
	b.cfg.logger.Debug("leaves connected", zap.Int("edges", n))

	return n, b.checkReachable(ctx, g, courses)
}

func (b *Builder) anchored(g *core.Graph, c course) bool {
	for _, s := range c.stitches {
		if g.Degree(s.id, core.Warp) > 0 {
			return true
		}
	}

	return false
}

// enclosed reports whether rank r lies between two warp-anchored stitches
// of c that partner two distinct stitches of one course; the final warp pass
// fans such a span. When the anchors only share a partner, shared is that
// stitch, otherwise shared.id is -1.
func enclosed(g *core.Graph, c course, r int) (inside bool, shared stitch, err error) {
	shared.id = -1
	left, right := anchorAround(g, c, r, -1), anchorAround(g, c, r, 1)
	if left < 0 || right < 0 {
		return false, shared, nil
	}
	if left == right {
		// a ring held by a single anchor
		return true, shared, nil
	}
	pl, err := partners(g, c.stitches[left].id)
	if err != nil {
		return false, shared, err
	}
	pr, err := partners(g, c.stitches[right].id)
	if err != nil {
		return false, shared, err
	}
	for _, x := range pl {
		for _, y := range pr {
			switch {
			case x.ID != y.ID && x.Position == y.Position:
				return true, stitch{id: -1}, nil
			case x.ID == y.ID && shared.id < 0:
				shared = stitch{id: x.ID, position: x.Position, rank: x.Rank, point: x.Point, end: x.IsEnd}
			}
		}
	}

	return false, shared, nil
}

// anchorAround walks c from rank r in direction dir (±1), wrapping on closed
// courses, and returns the rank of the first warp-anchored stitch or -1.
func anchorAround(g *core.Graph, c course, r, dir int) int {
	n := len(c.stitches)
	for k := 1; k < n; k++ {
		i := r + dir*k
		if c.closed {
			i = (i%n + n) % n
		} else if i < 0 || i >= n {
			return -1
		}
		if g.Degree(c.stitches[i].id, core.Warp) > 0 {
			return i
		}
	}

	return -1
}

// partners returns the warp neighbours of id in ascending id.
func partners(g *core.Graph, id int) ([]core.Node, error) {
	nbs, err := g.Neighbors(id, core.Warp)
	if err != nil {
		return nil, err
	}
	out := make([]core.Node, 0, len(nbs))
	for _, nb := range nbs {
		n, err := g.Node(nb)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, nil
}

func adjacent(courses []course, i int) []course {
	var out []course
	if i > 0 {
		out = append(out, courses[i-1])
	}
	if i+1 < len(courses) {
		out = append(out, courses[i+1])
	}

	return out
}

// nearest picks the stitch closest to s among cs within maxD.
func nearest(s stitch, cs []course, maxD float64) (stitch, bool) {
	var cands []candidate
	for _, c := range cs {
		for _, t := range c.stitches {
			if d := r3.Norm(r3.Sub(t.point, s.point)); d <= maxD {
				cands = append(cands, candidate{lo: s, hi: t, dist: d})
			}
		}
	}
	if len(cands) == 0 {
		return stitch{}, false
	}
	sortCandidates(cands)

	return cands[0].hi, true
}

// relaxedPartner retries s against adjacent courses with relaxed limits.
func (b *Builder) relaxedPartner(g *core.Graph, courses []course, ci int, s stitch) (stitch, bool) {
	maxD := b.cfg.maxWarpDistance * b.cfg.relaxFactor
	maxA := math.Min(b.cfg.angleTolerance*b.cfg.relaxFactor, math.Pi/2)
	own := courses[ci]

	var cands []candidate
	for _, o := range adjacent(courses, ci) {
		warps := crossingRanks(g, own, o)
		for _, t := range o.stitches {
			d := r3.Sub(t.point, s.point)
			dist := r3.Norm(d)
			if dist > maxD {
				continue
			}
			if math.Max(own.deviation(s.rank, d), o.deviation(t.rank, d)) > maxA {
				continue
			}
			if crossesAny(warps, s.rank, t.rank) {
				continue
			}
			cands = append(cands, candidate{lo: s, hi: t, dist: dist})
		}
	}
	if len(cands) == 0 {
		return stitch{}, false
	}
	sortCandidates(cands)

	return cands[0].hi, true
}

// crossingRanks lists the (own rank, other rank) pairs of warp edges
// already joining own and o.
func crossingRanks(g *core.Graph, own, o course) [][2]int {
	rankOf := make(map[int]int, len(o.stitches))
	for _, t := range o.stitches {
		rankOf[t.id] = t.rank
	}
	var out [][2]int
	for _, s := range own.stitches {
		nbs, _ := g.Neighbors(s.id, core.Warp)
		for _, nb := range nbs {
			if r, ok := rankOf[nb]; ok {
				out = append(out, [2]int{s.rank, r})
			}
		}
	}

	return out
}

func crossesAny(warps [][2]int, ra, rb int) bool {
	for _, w := range warps {
		if (ra-w[0])*(rb-w[1]) < 0 {
			return true
		}
	}

	return false
}

// closestEnd returns the end stitch of another course nearest to s along
// weft and warp edges weighted by length. When no such end is connected to
// s, the straight-line nearest end is used.
func closestEnd(g *core.Graph, s stitch) (stitch, bool, error) {
	nodes := g.Nodes()
	index := make(map[int]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	fabric := dijkstra.NewAdjacencyList(len(nodes))
	for _, e := range g.Edges(core.Weft, core.Warp) {
		a, c := index[e.From], index[e.To]
		fabric.AddEdge(a, c, r3.Norm(r3.Sub(nodes[a].Point, nodes[c].Point)))
	}
	dist, err := dijkstra.Dijkstra(fabric, index[s.id])
	if err != nil {
		return stitch{}, false, err
	}

	var along, straight []candidate
	for _, id := range g.Ends() {
		n := nodes[index[id]]
		if n.Position == s.position {
			continue
		}
		t := stitch{id: n.ID, position: n.Position, rank: n.Rank, point: n.Point, end: true}
		straight = append(straight, candidate{lo: s, hi: t, dist: r3.Norm(r3.Sub(t.point, s.point))})
		if d := dist[index[id]]; !math.IsInf(d, 1) {
			along = append(along, candidate{lo: s, hi: t, dist: d})
		}
	}
	cands := along
	if len(cands) == 0 {
		cands = straight
	}
	if len(cands) == 0 {
		return stitch{}, false, nil
	}
	sortCandidates(cands)

	return cands[0].hi, true, nil
}

// checkReachable walks weft and warp edges from the first course.
func (b *Builder) checkReachable(ctx context.Context, g *core.Graph, courses []course) error {
	if len(courses) < 2 {
		return nil
	}
	sources := make([]int, len(courses[0].stitches))
	for i, s := range courses[0].stitches {
		sources[i] = s.id
	}
	res, err := bfs.BFS(ctx, g.View(core.Weft, core.Warp), sources)
	if err != nil {
		return fmt.Errorf("ConnectLeaves: %w", err)
	}
	for _, c := range courses[1:] {
		reached := false
		for _, s := range c.stitches {
			if res.Reached(s.id) {
				reached = true
				break
			}
		}
		if !reached {
			return &core.TopologyError{
				Op:       opLeaves,
				Position: c.position,
				Segment:  core.NoSegment,
				Detail:   "course is not reachable from the first course",
				Err:      core.ErrNoWarpEdges,
			}
		}
	}

	return nil
}
