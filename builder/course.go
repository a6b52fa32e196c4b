// SPDX-License-Identifier: MIT
// Package: knitgraph/builder
//
// course.go - read-only course snapshots shared by the warp and leaf passes.

package builder

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/geom"
)

// stitch is the slice of a node the geometric passes need.
type stitch struct {
	id       int
	position int
	rank     int // index inside the course
	point    r3.Vec
	end      bool
}

// course is one position in rank order.
type course struct {
	position int
	stitches []stitch
	closed   bool
}

func loadCourse(g *core.Graph, position int) course {
	nodes := g.NodesAt(position)
	c := course{position: position, stitches: make([]stitch, len(nodes)), closed: g.CourseClosed(position)}
	for i, n := range nodes {
		c.stitches[i] = stitch{id: n.ID, position: position, rank: i, point: n.Point, end: n.IsEnd}
	}

	return c
}

func loadCourses(g *core.Graph) []course {
	ps := g.Positions()
	out := make([]course, len(ps))
	for i, p := range ps {
		out[i] = loadCourse(g, p)
	}

	return out
}

// tangent is the central difference along the course at index i, wrapping
// on closed courses. A one-stitch course has a zero tangent.
func (c course) tangent(i int) r3.Vec {
	n := len(c.stitches)
	prev, next := i-1, i+1
	if c.closed {
		prev, next = (i-1+n)%n, (i+1)%n
	} else {
		prev, next = max(prev, 0), min(next, n-1)
	}

	return r3.Sub(c.stitches[next].point, c.stitches[prev].point)
}

// deviation is how far d leans away from perpendicular to the course at i.
func (c course) deviation(i int, d r3.Vec) float64 {
	t := c.tangent(i)
	if r3.Norm2(t) == 0 {
		return 0
	}

	return math.Abs(math.Pi/2 - geom.Angle(d, t))
}

// relRank maps rank r onto an order starting at seam for closed courses.
func (c course) relRank(r, seam int) int {
	if !c.closed || seam < 0 {
		return r
	}
	n := len(c.stitches)

	return ((r-seam)%n + n) % n
}

// stitchPoint adapts a stitch to kdtree.Comparable. Distance is squared, as
// the tree compares it against squared plane offsets.
type stitchPoint stitch

func (s stitchPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(stitchPoint)
	switch d {
	case 0:
		return s.point.X - q.point.X
	case 1:
		return s.point.Y - q.point.Y
	default:
		return s.point.Z - q.point.Z
	}
}

func (s stitchPoint) Dims() int { return 3 }

func (s stitchPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(s.point, c.(stitchPoint).point))
}

// stitchPoints is the kdtree.Interface over one course.
type stitchPoints []stitchPoint

func (p stitchPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p stitchPoints) Len() int                      { return len(p) }

func (p stitchPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot sorts along d and returns the median; a sorted slice is partitioned.
func (p stitchPoints) Pivot(d kdtree.Dim) int {
	key := func(s stitchPoint) float64 {
		switch d {
		case 0:
			return s.point.X
		case 1:
			return s.point.Y
		default:
			return s.point.Z
		}
	}
	slices.SortStableFunc(p, func(a, b stitchPoint) int {
		if c := cmp.Compare(key(a), key(b)); c != 0 {
			return c
		}

		return cmp.Compare(a.id, b.id)
	})

	return len(p) / 2
}

// newCourseTree indexes the stitches of c.
func newCourseTree(c course) *kdtree.Tree {
	pts := make(stitchPoints, len(c.stitches))
	for i, s := range c.stitches {
		pts[i] = stitchPoint(s)
	}

	return kdtree.New(pts, false)
}

// within returns the stitches of the tree within radius r of q.
func within(t *kdtree.Tree, q stitch, r float64) []stitch {
	keep := kdtree.NewDistKeeper(r * r)
	t.NearestSet(keep, stitchPoint(q))
	out := make([]stitch, 0, keep.Len())
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue // sentinel
		}
		out = append(out, stitch(cd.Comparable.(stitchPoint)))
	}

	return out
}
