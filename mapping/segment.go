// SPDX-License-Identifier: MIT
// Package: knitgraph/mapping
//
// segment.go - weft and warp segmentation.
//
// Terminators:
//   - weft: weft degree ≠ 2, at least one warp edge, or IsEnd.
//   - warp: warp degree ≠ 2.
//
// Numbering: weft segments first, then warp segments. Walks start at
// terminators in ascending id and leave through neighbours in ascending id;
// a run with no terminator at all (an unanchored ring) starts at its smallest
// id. Segment resets every assignment first, so it is idempotent.

package mapping

import (
	"fmt"

	"github.com/katalvlaran/knitgraph/core"
)

const opSegment = "segment"

// Info describes one segment.
type Info struct {
	ID   int
	Kind core.EdgeKind
	// Nodes is the walk from one terminator to the next. Weft segments run in
	// rank order (cyclically on closed courses); warp segments run upward.
	Nodes []int
	// Position is the course of a weft segment, -1 for warp segments.
	Position int
	// Closed is set when the walk returns to its first node.
	Closed bool
}

// First returns the first node of the walk.
func (s Info) First() int { return s.Nodes[0] }

// Last returns the last node of the walk.
func (s Info) Last() int { return s.Nodes[len(s.Nodes)-1] }

// Segmentation holds the segments of a graph, indexed by id.
type Segmentation struct {
	Weft []Info
	Warp []Info
}

// Count returns the total number of segments.
func (s *Segmentation) Count() int { return len(s.Weft) + len(s.Warp) }

// Lookup returns the segment with the given id.
func (s *Segmentation) Lookup(id int) (Info, bool) {
	switch {
	case id >= 0 && id < len(s.Weft):
		return s.Weft[id], true
	case id >= len(s.Weft) && id < s.Count():
		return s.Warp[id-len(s.Weft)], true
	}

	return Info{}, false
}

// Segment resets and reassigns segment ids on g.
//
// Errors: core.ErrNoWeftEdges when g has no weft edge, core.ErrNoEndNodes when
// no weft terminator exists, both wrapped in *core.TopologyError.
func Segment(g *core.Graph) (*Segmentation, error) {
	if g == nil {
		return nil, fmt.Errorf("Segment: nil graph: %w", ErrMapping)
	}
	if g.EdgeCount(core.Weft) == 0 {
		return nil, &core.TopologyError{Op: opSegment, Position: -1, Segment: core.NoSegment,
			Detail: "graph has no weft edges", Err: core.ErrNoWeftEdges}
	}

	nodes := g.Nodes()
	byID := make(map[int]core.Node, len(nodes))
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		byID[n.ID] = n
		ids[i] = n.ID
	}

	weftTerm := func(id int) bool {
		return g.Degree(id, core.Weft) != 2 || g.Degree(id, core.Warp) > 0 || byID[id].IsEnd
	}
	warpTerm := func(id int) bool { return g.Degree(id, core.Warp) != 2 }

	anyTerm := false
	for _, id := range ids {
		if g.Degree(id, core.Weft) > 0 && weftTerm(id) {
			anyTerm = true
			break
		}
	}
	if !anyTerm {
		return nil, &core.TopologyError{Op: opSegment, Position: -1, Segment: core.NoSegment,
			Detail: "no weft terminator", Err: core.ErrNoEndNodes}
	}

	g.ResetSegments()
	seg := &Segmentation{}

	for _, path := range walkRuns(g, ids, core.Weft, weftTerm) {
		n0 := byID[path[0]]
		courseLen := len(g.NodeIDsAt(n0.Position))
		closedCourse := g.CourseClosed(n0.Position)
		if !forward(byID[path[0]].Rank, byID[path[1]].Rank, courseLen, closedCourse) {
			path = reversed(path)
		}
		info := Info{ID: len(seg.Weft), Kind: core.Weft, Nodes: path, Position: n0.Position,
			Closed: path[0] == path[len(path)-1]}
		if err := stamp(g, info, weftTerm); err != nil {
			return nil, err
		}
		seg.Weft = append(seg.Weft, info)
	}

	for _, path := range walkRuns(g, ids, core.Warp, warpTerm) {
		if byID[path[0]].Position > byID[path[len(path)-1]].Position {
			path = reversed(path)
		}
		info := Info{ID: len(seg.Weft) + len(seg.Warp), Kind: core.Warp, Nodes: path, Position: -1,
			Closed: path[0] == path[len(path)-1]}
		if err := stamp(g, info, nil); err != nil {
			return nil, err
		}
		seg.Warp = append(seg.Warp, info)
	}

	return seg, nil
}

// walkRuns returns every maximal run of kind edges between terminators.
func walkRuns(g *core.Graph, ids []int, kind core.EdgeKind, term func(int) bool) [][]int {
	type pair struct{ lo, hi int }
	key := func(a, b int) pair {
		if a > b {
			a, b = b, a
		}

		return pair{a, b}
	}
	used := make(map[pair]bool)
	nbs := func(id int) []int {
		out, _ := g.Neighbors(id, kind)

		return out
	}

	follow := func(start, next int) []int {
		path := []int{start}
		used[key(start, next)] = true
		cur := next
		for {
			path = append(path, cur)
			if term(cur) {
				return path
			}
			nxt := -1
			for _, nb := range nbs(cur) {
				if !used[key(cur, nb)] {
					nxt = nb
					break
				}
			}
			if nxt < 0 {
				return path
			}
			used[key(cur, nxt)] = true
			cur = nxt
		}
	}

	var runs [][]int
	for _, pass := range []bool{true, false} {
		for _, id := range ids {
			if term(id) != pass {
				continue
			}
			for _, nb := range nbs(id) {
				if !used[key(id, nb)] {
					runs = append(runs, follow(id, nb))
				}
			}
		}
	}

	return runs
}

// forward reports whether stepping from rank a to rank b follows rank order.
func forward(a, b, n int, closed bool) bool {
	if closed {
		return b == (a+1)%n
	}

	return b > a
}

func reversed(s []int) []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}

	return out
}

// stamp writes the segment id on its edges and, for weft segments, on the
// nodes that are not terminators.
func stamp(g *core.Graph, s Info, term func(int) bool) error {
	for i := 1; i < len(s.Nodes); i++ {
		if err := g.SetEdgeSegment(s.Nodes[i-1], s.Nodes[i], s.ID); err != nil {
			return fmt.Errorf("Segment: %w", err)
		}
	}
	if term == nil {
		return nil
	}
	for _, id := range s.Nodes {
		if term(id) {
			continue
		}
		if err := g.SetNodeSegment(id, s.ID); err != nil {
			return fmt.Errorf("Segment: %w", err)
		}
	}

	return nil
}
