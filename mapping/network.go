// SPDX-License-Identifier: MIT
// Package: knitgraph/mapping
//
// network.go - the mapping network.
//
// Nodes are weft segment endpoints and warp edge endpoints. Arcs are:
//   - one Weft arc per weft segment, First → Last in rank order;
//   - one Warp arc per warp edge, lower position → higher position, carrying
//     the warp segment id.
//
// Determinism: NodeIDs and Successors are ascending; Arcs(id) is ordered by
// (To, Kind, Segment).

package mapping

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/knitgraph/core"
)

const opNetwork = "network"

// Direction selects the warp side a traversal looks for.
type Direction int

const (
	// Down looks for warp edges to a lower position.
	Down Direction = -1
	// Up looks for warp edges to a higher position.
	Up Direction = 1
)

// String returns "up" or "down".
func (d Direction) String() string {
	if d == Up {
		return "up"
	}

	return "down"
}

// Arc is a directed mapping-network edge.
type Arc struct {
	From, To int
	Kind     core.EdgeKind
	Segment  int
}

// Warp identifies a warp edge from its lower to its upper stitch.
type Warp struct {
	From, To int
}

// Network is the mapping network over one segmented graph. It is read-only
// once built and safe for concurrent reads.
type Network struct {
	g   *core.Graph
	seg *Segmentation

	ids      []int
	out      map[int][]Arc
	weftFrom map[int]Info // forward weft segment starting at a node
	warpUp   map[int][]int
	warpDown map[int][]int
	warps    []Warp
}

// NewNetwork builds the mapping network of g from seg, which must come from
// Segment(g) with no edge changes since.
//
// Errors: ErrMapping for nil inputs or a node starting two weft segments;
// core.ErrNoWarpEdges in *core.TopologyError when g has no warp edge.
func NewNetwork(g *core.Graph, seg *Segmentation) (*Network, error) {
	if g == nil || seg == nil {
		return nil, fmt.Errorf("NewNetwork: nil input: %w", ErrMapping)
	}
	warpEdges := g.Edges(core.Warp)
	if len(warpEdges) == 0 {
		return nil, &core.TopologyError{Op: opNetwork, Position: -1, Segment: core.NoSegment,
			Detail: "graph has no warp edges", Err: core.ErrNoWarpEdges}
	}

	n := &Network{
		g:        g,
		seg:      seg,
		out:      make(map[int][]Arc),
		weftFrom: make(map[int]Info, len(seg.Weft)),
		warpUp:   make(map[int][]int),
		warpDown: make(map[int][]int),
	}
	nodes := make(map[int]struct{})

	for _, s := range seg.Weft {
		if prev, dup := n.weftFrom[s.First()]; dup {
			return nil, fmt.Errorf("NewNetwork: node %d starts segments %d and %d: %w",
				s.First(), prev.ID, s.ID, ErrMapping)
		}
		n.weftFrom[s.First()] = s
		n.out[s.First()] = append(n.out[s.First()], Arc{From: s.First(), To: s.Last(), Kind: core.Weft, Segment: s.ID})
		nodes[s.First()], nodes[s.Last()] = struct{}{}, struct{}{}
	}

	for _, e := range warpEdges {
		lo, hi, err := n.orient(e)
		if err != nil {
			return nil, err
		}
		n.out[lo] = append(n.out[lo], Arc{From: lo, To: hi, Kind: core.Warp, Segment: e.Segment})
		n.warpUp[lo] = append(n.warpUp[lo], hi)
		n.warpDown[hi] = append(n.warpDown[hi], lo)
		n.warps = append(n.warps, Warp{From: lo, To: hi})
		nodes[lo], nodes[hi] = struct{}{}, struct{}{}
	}

	for id := range nodes {
		n.ids = append(n.ids, id)
	}
	sort.Ints(n.ids)
	for id, arcs := range n.out {
		sort.Slice(arcs, func(i, j int) bool {
			a, b := arcs[i], arcs[j]
			if a.To != b.To {
				return a.To < b.To
			}
			if a.Kind != b.Kind {
				return a.Kind < b.Kind
			}

			return a.Segment < b.Segment
		})
		n.out[id] = arcs
	}
	for _, m := range []map[int][]int{n.warpUp, n.warpDown} {
		for _, v := range m {
			sort.Ints(v)
		}
	}
	sort.Slice(n.warps, func(i, j int) bool {
		if n.warps[i].From != n.warps[j].From {
			return n.warps[i].From < n.warps[j].From
		}

		return n.warps[i].To < n.warps[j].To
	})

	return n, nil
}

func (n *Network) orient(e core.Edge) (lo, hi int, err error) {
	a, errA := n.g.Node(e.From)
	b, errB := n.g.Node(e.To)
	if errA != nil || errB != nil {
		return 0, 0, fmt.Errorf("NewNetwork: warp %d-%d: %w", e.From, e.To, ErrMapping)
	}
	if a.Position > b.Position {
		return b.ID, a.ID, nil
	}

	return a.ID, b.ID, nil
}

// Graph returns the stitch graph the network was built from.
func (n *Network) Graph() *core.Graph { return n.g }

// Segmentation returns the segmentation the network was built from.
func (n *Network) Segmentation() *Segmentation { return n.seg }

// NodeIDs returns the network nodes, ascending.
func (n *Network) NodeIDs() []int { return append([]int(nil), n.ids...) }

// HasNode reports whether id is a network node.
func (n *Network) HasNode(id int) bool {
	i := sort.SearchInts(n.ids, id)

	return i < len(n.ids) && n.ids[i] == id
}

// Successors returns the distinct arc targets of id, ascending.
func (n *Network) Successors(id int) []int {
	var out []int
	for _, a := range n.out[id] {
		if len(out) == 0 || out[len(out)-1] != a.To {
			out = append(out, a.To)
		}
	}

	return out
}

// Arcs returns a copy of the arcs leaving id.
func (n *Network) Arcs(id int) []Arc { return append([]Arc(nil), n.out[id]...) }

// ArcCount returns the number of arcs of kind.
func (n *Network) ArcCount(kind core.EdgeKind) int {
	c := 0
	for _, arcs := range n.out {
		for _, a := range arcs {
			if a.Kind == kind {
				c++
			}
		}
	}

	return c
}

// WeftSegments returns the weft segments in id order.
func (n *Network) WeftSegments() []Info { return append([]Info(nil), n.seg.Weft...) }

// Warps returns the warp arcs ordered by (From, To).
func (n *Network) Warps() []Warp { return append([]Warp(nil), n.warps...) }

// HasWarp reports whether id carries a warp edge in direction dir.
func (n *Network) HasWarp(id int, dir Direction) bool {
	if dir == Up {
		return len(n.warpUp[id]) > 0
	}

	return len(n.warpDown[id]) > 0
}

// weftView exposes only the weft arcs to the dfs walker.
type weftView struct{ n *Network }

func (v weftView) NodeIDs() []int      { return v.n.ids }
func (v weftView) HasNode(id int) bool { return v.n.HasNode(id) }

func (v weftView) Successors(id int) []int {
	if s, ok := v.n.weftFrom[id]; ok {
		return []int{s.Last()}
	}

	return nil
}
