// SPDX-License-Identifier: MIT
// Package: knitgraph/core
//
// view.go - kind-filtered read-only views.
//
// A View restricts the graph to a subset of edge kinds without copying. It is
// the adapter handed to the dfs and bfs walkers, which only need sorted node
// and successor lists.
//
// Determinism: NodeIDs() and Successors() are sorted ascending.

package core

import "sort"

// View is a read-only, kind-filtered window over a Graph.
type View struct {
	g    *Graph
	mask uint8
}

// View returns a view exposing only edges of the given kinds (all kinds when
// none is given).
func (g *Graph) View(kinds ...EdgeKind) *View {
	return &View{g: g, mask: kindMask(kinds)}
}

// NodeIDs returns every node id, ascending.
func (v *View) NodeIDs() []int {
	v.g.mu.RLock()
	defer v.g.mu.RUnlock()
	out := make([]int, 0, len(v.g.nodes))
	for id := range v.g.nodes {
		out = append(out, id)
	}
	sort.Ints(out)

	return out
}

// HasNode reports whether id exists in the underlying graph.
func (v *View) HasNode(id int) bool { return v.g.HasNode(id) }

// Successors returns the neighbours of id through the view's kinds, ascending.
// Unknown ids have no successors.
func (v *View) Successors(id int) []int {
	v.g.mu.RLock()
	defer v.g.mu.RUnlock()
	inc := v.g.incident[id]
	out := make([]int, 0, len(inc))
	for nb, e := range inc {
		if v.mask&(1<<e.Kind) != 0 {
			out = append(out, nb)
		}
	}
	sort.Ints(out)

	return out
}
