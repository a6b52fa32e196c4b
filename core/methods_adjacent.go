// File: methods_adjacent.go
// Role: incident-edge queries: IncidentEdges/Neighbors/Degree.
// Determinism:
//   - IncidentEdges() and Neighbors() are sorted by neighbour ID asc.
// Concurrency:
//   - Read lock only.

package core

import (
	"fmt"
	"sort"
)

// IncidentEdges returns copies of the edges touching id, restricted to the
// given kinds (all kinds when none is given), ordered by neighbour id.
//
// Errors: ErrUnknownNode.
// Complexity: O(d log d), d = degree of id.
func (g *Graph) IncidentEdges(id int, kinds ...EdgeKind) ([]Edge, error) {
	mask := kindMask(kinds)

	g.mu.RLock()
	defer g.mu.RUnlock()
	inc, ok := g.incident[id]
	if !ok {
		return nil, fmt.Errorf("IncidentEdges(%d): %w", id, ErrUnknownNode)
	}
	out := make([]Edge, 0, len(inc))
	for _, e := range inc {
		if mask&(1<<e.Kind) != 0 {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Other(id) < out[j].Other(id) })

	return out, nil
}

// Neighbors returns the ids adjacent to id through edges of the given kinds,
// ascending.
//
// Errors: ErrUnknownNode.
func (g *Graph) Neighbors(id int, kinds ...EdgeKind) ([]int, error) {
	mask := kindMask(kinds)

	g.mu.RLock()
	defer g.mu.RUnlock()
	inc, ok := g.incident[id]
	if !ok {
		return nil, fmt.Errorf("Neighbors(%d): %w", id, ErrUnknownNode)
	}
	out := make([]int, 0, len(inc))
	for nb, e := range inc {
		if mask&(1<<e.Kind) != 0 {
			out = append(out, nb)
		}
	}
	sort.Ints(out)

	return out, nil
}

// Degree counts the edges of one kind touching id. Unknown ids have degree 0.
// Complexity: O(d).
func (g *Graph) Degree(id int, kind EdgeKind) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, e := range g.incident[id] {
		if e.Kind == kind {
			n++
		}
	}

	return n
}
