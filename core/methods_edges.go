// File: methods_edges.go
// Role: Edge lifecycle & queries: AddEdge/RetagEdge/RemoveEdge/Edge/HasEdge/
//       Edges/EdgeCount.
// Determinism:
//   - Edges() returns edges sorted by Edge.ID asc (insertion order).
//   - Edge IDs are a dense monotonic sequence starting at 0.
// Concurrency:
//   - Mutations under mu write lock, queries under mu read lock.

package core

import (
	"fmt"
	"sort"
)

// AddEdge links a and b with an edge of the given kind and returns a copy of
// the stored edge.
//
// Behavior:
//   - Same pair, same kind already present: no-op, the existing edge is returned.
//   - Same pair, different kind: ErrConflictingEdge.
//
// Errors: ErrBadKind, ErrLoopNotAllowed, ErrUnknownNode, ErrConflictingEdge.
// Complexity: O(1) amortized.
func (g *Graph) AddEdge(a, b int, kind EdgeKind) (Edge, error) {
	if !kind.Valid() {
		return Edge{}, fmt.Errorf("AddEdge(%d,%d): %w", a, b, ErrBadKind)
	}
	if a == b {
		return Edge{}, fmt.Errorf("AddEdge(%d,%d): %w", a, b, ErrLoopNotAllowed)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[a]; !ok {
		return Edge{}, fmt.Errorf("AddEdge(%d,%d): node %d: %w", a, b, a, ErrUnknownNode)
	}
	if _, ok := g.nodes[b]; !ok {
		return Edge{}, fmt.Errorf("AddEdge(%d,%d): node %d: %w", a, b, b, ErrUnknownNode)
	}

	key := makePair(a, b)
	if e, ok := g.edges[key]; ok {
		if e.Kind != kind {
			return Edge{}, fmt.Errorf("AddEdge(%d,%d,%s): existing %s: %w", a, b, kind, e.Kind, ErrConflictingEdge)
		}

		return *e, nil
	}

	e := &Edge{ID: g.nextEdgeID, From: key.lo, To: key.hi, Kind: kind, Segment: NoSegment}
	g.nextEdgeID++
	g.edges[key] = e
	g.incident[a][b] = e
	g.incident[b][a] = e

	return *e, nil
}

// RetagEdge promotes an existing contour edge to weft or warp. Retagging to
// the kind the edge already has is a no-op.
//
// Errors: ErrEdgeNotFound, ErrBadKind (illegal transition).
func (g *Graph) RetagEdge(a, b int, kind EdgeKind) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.edges[makePair(a, b)]
	if !ok {
		return fmt.Errorf("RetagEdge(%d,%d): %w", a, b, ErrEdgeNotFound)
	}
	if e.Kind == kind {
		return nil
	}
	if e.Kind != Contour || kind == Contour || !kind.Valid() {
		return fmt.Errorf("RetagEdge(%d,%d): %s→%s: %w", a, b, e.Kind, kind, ErrBadKind)
	}
	e.Kind = kind

	return nil
}

// RemoveEdge deletes the edge between a and b.
func (g *Graph) RemoveEdge(a, b int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := makePair(a, b)
	if _, ok := g.edges[key]; !ok {
		return fmt.Errorf("RemoveEdge(%d,%d): %w", a, b, ErrEdgeNotFound)
	}
	delete(g.edges, key)
	delete(g.incident[a], b)
	delete(g.incident[b], a)

	return nil
}

// Edge returns a copy of the edge between a and b.
func (g *Graph) Edge(a, b int) (Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[makePair(a, b)]
	if !ok {
		return Edge{}, false
	}

	return *e, true
}

// HasEdge reports whether a and b are linked by an edge of the given kind.
func (g *Graph) HasEdge(a, b int, kind EdgeKind) bool {
	e, ok := g.Edge(a, b)

	return ok && e.Kind == kind
}

// Edges returns copies of all edges of the requested kinds (all kinds when
// none is given), sorted by ID.
// Complexity: O(E log E).
func (g *Graph) Edges(kinds ...EdgeKind) []Edge {
	mask := kindMask(kinds)

	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		if mask&(1<<e.Kind) != 0 {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// EdgeCount counts edges of the requested kinds (all kinds when none is given).
func (g *Graph) EdgeCount(kinds ...EdgeKind) int {
	mask := kindMask(kinds)

	g.mu.RLock()
	defer g.mu.RUnlock()
	if mask == allKinds {
		return len(g.edges)
	}
	n := 0
	for _, e := range g.edges {
		if mask&(1<<e.Kind) != 0 {
			n++
		}
	}

	return n
}

const allKinds = 1<<numKinds - 1

func kindMask(kinds []EdgeKind) uint8 {
	if len(kinds) == 0 {
		return allKinds
	}
	var m uint8
	for _, k := range kinds {
		if k.Valid() {
			m |= 1 << k
		}
	}

	return m
}
