package core

import "fmt"

// SetNodeSegment assigns node id to segment seg (NoSegment clears it).
func (g *Graph) SetNodeSegment(id, seg int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("SetNodeSegment(%d): %w", id, ErrUnknownNode)
	}
	if n.Segment != NoSegment {
		if set := g.bySegment[n.Segment]; set != nil {
			delete(set, id)
			if len(set) == 0 {
				delete(g.bySegment, n.Segment)
			}
		}
	}
	n.Segment = seg
	if seg != NoSegment {
		set := g.bySegment[seg]
		if set == nil {
			set = make(map[int]struct{})
			g.bySegment[seg] = set
		}
		set[id] = struct{}{}
	}

	return nil
}

// SetEdgeSegment assigns the edge between a and b to segment seg.
func (g *Graph) SetEdgeSegment(a, b, seg int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.edges[makePair(a, b)]
	if !ok {
		return fmt.Errorf("SetEdgeSegment(%d,%d): %w", a, b, ErrEdgeNotFound)
	}
	e.Segment = seg

	return nil
}

// ResetSegments clears every node and edge segment assignment.
// Complexity: O(N + E).
func (g *Graph) ResetSegments() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range g.nodes {
		n.Segment = NoSegment
	}
	for _, e := range g.edges {
		e.Segment = NoSegment
	}
	g.bySegment = make(map[int]map[int]struct{})
}

// NodesInSegment returns the ids of the nodes assigned to seg, ascending.
// Complexity: O(k log k).
func (g *Graph) NodesInSegment(seg int) []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return sortedSet(g.bySegment[seg])
}
