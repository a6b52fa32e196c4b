// File: api.go
// Role: whole-graph helpers: Stats, Clone.
// Determinism:
//   - Clone preserves node ids, edge ids and the edge id sequence.

package core

// Stats is a cheap snapshot of graph size.
type Stats struct {
	Nodes     int
	Positions int
	Weft      int
	Warp      int
	Contour   int
	Ends      int
	Leaves    int
}

// Stats counts nodes, positions, edges per kind and flag sets.
// Complexity: O(E).
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s := Stats{
		Nodes:     len(g.nodes),
		Positions: len(g.positions),
		Ends:      len(g.ends),
		Leaves:    len(g.leaves),
	}
	for _, e := range g.edges {
		switch e.Kind {
		case Weft:
			s.Weft++
		case Warp:
			s.Warp++
		case Contour:
			s.Contour++
		}
	}

	return s
}

// Clone returns a deep copy of g (Tags maps included).
// Complexity: O(N log N + E).
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := NewGraph()
	for id, n := range g.nodes {
		cp := *n
		if n.Tags != nil {
			cp.Tags = make(map[string]string, len(n.Tags))
			for k, v := range n.Tags {
				cp.Tags[k] = v
			}
		}
		c.nodes[id] = &cp
		c.incident[id] = make(map[int]*Edge)
		c.byPosition.Set(posKey{position: n.Position, rank: n.Rank, id: id})
		c.positions[n.Position]++
		if n.IsEnd {
			c.ends[id] = struct{}{}
		}
		if n.IsLeaf {
			c.leaves[id] = struct{}{}
		}
		if n.Segment != NoSegment {
			set := c.bySegment[n.Segment]
			if set == nil {
				set = make(map[int]struct{})
				c.bySegment[n.Segment] = set
			}
			set[id] = struct{}{}
		}
	}
	for key, e := range g.edges {
		cp := *e
		c.edges[key] = &cp
		c.incident[e.From][e.To] = &cp
		c.incident[e.To][e.From] = &cp
	}
	c.nextEdgeID = g.nextEdgeID

	return c
}
