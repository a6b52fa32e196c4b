// File: methods_nodes.go
// Role: Node lifecycle & queries: AddNode/Node/HasNode/Nodes/NodesAt/Positions,
//       flag setters (SetEnd/SetLeaf/SetShaping) and the Ends/Leaves sets.
// Determinism:
//   - Nodes() returns nodes sorted by ID asc.
//   - NodesAt(p) returns nodes sorted by (Rank, ID) asc.
// Concurrency:
//   - Mutations under mu write lock, queries under mu read lock.

package core

import (
	"fmt"
	"math"
	"sort"
)

// AddNode inserts a copy of n. Segment is forced to NoSegment and the flag
// indexes are seeded from n.IsEnd / n.IsLeaf.
//
// Errors: ErrBadNodeID, ErrDuplicateNode.
// Complexity: O(log N) for the position index.
func (g *Graph) AddNode(n Node) error {
	if n.ID < 0 {
		return fmt.Errorf("AddNode(%d): %w", n.ID, ErrBadNodeID)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("AddNode(%d): %w", n.ID, ErrDuplicateNode)
	}

	stored := n
	stored.Segment = NoSegment
	if n.Tags != nil {
		stored.Tags = make(map[string]string, len(n.Tags))
		for k, v := range n.Tags {
			stored.Tags[k] = v
		}
	}
	g.nodes[n.ID] = &stored
	g.incident[n.ID] = make(map[int]*Edge)
	g.byPosition.Set(posKey{position: n.Position, rank: n.Rank, id: n.ID})
	g.positions[n.Position]++
	if n.IsEnd {
		g.ends[n.ID] = struct{}{}
	}
	if n.IsLeaf {
		g.leaves[n.ID] = struct{}{}
	}

	return nil
}

// HasNode reports whether id exists.
func (g *Graph) HasNode(id int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]

	return ok
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id int) (Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("Node(%d): %w", id, ErrUnknownNode)
	}

	return *n, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// Nodes returns copies of all nodes sorted by ID.
// Complexity: O(N log N).
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// NodesAt returns the nodes of one position in rank order.
// Complexity: O(log N + k) where k is the size of the result.
func (g *Graph) NodesAt(position int) []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, g.positions[position])
	g.byPosition.Ascend(posKey{position: position, rank: math.MinInt, id: math.MinInt}, func(k posKey) bool {
		if k.position != position {
			return false
		}
		out = append(out, *g.nodes[k.id])

		return true
	})

	return out
}

// NodeIDsAt is NodesAt without the copies.
func (g *Graph) NodeIDsAt(position int) []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]int, 0, g.positions[position])
	g.byPosition.Ascend(posKey{position: position, rank: math.MinInt, id: math.MinInt}, func(k posKey) bool {
		if k.position != position {
			return false
		}
		out = append(out, k.id)

		return true
	})

	return out
}

// Positions returns all positions that hold at least one node, ascending.
func (g *Graph) Positions() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]int, 0, len(g.positions))
	for p := range g.positions {
		out = append(out, p)
	}
	sort.Ints(out)

	return out
}

// CourseClosed reports whether the course at position loops: it holds at
// least three nodes and its first and last ranks share an edge.
func (g *Graph) CourseClosed(position int) bool {
	ids := g.NodeIDsAt(position)
	if len(ids) < 3 {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.edges[makePair(ids[0], ids[len(ids)-1])]

	return ok
}

// PositionCount returns how many distinct positions exist.
func (g *Graph) PositionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.positions)
}

// SetEnd sets or clears the IsEnd flag.
func (g *Graph) SetEnd(id int, end bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("SetEnd(%d): %w", id, ErrUnknownNode)
	}
	n.IsEnd = end
	setFlag(g.ends, id, end)

	return nil
}

// SetLeaf sets or clears the IsLeaf flag.
func (g *Graph) SetLeaf(id int, leaf bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("SetLeaf(%d): %w", id, ErrUnknownNode)
	}
	n.IsLeaf = leaf
	setFlag(g.leaves, id, leaf)

	return nil
}

// SetShaping records the increase/decrease marks of a node.
func (g *Graph) SetShaping(id int, increase, decrease bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("SetShaping(%d): %w", id, ErrUnknownNode)
	}
	n.Increase = increase
	n.Decrease = decrease

	return nil
}

// SetTag stores a collaborator tag on a node.
func (g *Graph) SetTag(id int, key, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("SetTag(%d): %w", id, ErrUnknownNode)
	}
	if n.Tags == nil {
		n.Tags = make(map[string]string, 1)
	}
	n.Tags[key] = value

	return nil
}

// Ends returns the ids of all IsEnd nodes, ascending.
// Complexity: O(k log k).
func (g *Graph) Ends() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return sortedSet(g.ends)
}

// Leaves returns the ids of all IsLeaf nodes, ascending.
// Complexity: O(k log k).
func (g *Graph) Leaves() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return sortedSet(g.leaves)
}

func setFlag(set map[int]struct{}, id int, on bool) {
	if on {
		set[id] = struct{}{}
	} else {
		delete(set, id)
	}
}

func sortedSet(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)

	return out
}
