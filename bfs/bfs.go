package bfs

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors.
var (
	// ErrGraphNil is returned for a nil Graph.
	ErrGraphNil = errors.New("bfs: graph is nil")

	// ErrNoSources is returned when no source is given.
	ErrNoSources = errors.New("bfs: no sources")

	// ErrSourceNotFound is returned when a source is not in the graph.
	ErrSourceNotFound = errors.New("bfs: source not found")
)

// Graph is the read-only adjacency BFS needs. Successors must be sorted
// ascending for a deterministic visit order.
type Graph interface {
	NodeIDs() []int
	HasNode(id int) bool
	Successors(id int) []int
}

// Result is the search forest.
type Result struct {
	// Order is the visit sequence, sources first.
	Order []int
	// Depth is the hop count from the nearest source.
	Depth map[int]int
}

// Reached reports whether id was visited.
func (r *Result) Reached(id int) bool {
	_, ok := r.Depth[id]

	return ok
}

// BFS searches g from every id in sources at depth 0.
//
// Errors: ErrGraphNil, ErrNoSources, ErrSourceNotFound and ctx.Err().
func BFS(ctx context.Context, g Graph, sources []int) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	srcs := slices.Clone(sources)
	slices.Sort(srcs)
	srcs = slices.Compact(srcs)
	res := &Result{Depth: make(map[int]int)}
	queue := make([]int, 0, len(srcs))
	for _, s := range srcs {
		if !g.HasNode(s) {
			return nil, fmt.Errorf("%w: %d", ErrSourceNotFound, s)
		}
		res.Depth[s] = 0
		queue = append(queue, s)
	}

	for head := 0; head < len(queue); head++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := queue[head]
		d := res.Depth[id]
		res.Order = append(res.Order, id)
		for _, nb := range g.Successors(id) {
			if res.Reached(nb) {
				continue
			}
			res.Depth[nb] = d + 1
			queue = append(queue, nb)
		}
	}

	return res, nil
}
