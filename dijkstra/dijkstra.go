package dijkstra

import (
	"container/heap"
	"fmt"
	"math"
)

// Dijkstra computes shortest distances from the nearest of sources to every
// vertex of g. dist[v] is +Inf when v is unreachable.
//
// Validation order: ErrNoSource, ErrNilGraph, ErrVertexNotFound, then a scan
// of every arc for ErrNegativeWeight.
func Dijkstra(g Graph, sources ...int) ([]float64, error) {
	if len(sources) == 0 {
		return nil, ErrNoSource
	}
	if g == nil {
		return nil, ErrNilGraph
	}
	n := g.Len()
	for _, s := range sources {
		if s < 0 || s >= n {
			return nil, fmt.Errorf("%w: %d", ErrVertexNotFound, s)
		}
	}

	// fail fast on negative weights
	for u := 0; u < n; u++ {
		for _, a := range g.Arcs(u) {
			if a.Weight < 0 || math.IsNaN(a.Weight) {
				return nil, fmt.Errorf("%w: arc %d→%d weight=%g", ErrNegativeWeight, u, a.To, a.Weight)
			}
		}
	}

	r := &runner{
		g:       g,
		dist:    make([]float64, n),
		visited: make([]bool, n),
		pq:      make(nodePQ, 0, n),
	}
	r.init(sources)
	r.process()

	return r.dist, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       Graph
	dist    []float64
	visited []bool
	pq      nodePQ
}

// init sets every distance to +Inf and pushes each source with distance 0.
func (r *runner) init(sources []int) {
	for v := range r.dist {
		r.dist[v] = math.Inf(1)
	}
	heap.Init(&r.pq)
	for _, s := range sources {
		if r.dist[s] == 0 {
			continue
		}
		r.dist[s] = 0
		heap.Push(&r.pq, &nodeItem{id: s, dist: 0})
	}
}

// process pops vertices in distance order until the heap is empty.
func (r *runner) process() {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id
		if r.visited[u] {
			continue // stale entry
		}
		r.visited[u] = true
		r.relax(u)
	}
}

// relax improves the distances of u's neighbours (lazy decrease-key).
func (r *runner) relax(u int) {
	for _, a := range r.g.Arcs(u) {
		nd := r.dist[u] + a.Weight
		if nd >= r.dist[a.To] {
			continue
		}
		r.dist[a.To] = nd
		heap.Push(&r.pq, &nodeItem{id: a.To, dist: nd})
	}
}

// nodeItem represents a vertex and its tentative distance.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by dist, ties by id so pops are
// deterministic.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
