package dijkstra

import "errors"

// Sentinel errors returned by Dijkstra.
var (
	// ErrNoSource indicates that no source vertex was supplied.
	ErrNoSource = errors.New("dijkstra: no source vertex")

	// ErrNilGraph indicates that a nil Graph was passed.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrVertexNotFound indicates a source index outside [0, Len()).
	ErrVertexNotFound = errors.New("dijkstra: source vertex not found in graph")

	// ErrNegativeWeight indicates that a negative (or NaN) arc weight was detected.
	ErrNegativeWeight = errors.New("dijkstra: negative edge weight encountered")
)

// Arc is a weighted outgoing connection.
type Arc struct {
	To     int
	Weight float64
}

// Graph is the minimal read interface the solver needs. Vertices are the
// dense indexes [0, Len()).
type Graph interface {
	Len() int
	Arcs(u int) []Arc
}

// AdjacencyList is a ready-made Graph backed by a slice of arc lists.
type AdjacencyList [][]Arc

// NewAdjacencyList allocates n empty vertices.
func NewAdjacencyList(n int) AdjacencyList { return make(AdjacencyList, n) }

// Len returns the number of vertices.
func (a AdjacencyList) Len() int { return len(a) }

// Arcs returns the outgoing arcs of u.
func (a AdjacencyList) Arcs(u int) []Arc { return a[u] }

// AddEdge inserts the undirected pair u-v with weight w.
func (a AdjacencyList) AddEdge(u, v int, w float64) {
	a[u] = append(a[u], Arc{To: v, Weight: w})
	a[v] = append(a[v], Arc{To: u, Weight: w})
}
