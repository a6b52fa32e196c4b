// Package dijkstra_test covers input validation, multi-source fields and
// unreachable vertices.
package dijkstra_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/knitgraph/dijkstra"
)

// path builds 0-1-2-...-(n-1) with unit weights.
func path(n int) dijkstra.AdjacencyList {
	g := dijkstra.NewAdjacencyList(n)
	for i := 0; i+1 < n; i++ {
		g.AddEdge(i, i+1, 1)
	}

	return g
}

func TestDijkstra_Validation(t *testing.T) {
	_, err := dijkstra.Dijkstra(path(3))
	assert.ErrorIs(t, err, dijkstra.ErrNoSource)

	_, err = dijkstra.Dijkstra(nil, 0)
	assert.ErrorIs(t, err, dijkstra.ErrNilGraph)

	_, err = dijkstra.Dijkstra(path(3), 3)
	assert.ErrorIs(t, err, dijkstra.ErrVertexNotFound)

	g := path(3)
	g.AddEdge(0, 2, -1)
	_, err = dijkstra.Dijkstra(g, 0)
	assert.ErrorIs(t, err, dijkstra.ErrNegativeWeight)
}

func TestDijkstra_MultiSource(t *testing.T) {
	dist, err := dijkstra.Dijkstra(path(7), 0, 6, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3, 2, 1, 0}, dist)
}

func TestDijkstra_Unreachable(t *testing.T) {
	g := dijkstra.NewAdjacencyList(4)
	g.AddEdge(0, 1, 2.5)
	g.AddEdge(2, 3, 1)

	dist, err := dijkstra.Dijkstra(g, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, dist[0])
	assert.True(t, math.IsInf(dist[2], 1))
	assert.True(t, math.IsInf(dist[3], 1))
}

func TestDijkstra_PrefersCheaperDetour(t *testing.T) {
	g := dijkstra.NewAdjacencyList(4)
	g.AddEdge(0, 3, 10)
	g.AddEdge(0, 1, 1)
	g.AddEdge(1, 2, 1)
	g.AddEdge(2, 3, 1)

	dist, err := dijkstra.Dijkstra(g, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, dist[3])
}
