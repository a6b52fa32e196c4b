// Package core_test verifies thread-safety of core.Graph under concurrent operations.
package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/knitgraph/core"
)

// TestConcurrentReadersWithWriter runs parallel NodesAt/Neighbors readers
// while one goroutine inserts weft edges, mirroring the builder's candidate
// search against a committing writer. Goroutines report errors on a channel
// that the test goroutine drains.
func TestConcurrentReadersWithWriter(t *testing.T) {
	g := core.NewGraph()
	const (
		n       = 200
		readers = 8
	)
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddNode(core.Node{ID: i, Rank: i}))
	}

	errs := make(chan error, n+readers*n)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i+1 < n; i++ {
			if _, err := g.AddEdge(i, i+1, core.Weft); err != nil {
				errs <- err
			}
		}
	}()

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < n; i++ {
				_ = g.NodesAt(0)
				if _, err := g.Neighbors(i, core.Weft); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, n-1, g.EdgeCount(core.Weft))
}
