package dfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/knitgraph/dfs"
)

// adj is a map-backed Graph for tests.
type adj map[int][]int

func (a adj) NodeIDs() []int {
	ids := make([]int, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}

	return ids
}

func (a adj) HasNode(id int) bool { _, ok := a[id]; return ok }

func (a adj) Successors(id int) []int { return a[id] }

// chain builds 0→1→…→n-1.
func chain(n int) adj {
	g := adj{}
	for i := 0; i < n; i++ {
		g[i] = nil
		if i+1 < n {
			g[i] = []int{i + 1}
		}
	}

	return g
}

// diamond is 0→{1,2}, 1→3, 2→3, 3→{4,5}.
func diamond() adj {
	return adj{0: {1, 2}, 1: {3}, 2: {3}, 3: {4, 5}, 4: nil, 5: nil}
}

func TestDFS_InputErrors(t *testing.T) {
	res, err := dfs.DFS(nil, 0)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, dfs.ErrGraphNil)

	res, err = dfs.DFS(chain(2), 9)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, dfs.ErrStartVertexNotFound)
}

func TestDFS_Preorder(t *testing.T) {
	res, err := dfs.DFS(diamond(), 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3, 4, 5, 2}, res.Preorder)
	assert.Equal(t, 1, res.Parent[3])
	_, isRoot := res.Parent[0]
	assert.False(t, isRoot)

	path, err := res.PathTo(5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3, 5}, path)

	res, err = dfs.DFS(diamond(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4, 5}, res.Preorder)
	_, err = res.PathTo(1)
	assert.Error(t, err, "1 is not below 2")
}

func TestDFS_Hooks(t *testing.T) {
	var seen []int
	res, err := dfs.DFS(chain(6), 0, dfs.WithOnVisit(func(id int) error {
		seen = append(seen, id)
		if id == 3 {
			return dfs.ErrStop
		}

		return nil
	}))
	require.NoError(t, err, "ErrStop ends the walk cleanly")
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
	assert.True(t, res.Visited[3])
	assert.False(t, res.Visited[4])

	boom := errors.New("boom")
	_, err = dfs.DFS(chain(3), 0, dfs.WithOnVisit(func(id int) error {
		if id == 1 {
			return boom
		}

		return nil
	}))
	assert.ErrorIs(t, err, boom)
}

func TestDFS_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dfs.DFS(chain(3), 0, dfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinimalRotation(t *testing.T) {
	assert.Equal(t, []int{1, 4, 2, 3}, dfs.MinimalRotation([]int{2, 3, 1, 4}))
	assert.Equal(t, []int{0, 0, 1}, dfs.MinimalRotation([]int{0, 1, 0}))
	assert.Equal(t, []string{"a", "c", "b"}, dfs.MinimalRotation([]string{"b", "a", "c"}))
	assert.Nil(t, dfs.MinimalRotation([]int(nil)))

	in := []int{3, 1, 2}
	_ = dfs.MinimalRotation(in)
	assert.Equal(t, []int{3, 1, 2}, in, "input is not modified")
}
