// SPDX-License-Identifier: MIT
// Package: knitgraph/mapping
//
// chains.go - weft chains between warp anchors and their pairing.

package mapping

import (
	"context"
	"fmt"

	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/dfs"
)

// Chain is a run of consecutive weft segments.
type Chain struct {
	// Segments are the weft segment ids in walk order.
	Segments []int
	// Nodes are the stitches of the run, both anchors included.
	Nodes []int
}

// First returns the first stitch of the chain.
func (c Chain) First() int { return c.Nodes[0] }

// Last returns the last stitch of the chain.
func (c Chain) Last() int { return c.Nodes[len(c.Nodes)-1] }

// ChainPair is a lower and an upper chain closed by two warp edges.
type ChainPair struct {
	Lower, Upper Chain
	Start, End   Warp
}

// TraverseSegmentsUntilWarp follows weft segments from start in rank order
// until it reaches a node with a warp edge in direction dir. It reports false
// when the walk runs off a course end or comes back around to start.
//
// Errors: ErrMapping when start is not a network node.
func (n *Network) TraverseSegmentsUntilWarp(start int, dir Direction) (Chain, bool, error) {
	return n.traverse(context.Background(), start, dir)
}

func (n *Network) traverse(ctx context.Context, start int, dir Direction) (Chain, bool, error) {
	if !n.HasNode(start) {
		return Chain{}, false, fmt.Errorf("TraverseSegmentsUntilWarp(%d): unknown node: %w", start, ErrMapping)
	}
	s, ok := n.weftFrom[start]
	if !ok {
		return Chain{}, false, nil
	}
	if s.Last() == start {
		// a ring with a single anchor
		if !n.HasWarp(start, dir) {
			return Chain{}, false, nil
		}

		return Chain{Segments: []int{s.ID}, Nodes: append([]int(nil), s.Nodes...)}, true, nil
	}

	found := -1
	res, err := dfs.DFS(weftView{n}, start, dfs.WithContext(ctx), dfs.WithOnVisit(func(id int) error {
		if id != start && n.HasWarp(id, dir) {
			found = id

			return dfs.ErrStop
		}

		return nil
	}))
	if err != nil {
		return Chain{}, false, fmt.Errorf("TraverseSegmentsUntilWarp(%d): %w", start, err)
	}
	if found < 0 {
		return Chain{}, false, nil
	}
	path, err := res.PathTo(found)
	if err != nil {
		return Chain{}, false, fmt.Errorf("TraverseSegmentsUntilWarp(%d): %w", start, err)
	}

	c := Chain{Nodes: []int{start}}
	for _, id := range path[:len(path)-1] {
		seg := n.weftFrom[id]
		c.Segments = append(c.Segments, seg.ID)
		c.Nodes = append(c.Nodes, seg.Nodes[1:]...)
	}

	return c, true, nil
}

// BuildChains pairs, for every warp arc a→b in (a, b) order, the lower chain
// leaving a and the upper chain leaving b, keeping the pair when a warp edge
// joins the two chain ends. Pairs are unique and ordered by Start.
func (n *Network) BuildChains(ctx context.Context) ([]ChainPair, error) {
	var out []ChainPair
	seen := make(map[[4]int]bool)
	for _, w := range n.warps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lower, ok, err := n.traverse(ctx, w.From, Up)
		if err != nil {
			return nil, fmt.Errorf("BuildChains: %w", err)
		}
		if !ok {
			continue
		}
		upper, ok, err := n.traverse(ctx, w.To, Down)
		if err != nil {
			return nil, fmt.Errorf("BuildChains: %w", err)
		}
		if !ok {
			continue
		}
		end := Warp{From: lower.Last(), To: upper.Last()}
		if !n.g.HasEdge(end.From, end.To, core.Warp) {
			continue
		}
		k := [4]int{w.From, w.To, end.From, end.To}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ChainPair{Lower: lower, Upper: upper, Start: w, End: end})
	}

	return out, nil
}
