// SPDX-License-Identifier: MIT
// Package: knitgraph/builder
//
// final.go - ConnectFinalWarp and ConnectFinalWeft.
//
// Final warp, per chain pair:
//   - The longer chain has K stitches, the shorter M (anchors included).
//   - Each short stitch starts with multiplicity 1; the K−M extra links are
//     handed out from the middle outward: mid, mid+1, mid−1, mid+2, ...
//     with mid = (M−1)/2, wrapping around when K−M exceeds M.
//   - Long stitches are assigned to short stitches in order; missing warp
//     edges are created.
//   - A short stitch with multiplicity > 1 is marked Decrease when the short
//     chain is the upper one and Increase when it is the lower one.
//
// Final weft: every weft segment of the network is checked for consecutive
// weft links (leftover contour links are promoted) and its id is stamped on
// its edges and non-terminal stitches.

package builder

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/mapping"
)

// fanOrder returns the short-run indexes receiving the extra links, in order.
func fanOrder(m, extra int) []int {
	if m <= 0 || extra <= 0 {
		return nil
	}
	mid := (m - 1) / 2
	walk := []int{mid}
	for d := 1; len(walk) < m; d++ {
		if mid+d < m {
			walk = append(walk, mid+d)
		}
		if mid-d >= 0 {
			walk = append(walk, mid-d)
		}
	}
	out := make([]int, extra)
	for i := range out {
		out[i] = walk[i%m]
	}

	return out
}

// Multiplicities returns how many long-run stitches each of the m short-run
// stitches receives when a run of k stitches is mapped onto it (k ≥ m ≥ 1).
func Multiplicities(k, m int) []int {
	if m <= 0 {
		return nil
	}
	mult := make([]int, m)
	for i := range mult {
		mult[i] = 1
	}
	for _, i := range fanOrder(m, k-m) {
		mult[i]++
	}

	return mult
}

// ConnectFinalWarp links every chain pair stitch-to-stitch and returns the
// number of fan connections Σ(multiplicity − 1).
func (b *Builder) ConnectFinalWarp(g *core.Graph, chains []mapping.ChainPair) (int, error) {
	if g == nil {
		return 0, ErrNilGraph
	}
	fans := 0
	for _, cp := range chains {
		long, short := cp.Lower.Nodes, cp.Upper.Nodes
		shortIsUpper := true
		if len(long) < len(short) {
			long, short = short, long
			shortIsUpper = false
		}
		mult := Multiplicities(len(long), len(short))

		j := 0
		for i, s := range short {
			for k := 0; k < mult[i]; k++ {
				if _, err := g.AddEdge(long[j], s, core.Warp); err != nil {
					return fans, fmt.Errorf("ConnectFinalWarp: chain %d→%d: %w", cp.Start.From, cp.Start.To, err)
				}
				j++
			}
			if mult[i] < 2 {
				continue
			}
			fans += mult[i] - 1
			n, err := g.Node(s)
			if err != nil {
				return fans, fmt.Errorf("ConnectFinalWarp: %w", err)
			}
			if err = g.SetShaping(s, n.Increase || !shortIsUpper, n.Decrease || shortIsUpper); err != nil {
				return fans, fmt.Errorf("ConnectFinalWarp: %w", err)
			}
		}
	}
	b.cfg.logger.Debug("final warp connected", zap.Int("chains", len(chains)), zap.Int("fans", fans))

	return fans, nil
}

// ConnectFinalWeft completes and stamps the weft segments of net. It returns
// the number of weft links it had to create or promote.
func (b *Builder) ConnectFinalWeft(g *core.Graph, net *mapping.Network) (int, error) {
	if g == nil {
		return 0, ErrNilGraph
	}
	if net == nil {
		return 0, fmt.Errorf("ConnectFinalWeft: nil network: %w", mapping.ErrMapping)
	}
	fixed := 0
	for _, s := range net.WeftSegments() {
		for i := 1; i < len(s.Nodes); i++ {
			a, c := s.Nodes[i-1], s.Nodes[i]
			e, ok := g.Edge(a, c)
			switch {
			case !ok:
				if _, err := g.AddEdge(a, c, core.Weft); err != nil {
					return fixed, fmt.Errorf("ConnectFinalWeft: segment %d: %w", s.ID, err)
				}
				fixed++
			case e.Kind == core.Contour:
				if err := g.RetagEdge(a, c, core.Weft); err != nil {
					return fixed, fmt.Errorf("ConnectFinalWeft: segment %d: %w", s.ID, err)
				}
				fixed++
			case e.Kind != core.Weft:
				return fixed, &core.TopologyError{Op: "final weft", Position: s.Position, Segment: s.ID,
					Detail: fmt.Sprintf("link %d-%d is %s", a, c, e.Kind), Err: core.ErrTopology}
			}
			if err := g.SetEdgeSegment(a, c, s.ID); err != nil {
				return fixed, fmt.Errorf("ConnectFinalWeft: %w", err)
			}
		}
		for _, id := range s.Nodes[1 : len(s.Nodes)-1] {
			if err := g.SetNodeSegment(id, s.ID); err != nil {
				return fixed, fmt.Errorf("ConnectFinalWeft: %w", err)
			}
		}
	}
	b.cfg.logger.Debug("final weft connected", zap.Int("fixed", fixed))

	return fixed, nil
}
