// SPDX-License-Identifier: MIT
// Package: knitgraph/builder
//
// warp.go - ConnectWarp, the initial warp pass.
//
// Contract, per adjacent course pair (lower, upper):
//   - End stitches pair with end stitches of the other course within
//     MaxWarpDistance, nearest first, one partner each.
//   - Every stitch still unpaired is matched from a k-d tree of the other
//     course: candidates within MaxWarpDistance whose deviation from
//     perpendicular stays within AngleTolerance at both stitches.
//   - Candidates are accepted in (distance, |Δposition|, lower id, upper id)
//     order, one partner per stitch, never crossing an accepted pair.
//   - A course of one stitch is an apex: every stitch of its neighbour links
//     to it, and the apex is marked Decrease above a wider course or
//     Increase below one.
//   - Stitches without any warp edge afterwards are flagged IsLeaf.
//
// Concurrency: the search runs per course pair on an errgroup bounded by
// WithWorkers over read-only snapshots; edges are committed afterwards in
// position order, so results do not depend on scheduling.

package builder

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/core"
)

// candidate is a possible warp edge from a lower to an upper stitch.
type candidate struct {
	lo, hi stitch
	dist   float64
}

func sortCandidates(cs []candidate) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		da, db := absInt(a.hi.position-a.lo.position), absInt(b.hi.position-b.lo.position)
		if da != db {
			return da < db
		}
		if a.lo.id != b.lo.id {
			return a.lo.id < b.lo.id
		}

		return a.hi.id < b.hi.id
	})
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}

	return x
}

// matcher accepts pairs between two courses one-to-one without crossings.
type matcher struct {
	lo, hi         course
	seamLo, seamHi int
	usedLo, usedHi map[int]bool
	accepted       []candidate
}

func newMatcher(lo, hi course) *matcher {
	return &matcher{
		lo: lo, hi: hi,
		seamLo: -1, seamHi: -1,
		usedLo: make(map[int]bool),
		usedHi: make(map[int]bool),
	}
}

func (m *matcher) crosses(c candidate) bool {
	rl := m.lo.relRank(c.lo.rank, m.seamLo)
	rh := m.hi.relRank(c.hi.rank, m.seamHi)
	for _, a := range m.accepted {
		dl := rl - m.lo.relRank(a.lo.rank, m.seamLo)
		dh := rh - m.hi.relRank(a.hi.rank, m.seamHi)
		if dl*dh < 0 {
			return true
		}
	}

	return false
}

// offer accepts c when both stitches are free and it crosses nothing.
func (m *matcher) offer(c candidate) bool {
	if m.usedLo[c.lo.id] || m.usedHi[c.hi.id] || m.crosses(c) {
		return false
	}
	if len(m.accepted) == 0 {
		m.seamLo, m.seamHi = c.lo.rank, c.hi.rank
	}
	m.usedLo[c.lo.id], m.usedHi[c.hi.id] = true, true
	m.accepted = append(m.accepted, c)

	return true
}

// fan links every stitch of lo to every stitch of hi; one of the two courses
// is a single stitch.
func fan(lo, hi course) []candidate {
	out := make([]candidate, 0, len(lo.stitches)*len(hi.stitches))
	for _, a := range lo.stitches {
		for _, c := range hi.stitches {
			out = append(out, candidate{lo: a, hi: c, dist: r3.Norm(r3.Sub(c.point, a.point))})
		}
	}

	return out
}

// match returns the accepted warp pairs between lo and hi.
func (b *Builder) match(lo, hi course) []candidate {
	if len(lo.stitches) == 1 || len(hi.stitches) == 1 {
		return fan(lo, hi)
	}
	m := newMatcher(lo, hi)
	maxD := b.cfg.maxWarpDistance

	var ends []candidate
	for _, a := range lo.stitches {
		if !a.end {
			continue
		}
		for _, c := range hi.stitches {
			if !c.end {
				continue
			}
			if d := r3.Norm(r3.Sub(c.point, a.point)); d <= maxD {
				ends = append(ends, candidate{lo: a, hi: c, dist: d})
			}
		}
	}
	sortCandidates(ends)
	for _, c := range ends {
		m.offer(c)
	}

	tree := newCourseTree(hi)
	var inner []candidate
	for i, a := range lo.stitches {
		if m.usedLo[a.id] {
			continue
		}
		for _, c := range within(tree, a, maxD) {
			if m.usedHi[c.id] {
				continue
			}
			d := r3.Sub(c.point, a.point)
			if math.Max(lo.deviation(i, d), hi.deviation(c.rank, d)) > b.cfg.angleTolerance {
				continue
			}
			inner = append(inner, candidate{lo: a, hi: c, dist: r3.Norm(d)})
		}
	}
	sortCandidates(inner)
	for _, c := range inner {
		m.offer(c)
	}

	return m.accepted
}

// ConnectWarp links adjacent courses and flags unlinked stitches as leaves.
// It returns the number of warp edges created.
func (b *Builder) ConnectWarp(ctx context.Context, g *core.Graph) (int, error) {
	if g == nil {
		return 0, ErrNilGraph
	}
	courses := loadCourses(g)
	if len(courses) < 2 {
		return 0, b.flagLeaves(g)
	}

	found := make([][]candidate, len(courses)-1)
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.cfg.workers)
	for i := range found {
		i := i
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = b.match(courses[i], courses[i+1])

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, fmt.Errorf("ConnectWarp: %w", err)
	}

	n := 0
	for i, pairs := range found {
		for _, c := range pairs {
			if _, err := g.AddEdge(c.lo.id, c.hi.id, core.Warp); err != nil {
				return n, fmt.Errorf("ConnectWarp: position %d: %w", courses[i].position, err)
			}
			n++
		}
		if err := markApex(g, courses[i], courses[i+1]); err != nil {
			return n, fmt.Errorf("ConnectWarp: position %d: %w", courses[i].position, err)
		}
		b.cfg.logger.Debug("warp pair matched",
			zap.Int("lower", courses[i].position),
			zap.Int("upper", courses[i+1].position),
			zap.Int("edges", len(pairs)))
	}

	return n, b.flagLeaves(g)
}

// markApex sets the shaping flag of a one-stitch course fanned onto a wider
// neighbour.
func markApex(g *core.Graph, lo, hi course) error {
	var (
		id       int
		inc, dec bool
	)
	switch {
	case len(hi.stitches) == 1 && len(lo.stitches) > 1:
		id, dec = hi.stitches[0].id, true
	case len(lo.stitches) == 1 && len(hi.stitches) > 1:
		id, inc = lo.stitches[0].id, true
	default:
		return nil
	}
	n, err := g.Node(id)
	if err != nil {
		return err
	}

	return g.SetShaping(id, n.Increase || inc, n.Decrease || dec)
}

func (b *Builder) flagLeaves(g *core.Graph) error {
	leaves := 0
	for _, n := range g.Nodes() {
		if g.Degree(n.ID, core.Warp) > 0 {
			continue
		}
		if err := g.SetLeaf(n.ID, true); err != nil {
			return fmt.Errorf("ConnectWarp: %w", err)
		}
		leaves++
	}
	b.cfg.logger.Debug("leaves flagged", zap.Int("leaves", leaves))

	return nil
}
