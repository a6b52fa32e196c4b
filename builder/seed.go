// SPDX-License-Identifier: MIT
// Package: knitgraph/builder
//
// seed.go - Seed and ConnectWeft.
//
// Contract:
//   - Every course is sampled before any node is inserted, so an empty course
//     fails the pass with the graph untouched.
//   - Every course runs the way its predecessor does. An open course whose
//     ends sit closer to the predecessor's opposite ends is reversed; a ring
//     winding the other way is reversed about its first point.
//   - Node ids are dense from 0 in (position, rank) order.
//   - Open courses mark their first and last rank IsEnd; closed courses have
//     no ends and an extra contour link last→first.

package builder

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/geom"
)

const (
	opSeed   = "seed"
	opLeaves = "leaves"
)

type sampled struct {
	pts    []r3.Vec
	closed bool
}

// Seed samples courses into g, which must be empty. Course i becomes
// position i.
func (b *Builder) Seed(ctx context.Context, g *core.Graph, courses []geom.Polyline) error {
	if g == nil {
		return ErrNilGraph
	}
	if len(courses) == 0 {
		return ErrNoCourses
	}
	if g.NodeCount() > 0 {
		return ErrGraphNotEmpty
	}

	samples := make([]sampled, len(courses))
	for p, pl := range courses {
		if err := ctx.Err(); err != nil {
			return err
		}
		pts, closed, err := pl.Sample(b.cfg.stitchWidth, b.cfg.closureTolerance)
		switch {
		case errors.Is(err, geom.ErrEmptyPolyline):
			return &core.TopologyError{
				Op:       opSeed,
				Position: p,
				Segment:  core.NoSegment,
				Detail:   "course yields no stitches",
				Err:      core.ErrNoWeftEdges,
			}
		case err != nil:
			return fmt.Errorf("Seed: position %d: %w", p, err)
		}
		samples[p] = sampled{pts: pts, closed: closed}
	}
	for p := 1; p < len(samples); p++ {
		if align(samples[p-1], samples[p]) {
			b.cfg.logger.Debug("reversed course", zap.Int("position", p))
		}
	}

	id := 0
	for p, s := range samples {
		first := id
		for r, pt := range s.pts {
			end := !s.closed && (r == 0 || r == len(s.pts)-1)
			if err := g.AddNode(core.Node{ID: id, Point: pt, Position: p, Rank: r, IsEnd: end}); err != nil {
				return fmt.Errorf("Seed: %w", err)
			}
			if r > 0 {
				if _, err := g.AddEdge(id-1, id, core.Contour); err != nil {
					return fmt.Errorf("Seed: %w", err)
				}
			}
			id++
		}
		if s.closed {
			if _, err := g.AddEdge(id-1, first, core.Contour); err != nil {
				return fmt.Errorf("Seed: %w", err)
			}
		}
		b.cfg.logger.Debug("seeded course",
			zap.Int("position", p),
			zap.Int("stitches", len(s.pts)),
			zap.Bool("closed", s.closed))
	}

	return nil
}

// align reverses cur in place when it runs against prev.
func align(prev, cur sampled) bool {
	a, c := prev.pts, cur.pts
	if len(a) < 2 || len(c) < 2 {
		return false
	}
	switch {
	case prev.closed && cur.closed:
		if r3.Dot(geom.LoopNormal(a), geom.LoopNormal(c)) >= 0 {
			return false
		}
		slices.Reverse(c[1:])
	case !prev.closed && !cur.closed:
		dist := func(u, v r3.Vec) float64 { return r3.Norm(r3.Sub(u, v)) }
		la, lc := len(a)-1, len(c)-1
		along := dist(c[0], a[0]) + dist(c[lc], a[la])
		across := dist(c[0], a[la]) + dist(c[lc], a[0])
		if across >= along {
			return false
		}
		slices.Reverse(c)
	default:
		return false
	}

	return true
}

// ConnectWeft retags the contour links between consecutive ranks of every
// course as weft edges and returns how many it promoted. A one-stitch course
// contributes nothing.
func (b *Builder) ConnectWeft(g *core.Graph) (int, error) {
	if g == nil {
		return 0, ErrNilGraph
	}
	n := 0
	for _, p := range g.Positions() {
		ids := g.NodeIDsAt(p)
		links := make([][2]int, 0, len(ids))
		for i := 1; i < len(ids); i++ {
			links = append(links, [2]int{ids[i-1], ids[i]})
		}
		if g.CourseClosed(p) {
			links = append(links, [2]int{ids[len(ids)-1], ids[0]})
		}
		for _, l := range links {
			e, ok := g.Edge(l[0], l[1])
			if !ok || e.Kind != core.Contour {
				continue
			}
			if err := g.RetagEdge(l[0], l[1], core.Weft); err != nil {
				return n, fmt.Errorf("ConnectWeft: position %d: %w", p, err)
			}
			n++
		}
	}
	b.cfg.logger.Debug("weft connected", zap.Int("edges", n))

	return n, nil
}
