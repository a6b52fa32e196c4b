// SPDX-License-Identifier: MIT
// Package: knitgraph/mesh
//
// cycles.go - leftmost-turn face discovery.
//
// Contract:
//   - The walk successor and the turning angle of every half-edge are
//     computed in parallel over the read-only rings.
//   - Cycles are then collected sequentially from unvisited half-edges in
//     (from, to) order, so every half-edge belongs to exactly one cycle.
//   - A cycle of at least three stitches whose turning rounds to +2π is a
//     face; face ids are dense in discovery order.

package mesh

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/knitgraph/dfs"
)

// NoFace is the ID of a boundary loop.
const NoFace = -1

const minFaceSize = 3

// Cycle is a closed leftmost-turn walk.
type Cycle struct {
	// ID is the face id, or NoFace for a boundary loop.
	ID int
	// Nodes is the walk, rotated to its lexicographically smallest rotation.
	Nodes []int
	// Turning is the sum of signed turning angles along the walk.
	Turning float64
}

// IsFace reports whether c is a face.
func (c Cycle) IsFace() bool { return c.ID != NoFace }

// FindCycles walks every half-edge once and returns all cycles, faces and
// boundary loops, in discovery order. Calling it again recomputes the result.
func (d *Directed) FindCycles(ctx context.Context) ([]Cycle, error) {
	m := len(d.half)
	next := make([]int, m)
	turns := make([]float64, m)

	chunk := (m + d.cfg.workers - 1) / d.cfg.workers
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.cfg.workers)
	for lo := 0; lo < m; lo += chunk {
		lo := lo
		hi := min(lo+chunk, m)
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				h := d.half[i]
				nx := d.next(h)
				next[i] = d.index[nx]
				turns[i] = d.turn(h.from, h.to, nx.to)
			}

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("FindCycles: %w", err)
	}

	owner := make([]int, m)
	for i := range owner {
		owner[i] = -1
	}
	var cycles []Cycle
	faces := 0
	for i := range d.half {
		if owner[i] >= 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("FindCycles: %w", err)
		}
		c := Cycle{ID: NoFace}
		for j := i; owner[j] < 0; j = next[j] {
			owner[j] = len(cycles)
			c.Nodes = append(c.Nodes, d.half[j].from)
			c.Turning += turns[j]
		}
		c.Nodes = dfs.MinimalRotation(c.Nodes)
		if len(c.Nodes) >= minFaceSize && math.Round(c.Turning/(2*math.Pi)) == 1 {
			c.ID = faces
			faces++
		}
		cycles = append(cycles, c)
	}

	d.cycles, d.owner = cycles, owner
	d.cfg.logger.Debug("cycles found",
		zap.Int("faces", faces),
		zap.Int("boundaries", len(cycles)-faces))

	return append([]Cycle(nil), cycles...), nil
}

// Faces returns the face cycles in id order.
//
// Errors: ErrNotWalked.
func (d *Directed) Faces() ([]Cycle, error) {
	if d.cycles == nil {
		return nil, ErrNotWalked
	}
	var out []Cycle
	for _, c := range d.cycles {
		if c.IsFace() {
			out = append(out, c)
		}
	}

	return out, nil
}

// FaceOf returns the face id on the left of the half-edge from→to, NoFace for
// a boundary loop. ok is false when the half-edge does not exist or cycles
// have not been found.
func (d *Directed) FaceOf(from, to int) (id int, ok bool) {
	i, exists := d.index[halfEdge{from, to}]
	if !exists || d.owner == nil {
		return NoFace, false
	}

	return d.cycles[d.owner[i]].ID, true
}

// Turning recomputes the turning sum of c from the node coordinates. For a
// cycle returned by FindCycles it equals c.Turning; faces give +2π.
func (d *Directed) Turning(c Cycle) float64 {
	n := len(c.Nodes)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += d.turn(c.Nodes[i], c.Nodes[(i+1)%n], c.Nodes[(i+2)%n])
	}

	return sum
}
