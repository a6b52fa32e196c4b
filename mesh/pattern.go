// SPDX-License-Identifier: MIT
// Package: knitgraph/mesh
//
// pattern.go - per-course stitch operations.
//
// Rules, for a stitch s at position p:
//   - two or more warp links to lower courses: Decrease;
//   - no lower warp link and p above the first position: Increase;
//   - a single lower partner that feeds several stitches of p: the first of
//     them in rank order is Plain, the others Increase;
//   - otherwise Plain.
//
// MergeCreases cancels adjacent increase and decrease pairs. Consolidate
// aligns the rows on a column grid, padding with Gap cells.

package mesh

import (
	"fmt"

	"github.com/katalvlaran/knitgraph/core"
)

// StitchOp is a machine operation for one stitch.
type StitchOp uint8

const (
	// Plain knits one loop through one loop.
	Plain StitchOp = iota
	// Increase adds a loop.
	Increase
	// Decrease merges loops.
	Decrease
)

var opNames = [...]string{"plain", "increase", "decrease"}

// String returns the lowercase operation name.
func (o StitchOp) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}

	return "invalid"
}

// Symbol returns the one-letter chart symbol: '.', '+' or '-'.
func (o StitchOp) Symbol() byte {
	switch o {
	case Increase:
		return '+'
	case Decrease:
		return '-'
	}

	return '.'
}

// Stitch is one cell of a pattern row.
type Stitch struct {
	Node int
	Op   StitchOp
}

// PatternRow is one course in rank order.
type PatternRow struct {
	Position int
	Stitches []Stitch
}

// Count returns how many stitches of the row carry op.
func (r PatternRow) Count(op StitchOp) int {
	n := 0
	for _, s := range r.Stitches {
		if s.Op == op && s.Node != Gap {
			n++
		}
	}

	return n
}

// MakePatternData linearizes g into one row per position, ascending.
//
// Errors: ErrNilGraph, ErrEmptyGraph.
func MakePatternData(g *core.Graph) ([]PatternRow, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	positions := g.Positions()
	if len(positions) == 0 {
		return nil, ErrEmptyGraph
	}

	warps := func(id int) (lower, upper []core.Node, err error) {
		n, err := g.Node(id)
		if err != nil {
			return nil, nil, err
		}
		nbs, err := g.Neighbors(id, core.Warp)
		if err != nil {
			return nil, nil, err
		}
		for _, nb := range nbs {
			o, err := g.Node(nb)
			if err != nil {
				return nil, nil, err
			}
			if o.Position < n.Position {
				lower = append(lower, o)
			} else if o.Position > n.Position {
				upper = append(upper, o)
			}
		}

		return lower, upper, nil
	}

	rows := make([]PatternRow, 0, len(positions))
	for _, p := range positions {
		row := PatternRow{Position: p}
		for _, n := range g.NodesAt(p) {
			lower, _, err := warps(n.ID)
			if err != nil {
				return nil, fmt.Errorf("MakePatternData: %w", err)
			}
			op := Plain
			switch {
			case len(lower) >= 2:
				op = Decrease
			case len(lower) == 0 && p != positions[0]:
				op = Increase
			case len(lower) == 1:
				_, siblings, err := warps(lower[0].ID)
				if err != nil {
					return nil, fmt.Errorf("MakePatternData: %w", err)
				}
				if first, ok := firstAt(siblings, p); ok && first != n.ID {
					op = Increase
				}
			}
			row.Stitches = append(row.Stitches, Stitch{Node: n.ID, Op: op})
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// firstAt returns the lowest-ranked node of nodes at position p.
func firstAt(nodes []core.Node, p int) (int, bool) {
	best, found := core.Node{}, false
	for _, n := range nodes {
		if n.Position != p {
			continue
		}
		if !found || n.Rank < best.Rank || (n.Rank == best.Rank && n.ID < best.ID) {
			best, found = n, true
		}
	}

	return best.ID, found
}

// Gap marks an empty cell of a consolidated row.
const Gap = -1

// Consolidate lays rows out on a shared column grid. Every stitch is pulled
// to the leftmost column of its lower warp partners, without passing the
// stitch before it; stitches with no lower partner follow their left
// neighbour. Empty cells hold a Gap stitch and every row is padded to the
// same width. rows must come from MakePatternData(g).
//
// Errors: ErrNilGraph, ErrEmptyGraph.
func Consolidate(g *core.Graph, rows []PatternRow) ([]PatternRow, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if len(rows) == 0 {
		return nil, ErrEmptyGraph
	}

	col := make(map[int]int)
	width := 0
	for _, r := range rows {
		next := 0
		for _, s := range r.Stitches {
			n, err := g.Node(s.Node)
			if err != nil {
				return nil, fmt.Errorf("Consolidate: %w", err)
			}
			nbs, err := g.Neighbors(s.Node, core.Warp)
			if err != nil {
				return nil, fmt.Errorf("Consolidate: %w", err)
			}
			want, found := 0, false
			for _, nb := range nbs {
				c, ok := col[nb]
				if !ok {
					continue
				}
				o, err := g.Node(nb)
				if err != nil {
					return nil, fmt.Errorf("Consolidate: %w", err)
				}
				if o.Position < n.Position && (!found || c < want) {
					want, found = c, true
				}
			}
			want = max(want, next)
			col[s.Node] = want
			next = want + 1
		}
		width = max(width, next)
	}

	out := make([]PatternRow, len(rows))
	for i, r := range rows {
		cells := make([]Stitch, width)
		for j := range cells {
			cells[j] = Stitch{Node: Gap}
		}
		for _, s := range r.Stitches {
			cells[col[s.Node]] = s
		}
		out[i] = PatternRow{Position: r.Position, Stitches: cells}
	}

	return out, nil
}

// Len returns the number of stitches in the row, gaps excluded.
func (r PatternRow) Len() int {
	n := 0
	for _, s := range r.Stitches {
		if s.Node != Gap {
			n++
		}
	}

	return n
}

// MergeCreases replaces every increase that sits right beside a decrease in
// the same row with one plain stitch, keeping the node of the left one. The
// two cancel out on the machine. Gaps are never merged. rows is not
// modified.
func MergeCreases(rows []PatternRow) []PatternRow {
	out := make([]PatternRow, len(rows))
	for i, r := range rows {
		merged := make([]Stitch, 0, len(r.Stitches))
		for j := 0; j < len(r.Stitches); j++ {
			s := r.Stitches[j]
			if j+1 < len(r.Stitches) && creasePair(s, r.Stitches[j+1]) {
				merged = append(merged, Stitch{Node: s.Node, Op: Plain})
				j++
				continue
			}
			merged = append(merged, s)
		}
		out[i] = PatternRow{Position: r.Position, Stitches: merged}
	}

	return out
}

func creasePair(a, b Stitch) bool {
	if a.Node == Gap || b.Node == Gap {
		return false
	}

	return (a.Op == Increase && b.Op == Decrease) || (a.Op == Decrease && b.Op == Increase)
}
