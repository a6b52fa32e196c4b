// SPDX-License-Identifier: MIT
// Package: knitgraph/mesh
//
// duality.go - self-consistency of the discovered faces.

package mesh

import (
	"fmt"

	"github.com/katalvlaran/knitgraph/core"
)

const opDuality = "duality"

// VerifyDuality checks the faces found by FindCycles:
//   - at least one face exists;
//   - every weft and warp edge bounds two distinct faces, or one face and a
//     boundary loop;
//   - every stitch lies on a face.
//
// Failures are *core.TopologyError wrapping core.ErrTopology and carry the
// position of the offending stitch.
//
// Errors: ErrNotWalked when FindCycles has not run.
func (d *Directed) VerifyDuality() error {
	if d.cycles == nil {
		return ErrNotWalked
	}
	covered := make(map[int]bool, len(d.ids))
	faces := 0
	for _, c := range d.cycles {
		if !c.IsFace() {
			continue
		}
		faces++
		for _, id := range c.Nodes {
			covered[id] = true
		}
	}
	if faces == 0 {
		return &core.TopologyError{Op: opDuality, Position: -1, Segment: core.NoSegment,
			Detail: "no faces found", Err: core.ErrTopology}
	}

	for i, h := range d.half {
		if h.from > h.to {
			continue
		}
		left := d.cycles[d.owner[i]].ID
		right := d.cycles[d.owner[d.index[halfEdge{h.to, h.from}]]].ID
		var detail string
		switch {
		case left == NoFace && right == NoFace:
			detail = fmt.Sprintf("edge %d-%d bounds no face", h.from, h.to)
		case left == right:
			detail = fmt.Sprintf("edge %d-%d bounds face %d on both sides", h.from, h.to, left)
		default:
			continue
		}

		return &core.TopologyError{Op: opDuality, Position: d.nodes[h.from].Position,
			Segment: core.NoSegment, Detail: detail, Err: core.ErrTopology}
	}

	for _, id := range d.ids {
		if !covered[id] {
			return &core.TopologyError{Op: opDuality, Position: d.nodes[id].Position, Segment: core.NoSegment,
				Detail: fmt.Sprintf("stitch %d lies on no face", id), Err: core.ErrTopology}
		}
	}

	return nil
}
