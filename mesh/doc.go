// Package mesh turns a finished stitch graph into faces, a polygon mesh and
// per-course pattern rows.
//
// Pipeline:
//
//  1. NewDirected:   split every weft and warp edge into two half-edges and
//     sort the neighbours of every stitch counter-clockwise, either in a
//     local tangent plane (ProjectLocal) or in world XY (ProjectXY).
//  2. FindCycles:    follow the leftmost turn from every half-edge. A closed
//     walk whose turning sums to +2π is a face; any other walk is a boundary
//     loop. Every half-edge ends up in exactly one cycle.
//  3. VerifyDuality: every edge must bound two faces, or one face and one
//     boundary loop, and every stitch must touch a face.
//  4. CreateMesh:    one vertex per stitch; faces of up to four stitches are
//     kept, larger ones are fanned around a centroid vertex.
//
// MakePatternData reads the graph directly and lists, per course, the stitch
// operations a knitting machine needs: plain, increase or decrease.
//
// Errors:
//   - core.ErrTopology  duality failure (wrapped in *core.TopologyError)
//   - core.ErrNoWeftEdges  nothing to walk
//   - ErrNilGraph, ErrNotWalked, ErrEmptyGraph for misuse
//
// Determinism: half-edges are visited in (from, to) order and cycles are
// rotated to start at their smallest stitch id, so face ids do not depend on
// the worker count.
package mesh
