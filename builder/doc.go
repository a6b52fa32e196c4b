// Package builder turns ordered course polylines into a knit stitch graph.
//
// The Topology Builder runs as a sequence of passes over a core.Graph:
//
//  1. Seed:            sample stitches along each course, link them with contour edges.
//  2. ConnectWeft:     promote consecutive contour links to weft edges.
//  3. ConnectWarp:     link stitches of adjacent courses (k-d tree candidates,
//     parallel per course pair, ordered commit). Stitches left without a
//     warp edge are flagged IsLeaf.
//  4. ConnectLeaves:   anchor course-end overhangs and unanchored rings,
//     then check every course is reachable from the first.
//  5. ConnectFinalWarp / ConnectFinalWeft: resolve increases and decreases
//     along the chain pairs of the mapping network and stamp weft segments.
//
// Build runs passes 1-4 on a fresh graph; Finalize runs the mapping and
// pass 5. Every pass is exported so callers can time and log it.
//
// Errors:
//   - core.ErrNoWeftEdges  a course yields no stitch (wrapped in *core.TopologyError)
//   - core.ErrNoWarpEdges  a stitch or course cannot be anchored
//   - ErrNoCourses, ErrGraphNotEmpty, ErrNilGraph for misuse
//
// Determinism: identical courses and options produce identical node ids,
// edge ids and flags regardless of the worker count.
package builder
