// Package bfs provides multi-source breadth-first search over an integer-id
// Graph, returning hop distances and visit order.
//
// What
//
//   - Explore stitches in non-decreasing hop count from a set of sources.
//   - Result holds the visit Order and the Depth of every reached stitch.
//   - The walk stops with ctx.Err() once the context is cancelled.
//
// Why
//
//   - Check that every course of a stitch graph is reachable over weft and
//     warp edges from the first course.
//
// Determinism
//
//	Sources are deduplicated and sorted, and Graph.Successors is sorted
//	ascending, so the visit sequence is fully reproducible.
//
// Complexity
//
//	Time O(V + E), memory O(V).
package bfs
