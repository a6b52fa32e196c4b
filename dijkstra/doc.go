// Package dijkstra computes multi-source shortest distances on graphs with
// non-negative float weights.
//
// What
//
//   - Every vertex gets the length of the shortest arc path to the nearest
//     of the given sources, +Inf when none reaches it.
//   - AdjacencyList is a ready-made Graph for undirected weighted edges.
//
// Why
//
//   - Geodesic scalar fields over triangle meshes, whose isocurves become
//     courses.
//   - Picking the end stitch nearest to a leaf along the fabric rather than
//     through the air.
//
// Determinism
//
//	The heap breaks distance ties on the smaller vertex index.
//
// Complexity
//
//	Time O((V + E) log V), memory O(V + E).
//
// Errors (sentinel): ErrNoSource, ErrNilGraph, ErrVertexNotFound,
// ErrNegativeWeight.
package dijkstra
