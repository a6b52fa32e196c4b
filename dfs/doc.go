// Package dfs implements depth-first search over an integer-id Graph, plus
// Booth's minimal rotation for canonical cycles.
//
// What:
//
//   - DFS walks from a start vertex as far as possible along each branch
//     before backtracking, in ascending successor order.
//   - WithOnVisit installs a pre-order hook; returning ErrStop ends the walk
//     cleanly with the partial result, any other error aborts it.
//   - WithContext makes the walk cancellable.
//   - MinimalRotation returns the lexicographically smallest rotation of a
//     sequence.
//
// Why:
//
//   - Walk weft segment chains on the mapping network until a warp anchor.
//   - Give every face cycle one canonical starting stitch.
//
// Key Types:
//
//   - Graph: NodeIDs / HasNode / Successors, all ascending
//   - Option: functional options for DFS behavior
//   - Result: Preorder, Parent, Visited; PathTo(dest)
//
// Complexity:
//
//   - DFS:             Time O(V+E), Memory O(V)
//   - MinimalRotation: Time O(L), Memory O(L)
//
// Errors:
//
//   - ErrGraphNil, ErrStartVertexNotFound, ErrStop (never returned by DFS),
//     ctx.Err() and hook errors wrapped with the vertex id.
package dfs
