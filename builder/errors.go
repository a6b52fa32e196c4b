// SPDX-License-Identifier: MIT
// Package: knitgraph/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   - Topology failures reuse the core sentinels (ErrNoWeftEdges,
//     ErrNoWarpEdges, ...) wrapped in *core.TopologyError with the position.
//   - Sentinels below cover builder misuse only.
//   - Algorithms never panic; validation panics are confined to the WithX
//     option constructors.

package builder

import "errors"

// ErrNoCourses indicates Build or Seed was called without any course.
var ErrNoCourses = errors.New("builder: no courses")

// ErrGraphNotEmpty indicates Seed was given a graph that already holds nodes.
var ErrGraphNotEmpty = errors.New("builder: graph is not empty")

// ErrNilGraph indicates a pass was called with a nil graph.
var ErrNilGraph = errors.New("builder: graph is nil")
