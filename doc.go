// Package knitgraph turns ordered course polylines into a knit stitch graph,
// finds the stitch loops of that graph and emits a polygon mesh and a
// per-course stitch pattern.
//
// 🚀 What is knitgraph?
//
//	A deterministic, context-aware engine that brings together:
//		• Seeding: sample each course into stitches at a fixed width
//		• Topology: weft links along courses, warp links between them
//		• Shaping: increase and decrease fans between courses of unequal size
//		• Faces: leftmost-turn cycle walks checked for duality
//		• Output: polygon mesh, pattern rows, OBJ/DOT/YAML/TSV dumps
//
// Packages:
//
//	core/          - stitch graph store: nodes, typed edges, positions, segments
//	geom/          - polylines, planes, triangle meshes, geodesic course slicing
//	courses/       - strip, taper and tube course generators
//	builder/       - seed, weft, warp, leaf and final shaping passes
//	mapping/       - weft/warp segmentation and the mapping network
//	mesh/          - directed network, cycles, duality, mesh and pattern
//	diag/          - summaries, attribute tables and exchange formats
//	bfs/ dfs/      - traversals used by the leaf check and the chain walks
//	dijkstra/      - shortest paths behind the geodesic field and leaf fallback
//	config/        - viper/YAML configuration
//	observability/ - zap logger and prometheus metrics
//	pipeline/      - timed stage orchestration
//	cmd/knitgraph/ - command line
//
// Quick ASCII example, two courses of three stitches:
//
//	3───4───5     ─ weft
//	│   │   │     │ warp
//	0───1───2
//
// gives two quad faces [0 1 4 3] and [1 2 5 4] and a plain pattern.
//
//	go install github.com/katalvlaran/knitgraph/cmd/knitgraph@latest
//	knitgraph demo taper --counts 6,3 --summary
package knitgraph
