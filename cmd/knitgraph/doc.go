// Command knitgraph builds knit stitch graphs from course polylines and
// writes their mesh, pattern chart and diagnostic dumps.
//
// Usage:
//
//	knitgraph run --input courses.yaml [--obj mesh.obj] [--dot graph.dot]
//	knitgraph demo taper --counts 6,3 --summary
//	knitgraph version
//
// Settings come from --config (YAML), KNITGRAPH_* environment variables and
// flags, in increasing priority.
package main
