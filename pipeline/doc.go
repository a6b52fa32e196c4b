// Package pipeline runs the whole knit-topology engine as a sequence of
// timed stages: seed, weft, warp, leaves, segment, chains, final_warp,
// final_weft, cycles, duality, mesh and pattern.
//
// Every stage is a total barrier. The context is checked before each stage
// and inside the stages that walk the graph; the first error aborts the run
// and no partial Result is returned. Each run carries a random run id that is
// attached to every log line it emits.
package pipeline
