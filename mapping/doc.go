// Package mapping derives the segment structure of a stitch graph and the
// mapping network built on top of it.
//
// Segment partitions weft and warp edges into maximal runs between
// terminator stitches and stamps the segment ids on the graph. NewNetwork
// contracts each weft segment into one arc between its endpoints and keeps
// every warp edge as an arc from the lower to the upper course. BuildChains
// then pairs, for every warp arc, the weft run below and the weft run above
// that close on a second warp arc: the regions where the final warp pass
// resolves increases and decreases.
//
// Traversals reuse the dfs walker through the Network's dfs.Graph adapter.
package mapping
