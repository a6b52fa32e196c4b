// Package core provides the thread-safe in-memory stitch graph that every
// other knitgraph package reads and mutates.
//
// The Graph G = (N,E) holds stitch nodes and three kinds of undirected edges:
//
//   - Weft    – links horizontally adjacent stitches of the same course.
//   - Warp    – links stitches across courses (the structural loop, a wale).
//   - Contour – auxiliary link between consecutive samples of a course curve;
//     not a stitch relation, it is promoted to Weft by the builder.
//
// A node pair carries at most one edge. Re-inserting the same (a,b,kind) is a
// no-op; inserting a different kind over an existing pair is rejected with
// ErrConflictingEdge.
//
// Indexes kept incrementally on every mutation:
//
//	byPosition  ordered (position, rank, id) b-tree → NodesAt is O(log N + k)
//	incident    node → neighbour → *Edge          → IncidentEdges is O(deg)
//	bySegment   segment → node set                → NodesInSegment is O(k log k)
//	ends/leaves flag sets                         → Ends/Leaves are O(k log k)
//
// Determinism:
//
//	Nodes(), Edges(), NodesAt(), Neighbors() all return results in a fixed
//	order (node id, edge id, rank) so repeated runs on the same input produce
//	identical output.
//
// Concurrency:
//
//	A single sync.RWMutex guards all state. Readers may run in parallel, which
//	is what the builder relies on during candidate search; writers are
//	serialised.
//
// Errors:
//
//	ErrDuplicateNode   – AddNode with an existing id.
//	ErrUnknownNode     – an operation referenced a missing node.
//	ErrConflictingEdge – AddEdge over a pair that already has another kind.
//	ErrNoEndNodes, ErrNoWarpEdges, ErrNoWeftEdges, ErrTopology – topology
//	failures, usually wrapped in *TopologyError with the offending position.
package core
