// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"sync"

	"github.com/tidwall/btree"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sentinel errors for store operations.
var (
	// ErrBadNodeID indicates a negative node id.
	ErrBadNodeID = errors.New("core: node id must be non-negative")

	// ErrDuplicateNode indicates AddNode was called with an id already present.
	ErrDuplicateNode = errors.New("core: duplicate node")

	// ErrUnknownNode indicates an operation referenced a non-existent node.
	ErrUnknownNode = errors.New("core: unknown node")

	// ErrConflictingEdge indicates an edge of another kind already links the pair.
	ErrConflictingEdge = errors.New("core: conflicting edge kind")

	// ErrLoopNotAllowed indicates an edge from a node to itself.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrEdgeNotFound indicates an operation referenced a missing edge.
	ErrEdgeNotFound = errors.New("core: edge not found")

	// ErrBadKind indicates an edge kind outside Weft/Warp/Contour, or an
	// illegal retag.
	ErrBadKind = errors.New("core: bad edge kind")
)

// NoSegment marks a node or edge that has not been assigned to a segment.
const NoSegment = -1

// EdgeKind tags an edge with its stitch relation.
type EdgeKind uint8

const (
	// Weft links horizontally adjacent stitches within one course.
	Weft EdgeKind = iota
	// Warp links stitches of different courses.
	Warp
	// Contour links consecutive samples of a course curve.
	Contour

	numKinds
)

var kindNames = [numKinds]string{"weft", "warp", "contour"}

// String returns the lowercase kind name.
func (k EdgeKind) String() string {
	if k >= numKinds {
		return "invalid"
	}

	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k EdgeKind) Valid() bool { return k < numKinds }

// ParseEdgeKind maps a kind name back to its EdgeKind.
func ParseEdgeKind(s string) (EdgeKind, error) {
	for i, name := range kindNames {
		if name == s {
			return EdgeKind(i), nil
		}
	}

	return 0, ErrBadKind
}

// Node is a single stitch.
//
// ID, Point and Position are fixed at insertion. Rank orders the node along
// its course. The flags and Segment are mutated by later passes through the
// Graph setters only.
type Node struct {
	ID       int
	Point    r3.Vec
	Position int
	Rank     int

	// IsEnd marks a boundary stitch of an open course.
	IsEnd bool
	// IsLeaf marks a stitch that found no warp partner in the initial pass.
	IsLeaf bool
	// Increase and Decrease are shaping marks set by the final warp pass.
	Increase bool
	Decrease bool

	// Segment is the weft segment whose interior holds this node, or NoSegment.
	Segment int

	// Tags is a free-form extension map for collaborator hints (color, export
	// layer, ...). The engine never reads it.
	Tags map[string]string
}

// Edge is an undirected relation between two nodes, stored with From < To.
type Edge struct {
	ID      int
	From    int
	To      int
	Kind    EdgeKind
	Segment int
}

// Other returns the endpoint of e that is not id.
func (e Edge) Other(id int) int {
	if e.From == id {
		return e.To
	}

	return e.From
}

// Has reports whether id is an endpoint of e.
func (e Edge) Has(id int) bool { return e.From == id || e.To == id }

// posKey orders nodes inside the position index.
type posKey struct {
	position int
	rank     int
	id       int
}

func lessPosKey(a, b posKey) bool {
	if a.position != b.position {
		return a.position < b.position
	}
	if a.rank != b.rank {
		return a.rank < b.rank
	}

	return a.id < b.id
}

// pairKey is the canonical (lo, hi) key of an undirected node pair.
type pairKey struct {
	lo, hi int
}

func makePair(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}

	return pairKey{lo: a, hi: b}
}

// Graph is the stitch graph store.
//
// mu guards every field. nextEdgeID is the insertion sequence used for Edge.ID.
type Graph struct {
	mu sync.RWMutex

	nodes      map[int]*Node
	edges      map[pairKey]*Edge
	nextEdgeID int

	// incident[node][neighbour] = edge
	incident map[int]map[int]*Edge

	byPosition *btree.BTreeG[posKey]
	positions  map[int]int // position → node count

	bySegment map[int]map[int]struct{}
	ends      map[int]struct{}
	leaves    map[int]struct{}
}

// NewGraph creates an empty stitch graph.
// Complexity: O(1).
func NewGraph() *Graph {
	return &Graph{
		nodes:      make(map[int]*Node),
		edges:      make(map[pairKey]*Edge),
		incident:   make(map[int]map[int]*Edge),
		byPosition: btree.NewBTreeG[posKey](lessPosKey),
		positions:  make(map[int]int),
		bySegment:  make(map[int]map[int]struct{}),
		ends:       make(map[int]struct{}),
		leaves:     make(map[int]struct{}),
	}
}
