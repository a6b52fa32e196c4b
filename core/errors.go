// SPDX-License-Identifier: MIT

package core

import (
	"errors"
	"strconv"
	"strings"
)

// Topology sentinels. They are returned wrapped in *TopologyError so callers
// can branch with errors.Is and recover the implicated position with errors.As.
var (
	// ErrNoEndNodes indicates a network without any boundary/terminator node.
	ErrNoEndNodes = errors.New("core: no end nodes")

	// ErrNoWarpEdges indicates a position (or network) without warp coverage.
	ErrNoWarpEdges = errors.New("core: no warp edges")

	// ErrNoWeftEdges indicates a position (or network) without weft coverage.
	ErrNoWeftEdges = errors.New("core: no weft edges")

	// ErrTopology indicates a duality or self-consistency failure.
	ErrTopology = errors.New("core: knit network topology error")
)

// TopologyError reports a topology failure with the stage that raised it
// and the position/segment the caller should inspect. Position and Segment
// are -1 when not applicable.
type TopologyError struct {
	Op       string
	Position int
	Segment  int
	Detail   string
	Err      error
}

// NewTopologyError wraps err with op and position.
func NewTopologyError(op string, position int, err error) *TopologyError {
	return &TopologyError{Op: op, Position: position, Segment: NoSegment, Err: err}
}

// Error renders "op: position P: segment S: detail: cause".
func (e *TopologyError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Position >= 0 {
		b.WriteString(": position ")
		b.WriteString(strconv.Itoa(e.Position))
	}
	if e.Segment >= 0 {
		b.WriteString(": segment ")
		b.WriteString(strconv.Itoa(e.Segment))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap exposes the sentinel.
func (e *TopologyError) Unwrap() error { return e.Err }
