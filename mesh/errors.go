package mesh

import "errors"

var (
	// ErrNilGraph is returned when a nil graph is passed in.
	ErrNilGraph = errors.New("mesh: graph is nil")

	// ErrEmptyGraph is returned when the graph holds no stitch.
	ErrEmptyGraph = errors.New("mesh: graph has no nodes")

	// ErrNotWalked is returned when an operation needs FindCycles to have run.
	ErrNotWalked = errors.New("mesh: cycles have not been found")
)
