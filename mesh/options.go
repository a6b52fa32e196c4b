// SPDX-License-Identifier: MIT
// Package: knitgraph/mesh
//
// options.go - projection modes and functional options.

package mesh

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Projection selects the plane in which neighbours are sorted.
type Projection uint8

const (
	// ProjectLocal sorts in the plane normal to weft tangent × warp up at
	// each stitch, falling back to world XY where that normal vanishes.
	ProjectLocal Projection = iota
	// ProjectXY sorts in the world XY plane.
	ProjectXY
)

var projectionNames = [...]string{"local", "xy"}

// String returns "local" or "xy".
func (p Projection) String() string {
	if int(p) < len(projectionNames) {
		return projectionNames[p]
	}

	return "invalid"
}

// ParseProjection maps "local" or "xy" back to a Projection.
func ParseProjection(s string) (Projection, error) {
	for i, name := range projectionNames {
		if name == s {
			return Projection(i), nil
		}
	}

	return 0, fmt.Errorf("mesh: unknown projection %q", s)
}

// Option customizes NewDirected.
type Option func(*meshConfig)

type meshConfig struct {
	projection Projection
	workers    int
	logger     *zap.Logger
}

func newMeshConfig(opts ...Option) meshConfig {
	cfg := meshConfig{
		projection: ProjectLocal,
		workers:    runtime.GOMAXPROCS(0),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithProjection selects the neighbour sorting plane. Panics on an unknown mode.
func WithProjection(p Projection) Option {
	if int(p) >= len(projectionNames) {
		panic(fmt.Sprintf("mesh: WithProjection(%d): unknown projection", p))
	}

	return func(c *meshConfig) { c.projection = p }
}

// WithWorkers bounds the goroutines used by FindCycles. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("mesh: WithWorkers(%d): must be ≥ 1", n))
	}

	return func(c *meshConfig) { c.workers = n }
}

// WithLogger routes debug output to l. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *meshConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
