// SPDX-License-Identifier: MIT
// Package: knitgraph/builder
//
// options.go - functional options and the resolved builderConfig.
//
// Contract:
//   - Options are functional (type Option func(*builderConfig)).
//   - Option constructors VALIDATE and PANIC on meaningless inputs.
//     Passes themselves never panic.
//   - No hidden globals; everything flows through builderConfig.
//   - MaxWarpDistance left at 0 resolves to DefaultWarpFactor × StitchWidth.

package builder

import (
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
)

// Defaults used by newBuilderConfig.
const (
	DefaultStitchWidth      = 1.0
	DefaultWarpFactor       = 2.0
	DefaultAngleTolerance   = 15 * math.Pi / 180
	DefaultRelaxFactor      = 2.0
	DefaultClosureTolerance = 1e-6
)

// Option customizes a Builder.
type Option func(*builderConfig)

type builderConfig struct {
	stitchWidth      float64
	maxWarpDistance  float64
	angleTolerance   float64 // radians, deviation from perpendicular to the course
	relaxFactor      float64
	closureTolerance float64
	workers          int
	logger           *zap.Logger
}

func newBuilderConfig(opts ...Option) builderConfig {
	cfg := builderConfig{
		stitchWidth:      DefaultStitchWidth,
		angleTolerance:   DefaultAngleTolerance,
		relaxFactor:      DefaultRelaxFactor,
		closureTolerance: DefaultClosureTolerance,
		workers:          runtime.GOMAXPROCS(0),
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxWarpDistance == 0 {
		cfg.maxWarpDistance = DefaultWarpFactor * cfg.stitchWidth
	}

	return cfg
}

func positive(name string, v float64) {
	if !(v > 0) || math.IsInf(v, 1) {
		panic(fmt.Sprintf("builder: %s(%v): must be a finite value > 0", name, v))
	}
}

// WithStitchWidth sets the target spacing of stitches along a course.
func WithStitchWidth(w float64) Option {
	positive("WithStitchWidth", w)

	return func(c *builderConfig) { c.stitchWidth = w }
}

// WithMaxWarpDistance caps the length of an initial warp edge.
func WithMaxWarpDistance(d float64) Option {
	positive("WithMaxWarpDistance", d)

	return func(c *builderConfig) { c.maxWarpDistance = d }
}

// WithAngleTolerance sets, in radians, how far an interior warp edge may
// deviate from perpendicular to its courses. Panics outside (0, π/2].
func WithAngleTolerance(rad float64) Option {
	if !(rad > 0) || rad > math.Pi/2 {
		panic(fmt.Sprintf("builder: WithAngleTolerance(%v): must be in (0, π/2]", rad))
	}

	return func(c *builderConfig) { c.angleTolerance = rad }
}

// WithRelaxFactor scales distance and angle limits for the leaf retry.
// Panics unless f ≥ 1.
func WithRelaxFactor(f float64) Option {
	if !(f >= 1) || math.IsInf(f, 1) {
		panic(fmt.Sprintf("builder: WithRelaxFactor(%v): must be ≥ 1", f))
	}

	return func(c *builderConfig) { c.relaxFactor = f }
}

// WithClosureTolerance sets the first-to-last distance under which a course
// is treated as closed.
func WithClosureTolerance(tol float64) Option {
	positive("WithClosureTolerance", tol)

	return func(c *builderConfig) { c.closureTolerance = tol }
}

// WithWorkers bounds the parallel warp candidate search. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("builder: WithWorkers(%d): must be ≥ 1", n))
	}

	return func(c *builderConfig) { c.workers = n }
}

// WithLogger sets the pass logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *builderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
