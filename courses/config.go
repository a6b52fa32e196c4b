// SPDX-License-Identifier: MIT
// Package: knitgraph/courses
//
// config.go - resolved generator configuration and functional options.
//
// Option constructors validate eagerly and panic on invalid values; generators
// never panic at runtime.

package courses

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/knitgraph/geom"
)

const (
	defaultWidth  = 1.0
	defaultHeight = 1.0
)

// Option customizes a generator run.
type Option func(*coursesConfig)

// Generator produces courses from a resolved configuration.
type Generator func(cfg coursesConfig) ([]geom.Polyline, error)

type coursesConfig struct {
	width, height float64
	origin        r3.Vec
	noiseSigma    float64
	rng           *rand.Rand
}

func newCoursesConfig(opts ...Option) coursesConfig {
	cfg := coursesConfig{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// Generate runs gen with the given options.
func Generate(gen Generator, opts ...Option) ([]geom.Polyline, error) {
	cfg := newCoursesConfig(opts...)
	if cfg.noiseSigma > 0 && cfg.rng == nil {
		return nil, ErrNeedRandSource
	}

	return gen(cfg)
}

// WithSpacing sets the stitch width and course height. Panics unless both are > 0.
func WithSpacing(width, height float64) Option {
	if !(width > 0) || !(height > 0) {
		panic(fmt.Sprintf("courses: WithSpacing(%v, %v): both must be > 0", width, height))
	}

	return func(c *coursesConfig) {
		c.width, c.height = width, height
	}
}

// WithOrigin translates every generated point by p.
func WithOrigin(p r3.Vec) Option {
	return func(c *coursesConfig) {
		c.origin = p
	}
}

// WithNoise adds N(0, sigma²) offsets along the height axis. Panics if sigma < 0.
func WithNoise(sigma float64) Option {
	if sigma < 0 {
		panic(fmt.Sprintf("courses: WithNoise(%v): sigma must be ≥ 0", sigma))
	}

	return func(c *coursesConfig) {
		c.noiseSigma = sigma
	}
}

// WithRand sets the RNG used for noise. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("courses: WithRand(nil)")
	}

	return func(c *coursesConfig) {
		c.rng = r
	}
}

// WithSeed creates a deterministic RNG from seed.
func WithSeed(seed int64) Option {
	return func(c *coursesConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// point places (x, y, z) relative to the origin, adding noise to the axis
// selected by up (1 = Y, 2 = Z).
func (c coursesConfig) point(x, y, z float64, up int) r3.Vec {
	if c.noiseSigma > 0 {
		d := c.rng.NormFloat64() * c.noiseSigma
		if up == 2 {
			z += d
		} else {
			y += d
		}
	}

	return r3.Add(c.origin, r3.Vec{X: x, Y: y, Z: z})
}
