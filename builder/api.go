// SPDX-License-Identifier: MIT
// Package: knitgraph/builder
//
// api.go - Builder, Build and Finalize.
//
// Contract:
//   - New resolves options once into an immutable builderConfig.
//   - Build creates a graph and runs Seed, ConnectWeft, ConnectWarp and
//     ConnectLeaves in order; the first error aborts and no graph is returned.
//   - Finalize segments the graph, builds the mapping network and runs the
//     final warp and weft passes.

package builder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/geom"
	"github.com/katalvlaran/knitgraph/mapping"
)

// Builder runs the topology passes with a fixed configuration.
// A Builder is safe for concurrent use on distinct graphs.
type Builder struct {
	cfg builderConfig
}

// New returns a Builder configured by opts.
func New(opts ...Option) *Builder {
	return &Builder{cfg: newBuilderConfig(opts...)}
}

// StitchWidth returns the resolved stitch width.
func (b *Builder) StitchWidth() float64 { return b.cfg.stitchWidth }

// MaxWarpDistance returns the resolved initial warp distance limit.
func (b *Builder) MaxWarpDistance() float64 { return b.cfg.maxWarpDistance }

// Build seeds courses into a new graph and connects weft, warp and leaves.
func Build(ctx context.Context, courses []geom.Polyline, opts ...Option) (*core.Graph, error) {
	return New(opts...).Build(ctx, courses)
}

// Build is the method form of the package-level Build.
func (b *Builder) Build(ctx context.Context, courses []geom.Polyline) (*core.Graph, error) {
	g := core.NewGraph()
	if err := b.Seed(ctx, g, courses); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	if _, err := b.ConnectWeft(g); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	if _, err := b.ConnectWarp(ctx, g); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}
	if _, err := b.ConnectLeaves(ctx, g); err != nil {
		return nil, fmt.Errorf("Build: %w", err)
	}

	return g, nil
}

// Finalize resolves shaping on a built graph and returns the number of fan
// connections added by the final warp pass.
func (b *Builder) Finalize(ctx context.Context, g *core.Graph) (int, error) {
	seg, err := mapping.Segment(g)
	if err != nil {
		return 0, fmt.Errorf("Finalize: %w", err)
	}
	net, err := mapping.NewNetwork(g, seg)
	if err != nil {
		return 0, fmt.Errorf("Finalize: %w", err)
	}
	chains, err := net.BuildChains(ctx)
	if err != nil {
		return 0, fmt.Errorf("Finalize: %w", err)
	}
	fans, err := b.ConnectFinalWarp(g, chains)
	if err != nil {
		return 0, fmt.Errorf("Finalize: %w", err)
	}

	// new warp edges move the terminators
	if seg, err = mapping.Segment(g); err != nil {
		return 0, fmt.Errorf("Finalize: %w", err)
	}
	if net, err = mapping.NewNetwork(g, seg); err != nil {
		return 0, fmt.Errorf("Finalize: %w", err)
	}
	if _, err = b.ConnectFinalWeft(g, net); err != nil {
		return 0, fmt.Errorf("Finalize: %w", err)
	}
	b.cfg.logger.Debug("finalized",
		zap.Int("chains", len(chains)),
		zap.Int("fans", fans),
		zap.Int("segments", seg.Count()))

	return fans, nil
}
