package pipeline

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/knitgraph/builder"
	"github.com/katalvlaran/knitgraph/config"
	"github.com/katalvlaran/knitgraph/mesh"
	"github.com/katalvlaran/knitgraph/observability"
)

// Option customizes Run.
type Option func(*runConfig)

type runConfig struct {
	builderOpts []builder.Option
	meshOpts    []mesh.Option
	logger      *zap.Logger
	metrics     *observability.Metrics
	skipDuality bool
	consolidate bool
	mergeCrease bool
}

func newRunConfig(opts ...Option) runConfig {
	cfg := runConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithBuilderOptions appends options for the topology builder.
func WithBuilderOptions(opts ...builder.Option) Option {
	return func(c *runConfig) { c.builderOpts = append(c.builderOpts, opts...) }
}

// WithMeshOptions appends options for the directed network.
func WithMeshOptions(opts ...mesh.Option) Option {
	return func(c *runConfig) { c.meshOpts = append(c.meshOpts, opts...) }
}

// WithLogger routes stage logs to l. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records stage timings and graph sizes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *runConfig) { c.metrics = m }
}

// WithoutDuality skips the duality stage.
func WithoutDuality() Option {
	return func(c *runConfig) { c.skipDuality = true }
}

// WithConsolidatedPattern aligns the pattern rows on a column grid with
// mesh.Consolidate.
func WithConsolidatedPattern() Option {
	return func(c *runConfig) { c.consolidate = true }
}

// WithMergedCreases cancels adjacent increase and decrease pairs in the
// pattern with mesh.MergeCreases.
func WithMergedCreases() Option {
	return func(c *runConfig) { c.mergeCrease = true }
}

// FromConfig translates the builder and mesh sections of cfg into options.
// Zero values keep the package defaults. cfg is validated first, so an
// invalid value is returned as a config.ErrInvalid error.
func FromConfig(cfg config.Config) ([]Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("FromConfig: %w", err)
	}
	b := cfg.Builder
	bopts := []builder.Option{
		builder.WithStitchWidth(b.StitchWidth),
		builder.WithAngleTolerance(b.AngleToleranceDeg / 180 * math.Pi),
		builder.WithRelaxFactor(b.RelaxFactor),
		builder.WithClosureTolerance(b.ClosureTolerance),
	}
	if b.MaxWarpDistance > 0 {
		bopts = append(bopts, builder.WithMaxWarpDistance(b.MaxWarpDistance))
	}
	if b.Workers > 0 {
		bopts = append(bopts, builder.WithWorkers(b.Workers))
	}

	proj, err := mesh.ParseProjection(cfg.Mesh.Projection)
	if err != nil {
		return nil, fmt.Errorf("FromConfig: %w", err)
	}
	mopts := []mesh.Option{mesh.WithProjection(proj)}
	if cfg.Mesh.Workers > 0 {
		mopts = append(mopts, mesh.WithWorkers(cfg.Mesh.Workers))
	}

	opts := []Option{WithBuilderOptions(bopts...), WithMeshOptions(mopts...)}
	if cfg.Mesh.SkipDuality {
		opts = append(opts, WithoutDuality())
	}
	if cfg.Mesh.MergeCreases {
		opts = append(opts, WithMergedCreases())
	}
	if cfg.Mesh.ConsolidatePattern {
		opts = append(opts, WithConsolidatedPattern())
	}

	return opts, nil
}
