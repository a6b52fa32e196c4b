package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/knitgraph/builder"
	"github.com/katalvlaran/knitgraph/core"
	"github.com/katalvlaran/knitgraph/geom"
	"github.com/katalvlaran/knitgraph/mapping"
	"github.com/katalvlaran/knitgraph/mesh"
)

// Stage names, in run order.
const (
	StageSeed      = "seed"
	StageWeft      = "weft"
	StageWarp      = "warp"
	StageLeaves    = "leaves"
	StageSegment   = "segment"
	StageChains    = "chains"
	StageFinalWarp = "final_warp"
	StageFinalWeft = "final_weft"
	StageCycles    = "cycles"
	StageDuality   = "duality"
	StageMesh      = "mesh"
	StagePattern   = "pattern"
)

// Result is everything a successful run produces.
type Result struct {
	RunID   string
	Graph   *core.Graph
	Network *mesh.Directed
	Cycles  []mesh.Cycle
	Faces   int
	Mesh    *mesh.Mesh
	Pattern []mesh.PatternRow
	// Fans is the number of shaping connections added by the final warp pass.
	Fans int
}

type run struct {
	cfg runConfig
	log *zap.Logger
}

func (r *run) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("pipeline: %s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	r.cfg.metrics.ObserveStage(name, elapsed, err)
	if err != nil {
		r.log.Error("stage failed", zap.String("stage", name), zap.Duration("elapsed", elapsed), zap.Error(err))
		return fmt.Errorf("pipeline: %s: %w", name, err)
	}
	r.log.Debug("stage finished", zap.String("stage", name), zap.Duration("elapsed", elapsed))

	return nil
}

// Run builds the stitch graph of courses and derives its mesh and pattern.
//
// Errors: the first stage error, wrapped with the stage name; ctx.Err() when
// ctx ends between stages.
func Run(ctx context.Context, courses []geom.Polyline, opts ...Option) (*Result, error) {
	cfg := newRunConfig(opts...)
	res := &Result{RunID: uuid.NewString(), Graph: core.NewGraph()}
	r := &run{cfg: cfg, log: cfg.logger.With(zap.String("run_id", res.RunID))}
	r.log.Info("run started", zap.Int("courses", len(courses)))

	b := builder.New(append([]builder.Option{builder.WithLogger(r.log)}, cfg.builderOpts...)...)
	g := res.Graph
	var (
		net    *mapping.Network
		chains []mapping.ChainPair
	)
	network := func() error {
		seg, err := mapping.Segment(g)
		if err != nil {
			return err
		}
		net, err = mapping.NewNetwork(g, seg)

		return err
	}

	stages := []struct {
		name string
		fn   func() error
	}{
		{StageSeed, func() error {
			return b.Seed(ctx, g, courses)
		}},
		{StageWeft, func() error {
			_, err := b.ConnectWeft(g)
			return err
		}},
		{StageWarp, func() error {
			_, err := b.ConnectWarp(ctx, g)
			return err
		}},
		{StageLeaves, func() error {
			_, err := b.ConnectLeaves(ctx, g)
			return err
		}},
		{StageSegment, network},
		{StageChains, func() (err error) {
			chains, err = net.BuildChains(ctx)
			return err
		}},
		{StageFinalWarp, func() (err error) {
			res.Fans, err = b.ConnectFinalWarp(g, chains)
			return err
		}},
		{StageFinalWeft, func() error {
			// the final warp pass moved the terminators
			if err := network(); err != nil {
				return err
			}
			_, err := b.ConnectFinalWeft(g, net)

			return err
		}},
		{StageCycles, func() (err error) {
			mopts := append([]mesh.Option{mesh.WithLogger(r.log)}, cfg.meshOpts...)
			if res.Network, err = mesh.NewDirected(g, mopts...); err != nil {
				return err
			}
			if res.Cycles, err = res.Network.FindCycles(ctx); err != nil {
				return err
			}
			for _, c := range res.Cycles {
				if c.IsFace() {
					res.Faces++
				}
			}

			return nil
		}},
		{StageDuality, func() error {
			if cfg.skipDuality {
				return nil
			}
			return res.Network.VerifyDuality()
		}},
		{StageMesh, func() (err error) {
			res.Mesh, err = res.Network.CreateMesh()
			return err
		}},
		{StagePattern, func() (err error) {
			res.Pattern, err = mesh.MakePatternData(g)
			if err != nil {
				return err
			}
			if cfg.mergeCrease {
				res.Pattern = mesh.MergeCreases(res.Pattern)
			}
			if cfg.consolidate {
				res.Pattern, err = mesh.Consolidate(g, res.Pattern)
			}
			return err
		}},
	}
	for _, s := range stages {
		if err := r.stage(ctx, s.name, s.fn); err != nil {
			return nil, err
		}
	}

	st := g.Stats()
	cfg.metrics.SetGraph(st, res.Faces)
	r.log.Info("run finished",
		zap.Int("stitches", st.Nodes),
		zap.Int("courses", st.Positions),
		zap.Int("weft", st.Weft),
		zap.Int("warp", st.Warp),
		zap.Int("faces", res.Faces),
		zap.Int("fans", res.Fans))

	return res, nil
}

// RunOnMesh slices m into count courses between the start and end boundary
// polylines and runs the pipeline on them. tol is the boundary match
// distance.
func RunOnMesh(ctx context.Context, m *geom.TriMesh, start, end geom.Polyline, count int, tol float64,
	opts ...Option) (*Result, error) {
	courses, err := geom.MeshContours(m, start, end, count, tol)
	if err != nil {
		return nil, fmt.Errorf("pipeline: contours: %w", err)
	}

	return Run(ctx, courses, opts...)
}
