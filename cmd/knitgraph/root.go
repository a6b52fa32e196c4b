package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/knitgraph/config"
	"github.com/katalvlaran/knitgraph/observability"
	"github.com/katalvlaran/knitgraph/pipeline"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

// app is the state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg     config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
	server  *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:               "knitgraph",
		Short:             "Build knit stitch graphs, meshes and patterns from course polylines.",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	pf.Bool("consolidate", false, "align pattern rows on a shared column grid")
	pf.Bool("merge-creases", false, "merge adjacent increase and decrease stitches into one plain stitch")
	_ = a.v.BindPFlag("logger.level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("logger.format", pf.Lookup("log-format"))
	_ = a.v.BindPFlag("metrics.addr", pf.Lookup("metrics-addr"))
	_ = a.v.BindPFlag("mesh.consolidate_pattern", pf.Lookup("consolidate"))
	_ = a.v.BindPFlag("mesh.merge_creases", pf.Lookup("merge-creases"))

	root.AddCommand(newRunCmd(a), newDemoCmd(a), newVersionCmd())

	return root
}

// setup loads the configuration, then builds the logger and the metrics.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := observability.NewLogger(cfg.Logger, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	if err != nil {
		return err
	}
	a.logger = logger
	observability.SetLogger(logger)

	if cfg.Metrics.Enabled || cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		a.metrics = observability.NewMetrics(reg, cfg.Metrics.Namespace)
		if cfg.Metrics.Addr != "" {
			a.serveMetrics(reg, cfg.Metrics.Addr)
		}
	}

	return nil
}

func (a *app) serveMetrics(reg *prometheus.Registry, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	a.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("addr", addr))
}

func (a *app) teardown() error {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}
	// syncing a terminal returns EINVAL on some platforms
	_ = a.logger.Sync()

	return nil
}

// pipelineOptions assembles the run options from the loaded configuration.
func (a *app) pipelineOptions() ([]pipeline.Option, error) {
	opts, err := pipeline.FromConfig(a.cfg)
	if err != nil {
		return nil, err
	}

	return append(opts, pipeline.WithLogger(a.logger), pipeline.WithMetrics(a.metrics)), nil
}

// writeTo runs fn on the file at path, or on out when path is "-".
// An empty path writes nothing.
func writeTo(out io.Writer, path string, fn func(io.Writer) error) error {
	switch path {
	case "":
		return nil
	case "-":
		return fn(out)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the knitgraph version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "knitgraph %s\n", version)
		},
	}
}
