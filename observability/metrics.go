package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/knitgraph/core"
)

// Metrics are the per-run gauges and per-stage timings of a pipeline.
// A nil *Metrics records nothing.
type Metrics struct {
	StageDuration *prometheus.HistogramVec
	StageFailures *prometheus.CounterVec
	Runs          prometheus.Counter
	Nodes         prometheus.Gauge
	Positions     prometheus.Gauge
	Edges         *prometheus.GaugeVec
	Faces         prometheus.Gauge
}

// NewMetrics registers the knitgraph collectors on reg under namespace.
// Registering twice on one registry panics.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		StageFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Pipeline stages that returned an error.",
		}, []string{"stage"}),
		Runs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed pipeline runs.",
		}),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_stitches",
			Help:      "Stitches in the last graph.",
		}),
		Positions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_courses",
			Help:      "Courses in the last graph.",
		}),
		Edges: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edges in the last graph by kind.",
		}, []string{"kind"}),
		Faces: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mesh_faces",
			Help:      "Faces found in the last graph.",
		}),
	}
}

// ObserveStage records the duration of stage and counts err as a failure.
func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageFailures.WithLabelValues(stage).Inc()
	}
}

// SetGraph publishes the size of a finished run.
func (m *Metrics) SetGraph(s core.Stats, faces int) {
	if m == nil {
		return
	}
	m.Runs.Inc()
	m.Nodes.Set(float64(s.Nodes))
	m.Positions.Set(float64(s.Positions))
	m.Edges.WithLabelValues(core.Weft.String()).Set(float64(s.Weft))
	m.Edges.WithLabelValues(core.Warp.String()).Set(float64(s.Warp))
	m.Edges.WithLabelValues(core.Contour.String()).Set(float64(s.Contour))
	m.Faces.Set(float64(faces))
}
