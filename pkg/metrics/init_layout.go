package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initLayoutMetrics() {
	r.LayoutRunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphlens_layout_runs_total",
			Help: "Total number of layout runs",
		},
		[]string{"algorithm", "status"},
	)

	r.LayoutRunDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphlens_layout_run_duration_seconds",
			Help:    "Layout run duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 3.0, 10.0},
		},
		[]string{"algorithm"},
	)

	r.RenderNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphlens_render_nodes",
			Help: "Number of nodes in the current render model",
		},
	)

	r.RenderEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "graphlens_render_edges",
			Help: "Number of edges in the current render model",
		},
	)
}
