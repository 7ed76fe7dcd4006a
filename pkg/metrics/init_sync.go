package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSyncMetrics() {
	r.PollTicksTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphlens_poll_ticks_total",
			Help: "Total number of status poll ticks",
		},
		[]string{"status"},
	)

	r.StreamFragmentsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "graphlens_stream_fragments_total",
			Help: "Total number of chat stream fragments consumed",
		},
	)

	r.StreamsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphlens_streams_total",
			Help: "Total number of chat streams consumed",
		},
		[]string{"status"},
	)
}
