// Package metrics exposes prometheus instrumentation for the explorer:
// service requests, poll ticks, stream fragments, and layout runs.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Service client metrics
	ServiceRequestsTotal   *prometheus.CounterVec
	ServiceRequestDuration *prometheus.HistogramVec

	// Status sync metrics
	PollTicksTotal       *prometheus.CounterVec
	StreamFragmentsTotal prometheus.Counter
	StreamsTotal         *prometheus.CounterVec

	// Layout metrics
	LayoutRunsTotal   *prometheus.CounterVec
	LayoutRunDuration *prometheus.HistogramVec

	// Render metrics
	RenderNodes prometheus.Gauge
	RenderEdges prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initClientMetrics()
	r.initSyncMetrics()
	r.initLayoutMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordServiceRequest records one request to the indexing service
func (r *Registry) RecordServiceRequest(operation, status string, duration time.Duration) {
	r.ServiceRequestsTotal.WithLabelValues(operation, status).Inc()
	r.ServiceRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPollTick records one poll tick outcome
func (r *Registry) RecordPollTick(status string) {
	r.PollTicksTotal.WithLabelValues(status).Inc()
}

// RecordStream records a finished chat stream and its fragment count
func (r *Registry) RecordStream(status string, fragments int) {
	r.StreamsTotal.WithLabelValues(status).Inc()
	r.StreamFragmentsTotal.Add(float64(fragments))
}

// RecordLayoutRun records a completed layout run
func (r *Registry) RecordLayoutRun(algorithm, status string, duration time.Duration) {
	r.LayoutRunsTotal.WithLabelValues(algorithm, status).Inc()
	r.LayoutRunDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// SetRenderModelSize records the size of the current render model
func (r *Registry) SetRenderModelSize(nodes, edges int) {
	r.RenderNodes.Set(float64(nodes))
	r.RenderEdges.Set(float64(edges))
}
