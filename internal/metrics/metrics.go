// Package metrics exposes the supervisor's runtime counters/gauges over
// Prometheus and a small gin status server, following the same
// net/http.Server + signal-driven shutdown pattern the rest of the
// toolkit's services use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors bundles the counters and gauges the supervisor and mux
// components update as they run.
type Collectors struct {
	EventsForwarded  *prometheus.CounterVec
	QueueDepth       *prometheus.GaugeVec
	BackpressureDrop *prometheus.CounterVec
	JobsSpawned      prometheus.Counter
	JobsReaped       prometheus.Counter
	DevicesMatched   prometheus.Counter
}

// New registers the collector set against the default Prometheus
// registry.
func New() *Collectors {
	return &Collectors{
		EventsForwarded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interception",
			Name:      "events_forwarded_total",
			Help:      "Events forwarded through a mux queue, by queue name.",
		}, []string{"queue"}),
		QueueDepth: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "interception",
			Name:      "queue_depth",
			Help:      "Current record count of a mux queue.",
		}, []string{"queue"}),
		BackpressureDrop: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interception",
			Name:      "backpressure_total",
			Help:      "Sends rejected because a mux queue was full, by queue name.",
		}, []string{"queue"}),
		JobsSpawned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "interception",
			Name:      "jobs_spawned_total",
			Help:      "Job pipelines spawned by the supervisor.",
		}),
		JobsReaped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "interception",
			Name:      "jobs_reaped_total",
			Help:      "Child processes reaped by the supervisor's SIGCHLD handler.",
		}),
		DevicesMatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "interception",
			Name:      "devices_matched_total",
			Help:      "Devices that matched a non-bare rule.",
		}),
	}
}
