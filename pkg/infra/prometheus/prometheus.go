package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	commonLabels = []string{"page_id"}

	// Injection latency is dominated by the underlying query or code block
	latencyBuckets = []float64{
		1, 5, 10, // in-memory sources
		25, 50, 100, // typical queries
		250, 500, 1000, // slow queries
		2500, 5000, 10000, // procedural blocks near timeout
	}

	PageRequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ljo_page_requests_total",
			Help: "Total number of page renders served",
		},
		append(commonLabels, "status"),
	)

	InjectionTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ljo_injections_total",
			Help: "Total number of JSON injections, by source kind and outcome",
		},
		append(commonLabels, "source", "outcome"),
	)

	InjectionLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ljo_injection_latency_ms",
			Help:    "Injection latency in milliseconds, payload production included",
			Buckets: latencyBuckets,
		},
		append(commonLabels, "source"),
	)

	InjectionPayloadBytes = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ljo_injection_payload_bytes",
			Help:    "Size of the embedded JSON payload in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		},
		append(commonLabels, "source"),
	)
)

func Initialize() {
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}
