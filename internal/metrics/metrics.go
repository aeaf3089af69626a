// Package metrics declares the Prometheus instruments exposed at
// GET /metrics, following the teacher corpus's promauto declaration style
// (see e.g. Dragonfly's cdn/metrics package).
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Handler returns the standard Prometheus exposition handler, mounted at
// GET /metrics by internal/transport.
func Handler() http.Handler {
	return promhttp.Handler()
}

const (
	namespace = "urlcounter"
	subsystem = "node"
)

var (
	// AddTotal counts every successful Add, labeled by whether it was
	// served locally or proxied to a remote node.
	AddTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "add_total",
		Help:      "Counter of the number of domains added.",
	}, []string{"routed"})

	// TopQueryDuration observes the latency of /top queries, which fan out
	// across the cluster and so are expected to be slower than /counts.
	TopQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "top_query_duration_seconds",
		Help:      "Histogram of /top query latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// CountsQueryDuration observes the latency of single-node /counts
	// queries.
	CountsQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "counts_query_duration_seconds",
		Help:      "Histogram of /counts query latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// ClusterMergeNodeErrors counts nodes that failed to answer a cluster
	// merge fan-out, labeled by the failing node's identity.
	ClusterMergeNodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cluster_merge_node_errors_total",
		Help:      "Counter of node query failures observed during cluster merges.",
	}, []string{"node"})

	// TrackedDomains reports the current cardinality of the local counter,
	// sampled on every successful /counts request.
	TrackedDomains = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "tracked_domains",
		Help:      "Gauge of the number of distinct domains currently tracked.",
	})
)
