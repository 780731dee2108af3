package metrics

import "github.com/prometheus/client_golang/prometheus"

// Reconciliation and outcomes-feed metrics
var (
	ReconciledPicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciled_picks_total",
		Help:      "Picks graded by the reconciler, by league and status",
	}, []string{"league", "status"})
	FeedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_requests_total",
		Help:      "Outcomes feed requests by source, league and result",
	}, []string{"source", "league", "result"})
	FeedRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_request_duration_seconds",
		Help:      "Outcomes feed request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// RecordReconciledPick counts one graded pick.
func RecordReconciledPick(league, status string) {
	ReconciledPicksTotal.WithLabelValues(league, status).Inc()
}

// RecordFeedRequest counts one feed request and its latency.
// result should be one of: "success", "error", "cache_hit".
func RecordFeedRequest(source, league, result string, durationSeconds float64) {
	FeedRequestsTotal.WithLabelValues(source, league, result).Inc()
	if result != "cache_hit" {
		FeedRequestDuration.WithLabelValues(source).Observe(durationSeconds)
	}
}
