// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sharp_edge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Staking metrics
var (
	PositionsAllocatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "positions_allocated_total",
		Help:      "Total number of positions created by the allocator",
	})
	CandidatesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "candidates_skipped_total",
		Help:      "Filtered candidates that received no stake, by reason",
	}, []string{"reason"})
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_bankroll",
		Help:      "Bankroll remaining after the last allocation",
	})
	TotalExposure = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "total_exposure",
		Help:      "Total stake committed by the last allocation",
	})
	CurrentDrawdown = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "current_drawdown",
		Help:      "Drawdown from peak bankroll as a fraction",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PositionsAllocatedTotal)
		registry.MustRegister(CandidatesSkippedTotal)
		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(TotalExposure)
		registry.MustRegister(CurrentDrawdown)

		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(BacktestBets)
		registry.MustRegister(BacktestROI)

		registry.MustRegister(OptimizerCombinationsTotal)
		registry.MustRegister(OptimizerGridSize)
		registry.MustRegister(OptimizerProgress)
		registry.MustRegister(OptimizerBestSharpe)
		registry.MustRegister(OptimizerArtifactErrorsTotal)

		registry.MustRegister(ReconciledPicksTotal)
		registry.MustRegister(FeedRequestsTotal)
		registry.MustRegister(FeedRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAllocation records the outcome of one allocation run.
func RecordAllocation(positions int, skippedByReason map[string]int, staked, remaining, drawdown float64) {
	PositionsAllocatedTotal.Add(float64(positions))
	for reason, n := range skippedByReason {
		CandidatesSkippedTotal.WithLabelValues(reason).Add(float64(n))
	}
	TotalExposure.Set(staked)
	CurrentBankroll.Set(remaining)
	CurrentDrawdown.Set(drawdown)
}
