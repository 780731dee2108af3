package metrics

import "github.com/prometheus/client_golang/prometheus"

// Optimizer metrics
var (
	OptimizerCombinationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "optimizer_combinations_total",
		Help:      "Parameter combinations simulated, by outcome (kept or dropped)",
	}, []string{"pass", "outcome"})
	OptimizerGridSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "optimizer_grid_size",
		Help:      "Number of combinations in the current grid",
	}, []string{"pass"})
	OptimizerProgress = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "optimizer_progress_ratio",
		Help:      "Fraction of the grid evaluated so far",
	}, []string{"pass"})
	OptimizerBestSharpe = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "optimizer_best_sharpe",
		Help:      "Sharpe ratio of the best ranked combination",
	}, []string{"pass"})
	OptimizerArtifactErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "optimizer_artifact_errors_total",
		Help:      "Artifact writes that failed",
	})
)

// RecordCombinations adds evaluated combinations for a pass.
func RecordCombinations(pass string, kept, dropped int64) {
	if kept > 0 {
		OptimizerCombinationsTotal.WithLabelValues(pass, "kept").Add(float64(kept))
	}
	if dropped > 0 {
		OptimizerCombinationsTotal.WithLabelValues(pass, "dropped").Add(float64(dropped))
	}
}

// UpdateOptimizerProgress sets the progress gauge for a pass.
func UpdateOptimizerProgress(pass string, evaluated, total int64) {
	if total <= 0 {
		return
	}
	OptimizerProgress.WithLabelValues(pass).Set(float64(evaluated) / float64(total))
}

// SetGridSize records the size of a pass's grid.
func SetGridSize(pass string, size int) {
	OptimizerGridSize.WithLabelValues(pass).Set(float64(size))
}

// SetBestSharpe records the best Sharpe ratio of a pass.
func SetBestSharpe(pass string, sharpe float64) {
	OptimizerBestSharpe.WithLabelValues(pass).Set(sharpe)
}

// RecordArtifactError counts a failed artifact write.
func RecordArtifactError() {
	OptimizerArtifactErrorsTotal.Inc()
}
