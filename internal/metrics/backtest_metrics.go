package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest metrics
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of single-vector backtest runs by status",
	}, []string{"status"})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
	BacktestBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_bets",
		Help:      "Bet count of the most recent backtest",
	})
	BacktestROI = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_roi_percent",
		Help:      "ROI of the most recent backtest in percent",
	})
)

// RecordBacktestRun records a backtest run.
// status should be one of: "success", "failure".
func RecordBacktestRun(status string, durationSeconds float64, bets int, roi float64) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
	BacktestDuration.Observe(durationSeconds)
	if status == "success" {
		BacktestBets.Set(float64(bets))
		BacktestROI.Set(roi)
	}
}
