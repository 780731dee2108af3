package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// BacktestLogger provides dedicated logging for single-vector backtests.
type BacktestLogger struct {
	*logrus.Entry
}

// NewBacktestLogger creates a new backtest logger.
func NewBacktestLogger(baseLogger *logrus.Logger) *BacktestLogger {
	return &BacktestLogger{
		Entry: OrDefault(baseLogger).WithField("component", "backtest"),
	}
}

// LogRun logs the headline numbers of a simulation.
func (bl *BacktestLogger) LogRun(parameterHash string, games, bets int, roi, winRate, sharpe, maxDrawdown float64, duration time.Duration) {
	bl.WithFields(logrus.Fields{
		"parameter_hash": parameterHash,
		"games":          games,
		"bets":           bets,
		"roi":            roi,
		"win_rate":       winRate,
		"sharpe":         sharpe,
		"max_drawdown":   maxDrawdown,
		"duration_ms":    duration.Milliseconds(),
	}).Info("Backtest completed")
}

// LogSkipped logs games dropped for unusable odds or missing results.
func (bl *BacktestLogger) LogSkipped(invalidOdds, noResult int) {
	if invalidOdds == 0 && noResult == 0 {
		return
	}
	bl.WithFields(logrus.Fields{
		"invalid_odds": invalidOdds,
		"no_result":    noResult,
	}).Debug("Games skipped during replay")
}

// LogProjection logs a Monte Carlo projection.
func (bl *BacktestLogger) LogProjection(iterations int, meanFinal, probProfit, probRuin float64) {
	bl.WithFields(logrus.Fields{
		"iterations":     iterations,
		"mean_final":     meanFinal,
		"prob_of_profit": probProfit,
		"prob_of_ruin":   probRuin,
	}).Info("Monte Carlo projection completed")
}
