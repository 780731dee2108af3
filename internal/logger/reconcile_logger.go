package logger

import (
	"github.com/sirupsen/logrus"
)

// ReconcileLogger provides dedicated logging for pick reconciliation.
type ReconcileLogger struct {
	*logrus.Entry
}

// NewReconcileLogger creates a new reconciliation logger.
func NewReconcileLogger(baseLogger *logrus.Logger) *ReconcileLogger {
	return &ReconcileLogger{
		Entry: OrDefault(baseLogger).WithField("component", "reconcile"),
	}
}

// LogLeagueFetch logs one outcomes-feed query.
func (rl *ReconcileLogger) LogLeagueFetch(league, source string, games, completed int) {
	rl.WithFields(logrus.Fields{
		"league":    league,
		"source":    source,
		"games":     games,
		"completed": completed,
	}).Info("Fetched outcomes")
}

// LogWarning logs a per-league feed failure.
func (rl *ReconcileLogger) LogWarning(league string, err error) {
	rl.WithFields(logrus.Fields{
		"league": league,
		"error":  err.Error(),
	}).Warn("Outcomes unavailable for league")
}

// LogSummary logs the aggregate report numbers.
func (rl *ReconcileLogger) LogSummary(total, correct, incorrect, pending, notFound int, winRate, estimatedROI float64) {
	rl.WithFields(logrus.Fields{
		"total_picks":   total,
		"correct":       correct,
		"incorrect":     incorrect,
		"pending":       pending,
		"not_found":     notFound,
		"win_rate":      winRate,
		"estimated_roi": estimatedROI,
	}).Info("Reconciliation complete")
}
