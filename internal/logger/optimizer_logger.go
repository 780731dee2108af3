package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// OptimizerLogger provides dedicated logging for grid-search runs.
type OptimizerLogger struct {
	*logrus.Entry
}

// NewOptimizerLogger creates a new optimizer logger.
func NewOptimizerLogger(baseLogger *logrus.Logger) *OptimizerLogger {
	return &OptimizerLogger{
		Entry: OrDefault(baseLogger).WithField("component", "optimizer"),
	}
}

// LogStart logs the start of a pass.
func (ol *OptimizerLogger) LogStart(runID, pass string, gridSize, games, workers int) {
	ol.WithFields(logrus.Fields{
		"run_id":    runID,
		"pass":      pass,
		"grid_size": gridSize,
		"games":     games,
		"workers":   workers,
	}).Info("Grid search started")
}

// LogProgress logs periodic progress.
func (ol *OptimizerLogger) LogProgress(runID string, evaluated, kept, total int64, elapsed time.Duration) {
	pct := 0.0
	if total > 0 {
		pct = float64(evaluated) / float64(total) * 100
	}
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(evaluated) / secs
	}
	ol.WithFields(logrus.Fields{
		"run_id":       runID,
		"evaluated":    evaluated,
		"kept":         kept,
		"total":        total,
		"percent":      pct,
		"combos_per_s": rate,
	}).Info("Grid search progress")
}

// LogBest logs the winning combination.
func (ol *OptimizerLogger) LogBest(runID, parameterHash string, sharpe, roi float64, bets int) {
	ol.WithFields(logrus.Fields{
		"run_id":         runID,
		"parameter_hash": parameterHash,
		"sharpe":         sharpe,
		"roi":            roi,
		"bets":           bets,
	}).Info("Best combination selected")
}

// LogCancelled logs an operator abort; partial results stay rankable.
func (ol *OptimizerLogger) LogCancelled(runID string, evaluated, total int64) {
	ol.WithFields(logrus.Fields{
		"run_id":    runID,
		"evaluated": evaluated,
		"total":     total,
	}).Warn("Grid search cancelled, returning partial results")
}

// LogArtifactError logs a failed artifact write.
func (ol *OptimizerLogger) LogArtifactError(runID, path string, err error) {
	ol.WithFields(logrus.Fields{
		"run_id": runID,
		"path":   path,
		"error":  err.Error(),
	}).Error("Failed to write artifact")
}
