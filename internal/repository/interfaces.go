package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/sharp-edge/internal/models"
)

// TunedParametersRepository stores optimizer winners
type TunedParametersRepository interface {
	Create(ctx context.Context, params *models.TunedParameters) error
	GetLatest(ctx context.Context) (*models.TunedParameters, error)
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.TunedParameters, error)
}

// BacktestRunRepository stores single-vector backtest runs
type BacktestRunRepository interface {
	Create(ctx context.Context, run *models.BacktestRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error)
	GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error)
}

// ReconciliationRepository stores graded picks and their daily summary
type ReconciliationRepository interface {
	// SaveReport replaces every record and the summary stored for date
	SaveReport(ctx context.Context, date time.Time, records []models.ReconciliationRecord, summary models.ReconciliationSummary) error
	GetByDate(ctx context.Context, date time.Time) ([]models.ReconciliationRecord, error)
	GetSummary(ctx context.Context, date time.Time) (*models.ReconciliationSummary, error)
}
