package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/sharp-edge/internal/models"
)

// MockTunedParametersRepository is a testify mock of TunedParametersRepository
type MockTunedParametersRepository struct {
	mock.Mock
}

func (m *MockTunedParametersRepository) Create(ctx context.Context, p *models.TunedParameters) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockTunedParametersRepository) GetLatest(ctx context.Context) (*models.TunedParameters, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TunedParameters), args.Error(1)
}

func (m *MockTunedParametersRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.TunedParameters, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TunedParameters), args.Error(1)
}

// MockBacktestRunRepository is a testify mock of BacktestRunRepository
type MockBacktestRunRepository struct {
	mock.Mock
}

func (m *MockBacktestRunRepository) Create(ctx context.Context, run *models.BacktestRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockBacktestRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BacktestRun), args.Error(1)
}

func (m *MockBacktestRunRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BacktestRun), args.Error(1)
}

// MockReconciliationRepository is a testify mock of ReconciliationRepository
type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) SaveReport(ctx context.Context, date time.Time, records []models.ReconciliationRecord, summary models.ReconciliationSummary) error {
	args := m.Called(ctx, date, records, summary)
	return args.Error(0)
}

func (m *MockReconciliationRepository) GetByDate(ctx context.Context, date time.Time) ([]models.ReconciliationRecord, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReconciliationRecord), args.Error(1)
}

func (m *MockReconciliationRepository) GetSummary(ctx context.Context, date time.Time) (*models.ReconciliationSummary, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReconciliationSummary), args.Error(1)
}
