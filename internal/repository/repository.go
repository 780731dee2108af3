package repository

import (
	"fmt"

	"github.com/yourusername/sharp-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	TunedParameters TunedParametersRepository
	BacktestRun     BacktestRunRepository
	Reconciliation  ReconciliationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		TunedParameters: NewPostgresTunedParametersRepository(db),
		BacktestRun:     NewPostgresBacktestRunRepository(db),
		Reconciliation:  NewPostgresReconciliationRepository(db),
	}, nil
}
