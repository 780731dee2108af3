package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sharp-edge/internal/database"
	"github.com/yourusername/sharp-edge/internal/models"
)

const errScanBacktestRun = "failed to scan backtest run: %w"

const backtestRunColumns = `id, run_date, parameter_hash, parameters, game_count, start_bankroll, final_bankroll,
	roi, win_rate, sharpe_ratio, max_drawdown, bet_count, full_results, created_at`

// PostgresBacktestRunRepository implements BacktestRunRepository for PostgreSQL
type PostgresBacktestRunRepository struct {
	db *database.DB
}

// NewPostgresBacktestRunRepository creates a new backtest run repository
func NewPostgresBacktestRunRepository(db *database.DB) BacktestRunRepository {
	return &PostgresBacktestRunRepository{db: db}
}

// Create inserts a backtest run
func (r *PostgresBacktestRunRepository) Create(ctx context.Context, run *models.BacktestRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query := `
		INSERT INTO backtest_runs (
			id, run_date, parameter_hash, parameters, game_count, start_bankroll, final_bankroll,
			roi, win_rate, sharpe_ratio, max_drawdown, bet_count, full_results
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		run.ID, run.RunDate, run.ParameterHash, run.Parameters, run.GameCount, run.StartBankroll, run.FinalBankroll,
		run.ROI, run.WinRate, run.SharpeRatio, run.MaxDrawdown, run.BetCount, run.FullResults,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save backtest run: %w", err)
	}
	return nil
}

// GetByID retrieves a backtest run by ID
func (r *PostgresBacktestRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error) {
	query := `SELECT ` + backtestRunColumns + ` FROM backtest_runs WHERE id = $1`

	run, err := scanBacktestRun(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("backtest run %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf(errScanBacktestRun, err)
	}
	return run, nil
}

// GetLatest retrieves the newest runs, newest first
func (r *PostgresBacktestRunRepository) GetLatest(ctx context.Context, limit int) ([]*models.BacktestRun, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + backtestRunColumns + ` FROM backtest_runs ORDER BY run_date DESC LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.BacktestRun
	for rows.Next() {
		run, err := scanBacktestRun(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanBacktestRun, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanBacktestRun(row pgx.Row) (*models.BacktestRun, error) {
	run := &models.BacktestRun{}
	err := row.Scan(
		&run.ID, &run.RunDate, &run.ParameterHash, &run.Parameters, &run.GameCount, &run.StartBankroll, &run.FinalBankroll,
		&run.ROI, &run.WinRate, &run.SharpeRatio, &run.MaxDrawdown, &run.BetCount, &run.FullResults, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}
