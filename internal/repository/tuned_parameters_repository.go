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

const errScanTunedParameters = "failed to scan tuned parameters: %w"

const tunedParametersColumns = `id, run_id, pass, parameter_hash, parameters, roi, win_rate, sharpe_ratio,
	bet_count, final_bankroll, grid_size, evaluated, kept, generated_at, created_at`

// PostgresTunedParametersRepository implements TunedParametersRepository for PostgreSQL
type PostgresTunedParametersRepository struct {
	db *database.DB
}

// NewPostgresTunedParametersRepository creates a new tuned parameters repository
func NewPostgresTunedParametersRepository(db *database.DB) TunedParametersRepository {
	return &PostgresTunedParametersRepository{db: db}
}

// Create inserts a tuned parameter record, filling ID when unset
func (r *PostgresTunedParametersRepository) Create(ctx context.Context, p *models.TunedParameters) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	query := `
		INSERT INTO tuned_parameters (
			id, run_id, pass, parameter_hash, parameters, roi, win_rate, sharpe_ratio,
			bet_count, final_bankroll, grid_size, evaluated, kept, generated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		p.ID, p.RunID, p.Pass, p.ParameterHash, p.Parameters, p.ROI, p.WinRate, p.SharpeRatio,
		p.BetCount, p.FinalBankroll, p.GridSize, p.Evaluated, p.Kept, p.GeneratedAt,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tuned parameters: %w", err)
	}
	return nil
}

// GetLatest returns the most recently generated record
func (r *PostgresTunedParametersRepository) GetLatest(ctx context.Context) (*models.TunedParameters, error) {
	query := `SELECT ` + tunedParametersColumns + ` FROM tuned_parameters ORDER BY generated_at DESC, created_at DESC LIMIT 1`

	p, err := scanTunedParameters(r.db.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tuned parameters: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf(errScanTunedParameters, err)
	}
	return p, nil
}

// GetByRunID returns every pass recorded for one optimizer run
func (r *PostgresTunedParametersRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.TunedParameters, error) {
	query := `SELECT ` + tunedParametersColumns + ` FROM tuned_parameters WHERE run_id = $1 ORDER BY generated_at`

	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tuned parameters: %w", err)
	}
	defer rows.Close()

	var out []*models.TunedParameters
	for rows.Next() {
		p, err := scanTunedParameters(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanTunedParameters, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanTunedParameters(row pgx.Row) (*models.TunedParameters, error) {
	p := &models.TunedParameters{}
	err := row.Scan(
		&p.ID, &p.RunID, &p.Pass, &p.ParameterHash, &p.Parameters, &p.ROI, &p.WinRate, &p.SharpeRatio,
		&p.BetCount, &p.FinalBankroll, &p.GridSize, &p.Evaluated, &p.Kept, &p.GeneratedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
