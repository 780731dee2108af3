package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TunedParameters is a persisted optimizer winner with its provenance
type TunedParameters struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	RunID         uuid.UUID       `db:"run_id" json:"run_id"`
	Pass          string          `db:"pass" json:"pass"`
	ParameterHash string          `db:"parameter_hash" json:"parameter_hash"`
	Parameters    json.RawMessage `db:"parameters" json:"parameters"`
	ROI           float64         `db:"roi" json:"roi"`
	WinRate       float64         `db:"win_rate" json:"win_rate"`
	SharpeRatio   float64         `db:"sharpe_ratio" json:"sharpe_ratio"`
	BetCount      int             `db:"bet_count" json:"bet_count"`
	FinalBankroll float64         `db:"final_bankroll" json:"final_bankroll"`
	GridSize      int             `db:"grid_size" json:"grid_size"`
	Evaluated     int             `db:"evaluated" json:"evaluated"`
	Kept          int             `db:"kept" json:"kept"`
	GeneratedAt   time.Time       `db:"generated_at" json:"generated_at"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// BacktestRun is a persisted single-vector backtest
type BacktestRun struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	RunDate       time.Time       `db:"run_date" json:"run_date"`
	ParameterHash string          `db:"parameter_hash" json:"parameter_hash"`
	Parameters    json.RawMessage `db:"parameters" json:"parameters"`
	GameCount     int             `db:"game_count" json:"game_count"`
	StartBankroll float64         `db:"start_bankroll" json:"start_bankroll"`
	FinalBankroll float64         `db:"final_bankroll" json:"final_bankroll"`
	ROI           float64         `db:"roi" json:"roi"`
	WinRate       float64         `db:"win_rate" json:"win_rate"`
	SharpeRatio   float64         `db:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdown   float64         `db:"max_drawdown" json:"max_drawdown"`
	BetCount      int             `db:"bet_count" json:"bet_count"`
	FullResults   json.RawMessage `db:"full_results" json:"full_results"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}
