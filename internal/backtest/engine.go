package backtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/metrics"
	"github.com/yourusername/sharp-edge/internal/models"
)

// ErrPersist marks a failed save; the accompanying report is still complete
var ErrPersist = errors.New("failed to persist backtest run")

// GameSource supplies the fixed historical game set for a run
type GameSource interface {
	LoadGames(ctx context.Context) ([]models.Game, error)
}

// RunStore persists finished runs
type RunStore interface {
	Create(ctx context.Context, run *models.BacktestRun) error
}

// Report bundles everything one engine run produced
type Report struct {
	RunID       uuid.UUID          `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Result      Result             `json:"result"`
	WalkForward *WalkForwardResult `json:"walk_forward,omitempty"`
	Projection  *Projection        `json:"projection,omitempty"`
}

// Engine orchestrates backtesting runs
type Engine struct {
	config Config
	source GameSource
	store  RunStore
	opts   []Option
	logger *logger.BacktestLogger
	now    func() time.Time
}

// NewEngine creates a new backtesting engine. store may be nil.
func NewEngine(cfg Config, source GameSource, store RunStore, log *logrus.Logger, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("game source is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		config: cfg,
		source: source,
		store:  store,
		opts:   append(cfg.Options(), opts...),
		logger: logger.NewBacktestLogger(log),
		now:    time.Now,
	}, nil
}

// Config returns the backtest configuration
func (e *Engine) Config() Config {
	return e.config
}

// Run loads games, simulates params and runs the optional walk-forward and
// Monte Carlo stages. When persistence fails the report is returned together
// with an error wrapping ErrPersist.
func (e *Engine) Run(ctx context.Context, params models.ParameterVector) (*Report, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	started := e.now()
	games, err := e.source.LoadGames(ctx)
	if err != nil {
		metrics.RecordBacktestRun("failure", e.now().Sub(started).Seconds(), 0, 0)
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	result := Simulate(games, params, e.config.StartBankroll, e.opts...)
	elapsed := e.now().Sub(started)
	metrics.RecordBacktestRun("success", elapsed.Seconds(), result.BetCount, result.ROI)
	e.logger.LogRun(result.ParameterHash, result.Games, result.BetCount, result.ROI, result.WinRate, result.Sharpe, result.MaxDrawdown, elapsed)
	e.logger.LogSkipped(result.Skipped.InvalidOdds, result.Skipped.NoResult)

	report := &Report{
		RunID:       uuid.New(),
		GeneratedAt: e.now().UTC(),
		Result:      result,
	}

	if e.config.WalkForwardFolds > 1 {
		wf := WalkForward(games, params, e.config.StartBankroll, e.config.WalkForwardFolds, e.opts...)
		report.WalkForward = &wf
	}

	if e.config.MonteCarloIterations > 0 && len(result.Bets) > 0 {
		proj, err := Project(ctx, result.Bets, MonteCarloConfig{
			Iterations:      e.config.MonteCarloIterations,
			Seed:            e.config.MonteCarloSeed,
			InitialBankroll: e.config.StartBankroll,
		})
		if err != nil {
			return report, fmt.Errorf("monte carlo projection failed: %w", err)
		}
		report.Projection = &proj
		e.logger.LogProjection(proj.Iterations, proj.MeanFinal, proj.ProbabilityOfProfit, proj.ProbabilityOfRuin)
	}

	if e.store != nil {
		run, err := ToRecord(report)
		if err == nil {
			err = e.store.Create(ctx, run)
		}
		if err != nil {
			e.logger.WithError(err).Error("Backtest run not persisted")
			return report, fmt.Errorf("%w: %v", ErrPersist, err)
		}
	}

	return report, nil
}

// ToRecord converts a report into its persisted form
func ToRecord(report *Report) (*models.BacktestRun, error) {
	r := report.Result
	params, err := json.Marshal(r.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	full, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return &models.BacktestRun{
		ID:            report.RunID,
		RunDate:       report.GeneratedAt,
		ParameterHash: r.ParameterHash,
		Parameters:    params,
		GameCount:     r.Games,
		StartBankroll: r.StartBankroll,
		FinalBankroll: r.FinalBankroll,
		ROI:           r.ROI,
		WinRate:       r.WinRate,
		SharpeRatio:   r.Sharpe,
		MaxDrawdown:   r.MaxDrawdown,
		BetCount:      r.BetCount,
		FullResults:   full,
	}, nil
}
