package backtest

import (
	"fmt"

	"github.com/yourusername/sharp-edge/internal/config"
	"github.com/yourusername/sharp-edge/internal/staking"
)

// Config holds backtest run settings resolved from the application config
type Config struct {
	GamesFile            string
	StartBankroll        float64
	MaxExposure          float64
	MinStake             float64
	MonteCarloIterations int
	MonteCarloSeed       int64
	WalkForwardFolds     int
	OutputPath           string
	Persist              bool
}

// FromConfig converts app config to backtest config
func FromConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("config is required")
	}
	bt := Config{
		GamesFile:            cfg.Backtest.GamesFile,
		StartBankroll:        cfg.Backtest.StartBankroll,
		MaxExposure:          cfg.Staking.BacktestMaxExposure,
		MinStake:             cfg.Staking.BacktestMinStake,
		MonteCarloIterations: cfg.Backtest.MonteCarloIterations,
		MonteCarloSeed:       cfg.Backtest.MonteCarloSeed,
		WalkForwardFolds:     cfg.Backtest.WalkForwardFolds,
		OutputPath:           cfg.Backtest.OutputPath,
		Persist:              cfg.Backtest.Persist && cfg.Database.Enabled,
	}
	if bt.MaxExposure == 0 {
		bt.MaxExposure = staking.DefaultBacktestMaxExposure
	}
	if bt.MinStake == 0 {
		bt.MinStake = staking.DefaultBacktestMinStake
	}
	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (c Config) Validate() error {
	if c.StartBankroll <= 0 {
		return fmt.Errorf("start bankroll must be positive")
	}
	if c.MaxExposure <= 0 || c.MaxExposure > 1 {
		return fmt.Errorf("max exposure must be in (0, 1]")
	}
	if c.MinStake < 0 {
		return fmt.Errorf("min stake cannot be negative")
	}
	if c.MonteCarloIterations < 0 {
		return fmt.Errorf("monte carlo iterations cannot be negative")
	}
	if c.WalkForwardFolds < 0 {
		return fmt.Errorf("walk forward folds cannot be negative")
	}
	return nil
}

// Options converts the sizing settings into simulator options
func (c Config) Options() []Option {
	return []Option{WithMaxExposure(c.MaxExposure), WithMinStake(c.MinStake)}
}
