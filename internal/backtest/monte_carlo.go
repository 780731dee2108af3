package backtest

import (
	"context"
	"errors"
	"math/rand"
)

// ErrNoBets is returned when a projection has nothing to resample
var ErrNoBets = errors.New("no settled bets to resample")

// MonteCarloConfig configures a bankroll projection
type MonteCarloConfig struct {
	Iterations      int
	BetsPerPath     int
	Seed            int64
	InitialBankroll float64
	// RuinFraction is the share of the initial bankroll at or below which a path counts as ruined
	RuinFraction float64
}

// Projection summarizes simulated final bankrolls
type Projection struct {
	Iterations          int     `json:"iterations"`
	BetsPerPath         int     `json:"bets_per_path"`
	MeanFinal           float64 `json:"mean_final"`
	MedianFinal         float64 `json:"median_final"`
	StdFinal            float64 `json:"std_final"`
	P5Final             float64 `json:"p5_final"`
	P95Final            float64 `json:"p95_final"`
	ProbabilityOfProfit float64 `json:"probability_of_profit"`
	ProbabilityOfRuin   float64 `json:"probability_of_ruin"`
}

// Project bootstraps the realized per-bet returns (pnl relative to the balance
// at placement) into Iterations independent bankroll paths. A fixed seed gives
// a reproducible projection.
func Project(ctx context.Context, bets []Bet, cfg MonteCarloConfig) (Projection, error) {
	if len(bets) == 0 {
		return Projection{}, ErrNoBets
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.BetsPerPath <= 0 {
		cfg.BetsPerPath = len(bets)
	}
	if cfg.RuinFraction <= 0 {
		cfg.RuinFraction = 0.01
	}

	returns := make([]float64, len(bets))
	for i, b := range bets {
		if b.BalanceBefore > 0 {
			returns[i] = b.PnL / b.BalanceBefore
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	finals := make([]float64, cfg.Iterations)
	ruin := cfg.InitialBankroll * cfg.RuinFraction
	profits, ruined := 0, 0

	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return Projection{}, err
		}
		bankroll := cfg.InitialBankroll
		for j := 0; j < cfg.BetsPerPath && bankroll > ruin; j++ {
			bankroll *= 1 + returns[rng.Intn(len(returns))]
		}
		if bankroll < 0 {
			bankroll = 0
		}
		finals[i] = bankroll
		if bankroll > cfg.InitialBankroll {
			profits++
		}
		if bankroll <= ruin {
			ruined++
		}
	}

	return Projection{
		Iterations:          cfg.Iterations,
		BetsPerPath:         cfg.BetsPerPath,
		MeanFinal:           average(finals),
		MedianFinal:         percentile(finals, 0.5),
		StdFinal:            stddev(finals),
		P5Final:             percentile(finals, 0.05),
		P95Final:            percentile(finals, 0.95),
		ProbabilityOfProfit: fraction(profits, cfg.Iterations),
		ProbabilityOfRuin:   fraction(ruined, cfg.Iterations),
	}, nil
}
