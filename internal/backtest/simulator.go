// Package backtest replays the staking engine over historical games.
package backtest

import (
	"time"

	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/staking"
	"github.com/yourusername/sharp-edge/internal/strategy"
)

// MinRankableBets is the sample size below which a result is never ranked
const MinRankableBets = 8

// Bet is one settled simulated wager
type Bet struct {
	GameID           string      `json:"game_id"`
	League           string      `json:"league,omitempty"`
	Date             time.Time   `json:"date"`
	Team             string      `json:"team"`
	Side             models.Side `json:"side"`
	AmericanOdds     float64     `json:"american_odds"`
	DecimalOdds      float64     `json:"decimal_odds"`
	ModelProbability float64     `json:"model_probability"`
	Edge             float64     `json:"edge"`
	ExpectedValue    float64     `json:"expected_value"`
	Stake            float64     `json:"stake"`
	BalanceBefore    float64     `json:"balance_before"`
	BalanceAfter     float64     `json:"balance_after"`
	PnL              float64     `json:"pnl"`
	Won              bool        `json:"won"`
}

// SkipCounts explains games that produced no bet
type SkipCounts struct {
	NoResult      int `json:"no_result"`
	InvalidOdds   int `json:"invalid_odds"`
	Filtered      int `json:"filtered"`
	BelowMinStake int `json:"below_min_stake"`
}

// Result is the outcome of replaying one parameter vector over a fixed game set.
// ROI and WinRate are percentages.
type Result struct {
	Parameters        models.ParameterVector `json:"parameters"`
	ParameterHash     string                 `json:"parameter_hash"`
	Games             int                    `json:"games"`
	StartBankroll     float64                `json:"start_bankroll"`
	FinalBankroll     float64                `json:"final_bankroll"`
	ROI               float64                `json:"roi"`
	WinRate           float64                `json:"win_rate"`
	BetCount          int                    `json:"bet_count"`
	WinCount          int                    `json:"win_count"`
	Sharpe            float64                `json:"sharpe"`
	MaxDrawdown       float64                `json:"max_drawdown"`
	LongestWinStreak  int                    `json:"longest_win_streak"`
	LongestLossStreak int                    `json:"longest_loss_streak"`
	Home              SideSplit              `json:"home"`
	Away              SideSplit              `json:"away"`
	Breakdown         Breakdown              `json:"breakdown"`
	Skipped           SkipCounts             `json:"skipped"`
	Bets              []Bet                  `json:"bets,omitempty"`
	EquityCurve       EquityCurve            `json:"equity_curve,omitempty"`
}

// Rankable reports whether the sample is large enough to rank
func (r Result) Rankable() bool {
	return r.BetCount >= MinRankableBets
}

// Profitable reports a strictly positive ROI
func (r Result) Profitable() bool {
	return r.ROI > 0
}

type simOptions struct {
	model       strategy.Model
	maxExposure float64
	minStake    float64
	policy      staking.DrawdownPolicy
	ledger      bool
}

// Option customizes a simulation
type Option func(*simOptions)

// WithModel replaces the default probability model
func WithModel(m strategy.Model) Option {
	return func(o *simOptions) { o.model = m }
}

// WithMaxExposure sets the per-bet cap as a fraction of current balance
func WithMaxExposure(f float64) Option {
	return func(o *simOptions) { o.maxExposure = f }
}

// WithMinStake sets the floor a stake must exceed to be placed
func WithMinStake(v float64) Option {
	return func(o *simOptions) { o.minStake = v }
}

// WithDrawdownPolicy enables a drawdown throttle or regimes during replay
func WithDrawdownPolicy(p staking.DrawdownPolicy) Option {
	return func(o *simOptions) { o.policy = p }
}

// WithoutLedger skips the per-bet ledger and equity curve. The optimizer uses
// this; aggregate metrics are unaffected.
func WithoutLedger() Option {
	return func(o *simOptions) { o.ledger = false }
}

// Simulate replays games in order under params. Games without a known winner
// or with unusable odds are skipped. Each placed bet settles before the next
// game is priced. The same inputs always yield the same Result.
func Simulate(games []models.Game, params models.ParameterVector, startBankroll float64, opts ...Option) Result {
	o := simOptions{
		model:       strategy.DefaultModel,
		maxExposure: staking.DefaultBacktestMaxExposure,
		minStake:    staking.DefaultBacktestMinStake,
		policy:      staking.PolicyNone,
		ledger:      true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.model == nil {
		o.model = strategy.DefaultModel
	}

	sizing := staking.BacktestConfig(params)
	sizing.MaxExposure = o.maxExposure
	sizing.MinStake = o.minStake
	sizing.Policy = o.policy

	st := newSimState(startBankroll, o.ledger)
	var skipped SkipCounts

	for _, g := range games {
		winner, ok := g.WinningSide()
		if !ok {
			skipped.NoResult++
			continue
		}
		home, away, err := strategy.EvaluateGame(o.model, g, params)
		if err != nil {
			skipped.InvalidOdds++
			continue
		}
		sig, ok := strategy.SelectSide(home, away, params)
		if !ok {
			skipped.Filtered++
			continue
		}
		stake := staking.StakeFor(sig, st.bankroll, sizing)
		if stake <= 0 {
			skipped.BelowMinStake++
			continue
		}

		bet := Bet{
			GameID:           g.ID,
			League:           g.League,
			Date:             g.Date,
			Team:             g.Team(sig.Side),
			Side:             sig.Side,
			AmericanOdds:     sig.AmericanOdds,
			DecimalOdds:      sig.DecimalOdds,
			ModelProbability: sig.ModelProbability,
			Edge:             sig.Edge,
			ExpectedValue:    sig.ExpectedValue,
			Stake:            stake,
			BalanceBefore:    st.bankroll.Balance,
			Won:              sig.Side == winner,
		}
		if bet.Won {
			bet.PnL = stake * sig.NetOdds()
		} else {
			bet.PnL = -stake
		}
		st.settle(bet, g.Date)
	}

	return st.result(params, len(games), startBankroll, skipped)
}

func (s *simState) result(params models.ParameterVector, games int, start float64, skipped SkipCounts) Result {
	r := Result{
		Parameters:        params,
		ParameterHash:     params.Hash(),
		Games:             games,
		StartBankroll:     start,
		FinalBankroll:     s.bankroll.Balance,
		BetCount:          len(s.pnls),
		WinCount:          s.wins,
		Sharpe:            SharpeRatio(s.pnls),
		MaxDrawdown:       s.maxDD,
		LongestWinStreak:  s.longestWin,
		LongestLossStreak: s.longestLos,
		Home:              s.home,
		Away:              s.away,
		Breakdown:         s.breakdown,
		Skipped:           skipped,
		Bets:              s.bets,
		EquityCurve:       s.curve,
	}
	if start > 0 {
		r.ROI = (r.FinalBankroll - start) / start * 100
	}
	r.WinRate = fraction(r.WinCount, r.BetCount) * 100
	return r
}
