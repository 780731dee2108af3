package staking

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/metrics"
	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/strategy"
)

// Candidate is a priced side of a game eligible for staking
type Candidate struct {
	GameID   string          `json:"game_id"`
	League   string          `json:"league"`
	Team     string          `json:"team"`
	Opponent string          `json:"opponent"`
	Date     time.Time       `json:"date"`
	Signal   strategy.Signal `json:"signal"`
}

// Position is a sized stake on one side of one game
type Position struct {
	GameID           string      `json:"game_id"`
	League           string      `json:"league"`
	Team             string      `json:"team"`
	Side             models.Side `json:"side"`
	Stake            float64     `json:"stake"`
	AmericanOdds     float64     `json:"american_odds"`
	ModelProbability float64     `json:"model_probability"`
	Edge             float64     `json:"edge"`
	ExpectedValue    float64     `json:"expected_value"`
	KellyFraction    float64     `json:"kelly_fraction"`
	Regime           string      `json:"regime,omitempty"`
}

// SkipReason explains why a filtered candidate received no stake
type SkipReason string

const (
	SkipDuplicate     SkipReason = "duplicate"
	SkipBelowMinStake SkipReason = "below_min_stake"
	SkipNoEdge        SkipReason = "no_edge"
)

// Skipped pairs a candidate with its skip reason
type Skipped struct {
	Candidate Candidate  `json:"candidate"`
	Reason    SkipReason `json:"reason"`
}

// Allocation is the ordered output of one allocation run
type Allocation struct {
	Positions []Position    `json:"positions"`
	Skipped   []Skipped     `json:"skipped,omitempty"`
	Start     BankrollState `json:"start"`
	End       BankrollState `json:"end"`
}

// TotalStaked sums position stakes
func (a Allocation) TotalStaked() float64 {
	total := 0.0
	for _, p := range a.Positions {
		total += p.Stake
	}
	return total
}

// SkippedByReason counts skipped candidates per reason
func (a Allocation) SkippedByReason() map[string]int {
	out := make(map[string]int, 3)
	for _, s := range a.Skipped {
		out[string(s.Reason)]++
	}
	return out
}

type positionKey struct {
	gameID string
	side   models.Side
}

// Allocator runs candidate generation, filtering, ordering and sequential sizing
type Allocator struct {
	config Config
	model  strategy.Model
	logger *logrus.Logger
}

// NewAllocator creates an allocator. A nil model uses the default weighted model.
func NewAllocator(cfg Config, model strategy.Model, logger *logrus.Logger) *Allocator {
	if model == nil {
		model = strategy.DefaultModel
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Allocator{config: cfg, model: model, logger: logger}
}

// Candidates prices both sides of every game and keeps the side with positive edge.
// Games with unusable odds are skipped and logged.
func (a *Allocator) Candidates(games []models.Game, params models.ParameterVector) []Candidate {
	out := make([]Candidate, 0, len(games))
	for _, g := range games {
		home, away, err := strategy.EvaluateGame(a.model, g, params)
		if err != nil {
			a.logger.WithFields(logrus.Fields{"game_id": g.ID, "error": err}).Debug("Skipping game with unusable odds")
			continue
		}
		best := home
		if away.Edge > home.Edge {
			best = away
		}
		if best.Edge <= 0 {
			continue
		}
		out = append(out, Candidate{
			GameID:   g.ID,
			League:   g.League,
			Team:     g.Team(best.Side),
			Opponent: g.Team(best.Side.Opposite()),
			Date:     g.Date,
			Signal:   best,
		})
	}
	return out
}

// Filter keeps candidates clearing edge, confidence and odds-range thresholds
func Filter(cands []Candidate, params models.ParameterVector) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if strategy.Passes(c.Signal, params) {
			out = append(out, c)
		}
	}
	return out
}

// SortCandidates orders by expected value desc, then edge desc, then game id
// and side (home first) so repeated runs allocate identically.
func SortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i].Signal, cands[j].Signal
		if a.ExpectedValue != b.ExpectedValue {
			return a.ExpectedValue > b.ExpectedValue
		}
		if a.Edge != b.Edge {
			return a.Edge > b.Edge
		}
		if cands[i].GameID != cands[j].GameID {
			return cands[i].GameID < cands[j].GameID
		}
		return a.Side == models.SideHome && b.Side != models.SideHome
	})
}

// Allocate walks sorted candidates and sizes each against the shrinking balance
func (a *Allocator) Allocate(cands []Candidate, state BankrollState) (Allocation, BankrollState) {
	alloc := Allocation{Start: state, Positions: make([]Position, 0, len(cands))}
	held := make(map[positionKey]struct{}, len(cands))

	for _, c := range cands {
		key := positionKey{gameID: c.GameID, side: c.Signal.Side}
		if _, ok := held[key]; ok {
			alloc.Skipped = append(alloc.Skipped, Skipped{Candidate: c, Reason: SkipDuplicate})
			continue
		}
		if c.Signal.Edge <= 0 {
			alloc.Skipped = append(alloc.Skipped, Skipped{Candidate: c, Reason: SkipNoEdge})
			continue
		}

		fraction, regime := EffectiveFraction(state, a.config)
		stake := StakeFor(c.Signal, state, a.config)
		if stake <= 0 {
			a.logger.WithFields(logrus.Fields{
				"game_id":   c.GameID,
				"balance":   state.Balance,
				"min_stake": a.config.MinStake,
			}).Debug("Stake not above minimum, candidate skipped")
			alloc.Skipped = append(alloc.Skipped, Skipped{Candidate: c, Reason: SkipBelowMinStake})
			continue
		}

		pos := Position{
			GameID:           c.GameID,
			League:           c.League,
			Team:             c.Team,
			Side:             c.Signal.Side,
			Stake:            stake,
			AmericanOdds:     c.Signal.AmericanOdds,
			ModelProbability: c.Signal.ModelProbability,
			Edge:             c.Signal.Edge,
			ExpectedValue:    c.Signal.ExpectedValue,
			KellyFraction:    fraction,
		}
		if a.config.Policy == PolicyRegimes {
			pos.Regime = regime.String()
		}
		alloc.Positions = append(alloc.Positions, pos)
		held[key] = struct{}{}
		state = state.Spend(stake)

		a.logger.WithFields(logrus.Fields{
			"game_id":  c.GameID,
			"side":     c.Signal.Side,
			"stake":    stake,
			"edge":     c.Signal.Edge,
			"ev":       c.Signal.ExpectedValue,
			"balance":  state.Balance,
			"drawdown": state.Drawdown(),
		}).Debug("Position allocated")
	}

	alloc.End = state
	return alloc, state
}

// Run generates, filters, sorts and allocates in one call
func (a *Allocator) Run(games []models.Game, params models.ParameterVector, state BankrollState) (Allocation, BankrollState) {
	cands := Filter(a.Candidates(games, params), params)
	SortCandidates(cands)
	alloc, next := a.Allocate(cands, state)
	metrics.RecordAllocation(len(alloc.Positions), alloc.SkippedByReason(), alloc.TotalStaked(), next.Balance, next.Drawdown())
	a.logger.WithFields(logrus.Fields{
		"games":      len(games),
		"candidates": len(cands),
		"positions":  len(alloc.Positions),
		"staked":     alloc.TotalStaked(),
		"remaining":  next.Balance,
	}).Info("Allocation complete")
	return alloc, next
}

// EffectiveFraction returns the Kelly multiplier for the current drawdown
func EffectiveFraction(state BankrollState, cfg Config) (float64, Regime) {
	dd := state.Drawdown()
	regime := RegimeFor(dd)
	switch cfg.Policy {
	case PolicyThrottle:
		if dd > cfg.ThrottleDrawdown {
			return cfg.ThrottledFraction, regime
		}
	case PolicyRegimes:
		return regime.Multiplier(), regime
	}
	return cfg.KellyFraction, regime
}

// StakeFor sizes a single bet: balance * f* * fraction, capped at the
// per-trade exposure and the balance. Returns 0 when there is no edge or the
// stake does not exceed the minimum.
func StakeFor(signal strategy.Signal, state BankrollState, cfg Config) float64 {
	if signal.Edge <= 0 || state.Balance <= 0 {
		return 0
	}
	kelly := strategy.FullKelly(signal.ModelProbability, signal.DecimalOdds)
	if kelly <= 0 {
		return 0
	}
	fraction, _ := EffectiveFraction(state, cfg)
	stake := state.Balance * kelly * fraction

	if limit := state.Balance * cfg.MaxExposure; stake > limit {
		stake = limit
	}
	if stake > state.Balance {
		stake = state.Balance
	}
	if stake <= cfg.MinStake {
		return 0
	}
	return stake
}
