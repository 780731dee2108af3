package strategy

import (
	"fmt"
	"math"

	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/odds"
)

const (
	// MinProbability and MaxProbability bound every model output
	MinProbability = 0.05
	MaxProbability = 0.95

	homeAdvantageScale = 0.05
	neutralWinPct      = 0.5
)

// formWeights apply to the most recent five results, most recent first
var formWeights = [5]float64{0.35, 0.25, 0.20, 0.12, 0.08}

// WeightedSignalModel blends the de-vigged market price with weighted context signals
type WeightedSignalModel struct{}

// DefaultModel is the model used by the allocator and the simulator
var DefaultModel Model = WeightedSignalModel{}

// Name returns the model identifier
func (WeightedSignalModel) Name() string {
	return "weighted_signal"
}

// HomeProbability computes the clamped home win probability. The away
// probability is always its complement.
func (WeightedSignalModel) HomeProbability(game models.Game, params models.ParameterVector) (float64, error) {
	rawHome, err := odds.ImpliedProbability(game.HomeOdds)
	if err != nil {
		return 0, fmt.Errorf("home odds: %w", err)
	}
	rawAway, err := odds.ImpliedProbability(game.AwayOdds)
	if err != nil {
		return 0, fmt.Errorf("away odds: %w", err)
	}

	p := rawHome / (rawHome + rawAway)
	p += params.HomeAdvantage * homeAdvantageScale
	p += (FormScore(game.HomeForm) - FormScore(game.AwayForm)) * params.Form
	p += headToHeadTerm(game.HeadToHead) * params.HeadToHead
	p += (winPct(game.HomeStats) - winPct(game.AwayStats)) * params.Record
	if params.PointsDifferential > 0 {
		p += (netPerGame(game.HomeStats) - netPerGame(game.AwayStats)) * params.PointsDifferential
	}

	return ClampProbability(p), nil
}

// HomeProbability evaluates the default model
func HomeProbability(game models.Game, params models.ParameterVector) (float64, error) {
	return DefaultModel.HomeProbability(game, params)
}

// FormScore returns the recency-weighted share of wins over the last five results
func FormScore(results []models.FormResult) float64 {
	score := 0.0
	for i, r := range results {
		if i >= len(formWeights) {
			break
		}
		if r == models.FormWin {
			score += formWeights[i]
		}
	}
	return score
}

// ClampProbability bounds p to [MinProbability, MaxProbability]
func ClampProbability(p float64) float64 {
	if math.IsNaN(p) {
		return neutralWinPct
	}
	if p < MinProbability {
		return MinProbability
	}
	if p > MaxProbability {
		return MaxProbability
	}
	return p
}

func headToHeadTerm(h2h *models.HeadToHead) float64 {
	if h2h == nil || h2h.Total() == 0 {
		return 0
	}
	return float64(h2h.HomeWins)/float64(h2h.Total()) - 0.5
}

func winPct(stats *models.TeamStats) float64 {
	if stats == nil {
		return neutralWinPct
	}
	return stats.WinPct()
}

func netPerGame(stats *models.TeamStats) float64 {
	if stats == nil {
		return 0
	}
	return stats.NetPointsPerGame()
}
