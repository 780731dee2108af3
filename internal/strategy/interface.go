// Package strategy turns games and parameter vectors into priced signals.
package strategy

import (
	"github.com/yourusername/sharp-edge/internal/models"
)

// Model estimates the home-side win probability of a game
type Model interface {
	Name() string
	HomeProbability(game models.Game, params models.ParameterVector) (float64, error)
}

// Signal is one side of a game evaluated under a parameter vector.
// Signals depend on the vector and are never cached across vectors.
type Signal struct {
	Side              models.Side `json:"side"`
	ModelProbability  float64     `json:"model_probability"`
	MarketProbability float64     `json:"market_probability"`
	Edge              float64     `json:"edge"`
	ExpectedValue     float64     `json:"expected_value"`
	AmericanOdds      float64     `json:"american_odds"`
	DecimalOdds       float64     `json:"decimal_odds"`
}

// NetOdds returns decimal odds minus one
func (s Signal) NetOdds() float64 {
	return s.DecimalOdds - 1
}
