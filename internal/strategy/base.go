package strategy

import (
	"fmt"

	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/odds"
)

// ExpectedValue returns the per-unit expected profit at decimal odds d
func ExpectedValue(probability, decimalOdds float64) float64 {
	b := decimalOdds - 1
	if b <= 0 {
		return -1
	}
	return probability*b - (1 - probability)
}

// FullKelly returns f* = (b*p - q) / b, floored at zero
func FullKelly(probability, decimalOdds float64) float64 {
	b := decimalOdds - 1
	if b <= 0 || probability <= 0 || probability >= 1 {
		return 0
	}
	kelly := (b*probability - (1 - probability)) / b
	if kelly <= 0 {
		return 0
	}
	return kelly
}

// EvaluateSide prices one side given the model probability for that side
func EvaluateSide(side models.Side, modelProbability, americanOdds float64) (Signal, error) {
	dec, err := odds.AmericanToDecimal(americanOdds)
	if err != nil {
		return Signal{}, err
	}
	if dec <= 1 {
		return Signal{}, fmt.Errorf("%w: decimal %v", odds.ErrInvalidOdds, dec)
	}
	market := 1 / dec
	return Signal{
		Side:              side,
		ModelProbability:  modelProbability,
		MarketProbability: market,
		Edge:              modelProbability - market,
		ExpectedValue:     ExpectedValue(modelProbability, dec),
		AmericanOdds:      americanOdds,
		DecimalOdds:       dec,
	}, nil
}

// EvaluateGame prices both sides of a game with the given model
func EvaluateGame(model Model, game models.Game, params models.ParameterVector) (home Signal, away Signal, err error) {
	if model == nil {
		model = DefaultModel
	}
	if !game.HasOdds() {
		return Signal{}, Signal{}, models.ErrMissingOdds
	}
	pHome, err := model.HomeProbability(game, params)
	if err != nil {
		return Signal{}, Signal{}, err
	}
	home, err = EvaluateSide(models.SideHome, pHome, game.HomeOdds)
	if err != nil {
		return Signal{}, Signal{}, err
	}
	away, err = EvaluateSide(models.SideAway, 1-pHome, game.AwayOdds)
	if err != nil {
		return Signal{}, Signal{}, err
	}
	return home, away, nil
}

// Passes reports whether a signal clears the vector's filters
func Passes(s Signal, params models.ParameterVector) bool {
	return s.Edge > params.MinEdge &&
		s.ModelProbability >= params.MinConfidence &&
		s.AmericanOdds >= params.OddsMin &&
		s.AmericanOdds <= params.OddsMax
}

// SelectSide returns the better of the two signals that clears the filters
func SelectSide(home, away Signal, params models.ParameterVector) (Signal, bool) {
	homeOK := Passes(home, params)
	awayOK := Passes(away, params)
	switch {
	case homeOK && awayOK:
		if away.ExpectedValue > home.ExpectedValue {
			return away, true
		}
		return home, true
	case homeOK:
		return home, true
	case awayOK:
		return away, true
	}
	return Signal{}, false
}
