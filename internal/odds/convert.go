// Package odds converts between American odds, decimal odds and implied probability.
package odds

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOdds is returned for prices that are not valid American odds
var ErrInvalidOdds = errors.New("invalid american odds")

// AmericanToDecimal converts an American price to a decimal payout factor
func AmericanToDecimal(american float64) (float64, error) {
	if american == 0 || math.IsNaN(american) || math.IsInf(american, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidOdds, american)
	}
	if american > 0 {
		return american/100 + 1, nil
	}
	return 100/math.Abs(american) + 1, nil
}

// ImpliedProbability returns the probability a price implies before any vig removal
func ImpliedProbability(american float64) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1 / dec, nil
}

// NetOdds returns the profit per unit staked on a win
func NetOdds(american float64) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return dec - 1, nil
}

// DecimalToAmerican converts a decimal price back to American notation
func DecimalToAmerican(decimal float64) (float64, error) {
	if decimal <= 1 || math.IsNaN(decimal) || math.IsInf(decimal, 0) {
		return 0, fmt.Errorf("%w: decimal %v", ErrInvalidOdds, decimal)
	}
	if decimal >= 2 {
		return (decimal - 1) * 100, nil
	}
	return -100 / (decimal - 1), nil
}

// IsValid reports whether the price can be converted
func IsValid(american float64) bool {
	_, err := AmericanToDecimal(american)
	return err == nil
}
