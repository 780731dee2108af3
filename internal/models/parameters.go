package models

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// ParameterVector holds the signal weights and policy thresholds of one candidate strategy
type ParameterVector struct {
	HomeAdvantage      float64 `json:"home_advantage" yaml:"home_advantage" mapstructure:"home_advantage"`
	Form               float64 `json:"form" yaml:"form" mapstructure:"form"`
	HeadToHead         float64 `json:"head_to_head" yaml:"head_to_head" mapstructure:"head_to_head"`
	Record             float64 `json:"record" yaml:"record" mapstructure:"record"`
	PointsDifferential float64 `json:"points_differential" yaml:"points_differential" mapstructure:"points_differential"`
	MinEdge            float64 `json:"min_edge" yaml:"min_edge" mapstructure:"min_edge"`
	MinConfidence      float64 `json:"min_confidence" yaml:"min_confidence" mapstructure:"min_confidence"`
	OddsMin            float64 `json:"odds_min" yaml:"odds_min" mapstructure:"odds_min"`
	OddsMax            float64 `json:"odds_max" yaml:"odds_max" mapstructure:"odds_max"`
	KellyFraction      float64 `json:"kelly_fraction" yaml:"kelly_fraction" mapstructure:"kelly_fraction"`
}

// DefaultParameters returns a conservative starting vector
func DefaultParameters() ParameterVector {
	return ParameterVector{
		HomeAdvantage:      1.0,
		Form:               0.10,
		HeadToHead:         0.05,
		Record:             0.10,
		PointsDifferential: 0,
		MinEdge:            0.02,
		MinConfidence:      0.55,
		OddsMin:            -250,
		OddsMax:            200,
		KellyFraction:      0.25,
	}
}

// Hash returns a stable digest of the vector
func (p ParameterVector) Hash() string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

// Validate checks threshold sanity
func (p ParameterVector) Validate() error {
	if p.OddsMin > p.OddsMax {
		return fmt.Errorf("odds_min %v exceeds odds_max %v", p.OddsMin, p.OddsMax)
	}
	if p.KellyFraction <= 0 || p.KellyFraction > 1 {
		return fmt.Errorf("kelly_fraction must be in (0, 1], got %v", p.KellyFraction)
	}
	if p.MinConfidence < 0 || p.MinConfidence >= 1 {
		return fmt.Errorf("min_confidence must be in [0, 1), got %v", p.MinConfidence)
	}
	return nil
}
