package staking

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Summary describes an allocation for display
type Summary struct {
	Positions    int             `json:"positions"`
	TotalStaked  decimal.Decimal `json:"total_staked"`
	Remaining    decimal.Decimal `json:"remaining"`
	ExposurePct  decimal.Decimal `json:"exposure_pct"`
	ExpectedGain decimal.Decimal `json:"expected_gain"`
}

// Summary rounds allocation totals to cents
func (a Allocation) Summary() Summary {
	staked := decimal.Zero
	gain := decimal.Zero
	for _, p := range a.Positions {
		stake := RoundStake(p.Stake)
		staked = staked.Add(stake)
		gain = gain.Add(stake.Mul(decimal.NewFromFloat(p.ExpectedValue)))
	}
	exposure := decimal.Zero
	if a.Start.Balance > 0 {
		exposure = staked.Div(decimal.NewFromFloat(a.Start.Balance)).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return Summary{
		Positions:    len(a.Positions),
		TotalStaked:  staked,
		Remaining:    RoundStake(a.End.Balance),
		ExposurePct:  exposure,
		ExpectedGain: gain.Round(2),
	}
}

// RoundStake rounds a currency amount to cents
func RoundStake(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

var csvHeader = []string{
	"rank", "game_id", "league", "team", "side", "american_odds",
	"model_probability", "edge", "expected_value", "kelly_fraction", "stake",
}

// WriteCSV writes positions in allocation order
func WriteCSV(w io.Writer, alloc Allocation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, p := range alloc.Positions {
		row := []string{
			fmt.Sprintf("%d", i+1),
			p.GameID,
			p.League,
			p.Team,
			string(p.Side),
			fmt.Sprintf("%+.0f", p.AmericanOdds),
			fmt.Sprintf("%.4f", p.ModelProbability),
			fmt.Sprintf("%.4f", p.Edge),
			fmt.Sprintf("%.4f", p.ExpectedValue),
			fmt.Sprintf("%.2f", p.KellyFraction),
			RoundStake(p.Stake).StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
