package backtest

import (
	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/odds"
)

// BandStats accumulates bets falling into one reporting band
type BandStats struct {
	Bets   int     `json:"bets"`
	Wins   int     `json:"wins"`
	Staked float64 `json:"staked"`
	PnL    float64 `json:"pnl"`
}

func (s *BandStats) add(b Bet) {
	s.Bets++
	if b.Won {
		s.Wins++
	}
	s.Staked += b.Stake
	s.PnL += b.PnL
}

// WinRate returns wins over bets in percent
func (s BandStats) WinRate() float64 {
	return fraction(s.Wins, s.Bets) * 100
}

// ROI returns PnL over staked in percent
func (s BandStats) ROI() float64 {
	if s.Staked == 0 {
		return 0
	}
	return s.PnL / s.Staked * 100
}

// Breakdown holds fixed-size per-band tables; every bet lands in exactly one
// cell of each table so band totals always equal the bet count.
type Breakdown struct {
	ByOdds       [odds.BandCount]BandStats          `json:"by_odds"`
	ByConfidence [models.ConfidenceBandCount]BandStats `json:"by_confidence"`
}

// Add records a settled bet
func (b *Breakdown) Add(bet Bet) {
	b.ByOdds[odds.BandFor(bet.AmericanOdds)].add(bet)
	b.ByConfidence[models.ConfidenceBandFor(bet.ModelProbability*100)].add(bet)
}

// OddsBand returns the stats for one odds band
func (b Breakdown) OddsBand(band odds.Band) BandStats {
	return b.ByOdds[band]
}

// ConfidenceBand returns the stats for one confidence band
func (b Breakdown) ConfidenceBand(band models.ConfidenceBand) BandStats {
	return b.ByConfidence[band]
}

// SideSplit tallies bets on one side of the market
type SideSplit struct {
	Bets int     `json:"bets"`
	Wins int     `json:"wins"`
	PnL  float64 `json:"pnl"`
}

// WinRate returns wins over bets in percent
func (s SideSplit) WinRate() float64 {
	return fraction(s.Wins, s.Bets) * 100
}
