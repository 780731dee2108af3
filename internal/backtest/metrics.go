package backtest

import (
	"math"
	"sort"
)

// SharpeRatio is mean/stddev of per-bet PnL scaled by sqrt(n).
// Population standard deviation; 0 when it is 0 or there are no bets.
func SharpeRatio(pnls []float64) float64 {
	if len(pnls) == 0 {
		return 0
	}
	std := stddev(pnls)
	if std == 0 {
		return 0
	}
	return average(pnls) / std * math.Sqrt(float64(len(pnls)))
}

// maxProfitFactor stands in for an infinite ratio so results stay JSON-encodable
const maxProfitFactor = 999

// ProfitFactor is gross profit over gross loss
func ProfitFactor(bets []Bet) float64 {
	grossProfit := 0.0
	grossLoss := 0.0
	for _, b := range bets {
		if b.PnL > 0 {
			grossProfit += b.PnL
		} else {
			grossLoss -= b.PnL
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return maxProfitFactor
		}
		return 0
	}
	return grossProfit / grossLoss
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}

// percentile returns the p-quantile (0..1) by nearest rank on a sorted copy
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func fraction(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
