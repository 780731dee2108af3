package backtest

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// EquityPoint is the balance after one settled bet
type EquityPoint struct {
	Index    int       `json:"index"`
	GameID   string    `json:"game_id,omitempty"`
	Time     time.Time `json:"time"`
	Value    float64   `json:"value"`
	Drawdown float64   `json:"drawdown"`
	PnL      float64   `json:"pnl"`
}

// EquityCurve is the balance series of a simulation, starting with the opening balance
type EquityCurve []EquityPoint

// Returns calculates per-bet returns on the running balance
func (e EquityCurve) Returns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Value
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (e[i].Value-prev)/prev)
	}
	return returns
}

// MaxDrawdown returns the deepest peak-to-trough decline as a fraction
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Value > peak {
			peak = p.Value
		}
		if peak == 0 {
			continue
		}
		if dd := (peak - p.Value) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// WriteCSV exports the curve
func (e EquityCurve) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"index", "game_id", "time", "value", "drawdown", "pnl"}); err != nil {
		return err
	}
	for _, p := range e {
		ts := ""
		if !p.Time.IsZero() {
			ts = p.Time.UTC().Format(time.RFC3339)
		}
		if err := cw.Write([]string{
			strconv.Itoa(p.Index),
			p.GameID,
			ts,
			formatFloat(p.Value),
			formatFloat(p.Drawdown),
			formatFloat(p.PnL),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
