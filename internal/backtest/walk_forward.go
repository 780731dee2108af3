package backtest

import (
	"sort"
	"time"

	"github.com/yourusername/sharp-edge/internal/models"
)

// Fold is one chronological slice of the game set
type Fold struct {
	Index  int       `json:"index"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Games  int       `json:"games"`
	Result Result    `json:"result"`
}

// WalkForwardResult checks whether a vector holds up across time slices
type WalkForwardResult struct {
	Folds       []Fold  `json:"folds"`
	Consistency float64 `json:"consistency"`
	MeanROI     float64 `json:"mean_roi"`
	MeanSharpe  float64 `json:"mean_sharpe"`
	RankedFolds int     `json:"ranked_folds"`
}

// WalkForward splits games chronologically into folds of near-equal size and
// simulates each one from the same starting bankroll. Consistency is the share
// of rankable folds that were profitable.
func WalkForward(games []models.Game, params models.ParameterVector, startBankroll float64, folds int, opts ...Option) WalkForwardResult {
	if folds <= 0 || len(games) == 0 {
		return WalkForwardResult{}
	}
	if folds > len(games) {
		folds = len(games)
	}

	ordered := append([]models.Game(nil), games...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	opts = append(append([]Option(nil), opts...), WithoutLedger())
	out := WalkForwardResult{Folds: make([]Fold, 0, folds)}
	profitable := 0

	for i := 0; i < folds; i++ {
		lo := i * len(ordered) / folds
		hi := (i + 1) * len(ordered) / folds
		slice := ordered[lo:hi]
		res := Simulate(slice, params, startBankroll, opts...)

		out.Folds = append(out.Folds, Fold{
			Index:  i,
			Start:  slice[0].Date,
			End:    slice[len(slice)-1].Date,
			Games:  len(slice),
			Result: res,
		})
		out.MeanROI += res.ROI
		out.MeanSharpe += res.Sharpe
		if res.Rankable() {
			out.RankedFolds++
			if res.Profitable() {
				profitable++
			}
		}
	}

	out.MeanROI /= float64(len(out.Folds))
	out.MeanSharpe /= float64(len(out.Folds))
	out.Consistency = fraction(profitable, out.RankedFolds)
	return out
}
