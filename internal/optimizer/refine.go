package optimizer

import (
	"context"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/models"
)

const defaultRefineSteps = 2

// Refine builds a narrower grid around best. On each axis the new values
// run from halfway to the coarse neighbor below best to halfway to the
// neighbor above it, in 2*steps equal intervals. Axes where best has no
// neighbor stay fixed at best.
func Refine(coarse Grid, best models.ParameterVector, steps int) Grid {
	if steps <= 0 {
		steps = defaultRefineSteps
	}
	g := Grid{
		HomeAdvantage:      refineAxis(coarse.HomeAdvantage, best.HomeAdvantage, steps),
		Form:               refineAxis(coarse.Form, best.Form, steps),
		HeadToHead:         refineAxis(coarse.HeadToHead, best.HeadToHead, steps),
		Record:             refineAxis(coarse.Record, best.Record, steps),
		PointsDifferential: refineAxis(coarse.PointsDifferential, best.PointsDifferential, steps),
		MinEdge:            refineAxis(coarse.MinEdge, best.MinEdge, steps),
		MinConfidence:      refineAxis(coarse.MinConfidence, best.MinConfidence, steps),
		OddsMin:            refineAxis(coarse.OddsMin, best.OddsMin, steps),
		OddsMax:            refineAxis(coarse.OddsMax, best.OddsMax, steps),
		KellyFraction:      refineAxis(coarse.KellyFraction, best.KellyFraction, steps),
	}
	g.KellyFraction = keep(g.KellyFraction, func(v float64) bool { return v > 0 && v <= 1 })
	g.MinConfidence = keep(g.MinConfidence, func(v float64) bool { return v >= 0 && v < 1 })
	return g
}

func refineAxis(values []float64, best float64, steps int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := best, best
	for _, v := range sorted {
		if v < best {
			lo = v
		}
		if v > best && hi == best {
			hi = v
		}
	}
	if lo == hi {
		return []float64{best}
	}

	out := make([]float64, 0, 2*steps+1)
	from, to := best-(best-lo)/2, best+(hi-best)/2
	n := 2 * steps
	for i := 0; i <= n; i++ {
		v := from + (to-from)*float64(i)/float64(n)
		v = math.Round(v*1e6) / 1e6
		if len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
	}
	return out
}

func keep(values []float64, ok func(float64) bool) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if ok(v) {
			out = append(out, v)
		}
	}
	return out
}

// RunPasses runs a coarse search and, when refineSteps > 0 and the coarse
// pass found a winner, a fine search around it. Reports are returned in pass
// order; a cancelled pass ends the sequence with its partial report.
func RunPasses(ctx context.Context, games []models.Game, grid Grid, cfg Config, refineSteps int, log *logrus.Logger, opts ...Option) ([]*Report, error) {
	cfg.Pass = PassCoarse
	coarse, err := New(games, grid, cfg, log, opts...)
	if err != nil {
		return nil, err
	}
	first, err := coarse.Run(ctx)
	if first == nil {
		return nil, err
	}
	reports := []*Report{first}
	if err != nil || refineSteps <= 0 || first.Best == nil {
		return reports, err
	}

	fineGrid := Refine(grid, first.Best.Parameters, refineSteps)
	if fineGrid.Size() == 0 {
		return reports, nil
	}
	cfg.Pass = PassFine
	fine, err := New(games, fineGrid, cfg, log, opts...)
	if err != nil {
		return reports, err
	}
	second, err := fine.Run(ctx)
	if second != nil {
		reports = append(reports, second)
	}
	return reports, err
}

// Best returns the best candidate across passes by Sharpe, ties to the later pass
func Best(reports []*Report) (*Report, *Candidate) {
	var bestReport *Report
	var best *Candidate
	for _, r := range reports {
		if r == nil || r.Best == nil {
			continue
		}
		if best == nil || r.Best.Sharpe >= best.Sharpe {
			bestReport, best = r, r.Best
		}
	}
	return bestReport, best
}
