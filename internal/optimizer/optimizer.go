// Package optimizer searches a grid of parameter vectors for the strategy
// with the best risk-adjusted backtest.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/sharp-edge/internal/backtest"
	"github.com/yourusername/sharp-edge/internal/config"
	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/metrics"
	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/staking"
)

// ErrCancelled accompanies a partial report when the context ends mid-search
var ErrCancelled = errors.New("grid search cancelled")

// Pass names recorded in provenance
const (
	PassCoarse = "coarse"
	PassFine   = "fine"
)

const (
	defaultTopN          = 25
	defaultProgressEvery = 10000
)

// Config controls a search
type Config struct {
	StartBankroll float64
	MaxExposure   float64
	MinStake      float64
	Workers       int
	TopN          int
	MinBets       int
	ProgressEvery int
	Pass          string
}

// ConfigFromApp builds a search config from application config
func ConfigFromApp(cfg *config.Config) Config {
	return Config{
		StartBankroll: cfg.Backtest.StartBankroll,
		MaxExposure:   cfg.Staking.BacktestMaxExposure,
		MinStake:      cfg.Staking.BacktestMinStake,
		Workers:       cfg.Optimizer.Workers,
		TopN:          cfg.Optimizer.TopN,
		MinBets:       cfg.Optimizer.MinBets,
		ProgressEvery: cfg.Optimizer.ProgressEvery,
		Pass:          PassCoarse,
	}
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TopN <= 0 {
		c.TopN = defaultTopN
	}
	if c.MinBets <= 0 {
		c.MinBets = backtest.MinRankableBets
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = defaultProgressEvery
	}
	if c.MaxExposure <= 0 {
		c.MaxExposure = staking.DefaultBacktestMaxExposure
	}
	if c.MinStake <= 0 {
		c.MinStake = staking.DefaultBacktestMinStake
	}
	if c.Pass == "" {
		c.Pass = PassCoarse
	}
	return c
}

// Candidate is a kept combination with its backtest metrics
type Candidate struct {
	Index         int                    `json:"index"`
	ParameterHash string                 `json:"parameter_hash"`
	Parameters    models.ParameterVector `json:"parameters"`
	ROI           float64                `json:"roi"`
	WinRate       float64                `json:"win_rate"`
	Sharpe        float64                `json:"sharpe"`
	FinalBankroll float64                `json:"final_bankroll"`
	MaxDrawdown   float64                `json:"max_drawdown"`
	BetCount      int                    `json:"bet_count"`
	WinCount      int                    `json:"win_count"`
}

func candidateFrom(i int, r backtest.Result) Candidate {
	return Candidate{
		Index:         i,
		ParameterHash: r.ParameterHash,
		Parameters:    r.Parameters,
		ROI:           r.ROI,
		WinRate:       r.WinRate,
		Sharpe:        r.Sharpe,
		FinalBankroll: r.FinalBankroll,
		MaxDrawdown:   r.MaxDrawdown,
		BetCount:      r.BetCount,
		WinCount:      r.WinCount,
	}
}

// Rankings are the two top-N orderings of the kept set
type Rankings struct {
	BySharpe []Candidate `json:"by_sharpe"`
	ByROI    []Candidate `json:"by_roi"`
}

// Rank orders candidates by Sharpe (ties: ROI, then grid index) and by ROI
// (ties: Sharpe, then grid index), truncating both to topN.
func Rank(candidates []Candidate, topN int) Rankings {
	bySharpe := append([]Candidate(nil), candidates...)
	sort.Slice(bySharpe, func(i, j int) bool {
		a, b := bySharpe[i], bySharpe[j]
		if a.Sharpe != b.Sharpe {
			return a.Sharpe > b.Sharpe
		}
		if a.ROI != b.ROI {
			return a.ROI > b.ROI
		}
		return a.Index < b.Index
	})

	byROI := append([]Candidate(nil), candidates...)
	sort.Slice(byROI, func(i, j int) bool {
		a, b := byROI[i], byROI[j]
		if a.ROI != b.ROI {
			return a.ROI > b.ROI
		}
		if a.Sharpe != b.Sharpe {
			return a.Sharpe > b.Sharpe
		}
		return a.Index < b.Index
	})

	return Rankings{BySharpe: truncate(bySharpe, topN), ByROI: truncate(byROI, topN)}
}

func truncate(c []Candidate, n int) []Candidate {
	if n > 0 && len(c) > n {
		return c[:n]
	}
	return c
}

// Progress is a snapshot of a running search
type Progress struct {
	Pass      string
	Evaluated int64
	Kept      int64
	Total     int64
	Elapsed   time.Duration
}

// ProgressFunc receives progress snapshots. It is called from worker
// goroutines and must be safe for concurrent use.
type ProgressFunc func(Progress)

// Report is the outcome of one pass
type Report struct {
	RunID         uuid.UUID     `json:"run_id"`
	Pass          string        `json:"pass"`
	GeneratedAt   time.Time     `json:"generated_at"`
	GridSize      int           `json:"grid_size"`
	Evaluated     int64         `json:"evaluated"`
	Kept          int64         `json:"kept"`
	GameCount     int           `json:"game_count"`
	StartBankroll float64       `json:"start_bankroll"`
	Duration      time.Duration `json:"duration_ns"`
	Cancelled     bool          `json:"cancelled"`
	Rankings      Rankings      `json:"rankings"`
	Best          *Candidate    `json:"best,omitempty"`
}

// Option customizes an Optimizer
type Option func(*Optimizer)

// WithProgress registers a progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(o *Optimizer) { o.progress = fn }
}

// WithSimulatorOptions passes extra options to every simulation
func WithSimulatorOptions(opts ...backtest.Option) Option {
	return func(o *Optimizer) { o.simOpts = append(o.simOpts, opts...) }
}

// Optimizer runs a parallel grid search over a fixed game set
type Optimizer struct {
	cfg      Config
	games    []models.Game
	grid     Grid
	simOpts  []backtest.Option
	progress ProgressFunc
	logger   *logger.OptimizerLogger
	now      func() time.Time
}

// New creates an optimizer. games is read-only for the lifetime of the search.
func New(games []models.Game, grid Grid, cfg Config, log *logrus.Logger, opts ...Option) (*Optimizer, error) {
	if grid.Size() == 0 {
		return nil, ErrEmptyGrid
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("no games to search over")
	}
	cfg = cfg.withDefaults()
	if cfg.StartBankroll <= 0 {
		return nil, fmt.Errorf("start bankroll must be positive")
	}

	o := &Optimizer{
		cfg:    cfg,
		games:  games,
		grid:   grid,
		logger: logger.NewOptimizerLogger(log),
		now:    time.Now,
	}
	o.simOpts = []backtest.Option{
		backtest.WithMaxExposure(cfg.MaxExposure),
		backtest.WithMinStake(cfg.MinStake),
		backtest.WithoutLedger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Run evaluates every combination exactly once across the worker pool. When
// ctx ends first, the partial report is returned together with an error
// wrapping ErrCancelled; the candidates it holds are complete and rankable.
func (o *Optimizer) Run(ctx context.Context) (*Report, error) {
	runID := uuid.New()
	pass := o.cfg.Pass
	size := o.grid.Size()
	total := int64(size)
	started := o.now()

	o.logger.LogStart(runID.String(), pass, size, len(o.games), o.cfg.Workers)
	metrics.SetGridSize(pass, size)

	var evaluated, kept atomic.Int64
	var mu sync.Mutex
	var merged []Candidate

	g, gctx := errgroup.WithContext(ctx)
	indices := make(chan int, o.cfg.Workers*4)

	g.Go(func() error {
		defer close(indices)
		for i := 0; i < size; i++ {
			select {
			case <-gctx.Done():
				return nil
			case indices <- i:
			}
		}
		return nil
	})

	for w := 0; w < o.cfg.Workers; w++ {
		g.Go(func() error {
			var local []Candidate
			defer func() {
				mu.Lock()
				merged = append(merged, local...)
				mu.Unlock()
			}()

			for {
				select {
				case <-gctx.Done():
					return nil
				case i, ok := <-indices:
					if !ok {
						return nil
					}
					c, keep, err := o.evaluate(i)
					if err != nil {
						return err
					}
					if keep {
						local = append(local, c)
						kept.Add(1)
					}
					if n := evaluated.Add(1); n%int64(o.cfg.ProgressEvery) == 0 {
						o.report(runID, Progress{Pass: pass, Evaluated: n, Kept: kept.Load(), Total: total, Elapsed: o.now().Sub(started)})
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("grid search failed: %w", err)
	}

	n, k := evaluated.Load(), kept.Load()
	o.report(runID, Progress{Pass: pass, Evaluated: n, Kept: k, Total: total, Elapsed: o.now().Sub(started)})
	metrics.RecordCombinations(pass, k, n-k)

	report := &Report{
		RunID:         runID,
		Pass:          pass,
		GeneratedAt:   o.now().UTC(),
		GridSize:      size,
		Evaluated:     n,
		Kept:          k,
		GameCount:     len(o.games),
		StartBankroll: o.cfg.StartBankroll,
		Duration:      o.now().Sub(started),
		Cancelled:     n < total,
		Rankings:      Rank(merged, o.cfg.TopN),
	}
	if len(report.Rankings.BySharpe) > 0 {
		best := report.Rankings.BySharpe[0]
		report.Best = &best
		metrics.SetBestSharpe(pass, best.Sharpe)
		o.logger.LogBest(runID.String(), best.ParameterHash, best.Sharpe, best.ROI, best.BetCount)
	}

	if report.Cancelled {
		o.logger.LogCancelled(runID.String(), n, total)
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		return report, fmt.Errorf("%w: %v", ErrCancelled, cause)
	}
	return report, nil
}

// evaluate simulates one combination. Invalid vectors are dropped, not errors.
func (o *Optimizer) evaluate(i int) (Candidate, bool, error) {
	p, err := o.grid.At(i)
	if err != nil {
		return Candidate{}, false, err
	}
	if p.Validate() != nil {
		return Candidate{}, false, nil
	}
	r := backtest.Simulate(o.games, p, o.cfg.StartBankroll, o.simOpts...)
	if r.ROI <= 0 || r.BetCount < o.cfg.MinBets {
		return Candidate{}, false, nil
	}
	return candidateFrom(i, r), true, nil
}

func (o *Optimizer) report(runID uuid.UUID, p Progress) {
	metrics.UpdateOptimizerProgress(p.Pass, p.Evaluated, p.Total)
	o.logger.LogProgress(runID.String(), p.Evaluated, p.Kept, p.Total, p.Elapsed)
	if o.progress != nil {
		o.progress(p)
	}
}
