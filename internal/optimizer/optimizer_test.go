package optimizer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-edge/internal/models"
)

// games returns a season where the +110 home side wins two of every three
func games(n int) []models.Game {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Game, n)
	for i := range out {
		g := models.Game{
			ID:       fmt.Sprintf("g%03d", i),
			League:   "NHL",
			Date:     start.AddDate(0, 0, i),
			HomeTeam: fmt.Sprintf("Home %d", i),
			AwayTeam: fmt.Sprintf("Away %d", i),
			HomeOdds: 110,
			AwayOdds: -130,
		}
		g.Winner = g.HomeTeam
		if i%3 == 2 {
			g.Winner = g.AwayTeam
		}
		out[i] = g
	}
	return out
}

func singleGrid() Grid {
	return Grid{
		HomeAdvantage:      []float64{1},
		Form:               []float64{0},
		HeadToHead:         []float64{0},
		Record:             []float64{0},
		PointsDifferential: []float64{0},
		MinEdge:            []float64{0.01},
		MinConfidence:      []float64{0},
		OddsMin:            []float64{-500},
		OddsMax:            []float64{500},
		KellyFraction:      []float64{0.5},
	}
}

func testConfig() Config {
	return Config{StartBankroll: 1000, Workers: 4, ProgressEvery: 1}
}

func TestGridSizeAndDecode(t *testing.T) {
	g := singleGrid()
	g.HomeAdvantage = []float64{0, 1, 2}
	g.KellyFraction = []float64{0.25, 0.5}
	require.Equal(t, 6, g.Size())

	first, err := g.At(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, first.HomeAdvantage)
	assert.Equal(t, 0.25, first.KellyFraction)

	second, err := g.At(1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, second.HomeAdvantage)
	assert.Equal(t, 0.5, second.KellyFraction)

	last, err := g.At(5)
	require.NoError(t, err)
	assert.Equal(t, 2.0, last.HomeAdvantage)
	assert.Equal(t, 0.5, last.KellyFraction)

	_, err = g.At(6)
	assert.Error(t, err)
	_, err = g.At(-1)
	assert.Error(t, err)

	seen := map[string]bool{}
	require.NoError(t, g.Iterate(context.Background(), func(i int, p models.ParameterVector) error {
		seen[p.Hash()] = true
		return nil
	}))
	assert.Len(t, seen, 6)
}

func TestEmptyGrid(t *testing.T) {
	g := singleGrid()
	g.Form = nil
	assert.Zero(t, g.Size())
	_, err := g.At(0)
	assert.ErrorIs(t, err, ErrEmptyGrid)
	assert.ErrorIs(t, g.Iterate(context.Background(), func(int, models.ParameterVector) error { return nil }), ErrEmptyGrid)

	_, err = New(games(9), g, testConfig(), nil)
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestRankTieBreaks(t *testing.T) {
	cands := []Candidate{
		{Index: 4, Sharpe: 1.0, ROI: 5},
		{Index: 1, Sharpe: 2.0, ROI: 3},
		{Index: 3, Sharpe: 1.0, ROI: 5},
		{Index: 2, Sharpe: 1.0, ROI: 9},
	}
	r := Rank(cands, 3)

	require.Len(t, r.BySharpe, 3)
	assert.Equal(t, []int{1, 2, 3}, indices(r.BySharpe))
	require.Len(t, r.ByROI, 3)
	assert.Equal(t, []int{2, 3, 4}, indices(r.ByROI))
	// input untouched
	assert.Equal(t, 4, cands[0].Index)
}

func indices(c []Candidate) []int {
	out := make([]int, len(c))
	for i := range c {
		out[i] = c[i].Index
	}
	return out
}

func TestRunKeepsProfitableCombinations(t *testing.T) {
	g := singleGrid()
	g.HomeAdvantage = []float64{0, 1, 2}

	var calls atomic.Int64
	opt, err := New(games(30), g, testConfig(), nil, WithProgress(func(p Progress) {
		calls.Add(1)
		assert.Equal(t, PassCoarse, p.Pass)
		assert.Equal(t, int64(3), p.Total)
	}))
	require.NoError(t, err)

	report, err := opt.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.GridSize)
	assert.Equal(t, int64(3), report.Evaluated)
	// HA 0 never finds an edge, so it places no bets
	assert.Equal(t, int64(2), report.Kept)
	assert.False(t, report.Cancelled)
	require.NotNil(t, report.Best)
	assert.NotZero(t, report.Best.Parameters.HomeAdvantage)
	assert.Positive(t, report.Best.ROI)
	assert.GreaterOrEqual(t, report.Best.BetCount, 8)
	assert.Equal(t, report.Rankings.BySharpe[0], *report.Best)
	assert.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	g := singleGrid()
	g.HomeAdvantage = []float64{0.5, 1, 1.5, 2}
	g.KellyFraction = []float64{0.25, 0.5, 1}

	cfg := testConfig()
	cfg.Workers = 1
	one, err := New(games(30), g, cfg, nil)
	require.NoError(t, err)
	a, err := one.Run(context.Background())
	require.NoError(t, err)

	cfg.Workers = 8
	many, err := New(games(30), g, cfg, nil)
	require.NoError(t, err)
	b, err := many.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Rankings, b.Rankings)
	assert.Equal(t, a.Kept, b.Kept)
}

func TestRunMinBetsFilter(t *testing.T) {
	cfg := testConfig()
	cfg.MinBets = 1000
	opt, err := New(games(30), singleGrid(), cfg, nil)
	require.NoError(t, err)

	report, err := opt.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Kept)
	assert.Nil(t, report.Best)

	dir := t.TempDir()
	err = WriteArtifacts(dir, report)
	assert.ErrorIs(t, err, ErrNoBest)
	assert.FileExists(t, filepath.Join(dir, RankingsFile))
	assert.NoFileExists(t, filepath.Join(dir, TunedYAMLFile))
}

func TestRunCancelledReturnsPartialReport(t *testing.T) {
	g := singleGrid()
	g.HomeAdvantage = make([]float64, 10)
	g.Form = make([]float64, 10)
	g.Record = make([]float64, 10)
	for i := 0; i < 10; i++ {
		g.HomeAdvantage[i] = float64(i) / 4
		g.Form[i] = float64(i) / 10
		g.Record[i] = float64(i) / 10
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opt, err := New(games(30), g, testConfig(), nil)
	require.NoError(t, err)
	report, err := opt.Run(ctx)

	assert.ErrorIs(t, err, ErrCancelled)
	require.NotNil(t, report)
	assert.True(t, report.Cancelled)
	assert.Less(t, report.Evaluated, int64(g.Size()))
	assert.LessOrEqual(t, int64(len(report.Rankings.BySharpe)), report.Kept)
}

func TestArtifactsRoundTrip(t *testing.T) {
	g := singleGrid()
	g.HomeAdvantage = []float64{1, 2}
	opt, err := New(games(30), g, testConfig(), nil)
	require.NoError(t, err)
	report, err := opt.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report.Best)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteArtifacts(dir, report))
	for _, name := range []string{RankingsFile, BestFile, TunedJSONFile, TunedYAMLFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	for _, name := range []string{TunedJSONFile, TunedYAMLFile} {
		tuned, err := LoadTunedParameters(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, report.Best.Parameters, tuned.Parameters, name)
		assert.Equal(t, PassCoarse, tuned.Provenance.Pass)
		assert.Equal(t, report.RunID, tuned.RunID)
		assert.Equal(t, report.Best.BetCount, tuned.Metrics.BetCount)
	}

	tuned, err := NewTunedParameters(report)
	require.NoError(t, err)
	rec, err := tuned.Record()
	require.NoError(t, err)
	assert.Equal(t, report.RunID, rec.RunID)
	assert.Equal(t, report.Best.ParameterHash, rec.ParameterHash)
	assert.Equal(t, 2, rec.GridSize)
}

func TestLoadTunedParametersRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parameters:\n  kelly_fraction: 0\n"), 0o644))
	_, err := LoadTunedParameters(path)
	assert.Error(t, err)

	_, err = LoadTunedParameters(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRefine(t *testing.T) {
	coarse := singleGrid()
	coarse.HomeAdvantage = []float64{2, 0, 1}
	coarse.KellyFraction = []float64{0.5, 1}

	best := models.ParameterVector{HomeAdvantage: 1, MinEdge: 0.01, OddsMin: -500, OddsMax: 500, KellyFraction: 1}
	fine := Refine(coarse, best, 2)

	assert.Equal(t, []float64{0.5, 0.75, 1, 1.25, 1.5}, fine.HomeAdvantage)
	assert.Equal(t, []float64{0.75, 0.8125, 0.875, 0.9375, 1}, fine.KellyFraction)
	assert.Equal(t, []float64{0}, fine.Form)
	assert.Equal(t, []float64{0.01}, fine.MinEdge)

	best.HomeAdvantage = 2
	assert.Equal(t, []float64{1.5, 1.625, 1.75, 1.875, 2}, Refine(coarse, best, 2).HomeAdvantage)
}

func TestRunPasses(t *testing.T) {
	g := singleGrid()
	g.HomeAdvantage = []float64{0, 1, 2}

	reports, err := RunPasses(context.Background(), games(30), g, testConfig(), 1, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, PassCoarse, reports[0].Pass)
	assert.Equal(t, PassFine, reports[1].Pass)
	assert.Equal(t, 3, reports[1].GridSize)

	r, best := Best(reports)
	require.NotNil(t, best)
	assert.Same(t, r.Best, best)
	for _, rep := range reports {
		if rep.Best != nil {
			assert.GreaterOrEqual(t, best.Sharpe, rep.Best.Sharpe)
		}
	}

	single, err := RunPasses(context.Background(), games(30), g, testConfig(), 0, nil)
	require.NoError(t, err)
	assert.Len(t, single, 1)
}

func TestConsoleReport(t *testing.T) {
	g := singleGrid()
	g.HomeAdvantage = []float64{1, 2}
	opt, err := New(games(30), g, testConfig(), nil)
	require.NoError(t, err)
	report, err := opt.Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteConsoleReport(&buf, report)
	out := buf.String()
	assert.Contains(t, out, "Pass coarse (complete)")
	assert.Contains(t, out, "Top by Sharpe")
	assert.Contains(t, out, "Top by ROI")
}
