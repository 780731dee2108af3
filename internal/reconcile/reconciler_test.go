package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-edge/internal/models"
)

type fakeFeed struct {
	results map[string][]models.GameResult
	errs    map[string]error
	calls   map[string]int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		results: map[string][]models.GameResult{},
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeFeed) Name() string { return "fake" }

func (f *fakeFeed) FetchResults(_ context.Context, league string, _ int) ([]models.GameResult, error) {
	f.calls[league]++
	if err := f.errs[league]; err != nil {
		return nil, err
	}
	return f.results[league], nil
}

func score(v int) *int { return &v }

func final(league, home, away string, hs, as int) models.GameResult {
	return models.GameResult{League: league, HomeTeam: home, AwayTeam: away, HomeScore: score(hs), AwayScore: score(as), Completed: true}
}

var fixedNow = time.Date(2025, 2, 10, 7, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func TestReconcileClassifiesPicks(t *testing.T) {
	feed := newFakeFeed()
	feed.results[models.LeagueNCAAB] = []models.GameResult{
		final("NCAAB", "Duke Blue Devils", "North Carolina Tar Heels", 80, 71),
		final("NCAAB", "Kansas Jayhawks", "Baylor Bears", 60, 66),
		{League: "NCAAB", HomeTeam: "Gonzaga Bulldogs", AwayTeam: "Saint Mary's Gaels"},
	}

	picks := []models.Pick{
		{ID: "1", League: "NCAAB", HomeTeam: "Duke", AwayTeam: "North Carolina", Pick: "Duke", Confidence: 78},
		{ID: "2", League: "ncaab", HomeTeam: "Kansas", AwayTeam: "Baylor", Pick: "Kansas", Confidence: 66},
		{ID: "3", League: "NCAAB", HomeTeam: "Gonzaga", AwayTeam: "Saint Mary's", Pick: "Gonzaga", Confidence: 90},
		{ID: "4", League: "NCAAB", HomeTeam: "Villanova", AwayTeam: "Xavier", Pick: "Xavier", Confidence: 55},
	}

	rep, err := New(feed, nil, WithClock(clock)).Reconcile(context.Background(), picks)
	require.NoError(t, err)
	require.Len(t, rep.Records, 4)

	assert.Equal(t, models.PickStatusWin, rep.Records[0].Status)
	assert.Equal(t, "Duke Blue Devils", rep.Records[0].ActualWinner)
	assert.Equal(t, &models.Score{Home: 80, Away: 71}, rep.Records[0].ActualScore)
	assert.Equal(t, models.PickStatusLoss, rep.Records[1].Status)
	assert.Equal(t, "Baylor Bears", rep.Records[1].ActualWinner)
	assert.Equal(t, models.PickStatusPending, rep.Records[2].Status)
	assert.NotNil(t, rep.Records[2].MatchedGame)
	assert.Equal(t, models.PickStatusNotFound, rep.Records[3].Status)

	s := rep.Summary
	assert.Equal(t, 4, s.TotalPicks)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.Correct)
	assert.Equal(t, 1, s.Incorrect)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.NotFound)
	assert.InDelta(t, 0.5, s.WinRate, 1e-12)
	assert.InDelta(t, -2.4, s.EstimatedROI, 1e-9)

	assert.Equal(t, 1, feed.calls[models.LeagueNCAAB])
	assert.Len(t, feed.calls, 1)
	assert.Equal(t, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), rep.ReportDate)

	require.Len(t, rep.ByLeague, 1)
	assert.Equal(t, "NCAAB", rep.ByLeague[0].League)
	assert.Equal(t, 4, rep.ByLeague[0].Picks)
	assert.Equal(t, 1, rep.ByConfidence[models.ConfidenceHigh].Wins)
	assert.Equal(t, 1, rep.ByConfidence[models.ConfidenceElite].Pending)
}

func TestReconcileFeedFailureIsolatedPerLeague(t *testing.T) {
	feed := newFakeFeed()
	feed.errs[models.LeagueNBA] = errors.New("503 from upstream")
	feed.results[models.LeagueNHL] = []models.GameResult{final("NHL", "Boston Bruins", "Toronto Maple Leafs", 2, 3)}

	picks := []models.Pick{
		{League: "NBA", HomeTeam: "Lakers", AwayTeam: "Celtics", Pick: "Celtics"},
		{League: "NHL", HomeTeam: "Boston Bruins", AwayTeam: "Toronto", Pick: "Toronto Maple Leafs"},
	}

	rep, err := New(feed, nil, WithClock(clock)).Reconcile(context.Background(), picks)
	require.NoError(t, err)

	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, "NBA", rep.Warnings[0].League)
	assert.Contains(t, rep.Warnings[0].Message, "503")
	assert.Equal(t, models.PickStatusNotFound, rep.Records[0].Status)
	assert.Equal(t, models.PickStatusWin, rep.Records[1].Status)
}

func TestReconcileFallsBackAcrossLeagues(t *testing.T) {
	feed := newFakeFeed()
	feed.results[models.LeagueNHL] = []models.GameResult{final("NHL", "Utah Mammoth", "Seattle Kraken", 4, 1)}

	picks := []models.Pick{
		{HomeTeam: "Utah Hockey Club", AwayTeam: "Seattle Kraken", Pick: "Utah Hockey Club"},
	}
	r := New(feed, nil, WithClock(clock), WithMatcher(NewAliasMatcher(nil, DefaultAliasGroups)))
	rep, err := r.Reconcile(context.Background(), picks)
	require.NoError(t, err)

	assert.Equal(t, models.PickStatusWin, rep.Records[0].Status)
	assert.Equal(t, "NHL", rep.Records[0].Pick.League)
	// an unlabeled pick searches every supported league
	assert.Len(t, feed.calls, len(models.SupportedLeagues()))
}

func TestReconcileStateSchoolNotMatchedToFlagship(t *testing.T) {
	feed := newFakeFeed()
	feed.results[models.LeagueNCAAB] = []models.GameResult{final("NCAAB", "Auburn Tigers", "Georgia Bulldogs", 77, 70)}
	picks := []models.Pick{{League: "NCAAB", HomeTeam: "Auburn", AwayTeam: "Georgia State", Pick: "Georgia State"}}

	rep, err := New(feed, nil, WithClock(clock), WithMatcher(NewAliasMatcher(nil, DefaultAliasGroups))).Reconcile(context.Background(), picks)
	require.NoError(t, err)
	assert.Equal(t, models.PickStatusNotFound, rep.Records[0].Status)
}

func TestReconcileAliasNames(t *testing.T) {
	feed := newFakeFeed()
	feed.results[models.LeagueNCAAB] = []models.GameResult{final("NCAAB", "Indiana Hoosiers", "Purdue Boilermakers", 70, 68)}
	picks := []models.Pick{{League: "NCAAB", HomeTeam: "IU", AwayTeam: "Purdue", Pick: "IU"}}

	plain, err := New(feed, nil, WithClock(clock)).Reconcile(context.Background(), picks)
	require.NoError(t, err)
	assert.Equal(t, models.PickStatusNotFound, plain.Records[0].Status)

	aliased := NewAliasMatcher(nil, [][]string{{"Indiana", "IU", "Indiana Hoosiers"}})
	rep, err := New(feed, nil, WithClock(clock), WithMatcher(aliased)).Reconcile(context.Background(), picks)
	require.NoError(t, err)
	assert.Equal(t, models.PickStatusWin, rep.Records[0].Status)
}

func TestReconcileIsIdempotent(t *testing.T) {
	feed := newFakeFeed()
	feed.results[models.LeagueNFL] = []models.GameResult{final("NFL", "Buffalo Bills", "Miami Dolphins", 31, 10)}
	picks := []models.Pick{
		{ID: "a", League: "NFL", HomeTeam: "Buffalo Bills", AwayTeam: "Miami Dolphins", Pick: "Buffalo Bills", Confidence: 70},
		{ID: "b", League: "NFL", HomeTeam: "Jets", AwayTeam: "Patriots", Pick: "Jets", Confidence: 40},
	}

	r := New(feed, nil, WithClock(clock), WithBreakEven(0.5))
	first, err := r.Reconcile(context.Background(), picks)
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), picks)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first.Records[0].ID, first.Records[1].ID)
	assert.InDelta(t, 50.0, first.Summary.EstimatedROI, 1e-9)
}

func TestReconcileDayFilesUnderPicksDate(t *testing.T) {
	feed := newFakeFeed()
	feed.results[models.LeagueNBA] = []models.GameResult{final("NBA", "Denver Nuggets", "Phoenix Suns", 101, 99)}
	picks := []models.Pick{{ID: "n1", League: "NBA", HomeTeam: "Denver Nuggets", AwayTeam: "Phoenix Suns", Pick: "Denver Nuggets", Confidence: 70}}
	r := New(feed, nil, WithClock(clock))
	dir := t.TempDir()

	first, err := r.ReconcileDay(context.Background(), time.Date(2025, 2, 7, 18, 0, 0, 0, time.UTC), picks)
	require.NoError(t, err)
	second, err := r.ReconcileDay(context.Background(), time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC), picks)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC), first.ReportDate)
	assert.Equal(t, first.ReportDate, first.Records[0].ReportDate)
	assert.Equal(t, time.Date(2025, 2, 8, 0, 0, 0, 0, time.UTC), second.ReportDate)
	assert.Equal(t, fixedNow, first.GeneratedAt)
	assert.Equal(t, fixedNow, second.GeneratedAt)

	firstPath, err := SaveReport(dir, first)
	require.NoError(t, err)
	secondPath, err := SaveReport(dir, second)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results-2025-02-07.json"), firstPath)
	assert.Equal(t, filepath.Join(dir, "results-2025-02-08.json"), secondPath)
	assert.FileExists(t, firstPath)
}

func TestReconcileErrors(t *testing.T) {
	_, err := New(newFakeFeed(), nil).Reconcile(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoPicks)

	_, err = New(nil, nil).Reconcile(context.Background(), []models.Pick{{League: "NBA"}})
	assert.Error(t, err)
}

func TestSummarizeNothingCompleted(t *testing.T) {
	s := Summarize([]models.ReconciliationRecord{{Status: models.PickStatusPending}}, DefaultBreakEven)
	assert.Equal(t, 1, s.Pending)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.EstimatedROI)
}

func TestReportOutputs(t *testing.T) {
	feed := newFakeFeed()
	feed.errs[models.LeagueMLB] = errors.New("timeout")
	feed.results[models.LeagueNBA] = []models.GameResult{final("NBA", "Denver Nuggets", "Phoenix Suns", 101, 99)}
	picks := []models.Pick{
		{League: "NBA", HomeTeam: "Denver Nuggets", AwayTeam: "Phoenix Suns", Pick: "Denver Nuggets", Confidence: 88},
		{League: "MLB", HomeTeam: "Cubs", AwayTeam: "Mets", Pick: "Mets", Confidence: 52},
	}
	rep, err := New(feed, nil, WithClock(clock)).Reconcile(context.Background(), picks)
	require.NoError(t, err)

	var text bytes.Buffer
	WriteText(&text, rep)
	out := text.String()
	assert.Contains(t, out, "Nuggets")
	assert.Contains(t, out, "WIN")
	assert.Contains(t, out, "101-99")
	assert.Contains(t, out, "elite (85-95)")
	assert.Contains(t, out, "WARNING MLB: timeout")

	dir := t.TempDir()
	path, err := SaveReport(dir, rep)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results-2025-02-10.json"), path)
	assert.FileExists(t, filepath.Join(dir, "results-2025-02-10.txt"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.Summary, decoded.Summary)
	assert.Len(t, decoded.Records, 2)
}

func TestSaveReportFailureKeepsReport(t *testing.T) {
	rep := &Report{ReportDate: fixedNow}
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := SaveReport(filepath.Join(blocker, "sub"), rep)
	assert.Error(t, err)
	assert.Equal(t, fixedNow, rep.ReportDate)
}
