// Package reconcile grades previously emitted picks against real outcomes.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/metrics"
	"github.com/yourusername/sharp-edge/internal/models"
)

// ErrNoPicks is returned when there is nothing to grade
var ErrNoPicks = errors.New("no picks to reconcile")

const (
	// DefaultBreakEven is the win rate needed to profit at -110 on both sides
	DefaultBreakEven    = 0.524
	DefaultLookbackDays = 2
)

var recordNamespace = uuid.MustParse("6f1c3d52-8a47-4e0b-9c1a-2b7d5e9f0a31")

// Feed returns games for one league over the last lookbackDays days
type Feed interface {
	Name() string
	FetchResults(ctx context.Context, league string, lookbackDays int) ([]models.GameResult, error)
}

// Warning reports a league whose outcomes could not be loaded
type Warning struct {
	League  string `json:"league"`
	Message string `json:"message"`
}

// Report is the full graded record set with its aggregates
type Report struct {
	GeneratedAt  time.Time                         `json:"generated_at"`
	ReportDate   time.Time                         `json:"report_date"`
	Source       string                            `json:"source"`
	Records      []models.ReconciliationRecord     `json:"records"`
	Summary      models.ReconciliationSummary      `json:"summary"`
	ByLeague     []LeagueTally                     `json:"by_league"`
	ByConfidence [models.ConfidenceBandCount]Tally `json:"by_confidence"`
	Warnings     []Warning                         `json:"warnings,omitempty"`
}

// Option customizes a Reconciler
type Option func(*Reconciler)

// WithMatcher replaces the default substring matcher
func WithMatcher(m TeamMatcher) Option {
	return func(r *Reconciler) {
		if m != nil {
			r.matcher = m
		}
	}
}

// WithLookback sets the feed window in days
func WithLookback(days int) Option {
	return func(r *Reconciler) {
		if days > 0 {
			r.lookback = days
		}
	}
}

// WithBreakEven sets the break-even win rate as a fraction
func WithBreakEven(f float64) Option {
	return func(r *Reconciler) {
		if f > 0 && f < 1 {
			r.breakEven = f
		}
	}
}

// WithClock overrides time.Now
func WithClock(clock func() time.Time) Option {
	return func(r *Reconciler) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// Reconciler matches picks to outcomes. It holds no state between runs.
type Reconciler struct {
	feed      Feed
	matcher   TeamMatcher
	lookback  int
	breakEven float64
	clock     func() time.Time
	logger    *logger.ReconcileLogger
}

// New creates a reconciler reading from feed
func New(feed Feed, log *logrus.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		feed:      feed,
		matcher:   SubstringMatcher{MinLength: DefaultMinMatchLength},
		lookback:  DefaultLookbackDays,
		breakEven: DefaultBreakEven,
		clock:     time.Now,
		logger:    logger.NewReconcileLogger(log),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile grades picks whose date is unknown. The report is filed under
// the clock's day.
func (r *Reconciler) Reconcile(ctx context.Context, picks []models.Pick) (*Report, error) {
	return r.ReconcileDay(ctx, time.Time{}, picks)
}

// ReconcileDay fetches outcomes once per league and grades every pick,
// filing the report under the picks' day. A zero day falls back to the
// clock. A league whose fetch fails contributes a warning and no games;
// other leagues are unaffected.
func (r *Reconciler) ReconcileDay(ctx context.Context, day time.Time, picks []models.Pick) (*Report, error) {
	if len(picks) == 0 {
		return nil, ErrNoPicks
	}
	if r.feed == nil {
		return nil, fmt.Errorf("outcomes feed is required")
	}

	now := r.clock().UTC()
	if day.IsZero() {
		day = now
	}
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	leagues := leaguesFor(picks)
	results := make(map[string][]models.GameResult, len(leagues))
	var warnings []Warning

	for _, league := range leagues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		games, err := r.feed.FetchResults(ctx, league, r.lookback)
		if err != nil {
			r.logger.LogWarning(league, err)
			warnings = append(warnings, Warning{League: league, Message: err.Error()})
			results[league] = nil
			continue
		}
		completed := 0
		for _, g := range games {
			if g.Completed {
				completed++
			}
		}
		r.logger.LogLeagueFetch(league, r.feed.Name(), len(games), completed)
		results[league] = games
	}

	records := make([]models.ReconciliationRecord, 0, len(picks))
	for _, p := range picks {
		rec := r.grade(p, leagues, results)
		rec.ID = recordID(p)
		rec.ReportDate = day
		records = append(records, rec)
		metrics.RecordReconciledPick(leagueLabel(rec.Pick.League), string(rec.Status))
	}

	report := &Report{
		GeneratedAt: now,
		ReportDate:  day,
		Source:      r.feed.Name(),
		Records:     records,
		Summary:     Summarize(records, r.breakEven),
		Warnings:    warnings,
	}
	report.ByLeague, report.ByConfidence = breakdown(records)

	s := report.Summary
	r.logger.LogSummary(s.TotalPicks, s.Correct, s.Incorrect, s.Pending, s.NotFound, s.WinRate, s.EstimatedROI)
	return report, nil
}

// grade looks in the pick's own league first, then every other fetched league
func (r *Reconciler) grade(p models.Pick, leagues []string, results map[string][]models.GameResult) models.ReconciliationRecord {
	rec := models.ReconciliationRecord{Pick: p, Status: models.PickStatusNotFound}

	hint := models.NormalizeLeague(p.League)
	order := make([]string, 0, len(leagues))
	if _, ok := results[hint]; ok {
		order = append(order, hint)
	}
	for _, l := range leagues {
		if l != hint {
			order = append(order, l)
		}
	}

	var match *models.GameResult
	for _, league := range order {
		if m := r.find(p, results[league]); m != nil {
			match = m
			if rec.Pick.League == "" {
				rec.Pick.League = league
			}
			break
		}
	}
	if match == nil {
		return rec
	}

	rec.MatchedGame = match
	if !match.Completed || match.HomeScore == nil || match.AwayScore == nil {
		rec.Status = models.PickStatusPending
		return rec
	}

	rec.ActualScore = &models.Score{Home: *match.HomeScore, Away: *match.AwayScore}
	rec.ActualWinner = match.Winner()
	if rec.ActualWinner != "" && r.matcher.Match(p.Pick, rec.ActualWinner) {
		rec.Status = models.PickStatusWin
	} else {
		rec.Status = models.PickStatusLoss
	}
	return rec
}

func (r *Reconciler) find(p models.Pick, games []models.GameResult) *models.GameResult {
	for i := range games {
		g := games[i]
		if r.matcher.Match(g.HomeTeam, p.HomeTeam) && r.matcher.Match(g.AwayTeam, p.AwayTeam) {
			return &g
		}
	}
	return nil
}

// Summarize recomputes the aggregate from the full record set. WinRate is a
// fraction of completed picks; EstimatedROI is in percentage points and is
// zero while nothing has completed.
func Summarize(records []models.ReconciliationRecord, breakEven float64) models.ReconciliationSummary {
	var s models.ReconciliationSummary
	s.TotalPicks = len(records)
	for _, rec := range records {
		switch rec.Status {
		case models.PickStatusWin:
			s.Correct++
		case models.PickStatusLoss:
			s.Incorrect++
		case models.PickStatusPending:
			s.Pending++
		case models.PickStatusNotFound:
			s.NotFound++
		}
	}
	s.Completed = s.Correct + s.Incorrect
	if s.Completed > 0 {
		s.WinRate = float64(s.Correct) / float64(s.Completed)
		s.EstimatedROI = (s.WinRate - breakEven) * 100
	}
	return s
}

// leaguesFor lists the leagues to query in a stable order. Picks without a
// supported league widen the search to every supported league.
func leaguesFor(picks []models.Pick) []string {
	seen := make(map[string]bool)
	unknown := false
	for _, p := range picks {
		l := models.NormalizeLeague(p.League)
		if models.IsSupportedLeague(l) {
			seen[l] = true
		} else {
			unknown = true
		}
	}
	var out []string
	for _, l := range models.SupportedLeagues() {
		if unknown || seen[l] {
			out = append(out, l)
		}
	}
	return out
}

func recordID(p models.Pick) uuid.UUID {
	key := strings.Join([]string{
		p.ID,
		models.NormalizeLeague(p.League),
		Normalize(p.HomeTeam),
		Normalize(p.AwayTeam),
		Normalize(p.Pick),
		p.Date.UTC().Format(time.DateOnly),
	}, "|")
	return uuid.NewSHA1(recordNamespace, []byte(key))
}

func leagueLabel(league string) string {
	if l := models.NormalizeLeague(league); l != "" {
		return l
	}
	return "unknown"
}

// Tally counts graded picks in one bucket
type Tally struct {
	Picks    int `json:"picks"`
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	Pending  int `json:"pending"`
	NotFound int `json:"not_found"`
}

func (t *Tally) add(s models.PickStatus) {
	t.Picks++
	switch s {
	case models.PickStatusWin:
		t.Wins++
	case models.PickStatusLoss:
		t.Losses++
	case models.PickStatusPending:
		t.Pending++
	case models.PickStatusNotFound:
		t.NotFound++
	}
}

// WinRate is wins over completed picks as a fraction
func (t Tally) WinRate() float64 {
	if done := t.Wins + t.Losses; done > 0 {
		return float64(t.Wins) / float64(done)
	}
	return 0
}

// LeagueTally is a Tally for one league
type LeagueTally struct {
	League string `json:"league"`
	Tally
}

func breakdown(records []models.ReconciliationRecord) ([]LeagueTally, [models.ConfidenceBandCount]Tally) {
	var byConf [models.ConfidenceBandCount]Tally
	byLeague := make(map[string]*Tally)
	for _, rec := range records {
		byConf[models.ConfidenceBandFor(rec.Pick.Confidence)].add(rec.Status)
		l := leagueLabel(rec.Pick.League)
		if byLeague[l] == nil {
			byLeague[l] = &Tally{}
		}
		byLeague[l].add(rec.Status)
	}

	names := make([]string, 0, len(byLeague))
	for l := range byLeague {
		names = append(names, l)
	}
	sort.Strings(names)
	out := make([]LeagueTally, 0, len(names))
	for _, l := range names {
		out = append(out, LeagueTally{League: l, Tally: *byLeague[l]})
	}
	return out, byConf
}
