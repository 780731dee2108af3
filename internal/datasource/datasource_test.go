package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-edge/internal/config"
	"github.com/yourusername/sharp-edge/internal/models"
)

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.Burst = 100
	return NewRateLimitedHTTPClient(cfg, nil)
}

const oddsAPIScores = `[
  {"id":"a1","sport_key":"basketball_nba","commence_time":"2025-02-09T00:10:00Z","completed":true,
   "home_team":"Denver Nuggets","away_team":"Phoenix Suns",
   "scores":[{"name":"Phoenix Suns","score":"99"},{"name":"Denver Nuggets","score":"101"}]},
  {"id":"a2","sport_key":"basketball_nba","commence_time":"2025-02-10T01:00:00Z","completed":false,
   "home_team":"Boston Celtics","away_team":"New York Knicks","scores":null}
]`

func TestOddsAPIClientFetchResults(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(oddsAPIScores))
	}))
	defer srv.Close()

	c := NewOddsAPIClient(testHTTPClient(), srv.URL+"/v4/", "secret", nil)
	games, err := c.FetchResults(context.Background(), "nba", 7)
	require.NoError(t, err)

	assert.Equal(t, "/v4/sports/basketball_nba/scores/", gotPath)
	assert.Contains(t, gotQuery, "daysFrom=3")
	assert.Contains(t, gotQuery, "apiKey=secret")

	require.Len(t, games, 2)
	assert.True(t, games[0].Completed)
	assert.Equal(t, 101, *games[0].HomeScore)
	assert.Equal(t, 99, *games[0].AwayScore)
	assert.Equal(t, "Denver Nuggets", games[0].Winner())
	assert.Equal(t, "NBA", games[0].League)
	assert.False(t, games[1].Completed)
	assert.False(t, games[1].HasScores())
}

func TestOddsAPIClientErrors(t *testing.T) {
	status := http.StatusUnauthorized
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"nope"}`))
	}))
	defer srv.Close()

	c := NewOddsAPIClient(testHTTPClient(), srv.URL, "secret", nil)
	_, err := c.FetchResults(context.Background(), "NHL", 2)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	status = http.StatusTooManyRequests
	_, err = c.FetchResults(context.Background(), "NHL", 2)
	assert.ErrorIs(t, err, ErrRateLimitExceeded)

	_, err = c.FetchResults(context.Background(), "EPL", 2)
	assert.ErrorIs(t, err, ErrUnsupportedLeague)

	noKey := NewOddsAPIClient(testHTTPClient(), srv.URL, "", nil)
	_, err = noKey.FetchResults(context.Background(), "NHL", 2)
	var dsErr DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.Equal(t, ErrCodeAuthenticationFailed, dsErr.Code)
}

func TestOddsAPIClientInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := NewOddsAPIClient(testHTTPClient(), srv.URL, "k", nil).FetchResults(context.Background(), "NFL", 1)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestAPISportsClientFetchResults(t *testing.T) {
	var dates []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("x-apisports-key"))
		assert.Equal(t, "57", r.URL.Query().Get("league"))
		dates = append(dates, r.URL.Query().Get("date"))
		if len(dates) > 1 {
			_, _ = w.Write([]byte(`{"errors":[],"response":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"errors":[],"response":[
			{"date":"2025-02-10T00:00:00+00:00","status":{"short":"SO"},
			 "teams":{"home":{"name":"Utah Mammoth"},"away":{"name":"Seattle Kraken"}},
			 "scores":{"home":4,"away":3}},
			{"date":"2025-02-10T02:00:00+00:00","status":{"short":"P2"},
			 "teams":{"home":{"name":"Vegas Golden Knights"},"away":{"name":"LA Kings"}},
			 "scores":{"home":{"total":1},"away":{"total":null}}}
		]}`))
	}))
	defer srv.Close()

	c := NewAPISportsClient(testHTTPClient(), srv.URL, "key-1", nil)
	c.clock = func() time.Time { return time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC) }

	games, err := c.FetchResults(context.Background(), "NHL", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02-10", "2025-02-09"}, dates)

	require.Len(t, games, 2)
	assert.True(t, games[0].Completed)
	assert.Equal(t, "Utah Mammoth", games[0].Winner())
	assert.False(t, games[1].Completed)
	assert.Equal(t, 1, *games[1].HomeScore)
	assert.Nil(t, games[1].AwayScore)
}

func TestAPISportsClientInBandError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":{"requests":"daily limit reached"},"response":[]}`))
	}))
	defer srv.Close()

	c := NewAPISportsClient(testHTTPClient(), srv.URL, "k", nil)
	_, err := c.FetchResults(context.Background(), "NBA", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "daily limit reached")

	_, err = c.FetchResults(context.Background(), "CBB", 1)
	assert.ErrorIs(t, err, ErrUnsupportedLeague)
}

func TestAPISportsHostPerSport(t *testing.T) {
	c := NewAPISportsClient(testHTTPClient(), "api-sports.io", "k", nil)
	assert.Equal(t, "https://v1.hockey.api-sports.io", c.baseURL("hockey"))
	assert.Equal(t, "https://v1.american-football.api-sports.io", c.baseURL("american-football"))
}

type stubFeed struct {
	name  string
	games []models.GameResult
	err   error
	calls atomic.Int32
}

func (s *stubFeed) Name() string { return s.name }

func (s *stubFeed) FetchResults(context.Context, string, int) ([]models.GameResult, error) {
	s.calls.Add(1)
	return s.games, s.err
}

func TestFallbackFeed(t *testing.T) {
	game := models.GameResult{HomeTeam: "A", AwayTeam: "B", Completed: true}

	empty := &stubFeed{name: "primary"}
	backup := &stubFeed{name: "backup", games: []models.GameResult{game}}
	f := NewFallbackFeed(nil, empty, nil, backup)
	assert.Equal(t, "primary+backup", f.Name())

	games, err := f.FetchResults(context.Background(), "NBA", 2)
	require.NoError(t, err)
	assert.Len(t, games, 1)

	failing := &stubFeed{name: "primary", err: NewDataSourceError("primary", ErrCodeServerError, "down", nil)}
	games, err = NewFallbackFeed(nil, failing, backup).FetchResults(context.Background(), "NBA", 2)
	require.NoError(t, err)
	assert.Len(t, games, 1)

	// one answered with nothing, the other failed: not an error
	games, err = NewFallbackFeed(nil, failing, &stubFeed{name: "quiet"}).FetchResults(context.Background(), "NBA", 2)
	require.NoError(t, err)
	assert.Empty(t, games)

	_, err = NewFallbackFeed(nil, failing, failing).FetchResults(context.Background(), "NBA", 2)
	assert.ErrorIs(t, err, ErrServerError)
}

func TestFallbackFeedNoCompletedGames(t *testing.T) {
	home, away := 101, 99
	upcoming := models.GameResult{HomeTeam: "Denver Nuggets", AwayTeam: "Phoenix Suns"}
	final := models.GameResult{HomeTeam: "Denver Nuggets", AwayTeam: "Phoenix Suns", HomeScore: &home, AwayScore: &away, Completed: true}

	primary := &stubFeed{name: "odds_api", games: []models.GameResult{upcoming}}
	backup := &stubFeed{name: "api_sports", games: []models.GameResult{final}}

	games, err := NewFallbackFeed(nil, primary, backup).FetchResults(context.Background(), "NBA", 2)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.True(t, games[0].Completed)
	assert.Equal(t, 101, *games[0].HomeScore)

	// nothing completed anywhere: keep the in-progress answer
	games, err = NewFallbackFeed(nil, primary, &stubFeed{name: "quiet"}).FetchResults(context.Background(), "NBA", 2)
	require.NoError(t, err)
	assert.Equal(t, []models.GameResult{upcoming}, games)

	games, err = NewFallbackFeed(nil, primary, &stubFeed{name: "down", err: errors.New("boom")}).FetchResults(context.Background(), "NBA", 2)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestCachedFeed(t *testing.T) {
	inner := &stubFeed{name: "inner", games: []models.GameResult{{HomeTeam: "A"}}}
	c := NewCachedFeed(inner, time.Minute)

	for i := 0; i < 3; i++ {
		games, err := c.FetchResults(context.Background(), "nba", 2)
		require.NoError(t, err)
		assert.Len(t, games, 1)
	}
	assert.Equal(t, int32(1), inner.calls.Load())

	_, err := c.FetchResults(context.Background(), "NBA", 3)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())

	c.Flush()
	inner.err = errors.New("boom")
	_, err = c.FetchResults(context.Background(), "NBA", 2)
	assert.Error(t, err)
}

func TestCircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 2
	cfg.CircuitCooldown = time.Hour
	client := NewRateLimitedHTTPClient(cfg, nil)

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), srv.URL, nil)
		require.NoError(t, err)
		resp.Body.Close()
	}
	_, err := client.Get(context.Background(), srv.URL, nil)
	assert.ErrorContains(t, err, "circuit breaker open")
	assert.Equal(t, int32(2), hits.Load())
}

func TestFileGameSource(t *testing.T) {
	dir := t.TempDir()
	arr := filepath.Join(dir, "games.json")
	require.NoError(t, os.WriteFile(arr, []byte(`[{"id":"g1","league":"nba","home_team":"A","away_team":"B","home_odds":-120,"away_odds":100,"winner":"A"}]`), 0o644))
	wrapped := filepath.Join(dir, "wrapped.json")
	require.NoError(t, os.WriteFile(wrapped, []byte(`{"games":[{"id":"g2","home_team":"C","away_team":"D"}]}`), 0o644))

	games, err := FileGameSource{Path: arr}.LoadGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "NBA", games[0].League)
	assert.True(t, games[0].HasResult())

	games, err = FileGameSource{Path: wrapped}.LoadGames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "g2", games[0].ID)

	_, err = FileGameSource{Path: filepath.Join(dir, "missing.json")}.LoadGames(context.Background())
	assert.Error(t, err)
}

func TestPicksFileDate(t *testing.T) {
	day := time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)
	got, ok := PicksFileDate(filepath.Join("data", PicksFileName(day)))
	require.True(t, ok)
	assert.Equal(t, day, got)

	_, ok = PicksFileDate("custom.json")
	assert.False(t, ok)
	_, ok = PicksFileDate("predictions-latest.json")
	assert.False(t, ok)
}

func TestLoadPicks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PicksFileName(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "predictions-2025-02-10.json", filepath.Base(path))

	require.NoError(t, os.WriteFile(path, []byte(`{"date":"2025-02-10","picks":[
		{"id":"1","league":"nhl","home_team":"Bruins","away_team":"Leafs","pick":"Bruins","confidence":72},
		{"game_id":"2","sport":"NBA","home_team":"Suns","away_team":"Nuggets","winner":"Nuggets"},
		{"id":"3","home_team":"","away_team":"Nets","pick":"Nets"}
	]}`), 0o644))

	picks, err := LoadPicks(path)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, "NHL", picks[0].League)
	assert.Equal(t, 72.0, picks[0].Confidence)
	assert.Equal(t, "2", picks[1].ID)
	assert.Equal(t, "NBA", picks[1].League)
	assert.Equal(t, "Nuggets", picks[1].Pick)

	legacy := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(legacy, []byte(`[{"home_team":"A","away_team":"B","pick":"A"}]`), 0o644))
	picks, err = LoadPicks(legacy)
	require.NoError(t, err)
	assert.Len(t, picks, 1)
}

func TestNewOutcomeFeed(t *testing.T) {
	_, err := NewOutcomeFeed(config.FeedConfig{}, nil)
	assert.Error(t, err)

	feed, err := NewOutcomeFeed(config.FeedConfig{OddsAPIURL: "https://example.test", OddsAPIKey: "k", APISportsKey: "k2", APISportsDomain: "api-sports.io", CacheTTLSeconds: 60}, nil)
	require.NoError(t, err)
	assert.IsType(t, &CachedFeed{}, feed)
	assert.Equal(t, "odds_api+api_sports", feed.Name())

	feed, err = NewOutcomeFeed(config.FeedConfig{APISportsKey: "k2", APISportsDomain: "api-sports.io"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &APISportsClient{}, feed)
}
