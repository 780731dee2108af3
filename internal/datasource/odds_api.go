package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/metrics"
	"github.com/yourusername/sharp-edge/internal/models"
)

const oddsAPISource = "odds_api"

// The Odds API only serves scores for the last three days
const oddsAPIMaxDays = 3

var oddsAPISportKeys = map[string]string{
	models.LeagueNFL:   "americanfootball_nfl",
	models.LeagueNBA:   "basketball_nba",
	models.LeagueMLB:   "baseball_mlb",
	models.LeagueNHL:   "icehockey_nhl",
	models.LeagueNCAAF: "americanfootball_ncaaf",
	models.LeagueNCAAB: "basketball_ncaab",
	models.LeagueCBB:   "baseball_ncaa",
}

// OddsAPISportKey returns the sport key for a league
func OddsAPISportKey(league string) (string, bool) {
	key, ok := oddsAPISportKeys[models.NormalizeLeague(league)]
	return key, ok
}

// OddsAPIClient reads scores from The Odds API
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

type oddsAPIGame struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	CommenceTime time.Time      `json:"commence_time"`
	Completed    bool           `json:"completed"`
	HomeTeam     string         `json:"home_team"`
	AwayTeam     string         `json:"away_team"`
	Scores       []oddsAPIScore `json:"scores"`
}

type oddsAPIScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// NewOddsAPIClient creates a new Odds API client
func NewOddsAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, log *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.OrDefault(log).WithField("source", oddsAPISource),
	}
}

// Name returns the feed name
func (c *OddsAPIClient) Name() string {
	return oddsAPISource
}

// FetchResults returns the league's games over the last lookbackDays days
func (c *OddsAPIClient) FetchResults(ctx context.Context, league string, lookbackDays int) ([]models.GameResult, error) {
	league = models.NormalizeLeague(league)
	sportKey, ok := OddsAPISportKey(league)
	if !ok {
		return nil, NewDataSourceError(oddsAPISource, ErrCodeUnsupportedLeague, league, nil)
	}
	if c.apiKey == "" {
		return nil, NewDataSourceError(oddsAPISource, ErrCodeAuthenticationFailed, "api key not set", nil)
	}

	days := lookbackDays
	if days < 1 {
		days = 1
	}
	if days > oddsAPIMaxDays {
		days = oddsAPIMaxDays
	}

	q := url.Values{}
	q.Set("daysFrom", strconv.Itoa(days))
	q.Set("apiKey", c.apiKey)
	endpoint := fmt.Sprintf("%s/sports/%s/scores/?%s", c.baseURL, sportKey, q.Encode())

	started := time.Now()
	games, err := c.fetch(ctx, endpoint)
	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.RecordFeedRequest(oddsAPISource, league, result, time.Since(started).Seconds())
	if err != nil {
		return nil, err
	}

	out := make([]models.GameResult, 0, len(games))
	for _, g := range games {
		out = append(out, g.toResult(league))
	}
	c.logger.WithFields(logrus.Fields{"league": league, "games": len(out)}).Debug("Fetched scores")
	return out, nil
}

func (c *OddsAPIClient) fetch(ctx context.Context, endpoint string) ([]oddsAPIGame, error) {
	resp, err := c.httpClient.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, NewDataSourceError(oddsAPISource, ErrCodeNetworkError, "failed to fetch scores", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(oddsAPISource, resp.StatusCode, readBody(resp.Body))
	}

	var games []oddsAPIGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, NewDataSourceError(oddsAPISource, ErrCodeInvalidData, "failed to parse response", err)
	}
	return games, nil
}

// toResult pairs score entries to teams by name. A game only counts as
// completed when the feed says so and both scores parse.
func (g oddsAPIGame) toResult(league string) models.GameResult {
	r := models.GameResult{
		League:    league,
		HomeTeam:  g.HomeTeam,
		AwayTeam:  g.AwayTeam,
		StartTime: g.CommenceTime,
	}
	for _, s := range g.Scores {
		v, err := strconv.Atoi(strings.TrimSpace(s.Score))
		if err != nil {
			continue
		}
		switch {
		case strings.EqualFold(s.Name, g.HomeTeam):
			r.HomeScore = &v
		case strings.EqualFold(s.Name, g.AwayTeam):
			r.AwayScore = &v
		}
	}
	r.Completed = g.Completed && r.HomeScore != nil && r.AwayScore != nil
	return r
}
