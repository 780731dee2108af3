package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/metrics"
	"github.com/yourusername/sharp-edge/internal/models"
)

const apiSportsSource = "api_sports"

type apiSportsLeague struct {
	sport string
	id    string
}

var apiSportsLeagues = map[string]apiSportsLeague{
	models.LeagueNHL:   {sport: "hockey", id: "57"},
	models.LeagueNBA:   {sport: "basketball", id: "12"},
	models.LeagueNFL:   {sport: "american-football", id: "1"},
	models.LeagueNCAAB: {sport: "basketball", id: "116"},
	models.LeagueNCAAF: {sport: "american-football", id: "8"},
	models.LeagueMLB:   {sport: "baseball", id: "1"},
}

// finished, after overtime, after extra time, after penalties, shootout
var apiSportsFinished = map[string]bool{
	"FT": true, "AOT": true, "AET": true, "AP": true, "FT_PEN": true, "SO": true,
}

// APISportsClient reads results from the API-Sports family of APIs. One host
// per sport; the same key works for all of them.
type APISportsClient struct {
	httpClient *RateLimitedHTTPClient
	domain     string
	apiKey     string
	clock      func() time.Time
	logger     *logrus.Entry
}

type apiSportsResponse struct {
	Errors   json.RawMessage `json:"errors"`
	Response []apiSportsGame `json:"response"`
}

type apiSportsGame struct {
	Date   time.Time       `json:"date"`
	Status apiSportsStatus `json:"status"`
	// american-football nests status under game
	Game struct {
		Status apiSportsStatus `json:"status"`
	} `json:"game"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home apiSportsScore `json:"home"`
		Away apiSportsScore `json:"away"`
	} `json:"scores"`
}

type apiSportsStatus struct {
	Short string `json:"short"`
}

func (g apiSportsGame) status() string {
	if g.Status.Short != "" {
		return g.Status.Short
	}
	return g.Game.Status.Short
}

// apiSportsScore accepts both a bare number (hockey) and {"total": n}
type apiSportsScore struct {
	Value *int
}

func (s *apiSportsScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '{' {
		var obj struct {
			Total *int `json:"total"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		s.Value = obj.Total
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Value = &v
	return nil
}

// NewAPISportsClient creates a new API-Sports client. domain is the API
// domain ("api-sports.io"); a value with a scheme is used as the base URL for
// every sport instead.
func NewAPISportsClient(httpClient *RateLimitedHTTPClient, domain, apiKey string, log *logrus.Logger) *APISportsClient {
	return &APISportsClient{
		httpClient: httpClient,
		domain:     strings.TrimRight(domain, "/"),
		apiKey:     apiKey,
		clock:      time.Now,
		logger:     logger.OrDefault(log).WithField("source", apiSportsSource),
	}
}

// Name returns the feed name
func (c *APISportsClient) Name() string {
	return apiSportsSource
}

func (c *APISportsClient) baseURL(sport string) string {
	if strings.Contains(c.domain, "://") {
		return c.domain
	}
	return fmt.Sprintf("https://v1.%s.%s", sport, c.domain)
}

// FetchResults queries one day at a time, today first, over lookbackDays days
func (c *APISportsClient) FetchResults(ctx context.Context, league string, lookbackDays int) ([]models.GameResult, error) {
	league = models.NormalizeLeague(league)
	target, ok := apiSportsLeagues[league]
	if !ok {
		return nil, NewDataSourceError(apiSportsSource, ErrCodeUnsupportedLeague, league, nil)
	}
	if c.apiKey == "" {
		return nil, NewDataSourceError(apiSportsSource, ErrCodeAuthenticationFailed, "api key not set", nil)
	}
	if lookbackDays < 1 {
		lookbackDays = 1
	}

	today := c.clock().UTC()
	var out []models.GameResult
	for d := 0; d < lookbackDays; d++ {
		date := today.AddDate(0, 0, -d).Format("2006-01-02")
		games, err := c.fetchDay(ctx, league, target, date)
		if err != nil {
			return nil, err
		}
		out = append(out, games...)
	}
	c.logger.WithFields(logrus.Fields{"league": league, "games": len(out)}).Debug("Fetched results")
	return out, nil
}

func (c *APISportsClient) fetchDay(ctx context.Context, league string, target apiSportsLeague, date string) ([]models.GameResult, error) {
	q := url.Values{}
	q.Set("league", target.id)
	q.Set("date", date)
	endpoint := fmt.Sprintf("%s/games?%s", c.baseURL(target.sport), q.Encode())

	started := time.Now()
	resp, err := c.httpClient.Get(ctx, endpoint, map[string]string{"x-apisports-key": c.apiKey})
	if err != nil {
		metrics.RecordFeedRequest(apiSportsSource, league, "error", time.Since(started).Seconds())
		return nil, NewDataSourceError(apiSportsSource, ErrCodeNetworkError, "failed to fetch games", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordFeedRequest(apiSportsSource, league, "error", time.Since(started).Seconds())
		return nil, statusError(apiSportsSource, resp.StatusCode, readBody(resp.Body))
	}

	var body apiSportsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.RecordFeedRequest(apiSportsSource, league, "error", time.Since(started).Seconds())
		return nil, NewDataSourceError(apiSportsSource, ErrCodeInvalidData, "failed to parse response", err)
	}
	// API-Sports reports quota and key problems in-band with a 200
	if msg := inBandError(body.Errors); msg != "" {
		metrics.RecordFeedRequest(apiSportsSource, league, "error", time.Since(started).Seconds())
		return nil, NewDataSourceError(apiSportsSource, ErrCodeServerError, msg, nil)
	}
	metrics.RecordFeedRequest(apiSportsSource, league, "success", time.Since(started).Seconds())

	out := make([]models.GameResult, 0, len(body.Response))
	for _, g := range body.Response {
		r := models.GameResult{
			League:    league,
			HomeTeam:  g.Teams.Home.Name,
			AwayTeam:  g.Teams.Away.Name,
			HomeScore: g.Scores.Home.Value,
			AwayScore: g.Scores.Away.Value,
			StartTime: g.Date,
		}
		r.Completed = apiSportsFinished[g.status()] && r.HomeScore != nil && r.AwayScore != nil
		out = append(out, r)
	}
	return out, nil
}

// inBandError flattens the errors field, which is [] when empty and an object otherwise
func inBandError(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return ""
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil || len(m) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k+": "+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
