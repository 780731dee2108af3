package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/sharp-edge/internal/models"
)

// FileGameSource loads a fixed historical game set from a JSON file holding
// either an array of games or {"games": [...]}.
type FileGameSource struct {
	Path string
}

// LoadGames reads and decodes the file
func (s FileGameSource) LoadGames(ctx context.Context) ([]models.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read games: %w", err)
	}

	var games []models.Game
	if isArray(data) {
		err = json.Unmarshal(data, &games)
	} else {
		var wrapped struct {
			Games []models.Game `json:"games"`
		}
		err = json.Unmarshal(data, &wrapped)
		games = wrapped.Games
	}
	if err != nil {
		return nil, NewDataSourceError("file", ErrCodeInvalidData, s.Path, err)
	}
	for i := range games {
		games[i].League = models.NormalizeLeague(games[i].League)
	}
	return games, nil
}

// PicksFileName is the daily predictions file for date
func PicksFileName(date time.Time) string {
	return fmt.Sprintf("predictions-%s.json", date.Format("2006-01-02"))
}

// PicksFileDate recovers the date from a predictions-YYYY-MM-DD.json name
func PicksFileDate(path string) (time.Time, bool) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	raw, ok := strings.CutPrefix(name, "predictions-")
	if !ok {
		return time.Time{}, false
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// pickEntry accepts both the current format and the legacy one that named
// the selection "winner" and used "sport" for the league.
type pickEntry struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	League     string    `json:"league"`
	Sport      string    `json:"sport"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Pick       string    `json:"pick"`
	Winner     string    `json:"winner"`
	Confidence float64   `json:"confidence"`
	Odds       float64   `json:"odds"`
	Date       time.Time `json:"date"`
}

// LoadPicks reads a predictions file holding either an array of picks or
// {"date": ..., "picks": [...]}. Entries missing a team or a selection are
// dropped.
func LoadPicks(path string) ([]models.Pick, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read picks: %w", err)
	}

	var entries []pickEntry
	if isArray(data) {
		err = json.Unmarshal(data, &entries)
	} else {
		var wrapped struct {
			Picks []pickEntry `json:"picks"`
		}
		err = json.Unmarshal(data, &wrapped)
		entries = wrapped.Picks
	}
	if err != nil {
		return nil, NewDataSourceError("file", ErrCodeInvalidData, filepath.Base(path), err)
	}

	picks := make([]models.Pick, 0, len(entries))
	for _, e := range entries {
		p := models.Pick{
			ID:         firstNonEmpty(e.ID, e.GameID),
			League:     models.NormalizeLeague(firstNonEmpty(e.League, e.Sport)),
			HomeTeam:   strings.TrimSpace(e.HomeTeam),
			AwayTeam:   strings.TrimSpace(e.AwayTeam),
			Pick:       strings.TrimSpace(firstNonEmpty(e.Pick, e.Winner)),
			Confidence: e.Confidence,
			Odds:       e.Odds,
			Date:       e.Date,
		}
		if p.HomeTeam == "" || p.AwayTeam == "" || p.Pick == "" {
			continue
		}
		picks = append(picks, p)
	}
	return picks, nil
}

func isArray(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '['
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
