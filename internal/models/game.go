package models

import (
	"strings"
	"time"
)

// Side identifies one side of a two-way market
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Opposite returns the other side of the market
func (s Side) Opposite() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// FormResult is a single entry of a recent-form sequence
type FormResult string

const (
	FormWin  FormResult = "W"
	FormLoss FormResult = "L"
)

// TeamStats holds season aggregates for one team
type TeamStats struct {
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
}

// GamesPlayed returns wins plus losses
func (s TeamStats) GamesPlayed() int {
	return s.Wins + s.Losses
}

// WinPct returns the season win percentage, or 0.5 with no games
func (s TeamStats) WinPct() float64 {
	played := s.GamesPlayed()
	if played == 0 {
		return 0.5
	}
	return float64(s.Wins) / float64(played)
}

// NetPointsPerGame returns (for - against) per game with games floored at 1
func (s TeamStats) NetPointsPerGame() float64 {
	played := s.GamesPlayed()
	if played < 1 {
		played = 1
	}
	return (s.PointsFor - s.PointsAgainst) / float64(played)
}

// HeadToHead tallies prior meetings from the home team's perspective
type HeadToHead struct {
	HomeWins int `json:"home_wins"`
	AwayWins int `json:"away_wins"`
}

// Total returns the number of meetings
func (h HeadToHead) Total() int {
	return h.HomeWins + h.AwayWins
}

// Game is a single fixture with prices and optional context.
// Games are loaded once per run and treated as read-only.
type Game struct {
	ID         string       `json:"id"`
	League     string       `json:"league"`
	Date       time.Time    `json:"date"`
	HomeTeam   string       `json:"home_team"`
	AwayTeam   string       `json:"away_team"`
	HomeOdds   float64      `json:"home_odds"`
	AwayOdds   float64      `json:"away_odds"`
	Winner     string       `json:"winner,omitempty"`
	HomeStats  *TeamStats   `json:"home_stats,omitempty"`
	AwayStats  *TeamStats   `json:"away_stats,omitempty"`
	HomeForm   []FormResult `json:"home_form,omitempty"`
	AwayForm   []FormResult `json:"away_form,omitempty"`
	HeadToHead *HeadToHead  `json:"head_to_head,omitempty"`
}

// HasOdds reports whether both sides carry a non-zero price
func (g Game) HasOdds() bool {
	return g.HomeOdds != 0 && g.AwayOdds != 0
}

// HasResult reports whether the winner is known
func (g Game) HasResult() bool {
	_, ok := g.WinningSide()
	return ok
}

// WinningSide resolves the winner name against the two team names
func (g Game) WinningSide() (Side, bool) {
	winner := strings.TrimSpace(g.Winner)
	switch {
	case winner == "", strings.EqualFold(winner, "pending"), strings.EqualFold(winner, "unknown"):
		return "", false
	case strings.EqualFold(winner, strings.TrimSpace(g.HomeTeam)):
		return SideHome, true
	case strings.EqualFold(winner, strings.TrimSpace(g.AwayTeam)):
		return SideAway, true
	}
	return "", false
}

// Team returns the team name for a side
func (g Game) Team(side Side) string {
	if side == SideHome {
		return g.HomeTeam
	}
	return g.AwayTeam
}

// Odds returns the American price for a side
func (g Game) Odds(side Side) float64 {
	if side == SideHome {
		return g.HomeOdds
	}
	return g.AwayOdds
}
