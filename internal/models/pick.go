package models

import "time"

// Pick is a previously emitted selection awaiting grading
type Pick struct {
	ID         string    `json:"id"`
	League     string    `json:"league"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Pick       string    `json:"pick"`
	Confidence float64   `json:"confidence"`
	Odds       float64   `json:"odds,omitempty"`
	Date       time.Time `json:"date"`
}

// GameResult is a real outcome reported by a results feed
type GameResult struct {
	League    string    `json:"league"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeScore *int      `json:"home_score,omitempty"`
	AwayScore *int      `json:"away_score,omitempty"`
	StartTime time.Time `json:"start_time"`
	Completed bool      `json:"completed"`
}

// HasScores reports whether at least one score is present
func (r GameResult) HasScores() bool {
	return r.HomeScore != nil || r.AwayScore != nil
}

// Winner returns the winning team name, or "" on a tie or missing score
func (r GameResult) Winner() string {
	if r.HomeScore == nil || r.AwayScore == nil {
		return ""
	}
	switch {
	case *r.HomeScore > *r.AwayScore:
		return r.HomeTeam
	case *r.AwayScore > *r.HomeScore:
		return r.AwayTeam
	}
	return ""
}
