package models

import (
	"time"

	"github.com/google/uuid"
)

// PickStatus is the grading outcome of a pick
type PickStatus string

const (
	PickStatusWin      PickStatus = "win"
	PickStatusLoss     PickStatus = "loss"
	PickStatusPending  PickStatus = "pending"
	PickStatusNotFound PickStatus = "not_found"
)

// Score is a literal final score
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// ReconciliationRecord grades a single pick against the outcomes feed
type ReconciliationRecord struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	ReportDate   time.Time   `db:"report_date" json:"report_date"`
	Pick         Pick        `db:"-" json:"pick"`
	MatchedGame  *GameResult `db:"-" json:"matched_game,omitempty"`
	Status       PickStatus  `db:"status" json:"status"`
	ActualWinner string      `db:"actual_winner" json:"actual_winner,omitempty"`
	ActualScore  *Score      `db:"-" json:"actual_score,omitempty"`
}

// ReconciliationSummary aggregates a full record set
type ReconciliationSummary struct {
	TotalPicks   int     `db:"total_picks" json:"total_picks"`
	Completed    int     `db:"completed" json:"completed"`
	Correct      int     `db:"correct" json:"correct"`
	Incorrect    int     `db:"incorrect" json:"incorrect"`
	Pending      int     `db:"pending" json:"pending"`
	NotFound     int     `db:"not_found" json:"not_found"`
	WinRate      float64 `db:"win_rate" json:"win_rate"`
	EstimatedROI float64 `db:"estimated_roi" json:"estimated_roi"`
}
