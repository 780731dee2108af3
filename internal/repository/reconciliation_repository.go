package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/sharp-edge/internal/database"
	"github.com/yourusername/sharp-edge/internal/models"
)

const errScanReconciliation = "failed to scan reconciliation record: %w"

// PostgresReconciliationRepository implements ReconciliationRepository for PostgreSQL
type PostgresReconciliationRepository struct {
	db *database.DB
}

// NewPostgresReconciliationRepository creates a new reconciliation repository
func NewPostgresReconciliationRepository(db *database.DB) ReconciliationRepository {
	return &PostgresReconciliationRepository{db: db}
}

// SaveReport replaces the stored day in a single transaction, so running the
// reconciliation twice for one date leaves one copy of each record
func (r *PostgresReconciliationRepository) SaveReport(ctx context.Context, date time.Time, records []models.ReconciliationRecord, summary models.ReconciliationSummary) error {
	day := truncateDay(date)

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := r.db.Exec(ctx, `DELETE FROM reconciliation_records WHERE report_date = $1`, day); err != nil {
			return fmt.Errorf("failed to clear reconciliation records: %w", err)
		}

		insert := `
			INSERT INTO reconciliation_records (
				id, report_date, pick_id, game_date, league, home_team, away_team, pick,
				confidence, status, actual_winner, home_score, away_score
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			ON CONFLICT (id) DO UPDATE SET report_date = EXCLUDED.report_date, status = EXCLUDED.status,
				actual_winner = EXCLUDED.actual_winner, home_score = EXCLUDED.home_score, away_score = EXCLUDED.away_score
		`
		for i := range records {
			rec := &records[i]
			var home, away *int
			if rec.ActualScore != nil {
				home, away = &rec.ActualScore.Home, &rec.ActualScore.Away
			}
			var gameDate *time.Time
			if !rec.Pick.Date.IsZero() {
				gameDate = &rec.Pick.Date
			}
			if _, err := r.db.Exec(ctx, insert,
				rec.ID, day, rec.Pick.ID, gameDate, rec.Pick.League, rec.Pick.HomeTeam, rec.Pick.AwayTeam, rec.Pick.Pick,
				rec.Pick.Confidence, string(rec.Status), rec.ActualWinner, home, away,
			); err != nil {
				return fmt.Errorf("failed to insert reconciliation record: %w", err)
			}
		}

		upsert := `
			INSERT INTO reconciliation_summaries (
				report_date, total_picks, completed, correct, incorrect, pending, not_found, win_rate, estimated_roi, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now())
			ON CONFLICT (report_date) DO UPDATE SET
				total_picks = EXCLUDED.total_picks, completed = EXCLUDED.completed, correct = EXCLUDED.correct,
				incorrect = EXCLUDED.incorrect, pending = EXCLUDED.pending, not_found = EXCLUDED.not_found,
				win_rate = EXCLUDED.win_rate, estimated_roi = EXCLUDED.estimated_roi, updated_at = now()
		`
		if _, err := r.db.Exec(ctx, upsert,
			day, summary.TotalPicks, summary.Completed, summary.Correct, summary.Incorrect,
			summary.Pending, summary.NotFound, summary.WinRate, summary.EstimatedROI,
		); err != nil {
			return fmt.Errorf("failed to save reconciliation summary: %w", err)
		}
		return nil
	})
}

// GetByDate returns the records stored for one report date
func (r *PostgresReconciliationRepository) GetByDate(ctx context.Context, date time.Time) ([]models.ReconciliationRecord, error) {
	query := `
		SELECT id, report_date, pick_id, game_date, league, home_team, away_team, pick,
			confidence, status, COALESCE(actual_winner, ''), home_score, away_score
		FROM reconciliation_records WHERE report_date = $1 ORDER BY league, home_team
	`
	rows, err := r.db.Query(ctx, query, truncateDay(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation records: %w", err)
	}
	defer rows.Close()

	var out []models.ReconciliationRecord
	for rows.Next() {
		var (
			rec        models.ReconciliationRecord
			status     string
			gameDate   *time.Time
			home, away *int
		)
		if err := rows.Scan(
			&rec.ID, &rec.ReportDate, &rec.Pick.ID, &gameDate, &rec.Pick.League, &rec.Pick.HomeTeam, &rec.Pick.AwayTeam, &rec.Pick.Pick,
			&rec.Pick.Confidence, &status, &rec.ActualWinner, &home, &away,
		); err != nil {
			return nil, fmt.Errorf(errScanReconciliation, err)
		}
		rec.Status = models.PickStatus(status)
		if gameDate != nil {
			rec.Pick.Date = *gameDate
		}
		if home != nil && away != nil {
			rec.ActualScore = &models.Score{Home: *home, Away: *away}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetSummary returns the stored summary for one report date
func (r *PostgresReconciliationRepository) GetSummary(ctx context.Context, date time.Time) (*models.ReconciliationSummary, error) {
	query := `
		SELECT total_picks, completed, correct, incorrect, pending, not_found, win_rate, estimated_roi
		FROM reconciliation_summaries WHERE report_date = $1
	`
	s := &models.ReconciliationSummary{}
	err := r.db.QueryRow(ctx, query, truncateDay(date)).Scan(
		&s.TotalPicks, &s.Completed, &s.Correct, &s.Incorrect, &s.Pending, &s.NotFound, &s.WinRate, &s.EstimatedROI,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reconciliation summary %s: %w", date.Format(time.DateOnly), models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reconciliation summary: %w", err)
	}
	return s, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
