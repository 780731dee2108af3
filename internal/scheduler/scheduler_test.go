package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/reconcile"
	"github.com/yourusername/sharp-edge/internal/repository"
)

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) ReconcileDay(ctx context.Context, day time.Time, picks []models.Pick) (*reconcile.Report, error) {
	args := m.Called(ctx, day, picks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.Report), args.Error(1)
}

var now = time.Date(2025, 2, 10, 7, 30, 0, 0, time.UTC)

func writePicks(t *testing.T, dir string) {
	t.Helper()
	body := `{"date":"2025-02-09","picks":[
		{"id":"g1","league":"nba","home_team":"Phoenix Suns","away_team":"Denver Nuggets","pick":"Denver Nuggets","confidence":0.71},
		{"game_id":"g2","sport":"NHL","home_team":"Boston Bruins","away_team":"","winner":"Boston Bruins"}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "predictions-2025-02-09.json"), []byte(body), 0o644))
}

func sampleReport() *reconcile.Report {
	return &reconcile.Report{
		GeneratedAt: now,
		ReportDate:  time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC),
		Source:      "fake",
		Records: []models.ReconciliationRecord{
			{Pick: models.Pick{ID: "g1", League: "NBA", HomeTeam: "Phoenix Suns", AwayTeam: "Denver Nuggets", Pick: "Denver Nuggets"}, Status: models.PickStatusWin},
		},
		Summary: models.ReconciliationSummary{TotalPicks: 1, Completed: 1, Correct: 1, WinRate: 1},
	}
}

func TestReconcileJobRun(t *testing.T) {
	picksDir, outDir := t.TempDir(), t.TempDir()
	writePicks(t, picksDir)

	rec := new(MockReconciler)
	picksDay := mock.MatchedBy(func(d time.Time) bool {
		return d.Format(time.DateOnly) == "2025-02-09"
	})
	rec.On("ReconcileDay", mock.Anything, picksDay, mock.MatchedBy(func(p []models.Pick) bool {
		return len(p) == 1 && p[0].League == "NBA"
	})).Return(sampleReport(), nil)

	store := new(repository.MockReconciliationRepository)
	store.On("SaveReport", mock.Anything, sampleReport().ReportDate, mock.Anything, sampleReport().Summary).Return(nil)

	job := &ReconcileJob{
		Reconciler: rec,
		PicksDir:   picksDir,
		OutputDir:  outDir,
		Store:      store,
		Clock:      func() time.Time { return now },
	}

	report, path, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Correct)
	assert.Equal(t, filepath.Join(outDir, "results-2025-02-09.json"), path)
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(outDir, "results-2025-02-09.txt"))
	rec.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestReconcileJobMissingPicks(t *testing.T) {
	rec := new(MockReconciler)
	job := &ReconcileJob{Reconciler: rec, PicksDir: t.TempDir(), OutputDir: t.TempDir(), Clock: func() time.Time { return now }}

	_, _, err := job.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoPicksFile)
	rec.AssertNotCalled(t, "ReconcileDay", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileJobErrors(t *testing.T) {
	picksDir := t.TempDir()
	writePicks(t, picksDir)

	t.Run("reconcile failure", func(t *testing.T) {
		rec := new(MockReconciler)
		rec.On("ReconcileDay", mock.Anything, mock.Anything, mock.Anything).Return(nil, reconcile.ErrNoPicks)
		job := &ReconcileJob{Reconciler: rec, PicksDir: picksDir, OutputDir: t.TempDir(), Clock: func() time.Time { return now }}

		_, _, err := job.Run(context.Background())
		assert.ErrorIs(t, err, reconcile.ErrNoPicks)
	})

	t.Run("persist failure keeps report", func(t *testing.T) {
		rec := new(MockReconciler)
		rec.On("ReconcileDay", mock.Anything, mock.Anything, mock.Anything).Return(sampleReport(), nil)
		store := new(repository.MockReconciliationRepository)
		store.On("SaveReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))
		job := &ReconcileJob{Reconciler: rec, PicksDir: picksDir, OutputDir: t.TempDir(), Store: store, Clock: func() time.Time { return now }}

		report, path, err := job.Run(context.Background())
		require.Error(t, err)
		assert.NotNil(t, report)
		assert.FileExists(t, path)
	})

	t.Run("unwritable output still persists", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		rec := new(MockReconciler)
		rec.On("ReconcileDay", mock.Anything, mock.Anything, mock.Anything).Return(sampleReport(), nil)
		store := new(repository.MockReconciliationRepository)
		store.On("SaveReport", mock.Anything, sampleReport().ReportDate, mock.Anything, sampleReport().Summary).Return(nil)
		job := &ReconcileJob{Reconciler: rec, PicksDir: picksDir, OutputDir: filepath.Join(blocker, "out"), Store: store, Clock: func() time.Time { return now }}

		report, path, err := job.Run(context.Background())
		require.Error(t, err)
		assert.NotNil(t, report)
		assert.Empty(t, path)
		store.AssertExpectations(t)
	})

	t.Run("both writes fail", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		rec := new(MockReconciler)
		rec.On("ReconcileDay", mock.Anything, mock.Anything, mock.Anything).Return(sampleReport(), nil)
		store := new(repository.MockReconciliationRepository)
		dbErr := errors.New("db down")
		store.On("SaveReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(dbErr)
		job := &ReconcileJob{Reconciler: rec, PicksDir: picksDir, OutputDir: filepath.Join(blocker, "out"), Store: store, Clock: func() time.Time { return now }}

		_, _, err := job.Run(context.Background())
		assert.ErrorIs(t, err, dbErr)
		store.AssertNumberOfCalls(t, "SaveReport", 1)
	})
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(nil, nil)
	job := &ReconcileJob{Reconciler: new(MockReconciler)}

	assert.Error(t, s.Start(), "no jobs")
	assert.Error(t, s.ScheduleReconciliation("not a cron", job))
	require.NoError(t, s.ScheduleReconciliation("0 7 * * *", job))

	assert.Error(t, s.Ping(context.Background()))
	assert.True(t, s.NextRun().IsZero())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.NoError(t, s.Ping(context.Background()))
	assert.False(t, s.NextRun().IsZero())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleReconciliation("0 8 * * *", job))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop())
}
