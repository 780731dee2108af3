package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharp-edge/internal/datasource"
	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/reconcile"
	"github.com/yourusername/sharp-edge/internal/repository"
)

// ErrNoPicksFile is returned when the day's picks file does not exist
var ErrNoPicksFile = errors.New("no picks file")

// Reconciler grades one day's picks against an outcomes feed
type Reconciler interface {
	ReconcileDay(ctx context.Context, day time.Time, picks []models.Pick) (*reconcile.Report, error)
}

// ReconcileJob grades the previous day's picks file and writes the report
type ReconcileJob struct {
	Reconciler Reconciler
	PicksDir   string
	OutputDir  string
	// Store is optional; when set the report is also persisted
	Store repository.ReconciliationRepository

	Clock  func() time.Time
	Logger *logrus.Logger
}

// Run reconciles the picks emitted yesterday (by Clock) and returns the
// report plus the path of the written JSON file
func (j *ReconcileJob) Run(ctx context.Context) (*reconcile.Report, string, error) {
	log := logger.OrDefault(j.Logger)
	now := time.Now
	if j.Clock != nil {
		now = j.Clock
	}

	picksDate := now().AddDate(0, 0, -1)
	path := filepath.Join(j.PicksDir, datasource.PicksFileName(picksDate))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, "", fmt.Errorf("%w: %s", ErrNoPicksFile, path)
	}

	picks, err := datasource.LoadPicks(path)
	if err != nil {
		return nil, "", err
	}

	report, err := j.Reconciler.ReconcileDay(ctx, picksDate, picks)
	if err != nil {
		return nil, "", fmt.Errorf("reconcile %s: %w", path, err)
	}

	// the archive and the database row are written independently
	var errs []error
	out, err := reconcile.SaveReport(j.OutputDir, report)
	if err != nil {
		log.WithError(err).WithField("output_dir", j.OutputDir).Error("Failed to write reconciliation report")
		errs = append(errs, err)
	}

	if j.Store != nil {
		if err := j.Store.SaveReport(ctx, report.ReportDate, report.Records, report.Summary); err != nil {
			log.WithError(err).Error("Failed to persist reconciliation report")
			errs = append(errs, fmt.Errorf("persist reconciliation: %w", err))
		}
	}

	if len(errs) > 0 {
		return report, out, errors.Join(errs...)
	}

	log.WithFields(logrus.Fields{
		"picks_file":  path,
		"report":      out,
		"report_date": report.ReportDate.Format(time.DateOnly),
		"picks":       report.Summary.TotalPicks,
	}).Info("Reconciliation job finished")
	return report, out, nil
}
