package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-edge/internal/datasource"
	"github.com/yourusername/sharp-edge/internal/reconcile"
)

var (
	reconcilePicks string
	reconcileDate  string
	reconcileDry   bool
)

func init() {
	reconcileCmd.Flags().StringVar(&reconcilePicks, "picks", "", "Picks file to grade (defaults to yesterday's file in reconcile.picks_dir)")
	reconcileCmd.Flags().StringVar(&reconcileDate, "date", "", "Picks date YYYY-MM-DD used to locate the picks file")
	reconcileCmd.Flags().BoolVar(&reconcileDry, "dry-run", false, "Print the report without writing files or rows")
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Grade emitted picks against final scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		path, day, err := picksPath()
		if err != nil {
			return err
		}
		picks, err := datasource.LoadPicks(path)
		if err != nil {
			return err
		}

		reconciler, err := newReconciler()
		if err != nil {
			return err
		}
		report, err := reconciler.ReconcileDay(ctx, day, picks)
		if err != nil {
			return err
		}
		reconcile.WriteText(os.Stdout, report)
		if reconcileDry {
			return nil
		}

		var errs []error
		out, err := reconcile.SaveReport(cfg.Reconcile.OutputDir, report)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to save report: %w", err))
		} else {
			log.WithField("report", out).Info("Reconciliation report written")
		}

		if cfg.Reconcile.Persist {
			if err := persistReconciliation(ctx, report); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

func persistReconciliation(ctx context.Context, report *reconcile.Report) error {
	repos, closeDB, err := openRepositories(ctx)
	defer closeDB()
	if err != nil {
		return err
	}
	if repos == nil {
		return nil
	}
	if err := repos.Reconciliation.SaveReport(ctx, report.ReportDate, report.Records, report.Summary); err != nil {
		return fmt.Errorf("failed to persist reconciliation: %w", err)
	}
	return nil
}

// picksPath resolves the picks file and the day it belongs to. An explicit
// --picks file takes its day from --date, then from its name; the day is
// zero when neither says.
func picksPath() (string, time.Time, error) {
	var date time.Time
	if reconcileDate != "" {
		parsed, err := time.Parse(time.DateOnly, reconcileDate)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("invalid date %q: %w", reconcileDate, err)
		}
		date = parsed
	}
	if reconcilePicks != "" {
		if date.IsZero() {
			date, _ = datasource.PicksFileDate(reconcilePicks)
		}
		return reconcilePicks, date, nil
	}
	if date.IsZero() {
		date = time.Now().AddDate(0, 0, -1)
	}
	return filepath.Join(cfg.Reconcile.PicksDir, datasource.PicksFileName(date)), date, nil
}

// newReconciler wires the configured feed chain and matcher
func newReconciler() (*reconcile.Reconciler, error) {
	feed, err := datasource.NewOutcomeFeed(cfg.Feed, log)
	if err != nil {
		return nil, err
	}

	groups := append([][]string{}, reconcile.DefaultAliasGroups...)
	groups = append(groups, cfg.Reconcile.AliasGroups...)
	matcher := reconcile.NewAliasMatcher(reconcile.SubstringMatcher{MinLength: cfg.Reconcile.MinMatchLength}, groups)

	return reconcile.New(feed, log,
		reconcile.WithMatcher(matcher),
		reconcile.WithLookback(cfg.Feed.LookbackDays),
		reconcile.WithBreakEven(cfg.Reconcile.BreakEven),
	), nil
}
