package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-edge/internal/health"
	"github.com/yourusername/sharp-edge/internal/scheduler"
)

var scheduleRunNow bool

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "run-now", false, "Run one reconciliation immediately before waiting for the schedule")
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily reconciliation on its cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reconciler, err := newReconciler()
		if err != nil {
			return err
		}
		repos, closeDB, err := openRepositories(ctx)
		defer closeDB()
		if err != nil {
			return err
		}

		job := &scheduler.ReconcileJob{
			Reconciler: reconciler,
			PicksDir:   cfg.Reconcile.PicksDir,
			OutputDir:  cfg.Reconcile.OutputDir,
			Logger:     log,
		}
		if repos != nil && cfg.Reconcile.Persist {
			job.Store = repos.Reconciliation
		}

		if scheduleRunNow {
			if _, _, err := job.Run(ctx); err != nil && !errors.Is(err, scheduler.ErrNoPicksFile) {
				log.WithError(err).Error("Initial reconciliation failed")
			}
		}

		sched := scheduler.NewScheduler(time.Local, log)
		if err := sched.ScheduleReconciliation(cfg.Reconcile.Schedule, job); err != nil {
			return fmt.Errorf("invalid reconcile schedule: %w", err)
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.WithError(err).Warn("Scheduler did not stop cleanly")
			}
		}()
		log.WithField("next_run", sched.NextRun()).Info("Waiting for scheduled reconciliation")

		checks := map[string]health.Checker{"scheduler": sched}
		return serveUntilDone(cmd, checks, false)
	},
}
