package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-edge/internal/database"
	"github.com/yourusername/sharp-edge/internal/health"
	"github.com/yourusername/sharp-edge/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve health, readiness and Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		checks := map[string]health.Checker{}
		if cfg.Database.Enabled {
			db, err := database.Initialize(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()
			checks["database"] = db
		}
		return serveUntilDone(cmd, checks, true)
	},
}

// serveUntilDone runs the health server when forced or metrics are enabled,
// then blocks until the command context is cancelled
func serveUntilDone(cmd *cobra.Command, checks map[string]health.Checker, force bool) error {
	ctx := cmd.Context()
	if force || cfg.Metrics.Enabled {
		metrics.InitRegistry()
		srv := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      log,
			Checks:      checks,
		})
		if err := srv.Start(ctx); err != nil {
			return err
		}
		srv.SetReady(true)
	}

	<-ctx.Done()
	log.Info("Shutting down")
	return nil
}
