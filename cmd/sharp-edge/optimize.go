package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-edge/internal/datasource"
	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/metrics"
	"github.com/yourusername/sharp-edge/internal/optimizer"
)

var (
	optimizeGames     string
	optimizeOutput    string
	optimizeWorkers   int
	optimizeNoRefine  bool
	optimizeNoPersist bool
)

func init() {
	optimizeCmd.Flags().StringVar(&optimizeGames, "games", "", "Historical games file (defaults to backtest.games_file)")
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "", "Artifact directory (defaults to optimizer.output_dir)")
	optimizeCmd.Flags().IntVarP(&optimizeWorkers, "workers", "w", 0, "Worker goroutines (defaults to optimizer.workers, then CPU count)")
	optimizeCmd.Flags().BoolVar(&optimizeNoRefine, "no-refine", false, "Skip the fine pass")
	optimizeCmd.Flags().BoolVar(&optimizeNoPersist, "no-persist", false, "Do not store the tuned parameters in the database")
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search parameter vectors over historical games",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		source := datasource.FileGameSource{Path: firstSet(optimizeGames, cfg.Backtest.GamesFile)}
		games, err := source.LoadGames(ctx)
		if err != nil {
			return err
		}

		optCfg := optimizer.ConfigFromApp(cfg)
		if optimizeWorkers > 0 {
			optCfg.Workers = optimizeWorkers
		}
		steps := 0
		if cfg.Optimizer.Refine && !optimizeNoRefine {
			steps = cfg.Optimizer.RefineSteps
		}

		reports, runErr := optimizer.RunPasses(ctx, games, optimizer.GridFromConfig(cfg.Optimizer.Grid), optCfg, steps, log)
		if len(reports) == 0 {
			return runErr
		}
		for _, r := range reports {
			optimizer.WriteConsoleReport(os.Stdout, r)
		}

		best, _ := optimizer.Best(reports)
		if best == nil {
			best = reports[len(reports)-1]
		}

		dir := firstSet(optimizeOutput, cfg.Optimizer.OutputDir)
		switch err := optimizer.WriteArtifacts(dir, best); {
		case errors.Is(err, optimizer.ErrNoBest):
			log.Warn("No parameter vector met the ranking criteria")
		case err != nil:
			metrics.RecordArtifactError()
			logger.NewOptimizerLogger(log).LogArtifactError(best.RunID.String(), dir, err)
		default:
			log.WithField("dir", dir).Info("Optimizer artifacts written")
		}

		if best.Best != nil && !optimizeNoPersist {
			persistTuned(cmd, best)
		}
		return runErr
	},
}

func persistTuned(cmd *cobra.Command, r *optimizer.Report) {
	ctx := cmd.Context()
	repos, closeDB, err := openRepositories(ctx)
	defer closeDB()
	if err != nil {
		log.WithError(err).Error("Tuned parameters not persisted")
		return
	}
	if repos == nil {
		return
	}

	tuned, err := optimizer.NewTunedParameters(r)
	if err == nil {
		rec, recErr := tuned.Record()
		if err = recErr; err == nil {
			err = repos.TunedParameters.Create(ctx, rec)
		}
	}
	if err != nil {
		log.WithError(err).Error("Tuned parameters not persisted")
		return
	}
	log.WithFields(logrus.Fields{"run_id": r.RunID, "pass": r.Pass}).Info("Tuned parameters persisted")
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
