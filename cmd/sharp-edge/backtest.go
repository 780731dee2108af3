package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-edge/internal/backtest"
	"github.com/yourusername/sharp-edge/internal/datasource"
	"github.com/yourusername/sharp-edge/internal/staking"
)

var (
	backtestParams string
	backtestGames  string
	backtestOutput string
	backtestPolicy string
)

func init() {
	backtestCmd.Flags().StringVarP(&backtestParams, "params", "p", "", "Tuned parameters file (json or yaml); defaults are used when empty")
	backtestCmd.Flags().StringVar(&backtestGames, "games", "", "Historical games file (defaults to backtest.games_file)")
	backtestCmd.Flags().StringVarP(&backtestOutput, "output", "o", "", "Artifact directory (defaults to backtest.output_path)")
	backtestCmd.Flags().StringVar(&backtestPolicy, "drawdown-policy", "none", "Drawdown handling during replay: none, throttle or regimes")
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay one parameter vector over historical games",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		btCfg, err := backtest.FromConfig(cfg)
		if err != nil {
			return fmt.Errorf("invalid backtest config: %w", err)
		}
		btCfg.GamesFile = firstSet(backtestGames, btCfg.GamesFile)
		btCfg.OutputPath = firstSet(backtestOutput, btCfg.OutputPath)

		params, err := resolveParameters(backtestParams)
		if err != nil {
			return err
		}

		var store backtest.RunStore
		if btCfg.Persist {
			repos, closeDB, err := openRepositories(ctx)
			defer closeDB()
			if err != nil {
				log.WithError(err).Warn("Database unavailable, backtest will not be persisted")
			} else if repos != nil {
				store = repos.BacktestRun
			}
		}

		policy := backtest.WithDrawdownPolicy(staking.ParseDrawdownPolicy(backtestPolicy))
		engine, err := backtest.NewEngine(btCfg, datasource.FileGameSource{Path: btCfg.GamesFile}, store, log, policy)
		if err != nil {
			return err
		}

		report, err := engine.Run(ctx, params)
		if report == nil {
			return err
		}
		if errors.Is(err, backtest.ErrPersist) {
			log.WithError(err).Warn("Backtest finished but was not stored")
			err = nil
		}

		backtest.WriteConsoleReport(os.Stdout, report.Result)
		if report.WalkForward != nil {
			backtest.WriteWalkForward(os.Stdout, *report.WalkForward)
		}
		if p := report.Projection; p != nil {
			fmt.Fprintf(os.Stdout, "\nMonte Carlo (%d paths x %d bets): mean %.2f, p5 %.2f, p95 %.2f, P(profit) %.1f%%, P(ruin) %.1f%%\n",
				p.Iterations, p.BetsPerPath, p.MeanFinal, p.P5Final, p.P95Final, p.ProbabilityOfProfit*100, p.ProbabilityOfRuin*100)
		}

		if saveErr := backtest.SaveArtifacts(btCfg.OutputPath, report.Result); saveErr != nil {
			log.WithError(saveErr).WithField("dir", btCfg.OutputPath).Error("Failed to write backtest artifacts")
		}
		return err
	},
}
