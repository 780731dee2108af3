// Package main is the sharp-edge command line: grid search, backtests, live
// allocation and results reconciliation.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-edge/internal/config"
	"github.com/yourusername/sharp-edge/internal/database"
	"github.com/yourusername/sharp-edge/internal/logger"
	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/optimizer"
	"github.com/yourusername/sharp-edge/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	envFile    string
	cfg        *config.Config
	log        *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before the configuration")

	rootCmd.AddCommand(optimizeCmd, backtestCmd, allocateCmd, reconcileCmd, scheduleCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:           "sharp-edge",
	Short:         "Staking, backtest optimization and pick reconciliation",
	Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log = logger.NewLoggerWithFile(cfg.App.LogLevel, logger.FileOptions{Path: cfg.App.LogFile, Compress: true})
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if err := config.ReloadFromEnv(loaded); err != nil {
		return err
	}
	if err := config.LoadSecretsFromAWS(ctx, loaded); err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}
	if err := config.ValidateEnvironment(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// openRepositories connects when persistence is enabled. The returned close
// func is always safe to call.
func openRepositories(ctx context.Context) (*repository.Repositories, func(), error) {
	if !cfg.Database.Enabled {
		return nil, func() {}, nil
	}
	db, err := database.Initialize(ctx, cfg, log)
	if err != nil {
		return nil, func() {}, err
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, func() {}, err
	}
	return repos, db.Close, nil
}

// resolveParameters loads a tuned parameter artifact, or the defaults when
// path is empty
func resolveParameters(path string) (models.ParameterVector, error) {
	if path == "" {
		log.Info("No parameters file given, using defaults")
		return models.DefaultParameters(), nil
	}
	tuned, err := optimizer.LoadTunedParameters(path)
	if err != nil {
		return models.ParameterVector{}, err
	}
	log.WithFields(logrus.Fields{
		"path":           path,
		"run_id":         tuned.RunID,
		"parameter_hash": tuned.Provenance.ParameterHash,
	}).Info("Loaded tuned parameters")
	return tuned.Parameters, nil
}
