package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. SHARP_EDGE_APP_LOG_LEVEL
const EnvPrefix = "SHARP_EDGE"

// DefaultPath is used when no config path is given
const DefaultPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads and parses the configuration from file and environment variables.
// ${VAR_NAME} placeholders in the YAML file are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables still apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sharp-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	v.SetDefault("feed.odds_api_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("feed.api_sports_domain", "api-sports.io")
	v.SetDefault("feed.requests_per_second", 2.0)
	v.SetDefault("feed.burst", 2)
	v.SetDefault("feed.timeout_seconds", 15)
	v.SetDefault("feed.retry_attempts", 3)
	v.SetDefault("feed.cache_ttl_seconds", 300)
	v.SetDefault("feed.lookback_days", 2)
	v.SetDefault("feed.leagues", []string{"NFL", "NBA", "MLB", "NHL", "NCAAF", "NCAAB", "CBB"})

	v.SetDefault("staking.bankroll", 10000.0)
	v.SetDefault("staking.drawdown_policy", "throttle")
	v.SetDefault("staking.throttle_drawdown", 0.10)
	v.SetDefault("staking.throttled_fraction", 0.20)
	v.SetDefault("staking.live_max_exposure", 0.30)
	v.SetDefault("staking.backtest_max_exposure", 0.10)
	v.SetDefault("staking.live_min_stake", 100.0)
	v.SetDefault("staking.backtest_min_stake", 1.0)

	v.SetDefault("backtest.games_file", "data/games.json")
	v.SetDefault("backtest.start_bankroll", 10000.0)
	v.SetDefault("backtest.monte_carlo_iterations", 1000)
	v.SetDefault("backtest.output_path", "output/backtest")

	v.SetDefault("optimizer.top_n", 25)
	v.SetDefault("optimizer.min_bets", 8)
	v.SetDefault("optimizer.progress_every", 10000)
	v.SetDefault("optimizer.output_dir", "output/optimizer")
	v.SetDefault("optimizer.refine_steps", 2)
	v.SetDefault("optimizer.grid.home_advantage", []float64{0, 0.5, 1, 1.5})
	v.SetDefault("optimizer.grid.form", []float64{0, 0.05, 0.10, 0.15})
	v.SetDefault("optimizer.grid.head_to_head", []float64{0, 0.05, 0.10})
	v.SetDefault("optimizer.grid.record", []float64{0, 0.10, 0.20})
	v.SetDefault("optimizer.grid.points_differential", []float64{0, 0.005})
	v.SetDefault("optimizer.grid.min_edge", []float64{0.01, 0.02, 0.03, 0.05})
	v.SetDefault("optimizer.grid.min_confidence", []float64{0.50, 0.55, 0.60})
	v.SetDefault("optimizer.grid.odds_min", []float64{-300, -200})
	v.SetDefault("optimizer.grid.odds_max", []float64{150, 200, 300})
	v.SetDefault("optimizer.grid.kelly_fraction", []float64{0.10, 0.25, 0.33})

	v.SetDefault("reconcile.picks_dir", "data/picks")
	v.SetDefault("reconcile.output_dir", "output/results")
	v.SetDefault("reconcile.break_even", 0.524)
	v.SetDefault("reconcile.min_match_length", 4)
	v.SetDefault("reconcile.schedule", "0 9 * * *")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}

// ReloadFromEnv reloads the configuration from SHARP_EDGE_CONFIG_PATH when set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}
