// Package config provides configuration management for sharp-edge.
package config

import "fmt"

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Feed      FeedConfig      `mapstructure:"feed" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Optimizer OptimizerConfig `mapstructure:"optimizer" validate:"required"`
	Reconcile ReconcileConfig `mapstructure:"reconcile" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	LogFile     string `mapstructure:"log_file"`
	AWSRegion   string `mapstructure:"aws_region"`
	SecretName  string `mapstructure:"secret_name"`
}

// DatabaseConfig represents database connection configuration.
// Persistence is optional; when disabled nothing is written.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// FeedConfig configures the real-outcomes feed clients
type FeedConfig struct {
	OddsAPIURL        string   `mapstructure:"odds_api_url" validate:"required,url"`
	OddsAPIKey        string   `mapstructure:"odds_api_key"`
	APISportsKey      string   `mapstructure:"api_sports_key"`
	APISportsDomain   string   `mapstructure:"api_sports_domain" validate:"required"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int      `mapstructure:"burst" validate:"required,gt=0"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int      `mapstructure:"retry_attempts" validate:"gte=0"`
	CacheTTLSeconds   int      `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	LookbackDays      int      `mapstructure:"lookback_days" validate:"required,gt=0,lte=3"`
	Leagues           []string `mapstructure:"leagues" validate:"required,min=1,dive,league"`
}

// StakingConfig configures the live allocator
type StakingConfig struct {
	Bankroll            float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	PeakBankroll        float64 `mapstructure:"peak_bankroll" validate:"gte=0"`
	ParametersFile      string  `mapstructure:"parameters_file"`
	DrawdownPolicy      string  `mapstructure:"drawdown_policy" validate:"required,oneof=none throttle regimes"`
	ThrottleDrawdown    float64 `mapstructure:"throttle_drawdown" validate:"gte=0,lt=1"`
	ThrottledFraction   float64 `mapstructure:"throttled_fraction" validate:"gte=0,lte=1"`
	LiveMaxExposure     float64 `mapstructure:"live_max_exposure" validate:"required,gt=0,lte=1"`
	BacktestMaxExposure float64 `mapstructure:"backtest_max_exposure" validate:"required,gt=0,lte=1"`
	LiveMinStake        float64 `mapstructure:"live_min_stake" validate:"required,gt=0"`
	BacktestMinStake    float64 `mapstructure:"backtest_min_stake" validate:"required,gt=0"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	GamesFile            string  `mapstructure:"games_file" validate:"required"`
	StartBankroll        float64 `mapstructure:"start_bankroll" validate:"required,gt=0"`
	MonteCarloIterations int     `mapstructure:"monte_carlo_iterations" validate:"gte=0"`
	MonteCarloSeed       int64   `mapstructure:"monte_carlo_seed"`
	WalkForwardFolds     int     `mapstructure:"walk_forward_folds" validate:"gte=0"`
	OutputPath           string  `mapstructure:"output_path" validate:"required"`
	Persist              bool    `mapstructure:"persist"`
}

// OptimizerConfig configures the grid search
type OptimizerConfig struct {
	Workers       int        `mapstructure:"workers" validate:"gte=0"`
	TopN          int        `mapstructure:"top_n" validate:"required,gt=0"`
	MinBets       int        `mapstructure:"min_bets" validate:"required,gt=0"`
	ProgressEvery int        `mapstructure:"progress_every" validate:"required,gt=0"`
	OutputDir     string     `mapstructure:"output_dir" validate:"required"`
	Refine        bool       `mapstructure:"refine"`
	RefineSteps   int        `mapstructure:"refine_steps" validate:"gte=0"`
	Grid          GridConfig `mapstructure:"grid" validate:"required"`
}

// GridConfig lists candidate values for each parameter
type GridConfig struct {
	HomeAdvantage      []float64 `mapstructure:"home_advantage" yaml:"home_advantage" validate:"required,min=1"`
	Form               []float64 `mapstructure:"form" yaml:"form" validate:"required,min=1"`
	HeadToHead         []float64 `mapstructure:"head_to_head" yaml:"head_to_head" validate:"required,min=1"`
	Record             []float64 `mapstructure:"record" yaml:"record" validate:"required,min=1"`
	PointsDifferential []float64 `mapstructure:"points_differential" yaml:"points_differential" validate:"required,min=1"`
	MinEdge            []float64 `mapstructure:"min_edge" yaml:"min_edge" validate:"required,min=1"`
	MinConfidence      []float64 `mapstructure:"min_confidence" yaml:"min_confidence" validate:"required,min=1,dive,gte=0,lte=1"`
	OddsMin            []float64 `mapstructure:"odds_min" yaml:"odds_min" validate:"required,min=1"`
	OddsMax            []float64 `mapstructure:"odds_max" yaml:"odds_max" validate:"required,min=1"`
	KellyFraction      []float64 `mapstructure:"kelly_fraction" yaml:"kelly_fraction" validate:"required,min=1,dive,gt=0,lte=1"`
}

// ReconcileConfig configures the reconciliation reporter
type ReconcileConfig struct {
	PicksDir       string     `mapstructure:"picks_dir" validate:"required"`
	OutputDir      string     `mapstructure:"output_dir" validate:"required"`
	BreakEven      float64    `mapstructure:"break_even" validate:"required,gt=0,lt=1"`
	MinMatchLength int        `mapstructure:"min_match_length" validate:"required,gt=0"`
	Schedule       string     `mapstructure:"schedule" validate:"required,cron"`
	AliasGroups    [][]string `mapstructure:"alias_groups"`
	Persist        bool       `mapstructure:"persist"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
