package staking

import (
	"fmt"

	"github.com/yourusername/sharp-edge/internal/config"
	"github.com/yourusername/sharp-edge/internal/models"
)

const (
	// DefaultLiveMaxExposure caps a single live position at 30% of balance
	DefaultLiveMaxExposure = 0.30
	// DefaultBacktestMaxExposure is the tighter cap used by simulations
	DefaultBacktestMaxExposure = 0.10
	DefaultLiveMinStake        = 100.0
	DefaultBacktestMinStake    = 1.0
	DefaultThrottleDrawdown    = 0.10
	DefaultThrottledFraction   = 0.20
)

// Config controls stake sizing
type Config struct {
	KellyFraction     float64
	Policy            DrawdownPolicy
	ThrottleDrawdown  float64
	ThrottledFraction float64
	MaxExposure       float64
	MinStake          float64
}

// LiveConfig returns the allocator defaults for a live run
func LiveConfig(params models.ParameterVector) Config {
	return Config{
		KellyFraction:     params.KellyFraction,
		Policy:            PolicyThrottle,
		ThrottleDrawdown:  DefaultThrottleDrawdown,
		ThrottledFraction: DefaultThrottledFraction,
		MaxExposure:       DefaultLiveMaxExposure,
		MinStake:          DefaultLiveMinStake,
	}
}

// BacktestConfig returns the finer-grained sizing used by simulations
func BacktestConfig(params models.ParameterVector) Config {
	return Config{
		KellyFraction:     params.KellyFraction,
		Policy:            PolicyNone,
		ThrottleDrawdown:  DefaultThrottleDrawdown,
		ThrottledFraction: DefaultThrottledFraction,
		MaxExposure:       DefaultBacktestMaxExposure,
		MinStake:          DefaultBacktestMinStake,
	}
}

// LiveConfigFromApp applies the staking section of the application config
// on top of LiveConfig
func LiveConfigFromApp(cfg config.StakingConfig, params models.ParameterVector) Config {
	c := LiveConfig(params)
	c.Policy = ParseDrawdownPolicy(cfg.DrawdownPolicy)
	if cfg.ThrottleDrawdown > 0 {
		c.ThrottleDrawdown = cfg.ThrottleDrawdown
	}
	if cfg.ThrottledFraction > 0 {
		c.ThrottledFraction = cfg.ThrottledFraction
	}
	if cfg.LiveMaxExposure > 0 {
		c.MaxExposure = cfg.LiveMaxExposure
	}
	if cfg.LiveMinStake > 0 {
		c.MinStake = cfg.LiveMinStake
	}
	return c
}

// Validate checks sizing bounds
func (c Config) Validate() error {
	if c.KellyFraction <= 0 || c.KellyFraction > 1 {
		return fmt.Errorf("kelly fraction must be in (0, 1], got %v", c.KellyFraction)
	}
	if c.MaxExposure <= 0 || c.MaxExposure > 1 {
		return fmt.Errorf("max exposure must be in (0, 1], got %v", c.MaxExposure)
	}
	if c.MinStake < 0 {
		return fmt.Errorf("min stake cannot be negative")
	}
	if c.Policy == PolicyThrottle && (c.ThrottledFraction <= 0 || c.ThrottleDrawdown <= 0) {
		return fmt.Errorf("throttle policy requires positive threshold and fraction")
	}
	return nil
}
