package staking

// DrawdownPolicy selects how drawdown alters the Kelly fraction
type DrawdownPolicy int

const (
	// PolicyNone always uses the nominal fraction
	PolicyNone DrawdownPolicy = iota
	// PolicyThrottle swaps to a reduced fraction past a drawdown threshold
	PolicyThrottle
	// PolicyRegimes picks a multiplier from the drawdown regime table
	PolicyRegimes
)

// ParseDrawdownPolicy maps a config value to a policy
func ParseDrawdownPolicy(s string) DrawdownPolicy {
	switch s {
	case "throttle":
		return PolicyThrottle
	case "regimes":
		return PolicyRegimes
	}
	return PolicyNone
}

func (p DrawdownPolicy) String() string {
	switch p {
	case PolicyThrottle:
		return "throttle"
	case PolicyRegimes:
		return "regimes"
	}
	return "none"
}

// Regime is a drawdown band with its own Kelly multiplier
type Regime int

const (
	RegimeNormal Regime = iota
	RegimeCautious
	RegimeDefensive
	RegimeSurvival
)

var regimeMultipliers = [...]float64{
	RegimeNormal:    0.33,
	RegimeCautious:  0.25,
	RegimeDefensive: 0.20,
	RegimeSurvival:  0.10,
}

var regimeNames = [...]string{
	RegimeNormal:    "normal",
	RegimeCautious:  "cautious",
	RegimeDefensive: "defensive",
	RegimeSurvival:  "survival",
}

// RegimeFor classifies a drawdown fraction
func RegimeFor(drawdown float64) Regime {
	switch {
	case drawdown > 0.15:
		return RegimeSurvival
	case drawdown > 0.10:
		return RegimeDefensive
	case drawdown > 0.05:
		return RegimeCautious
	}
	return RegimeNormal
}

// Multiplier returns the regime's Kelly fraction
func (r Regime) Multiplier() float64 {
	return regimeMultipliers[r]
}

func (r Regime) String() string {
	return regimeNames[r]
}
