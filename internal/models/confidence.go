package models

// ConfidenceBand buckets a confidence percentage for reporting
type ConfidenceBand int

const (
	ConfidenceElite ConfidenceBand = iota
	ConfidenceHigh
	ConfidenceMedium
	ConfidenceLow
	ConfidenceVeryLow
	ConfidenceBelow
)

// ConfidenceBandCount sizes fixed per-band tables
const ConfidenceBandCount = int(ConfidenceBelow) + 1

var confidenceLabels = [ConfidenceBandCount]string{
	ConfidenceElite:   "elite (85-95)",
	ConfidenceHigh:    "high (75-84)",
	ConfidenceMedium:  "medium (65-74)",
	ConfidenceLow:     "low (50-64)",
	ConfidenceVeryLow: "very low (30-49)",
	ConfidenceBelow:   "below 30",
}

func (b ConfidenceBand) String() string {
	if b < 0 || int(b) >= ConfidenceBandCount {
		return "unknown"
	}
	return confidenceLabels[b]
}

// ConfidenceBandFor classifies a confidence given in percent (0-100)
func ConfidenceBandFor(pct float64) ConfidenceBand {
	switch {
	case pct >= 85:
		return ConfidenceElite
	case pct >= 75:
		return ConfidenceHigh
	case pct >= 65:
		return ConfidenceMedium
	case pct >= 50:
		return ConfidenceLow
	case pct >= 30:
		return ConfidenceVeryLow
	}
	return ConfidenceBelow
}

// ConfidenceBands returns every band in display order
func ConfidenceBands() []ConfidenceBand {
	out := make([]ConfidenceBand, ConfidenceBandCount)
	for i := range out {
		out[i] = ConfidenceBand(i)
	}
	return out
}
