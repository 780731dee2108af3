package optimizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/sharp-edge/internal/models"
)

// ErrNoBest is returned when a report kept no combinations
var ErrNoBest = errors.New("no combination survived the filters")

// Artifact file names written by WriteArtifacts
const (
	RankingsFile    = "rankings.json"
	BestFile        = "best.json"
	TunedJSONFile   = "tuned_params.json"
	TunedYAMLFile   = "tuned_params.yaml"
	artifactDirPerm = 0o755
)

// Provenance records which search produced a tuned vector
type Provenance struct {
	Pass          string  `json:"pass" yaml:"pass"`
	GridSize      int     `json:"grid_size" yaml:"grid_size"`
	Evaluated     int64   `json:"evaluated" yaml:"evaluated"`
	Kept          int64   `json:"kept" yaml:"kept"`
	GameCount     int     `json:"game_count" yaml:"game_count"`
	StartBankroll float64 `json:"start_bankroll" yaml:"start_bankroll"`
	ParameterHash string  `json:"parameter_hash" yaml:"parameter_hash"`
	Cancelled     bool    `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
}

// Metrics are the backtest figures of the tuned vector
type Metrics struct {
	ROI           float64 `json:"roi" yaml:"roi"`
	WinRate       float64 `json:"win_rate" yaml:"win_rate"`
	Sharpe        float64 `json:"sharpe" yaml:"sharpe"`
	FinalBankroll float64 `json:"final_bankroll" yaml:"final_bankroll"`
	MaxDrawdown   float64 `json:"max_drawdown" yaml:"max_drawdown"`
	BetCount      int     `json:"bet_count" yaml:"bet_count"`
	WinCount      int     `json:"win_count" yaml:"win_count"`
}

// TunedParameters is the artifact consumed by live allocation
type TunedParameters struct {
	RunID       uuid.UUID              `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time              `json:"generated_at" yaml:"generated_at"`
	Provenance  Provenance             `json:"provenance" yaml:"provenance"`
	Parameters  models.ParameterVector `json:"parameters" yaml:"parameters"`
	Metrics     Metrics                `json:"metrics" yaml:"metrics"`
}

// NewTunedParameters builds the artifact from a report's best combination
func NewTunedParameters(r *Report) (*TunedParameters, error) {
	if r == nil || r.Best == nil {
		return nil, ErrNoBest
	}
	b := r.Best
	return &TunedParameters{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Provenance: Provenance{
			Pass:          r.Pass,
			GridSize:      r.GridSize,
			Evaluated:     r.Evaluated,
			Kept:          r.Kept,
			GameCount:     r.GameCount,
			StartBankroll: r.StartBankroll,
			ParameterHash: b.ParameterHash,
			Cancelled:     r.Cancelled,
		},
		Parameters: b.Parameters,
		Metrics: Metrics{
			ROI:           b.ROI,
			WinRate:       b.WinRate,
			Sharpe:        b.Sharpe,
			FinalBankroll: b.FinalBankroll,
			MaxDrawdown:   b.MaxDrawdown,
			BetCount:      b.BetCount,
			WinCount:      b.WinCount,
		},
	}, nil
}

// Record converts the artifact into its persisted form
func (t *TunedParameters) Record() (*models.TunedParameters, error) {
	params, err := json.Marshal(t.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	return &models.TunedParameters{
		ID:            uuid.New(),
		RunID:         t.RunID,
		Pass:          t.Provenance.Pass,
		ParameterHash: t.Provenance.ParameterHash,
		Parameters:    params,
		ROI:           t.Metrics.ROI,
		WinRate:       t.Metrics.WinRate,
		SharpeRatio:   t.Metrics.Sharpe,
		BetCount:      t.Metrics.BetCount,
		FinalBankroll: t.Metrics.FinalBankroll,
		GridSize:      t.Provenance.GridSize,
		Evaluated:     int(t.Provenance.Evaluated),
		Kept:          int(t.Provenance.Kept),
		GeneratedAt:   t.GeneratedAt,
	}, nil
}

// WriteArtifacts writes rankings, best and tuned parameter files into dir.
// Each file is written independently; failures are joined and the report
// itself is left untouched.
func WriteArtifacts(dir string, r *Report) error {
	if err := os.MkdirAll(dir, artifactDirPerm); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	var errs []error
	errs = append(errs, writeJSON(filepath.Join(dir, RankingsFile), r.Rankings))

	tuned, err := NewTunedParameters(r)
	if err != nil {
		// nothing to promote; rankings alone are still useful
		return errors.Join(append(errs, err)...)
	}
	errs = append(errs,
		writeJSON(filepath.Join(dir, BestFile), r.Best),
		writeJSON(filepath.Join(dir, TunedJSONFile), tuned),
		writeYAML(filepath.Join(dir, TunedYAMLFile), tuned),
	)
	return errors.Join(errs...)
}

// LoadTunedParameters reads a tuned parameter artifact, YAML or JSON by extension
func LoadTunedParameters(path string) (*TunedParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuned parameters: %w", err)
	}

	var t TunedParameters
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &t)
	default:
		err = json.Unmarshal(data, &t)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := t.Parameters.Validate(); err != nil {
		return nil, fmt.Errorf("tuned parameters invalid: %w", err)
	}
	return &t, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return writeFile(path, data)
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
