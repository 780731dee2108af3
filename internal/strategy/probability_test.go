package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-edge/internal/models"
)

func zeroWeights() models.ParameterVector {
	return models.ParameterVector{OddsMin: -10000, OddsMax: 10000, KellyFraction: 0.25}
}

func TestHomeProbabilityRemovesOverround(t *testing.T) {
	game := models.Game{HomeOdds: -110, AwayOdds: -110}

	p, err := HomeProbability(game, zeroWeights())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)
}

func TestHomeProbabilityHomeAdvantage(t *testing.T) {
	game := models.Game{HomeOdds: -110, AwayOdds: -110}
	params := zeroWeights()
	params.HomeAdvantage = 1

	p, err := HomeProbability(game, params)
	require.NoError(t, err)
	assert.InDelta(t, 0.55, p, 1e-12)
}

func TestHomeProbabilitySignals(t *testing.T) {
	game := models.Game{
		HomeOdds:   100,
		AwayOdds:   100,
		HomeForm:   []models.FormResult{models.FormWin, models.FormWin, models.FormLoss, models.FormLoss, models.FormLoss},
		AwayForm:   []models.FormResult{models.FormLoss, models.FormLoss, models.FormLoss, models.FormLoss, models.FormWin},
		HeadToHead: &models.HeadToHead{HomeWins: 3, AwayWins: 1},
		HomeStats:  &models.TeamStats{Wins: 6, Losses: 4, PointsFor: 250, PointsAgainst: 230},
		AwayStats:  &models.TeamStats{Wins: 4, Losses: 6, PointsFor: 220, PointsAgainst: 240},
	}
	params := models.ParameterVector{
		Form:               0.1,
		HeadToHead:         0.1,
		Record:             0.1,
		PointsDifferential: 0.01,
	}

	// form: (0.60 - 0.08) * 0.1 = 0.052
	// h2h: (0.75 - 0.5) * 0.1 = 0.025
	// record: (0.6 - 0.4) * 0.1 = 0.02
	// points: (2 - (-2)) * 0.01 = 0.04
	p, err := HomeProbability(game, params)
	require.NoError(t, err)
	assert.InDelta(t, 0.5+0.052+0.025+0.02+0.04, p, 1e-9)
}

func TestHomeProbabilityPointsDifferentialInactiveAtZero(t *testing.T) {
	game := models.Game{
		HomeOdds:  100,
		AwayOdds:  100,
		HomeStats: &models.TeamStats{Wins: 5, Losses: 5, PointsFor: 900, PointsAgainst: 100},
		AwayStats: &models.TeamStats{Wins: 5, Losses: 5},
	}

	p, err := HomeProbability(game, zeroWeights())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)
}

func TestHomeProbabilityClamped(t *testing.T) {
	params := zeroWeights()
	params.HomeAdvantage = 20

	p, err := HomeProbability(models.Game{HomeOdds: -1000, AwayOdds: 700}, params)
	require.NoError(t, err)
	assert.Equal(t, MaxProbability, p)

	params.HomeAdvantage = -20
	p, err = HomeProbability(models.Game{HomeOdds: 700, AwayOdds: -1000}, params)
	require.NoError(t, err)
	assert.Equal(t, MinProbability, p)
}

func TestHomeProbabilityDegenerateInputs(t *testing.T) {
	params := models.ParameterVector{HomeAdvantage: 3, Form: 2, HeadToHead: 2, Record: 2, PointsDifferential: 2}
	prices := []float64{-5000, -300, -110, 100, 150, 5000}

	for _, home := range prices {
		for _, away := range prices {
			p, err := HomeProbability(models.Game{HomeOdds: home, AwayOdds: away}, params)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p, MinProbability)
			assert.LessOrEqual(t, p, MaxProbability)
		}
	}
}

func TestHomeProbabilityRejectsZeroOdds(t *testing.T) {
	_, err := HomeProbability(models.Game{HomeOdds: 0, AwayOdds: -110}, zeroWeights())
	assert.Error(t, err)
}

func TestHomeProbabilityDeterministic(t *testing.T) {
	game := models.Game{HomeOdds: -135, AwayOdds: 115, HomeForm: []models.FormResult{models.FormWin}}
	params := models.DefaultParameters()

	first, err := HomeProbability(game, params)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := HomeProbability(game, params)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFormScore(t *testing.T) {
	all := []models.FormResult{"W", "W", "W", "W", "W", "W", "W"}
	assert.InDelta(t, 1.0, FormScore(all), 1e-12)
	assert.Equal(t, 0.0, FormScore(nil))
	assert.InDelta(t, 0.35, FormScore([]models.FormResult{"W", "L"}), 1e-12)
}
