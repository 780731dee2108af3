package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-edge/internal/models"
)

func TestFullKellyReference(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, FullKelly(0.6, 2.5), 1e-12)
}

func TestFullKellyZeroWithoutEdge(t *testing.T) {
	// implied 0.4 at 2.5, so p <= 0.4 carries no edge
	assert.InDelta(t, 0.0, FullKelly(0.4, 2.5), 1e-12)
	assert.Equal(t, 0.0, FullKelly(0.3, 2.5))
	assert.Equal(t, 0.0, FullKelly(0.6, 1.0))
}

func TestExpectedValue(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedValue(0.6, 2.5), 1e-12)
	assert.InDelta(t, 0.0, ExpectedValue(0.4, 2.5), 1e-12)
}

func TestEvaluateSide(t *testing.T) {
	s, err := EvaluateSide(models.SideHome, 0.6, 150)
	require.NoError(t, err)

	assert.Equal(t, models.SideHome, s.Side)
	assert.InDelta(t, 0.4, s.MarketProbability, 1e-12)
	assert.InDelta(t, 0.2, s.Edge, 1e-12)
	assert.InDelta(t, 0.5, s.ExpectedValue, 1e-12)
	assert.InDelta(t, 1.5, s.NetOdds(), 1e-12)

	_, err = EvaluateSide(models.SideHome, 0.6, 0)
	assert.Error(t, err)
}

func TestEvaluateGameComplementarySides(t *testing.T) {
	game := models.Game{HomeOdds: -150, AwayOdds: 130}
	home, away, err := EvaluateGame(nil, game, models.DefaultParameters())
	require.NoError(t, err)

	assert.InDelta(t, 1.0, home.ModelProbability+away.ModelProbability, 1e-12)
	assert.Equal(t, models.SideAway, away.Side)
}

func TestEvaluateGameMissingOdds(t *testing.T) {
	_, _, err := EvaluateGame(nil, models.Game{HomeOdds: -110}, models.DefaultParameters())
	assert.ErrorIs(t, err, models.ErrMissingOdds)
}

func TestSelectSide(t *testing.T) {
	params := models.ParameterVector{MinEdge: 0.01, MinConfidence: 0.3, OddsMin: -300, OddsMax: 300}
	home := Signal{Side: models.SideHome, Edge: 0.05, ModelProbability: 0.6, ExpectedValue: 0.05, AmericanOdds: -120}
	away := Signal{Side: models.SideAway, Edge: -0.05, ModelProbability: 0.4, ExpectedValue: -0.1, AmericanOdds: 100}

	got, ok := SelectSide(home, away, params)
	require.True(t, ok)
	assert.Equal(t, models.SideHome, got.Side)

	home.AmericanOdds = -400
	_, ok = SelectSide(home, away, params)
	assert.False(t, ok)
}
