package odds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american float64
		want     float64
	}{
		{"underdog +150", 150, 2.5},
		{"even +100", 100, 2.0},
		{"standard -110", -110, 1.9091},
		{"favorite -200", -200, 1.5},
		{"heavy favorite -1000", -1000, 1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american float64
		want     float64
	}{
		{"underdog +150", 150, 0.4},
		{"standard -110", -110, 0.5238},
		{"favorite -300", -300, 0.75},
		{"longshot +900", 900, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImpliedProbability(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestExactPlusOneFifty(t *testing.T) {
	dec, err := AmericanToDecimal(150)
	require.NoError(t, err)
	assert.Equal(t, 2.5, dec)

	p, err := ImpliedProbability(150)
	require.NoError(t, err)
	assert.Equal(t, 0.4, p)
}

func TestRejectsInvalidOdds(t *testing.T) {
	for _, bad := range []float64{0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := AmericanToDecimal(bad)
		assert.ErrorIs(t, err, ErrInvalidOdds)

		_, err = ImpliedProbability(bad)
		assert.ErrorIs(t, err, ErrInvalidOdds)
		assert.False(t, IsValid(bad))
	}
}

func TestConversionBounds(t *testing.T) {
	for american := -5000.0; american <= 5000; american += 7 {
		if american == 0 {
			continue
		}
		dec, err := AmericanToDecimal(american)
		require.NoError(t, err)
		assert.Greater(t, dec, 1.0)

		p, err := ImpliedProbability(american)
		require.NoError(t, err)
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
	}
}

func TestDecimalToAmerican(t *testing.T) {
	got, err := DecimalToAmerican(2.5)
	require.NoError(t, err)
	assert.InDelta(t, 150, got, 1e-9)

	got, err = DecimalToAmerican(1.5)
	require.NoError(t, err)
	assert.InDelta(t, -200, got, 1e-9)

	_, err = DecimalToAmerican(1)
	assert.ErrorIs(t, err, ErrInvalidOdds)
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		american float64
		want     Band
	}{
		{-450, HeavyFavorite},
		{-300, HeavyFavorite},
		{-200, MediumFavorite},
		{-150, MediumFavorite},
		{-120, SlightFavorite},
		{-110, PickEm},
		{105, PickEm},
		{110, PickEm},
		{180, SlightUnderdog},
		{200, SlightUnderdog},
		{250, BigUnderdog},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.american), "odds %v", tt.american)
	}
	assert.Len(t, Bands(), BandCount)
	assert.Equal(t, "Pick-em (-110 to +110)", PickEm.String())
}
