package optimizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/sharp-edge/internal/config"
	"github.com/yourusername/sharp-edge/internal/models"
)

// ErrEmptyGrid is returned when any axis of a grid has no candidate values
var ErrEmptyGrid = errors.New("grid has no combinations")

// Grid lists the candidate values for every ParameterVector field. The
// search space is the Cartesian product of all ten axes.
type Grid struct {
	HomeAdvantage      []float64 `json:"home_advantage" yaml:"home_advantage"`
	Form               []float64 `json:"form" yaml:"form"`
	HeadToHead         []float64 `json:"head_to_head" yaml:"head_to_head"`
	Record             []float64 `json:"record" yaml:"record"`
	PointsDifferential []float64 `json:"points_differential" yaml:"points_differential"`
	MinEdge            []float64 `json:"min_edge" yaml:"min_edge"`
	MinConfidence      []float64 `json:"min_confidence" yaml:"min_confidence"`
	OddsMin            []float64 `json:"odds_min" yaml:"odds_min"`
	OddsMax            []float64 `json:"odds_max" yaml:"odds_max"`
	KellyFraction      []float64 `json:"kelly_fraction" yaml:"kelly_fraction"`
}

// GridFromConfig copies the configured grid
func GridFromConfig(g config.GridConfig) Grid {
	return Grid{
		HomeAdvantage:      clone(g.HomeAdvantage),
		Form:               clone(g.Form),
		HeadToHead:         clone(g.HeadToHead),
		Record:             clone(g.Record),
		PointsDifferential: clone(g.PointsDifferential),
		MinEdge:            clone(g.MinEdge),
		MinConfidence:      clone(g.MinConfidence),
		OddsMin:            clone(g.OddsMin),
		OddsMax:            clone(g.OddsMax),
		KellyFraction:      clone(g.KellyFraction),
	}
}

// axes returns the value slices in decode order; the last axis varies fastest
func (g Grid) axes() [10][]float64 {
	return [10][]float64{
		g.HomeAdvantage,
		g.Form,
		g.HeadToHead,
		g.Record,
		g.PointsDifferential,
		g.MinEdge,
		g.MinConfidence,
		g.OddsMin,
		g.OddsMax,
		g.KellyFraction,
	}
}

// Size returns the number of combinations, 0 when any axis is empty
func (g Grid) Size() int {
	size := 1
	for _, axis := range g.axes() {
		size *= len(axis)
	}
	return size
}

// At decodes a flat combination index into a vector (mixed radix)
func (g Grid) At(i int) (models.ParameterVector, error) {
	size := g.Size()
	if size == 0 {
		return models.ParameterVector{}, ErrEmptyGrid
	}
	if i < 0 || i >= size {
		return models.ParameterVector{}, fmt.Errorf("combination index %d out of range [0, %d)", i, size)
	}

	axes := g.axes()
	var v [10]float64
	for k := len(axes) - 1; k >= 0; k-- {
		n := len(axes[k])
		v[k] = axes[k][i%n]
		i /= n
	}

	return models.ParameterVector{
		HomeAdvantage:      v[0],
		Form:               v[1],
		HeadToHead:         v[2],
		Record:             v[3],
		PointsDifferential: v[4],
		MinEdge:            v[5],
		MinConfidence:      v[6],
		OddsMin:            v[7],
		OddsMax:            v[8],
		KellyFraction:      v[9],
	}, nil
}

// Iterate calls fn once per combination in index order. It stops early on
// the first error from fn or when ctx is done.
func (g Grid) Iterate(ctx context.Context, fn func(i int, p models.ParameterVector) error) error {
	size := g.Size()
	if size == 0 {
		return ErrEmptyGrid
	}
	for i := 0; i < size; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := g.At(i)
		if err != nil {
			return err
		}
		if err := fn(i, p); err != nil {
			return err
		}
	}
	return nil
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
