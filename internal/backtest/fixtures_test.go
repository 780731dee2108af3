package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/sharp-edge/internal/models"
)

var baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// testParams weights only home advantage so probabilities are easy to derive
func testParams() models.ParameterVector {
	return models.ParameterVector{
		HomeAdvantage: 1,
		MinEdge:       0.01,
		MinConfidence: 0,
		OddsMin:       -1000,
		OddsMax:       1000,
		KellyFraction: 0.5,
	}
}

// strongHome pushes every home probability to the 0.95 clamp
func strongHome() models.ParameterVector {
	p := testParams()
	p.HomeAdvantage = 10
	p.KellyFraction = 1
	return p
}

func testGame(n int, homeOdds, awayOdds float64, winner models.Side) models.Game {
	g := models.Game{
		ID:       fmt.Sprintf("g%03d", n),
		League:   "NBA",
		Date:     baseDate.AddDate(0, 0, n),
		HomeTeam: fmt.Sprintf("Home %d", n),
		AwayTeam: fmt.Sprintf("Away %d", n),
		HomeOdds: homeOdds,
		AwayOdds: awayOdds,
	}
	switch winner {
	case models.SideHome:
		g.Winner = g.HomeTeam
	case models.SideAway:
		g.Winner = g.AwayTeam
	}
	return g
}

// season alternates home wins and losses at +110/-130
func season(n int) []models.Game {
	games := make([]models.Game, n)
	for i := range games {
		winner := models.SideHome
		if i%3 == 2 {
			winner = models.SideAway
		}
		games[i] = testGame(i, 110, -130, winner)
	}
	return games
}
