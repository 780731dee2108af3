package optimizer

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WriteConsoleReport prints the pass summary and both rankings
func WriteConsoleReport(w io.Writer, r *Report) {
	status := "complete"
	if r.Cancelled {
		status = "cancelled"
	}
	fmt.Fprintf(w, "Pass %s (%s): %d/%d combinations evaluated, %d kept, %d games, %s\n",
		r.Pass, status, r.Evaluated, r.GridSize, r.Kept, r.GameCount, r.Duration.Round(time.Millisecond))

	if r.Best == nil {
		fmt.Fprintln(w, "No combination was profitable with enough bets.")
		return
	}

	fmt.Fprintln(w, "\nTop by Sharpe")
	writeRanking(w, r.Rankings.BySharpe)
	fmt.Fprintln(w, "\nTop by ROI")
	writeRanking(w, r.Rankings.ByROI)
}

func writeRanking(w io.Writer, cands []Candidate) {
	t := tablewriter.NewWriter(w)
	t.Header("#", "Sharpe", "ROI %", "Win %", "Bets", "HA", "Form", "H2H", "Rec", "PD", "Edge", "Conf", "Odds", "Kelly")
	for i, c := range cands {
		p := c.Parameters
		t.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", c.Sharpe),
			fmt.Sprintf("%.2f", c.ROI),
			fmt.Sprintf("%.1f", c.WinRate),
			fmt.Sprintf("%d", c.BetCount),
			trim(p.HomeAdvantage),
			trim(p.Form),
			trim(p.HeadToHead),
			trim(p.Record),
			trim(p.PointsDifferential),
			trim(p.MinEdge),
			trim(p.MinConfidence),
			fmt.Sprintf("%+.0f/%+.0f", p.OddsMin, p.OddsMax),
			trim(p.KellyFraction),
		)
	}
	t.Render()
}

func trim(v float64) string {
	return fmt.Sprintf("%g", v)
}
