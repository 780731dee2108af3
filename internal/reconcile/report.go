package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/sharp-edge/internal/models"
)

// FileName returns the archive name for a report day
func FileName(r *Report, ext string) string {
	return fmt.Sprintf("results-%s.%s", r.ReportDate.Format("2006-01-02"), ext)
}

// WriteJSON encodes the report as indented JSON
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders the record table followed by the summary and breakdowns
func WriteText(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Reconciliation %s (source: %s)\n\n", r.ReportDate.Format("2006-01-02"), r.Source)

	records := tablewriter.NewWriter(w)
	records.Header("League", "Matchup", "Pick", "Conf", "Status", "Winner", "Score")
	for _, rec := range r.Records {
		p := rec.Pick
		score := ""
		if rec.ActualScore != nil {
			score = fmt.Sprintf("%d-%d", rec.ActualScore.Home, rec.ActualScore.Away)
		}
		records.Append(
			leagueLabel(p.League),
			fmt.Sprintf("%s vs %s", p.AwayTeam, p.HomeTeam),
			p.Pick,
			fmt.Sprintf("%.0f", p.Confidence),
			strings.ToUpper(string(rec.Status)),
			rec.ActualWinner,
			score,
		)
	}
	records.Render()

	s := r.Summary
	fmt.Fprintf(w, "\nTotal %d | Completed %d | Correct %d | Incorrect %d | Pending %d | Not found %d\n",
		s.TotalPicks, s.Completed, s.Correct, s.Incorrect, s.Pending, s.NotFound)
	fmt.Fprintf(w, "Win rate %.1f%% | Estimated ROI %+.1f pts\n\n", s.WinRate*100, s.EstimatedROI)

	byLeague := tablewriter.NewWriter(w)
	byLeague.Header("League", "Picks", "W", "L", "Pending", "Not found", "Win %")
	for _, lt := range r.ByLeague {
		appendTally(byLeague, lt.League, lt.Tally)
	}
	byLeague.Render()

	byConf := tablewriter.NewWriter(w)
	byConf.Header("Confidence", "Picks", "W", "L", "Pending", "Not found", "Win %")
	for _, band := range models.ConfidenceBands() {
		if t := r.ByConfidence[band]; t.Picks > 0 {
			appendTally(byConf, band.String(), t)
		}
	}
	byConf.Render()

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "WARNING %s: %s\n", warn.League, warn.Message)
	}
}

func appendTally(t *tablewriter.Table, label string, tally Tally) {
	t.Append(
		label,
		fmt.Sprintf("%d", tally.Picks),
		fmt.Sprintf("%d", tally.Wins),
		fmt.Sprintf("%d", tally.Losses),
		fmt.Sprintf("%d", tally.Pending),
		fmt.Sprintf("%d", tally.NotFound),
		fmt.Sprintf("%.1f", tally.WinRate()*100),
	)
}

// SaveReport archives the report as JSON and text in dir and returns the
// JSON path. A failure here leaves the in-memory report usable.
func SaveReport(dir string, r *Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	jsonPath := filepath.Join(dir, FileName(r, "json"))
	errJSON := writeWith(jsonPath, func(w io.Writer) error { return WriteJSON(w, r) })
	errText := writeWith(filepath.Join(dir, FileName(r, "txt")), func(w io.Writer) error {
		WriteText(w, r)
		return nil
	})
	if err := errors.Join(errJSON, errText); err != nil {
		return "", err
	}
	return jsonPath, nil
}

func writeWith(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := fn(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
