package backtest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/odds"
)

// WriteConsoleReport renders the summary and band tables
func WriteConsoleReport(w io.Writer, r Result) {
	fmt.Fprintf(w, "\nBacktest %s  (%d games)\n", shortHash(r.ParameterHash), r.Games)

	summary := tablewriter.NewWriter(w)
	summary.Header("Metric", "Value")
	summary.Append("Start bankroll", fmt.Sprintf("%.2f", r.StartBankroll))
	summary.Append("Final bankroll", fmt.Sprintf("%.2f", r.FinalBankroll))
	summary.Append("ROI", fmt.Sprintf("%.2f%%", r.ROI))
	summary.Append("Bets", strconv.Itoa(r.BetCount))
	summary.Append("Win rate", fmt.Sprintf("%.2f%%", r.WinRate))
	summary.Append("Sharpe", fmt.Sprintf("%.3f", r.Sharpe))
	summary.Append("Max drawdown", fmt.Sprintf("%.2f%%", r.MaxDrawdown*100))
	summary.Append("Longest win / loss streak", fmt.Sprintf("%d / %d", r.LongestWinStreak, r.LongestLossStreak))
	summary.Append("Home bets (win %)", fmt.Sprintf("%d (%.1f%%)", r.Home.Bets, r.Home.WinRate()))
	summary.Append("Away bets (win %)", fmt.Sprintf("%d (%.1f%%)", r.Away.Bets, r.Away.WinRate()))
	summary.Append("Rankable", strconv.FormatBool(r.Rankable()))
	summary.Render()

	fmt.Fprintln(w, "\nBy odds band")
	byOdds := tablewriter.NewWriter(w)
	byOdds.Header("Band", "Bets", "Win %", "Staked", "PnL", "ROI %")
	for _, band := range odds.Bands() {
		appendBand(byOdds, band.String(), r.Breakdown.OddsBand(band))
	}
	byOdds.Render()

	fmt.Fprintln(w, "\nBy model confidence")
	byConf := tablewriter.NewWriter(w)
	byConf.Header("Band", "Bets", "Win %", "Staked", "PnL", "ROI %")
	for _, band := range models.ConfidenceBands() {
		appendBand(byConf, band.String(), r.Breakdown.ConfidenceBand(band))
	}
	byConf.Render()

	s := r.Skipped
	fmt.Fprintf(w, "\nSkipped: %d without result, %d invalid odds, %d filtered, %d below min stake\n",
		s.NoResult, s.InvalidOdds, s.Filtered, s.BelowMinStake)
}

func appendBand(t *tablewriter.Table, label string, s BandStats) {
	t.Append(
		label,
		strconv.Itoa(s.Bets),
		fmt.Sprintf("%.1f", s.WinRate()),
		fmt.Sprintf("%.2f", s.Staked),
		fmt.Sprintf("%.2f", s.PnL),
		fmt.Sprintf("%.2f", s.ROI()),
	)
}

// WriteWalkForward renders per-fold results
func WriteWalkForward(w io.Writer, wf WalkForwardResult) {
	fmt.Fprintln(w, "\nWalk-forward folds")
	t := tablewriter.NewWriter(w)
	t.Header("Fold", "From", "To", "Games", "Bets", "ROI %", "Sharpe")
	for _, f := range wf.Folds {
		t.Append(
			strconv.Itoa(f.Index+1),
			f.Start.Format("2006-01-02"),
			f.End.Format("2006-01-02"),
			strconv.Itoa(f.Games),
			strconv.Itoa(f.Result.BetCount),
			fmt.Sprintf("%.2f", f.Result.ROI),
			fmt.Sprintf("%.3f", f.Result.Sharpe),
		)
	}
	t.Render()
	fmt.Fprintf(w, "Consistency: %.0f%% of %d rankable folds profitable\n", wf.Consistency*100, wf.RankedFolds)
}

// WriteBetsCSV exports the bet ledger
func WriteBetsCSV(w io.Writer, bets []Bet) error {
	cw := csv.NewWriter(w)
	header := []string{"game_id", "league", "date", "team", "side", "american_odds", "model_probability", "edge", "stake", "pnl", "balance_after", "won"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, b := range bets {
		date := ""
		if !b.Date.IsZero() {
			date = b.Date.Format("2006-01-02")
		}
		if err := cw.Write([]string{
			b.GameID,
			b.League,
			date,
			b.Team,
			string(b.Side),
			strconv.FormatFloat(b.AmericanOdds, 'f', 0, 64),
			formatFloat(b.ModelProbability),
			formatFloat(b.Edge),
			formatFloat(b.Stake),
			formatFloat(b.PnL),
			formatFloat(b.BalanceAfter),
			strconv.FormatBool(b.Won),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON encodes a result with indentation
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// SaveArtifacts writes result.json, bets.csv and equity.csv under dir.
// Each file is attempted; failures are joined.
func SaveArtifacts(dir string, r Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	return errors.Join(
		writeFile(filepath.Join(dir, "result.json"), func(w io.Writer) error { return WriteJSON(w, r) }),
		writeFile(filepath.Join(dir, "bets.csv"), func(w io.Writer) error { return WriteBetsCSV(w, r.Bets) }),
		writeFile(filepath.Join(dir, "equity.csv"), r.EquityCurve.WriteCSV),
	)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
