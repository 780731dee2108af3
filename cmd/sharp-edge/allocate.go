package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-edge/internal/datasource"
	"github.com/yourusername/sharp-edge/internal/staking"
)

var (
	allocateGames    string
	allocateParams   string
	allocateBankroll float64
	allocatePeak     float64
	allocateCSV      string
)

func init() {
	allocateCmd.Flags().StringVar(&allocateGames, "games", "", "Upcoming games file")
	allocateCmd.Flags().StringVarP(&allocateParams, "params", "p", "", "Tuned parameters file (defaults to staking.parameters_file)")
	allocateCmd.Flags().Float64Var(&allocateBankroll, "bankroll", 0, "Current balance (defaults to staking.bankroll)")
	allocateCmd.Flags().Float64Var(&allocatePeak, "peak", 0, "Peak balance for drawdown (defaults to staking.peak_bankroll)")
	allocateCmd.Flags().StringVar(&allocateCSV, "csv", "", "Write the allocation as CSV to this path")
	_ = allocateCmd.MarkFlagRequired("games")
}

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Size fractional-Kelly stakes for upcoming games",
	RunE: func(cmd *cobra.Command, args []string) error {
		games, err := datasource.FileGameSource{Path: allocateGames}.LoadGames(cmd.Context())
		if err != nil {
			return err
		}
		params, err := resolveParameters(firstSet(allocateParams, cfg.Staking.ParametersFile))
		if err != nil {
			return err
		}

		state := staking.NewBankroll(firstPositive(allocateBankroll, cfg.Staking.Bankroll))
		if peak := firstPositive(allocatePeak, cfg.Staking.PeakBankroll); peak > state.Balance {
			state.PeakBalance = peak
		}

		stakeCfg := staking.LiveConfigFromApp(cfg.Staking, params)
		if err := stakeCfg.Validate(); err != nil {
			return fmt.Errorf("invalid staking config: %w", err)
		}

		alloc, _ := staking.NewAllocator(stakeCfg, nil, log).Run(games, params, state)
		writeAllocation(alloc)

		if allocateCSV == "" {
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(allocateCSV), 0o755); err != nil {
			return err
		}
		f, err := os.Create(allocateCSV)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", allocateCSV, err)
		}
		if err := staking.WriteCSV(f, alloc); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}

func writeAllocation(alloc staking.Allocation) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "League", "Team", "Odds", "Model %", "Edge %", "EV", "Stake")
	for i, p := range alloc.Positions {
		table.Append(
			fmt.Sprintf("%d", i+1),
			p.League,
			p.Team,
			fmt.Sprintf("%+.0f", p.AmericanOdds),
			fmt.Sprintf("%.1f", p.ModelProbability*100),
			fmt.Sprintf("%.1f", p.Edge*100),
			fmt.Sprintf("%.3f", p.ExpectedValue),
			staking.RoundStake(p.Stake).StringFixed(2),
		)
	}
	table.Render()

	s := alloc.Summary()
	fmt.Fprintf(os.Stdout, "\n%d positions, staked %s (%s%% of bankroll), remaining %s, expected gain %s, %d skipped\n",
		s.Positions, s.TotalStaked.StringFixed(2), s.ExposurePct.StringFixed(2), s.Remaining.StringFixed(2),
		s.ExpectedGain.StringFixed(2), len(alloc.Skipped))
}

func firstPositive(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
