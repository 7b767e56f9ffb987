package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/Momentum-backtest/internal/report"
	"github.com/opsxjacky/Momentum-backtest/internal/signal"
)

// filterCmd represents the filter command
var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "剔除下跌趋势标的",
	Long: `用 screen_window 均线和包络对标的做绝对动量筛选, 只剔除 Negative.

Example:
  go run ./cmd/momentum filter`,
	RunE: runFilter,
}

func init() {
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.load(cmd); err != nil {
		return err
	}

	p := a.cfg.Strategy.Params
	kept, signals, err := signal.FilterAbsolute(a.session.Table, p.ScreenWindow, p.EnvelopePercent)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report.Print(out, report.RenderSignals(signals))
	fmt.Fprintf(out, "%d of %d symbols kept: %v\n", kept.Len(), a.session.Table.Len(), kept.Symbols)
	return nil
}
