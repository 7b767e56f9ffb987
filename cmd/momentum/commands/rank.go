package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/Momentum-backtest/internal/report"
	"github.com/opsxjacky/Momentum-backtest/internal/signal"
)

// rankCmd represents the rank command
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "相对动量排名",
	Long: `按 (SMA(short)/SMA(long) - 1) * 100 对标的降序排名, 使用结束日及之前的数据.

Example:
  go run ./cmd/momentum rank --limit 10
  go run ./cmd/momentum rank --screen --csv ranking.csv`,
	RunE: runRank,
}

var (
	rankLimit  int
	rankScreen bool
	rankCSV    string
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "show at most this many symbols (default strategy.params.top_n)")
	rankCmd.Flags().BoolVar(&rankScreen, "screen", false, "drop symbols with a negative absolute signal first")
	rankCmd.Flags().StringVar(&rankCSV, "csv", "", "write the full ranking as CSV")
}

func runRank(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.load(cmd); err != nil {
		return err
	}

	p := a.cfg.Strategy.Params
	table := a.session.Table
	if rankScreen {
		screened, _, err := signal.FilterAbsolute(table, p.ScreenWindow, p.EnvelopePercent)
		if err != nil {
			return err
		}
		a.log.Infof("%d of %d symbols survived screening", screened.Len(), table.Len())
		table = screened
	}

	ranked, err := signal.RankBySMARatio(table, p.LongWindow, p.ShortWindow)
	if err != nil {
		return err
	}

	limit := rankLimit
	if limit <= 0 {
		limit = p.TopN
	}
	report.Print(cmd.OutOrStdout(), report.RenderRanking(signal.Top(ranked, limit)))

	if rankCSV != "" {
		file, err := os.Create(rankCSV)
		if err != nil {
			return fmt.Errorf("failed to create ranking file: %w", err)
		}
		defer file.Close()
		return report.WriteRanking(file, ranked)
	}
	return nil
}
