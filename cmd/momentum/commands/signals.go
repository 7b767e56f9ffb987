package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/Momentum-backtest/internal/report"
	"github.com/opsxjacky/Momentum-backtest/internal/signal"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "最新绝对动量信号",
	Long: `对每个标的比较最后收盘价与其 sma_window 均线的包络, 输出 Positive / Neutral / Negative.

Example:
  go run ./cmd/momentum signals
  go run ./cmd/momentum signals --only positive`,
	RunE: runSignals,
}

var signalsOnly string

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.Flags().StringVar(&signalsOnly, "only", "", "show only positive, neutral, negative or undefined")
}

func runSignals(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.load(cmd); err != nil {
		return err
	}

	p := a.cfg.Strategy.Params
	signals, err := signal.ClassifyTable(a.session.Table, p.SMAWindow, p.EnvelopePercent)
	if err != nil {
		return err
	}
	report.Print(cmd.OutOrStdout(), report.RenderSignals(onlySignals(signals, signalsOnly)))
	return nil
}

// onlySignals 按信号名过滤, 空字符串表示全部
func onlySignals(signals []types.SymbolSignal, only string) []types.SymbolSignal {
	if only == "" {
		return signals
	}
	out := make([]types.SymbolSignal, 0, len(signals))
	for _, s := range signals {
		if strings.EqualFold(s.Signal.String(), only) {
			out = append(out, s)
		}
	}
	return out
}
