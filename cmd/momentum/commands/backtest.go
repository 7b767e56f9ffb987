package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/Momentum-backtest/internal/config"
	"github.com/opsxjacky/Momentum-backtest/internal/engine"
	"github.com/opsxjacky/Momentum-backtest/internal/portfolio"
	"github.com/opsxjacky/Momentum-backtest/internal/report"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "逐日模拟策略",
	Long: `在 [start_date, end_date) 上逐个自然日模拟策略, 输出余额轨迹.

策略类型:
  buy_and_hold       起始日等额买入, 持有到结束
  absolute_momentum  价格相对均线包络的正/负信号驱动买卖
  momentum           绝对动量筛选 + 相对动量排名, 对前N名运行绝对动量

Example:
  go run ./cmd/momentum backtest --config config.yaml
  go run ./cmd/momentum backtest --strategy momentum --benchmark
  go run ./cmd/momentum backtest --from 2020-01-02 --to 2021-01-04 --investment 5000`,
	RunE: runBacktest,
}

var (
	backtestStrategy   string
	backtestInvestment float64
	backtestBenchmark  bool
	backtestJSON       string
	backtestTrajectory string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestStrategy, "strategy", "", "override strategy.type")
	backtestCmd.Flags().Float64Var(&backtestInvestment, "investment", 0, "override backtest.initial_investment")
	backtestCmd.Flags().BoolVar(&backtestBenchmark, "benchmark", false, "also run buy and hold on the same prices")
	backtestCmd.Flags().StringVar(&backtestJSON, "json", "", "export the result as JSON (default <output.path>/result.json)")
	backtestCmd.Flags().StringVar(&backtestTrajectory, "trajectory", "", "write the balance trajectory as CSV")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	// 覆盖必须在校验之前生效
	a, err := newApp(cmd, func(cfg *config.Config) {
		if backtestStrategy != "" {
			cfg.Strategy.Type = backtestStrategy
		}
		if cmd.Flags().Changed("investment") {
			cfg.Backtest.InitialInvestment = backtestInvestment
		}
	})
	if err != nil {
		return err
	}
	cfg := a.cfg

	sinks := make([]portfolio.EventSink, 0, 2)
	if a.metrics != nil {
		sinks = append(sinks, a.metrics)
	}
	if cfg.Output.EventLog != "" {
		rec, err := report.OpenRecorder(cfg.Output.EventLog)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				a.log.WithError(err).Warn("Event log incomplete")
			}
		}()
		sinks = append(sinks, rec)
	}

	eng, err := engine.New(a.session, sinks...)
	if err != nil {
		return err
	}
	result, err := eng.Run(cmd.Context())
	if err != nil {
		return err
	}
	if a.metrics != nil {
		a.metrics.Observe(result)
	}

	out := cmd.OutOrStdout()
	eng.PrintSummary(out)

	if backtestBenchmark {
		bench, err := eng.Benchmark(cmd.Context())
		if err != nil {
			return fmt.Errorf("benchmark: %w", err)
		}
		if a.metrics != nil {
			a.metrics.Observe(bench)
		}
		report.Print(out, report.RenderSummary(bench))
	}

	jsonPath := backtestJSON
	if jsonPath == "" {
		jsonPath = filepath.Join(cfg.GetOutputPath(), "result.json")
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := eng.ExportResults(jsonPath); err != nil {
		return err
	}

	if backtestTrajectory != "" {
		file, err := os.Create(backtestTrajectory)
		if err != nil {
			return fmt.Errorf("failed to create trajectory file: %w", err)
		}
		defer file.Close()
		if err := report.WriteTrajectoryCSV(file, result); err != nil {
			return fmt.Errorf("failed to write trajectory: %w", err)
		}
	}
	return nil
}
