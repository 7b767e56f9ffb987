package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/Momentum-backtest/internal/config"
	"github.com/opsxjacky/Momentum-backtest/internal/engine"
	"github.com/opsxjacky/Momentum-backtest/internal/logger"
	"github.com/opsxjacky/Momentum-backtest/internal/metrics"
)

var (
	// Global flags
	configFile  string
	logLevel    string
	metricsAddr string
	fromDate    string
	toDate      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "momentum",
	Short: "Momentum backtest - 动量策略研究工具",
	Long: `Momentum backtest CLI

加载历史收盘价, 计算移动平均, 生成绝对/相对动量信号,
并逐日模拟再平衡策略.

Examples:
  go run ./cmd/momentum backtest --config config.yaml
  go run ./cmd/momentum rank --limit 10
  go run ./cmd/momentum signals
  go run ./cmd/momentum export --dir charts`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9102")
	rootCmd.PersistentFlags().StringVar(&fromDate, "from", "", "override backtest.start_date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&toDate, "to", "", "override backtest.end_date (YYYY-MM-DD)")
}

// loadConfig 读取配置并应用命令行覆盖
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}
	if fromDate != "" {
		cfg.Backtest.StartDate = fromDate
	}
	if toDate != "" {
		cfg.Backtest.EndDate = toDate
	}
	return cfg, nil
}

// app 命令共享的运行环境
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	session *engine.Session
	metrics *metrics.Metrics
}

// newApp 加载配置, 创建日志与Session, 可选启动指标端点
func newApp(cmd *cobra.Command, overrides ...func(*config.Config)) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(cfg)
	}
	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Out: cmd.ErrOrStderr()})

	session, err := engine.NewSession(cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, session: session}
	if cfg.Metrics.Addr != "" {
		a.metrics = metrics.New()
		a.metrics.Serve(cfg.Metrics.Addr)
		log.WithField("addr", cfg.Metrics.Addr).Info("Serving metrics")
	}
	return a, nil
}

// load 加载价格表
func (a *app) load(cmd *cobra.Command) error {
	if err := a.session.Load(cmd.Context()); err != nil {
		return fmt.Errorf("load prices: %w", err)
	}
	return nil
}
