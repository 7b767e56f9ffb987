package strategy

import (
	"context"
	"fmt"

	"github.com/opsxjacky/Momentum-backtest/internal/logger"
	"github.com/opsxjacky/Momentum-backtest/internal/portfolio"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// Strategy 策略变体的公共接口, 每次Simulate都使用全新的状态
type Strategy interface {
	// Name 策略名称
	Name() string

	// Simulate 在 [StartDate, EndDate) 上运行模拟并返回余额轨迹
	Simulate(ctx context.Context, table *types.PriceTable, cfg types.SimulationConfig) (*types.SimulationResult, error)
}

// Deps 策略依赖 (日志与事件接收者)
type Deps struct {
	Logger *logger.Logger
	Sinks  []portfolio.EventSink
}

func (d Deps) logger() *logger.Logger {
	if d.Logger == nil {
		return logger.Nop()
	}
	return d.Logger
}

// sinks 日志总是第一个接收者
func (d Deps) sinks() []portfolio.EventSink {
	out := make([]portfolio.EventSink, 0, len(d.Sinks)+1)
	out = append(out, d.logger())
	return append(out, d.Sinks...)
}

// ValidateRange 模拟开始前校验输入
func ValidateRange(table *types.PriceTable, cfg types.SimulationConfig) error {
	if table.Len() == 0 {
		return fmt.Errorf("no symbols to simulate: %w", types.ErrInvalidConfiguration)
	}
	if cfg.StartDate.IsZero() || cfg.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required: %w", types.ErrInvalidConfiguration)
	}
	if !types.DateOnly(cfg.StartDate).Before(types.DateOnly(cfg.EndDate)) {
		return fmt.Errorf("start %s must be before end %s: %w",
			cfg.StartDate.Format("2006-01-02"), cfg.EndDate.Format("2006-01-02"), types.ErrInvalidConfiguration)
	}
	if cfg.InitialInvestment < 0 {
		return fmt.Errorf("initial investment %.2f is negative: %w", cfg.InitialInvestment, types.ErrInvalidConfiguration)
	}
	return nil
}

// newResult 创建结果骨架
func newResult(name string, table *types.PriceTable, cfg types.SimulationConfig) *types.SimulationResult {
	cfg.StartDate = types.DateOnly(cfg.StartDate)
	cfg.EndDate = types.DateOnly(cfg.EndDate)
	return &types.SimulationResult{
		Strategy: name,
		Config:   cfg,
		Symbols:  append([]string(nil), table.Symbols...),
	}
}
