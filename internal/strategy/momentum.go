package strategy

import (
	"context"
	"fmt"

	"github.com/opsxjacky/Momentum-backtest/internal/portfolio"
	"github.com/opsxjacky/Momentum-backtest/internal/signal"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// MomentumStrategy 绝对动量筛选 + 相对动量排名, 再对前N名运行绝对动量模拟
// 筛选和排名只使用起始日及之前的数据
type MomentumStrategy struct {
	name         string
	screenWindow int
	envelope     float64
	longWindow   int
	shortWindow  int
	topN         int
	absolute     *AbsoluteMomentumStrategy
	deps         Deps
}

// NewMomentumStrategy 创建动量策略
func NewMomentumStrategy(config types.StrategyConfig, deps Deps) *MomentumStrategy {
	return &MomentumStrategy{
		name:         config.Name,
		screenWindow: config.ScreenWindow,
		envelope:     config.EnvelopePercent,
		longWindow:   config.LongWindow,
		shortWindow:  config.ShortWindow,
		topN:         config.TopN,
		absolute:     NewAbsoluteMomentumStrategy(config, deps),
		deps:         deps,
	}
}

// Name 返回策略名称
func (s *MomentumStrategy) Name() string {
	if s.name != "" {
		return s.name
	}
	return "Momentum"
}

// Select 返回起始日的入选标的 (按排名顺序)
func (s *MomentumStrategy) Select(table *types.PriceTable, cfg types.SimulationConfig) ([]types.RankedSymbol, error) {
	history := table.Until(cfg.StartDate)
	screened, _, err := signal.FilterAbsolute(history, s.screenWindow, s.envelope)
	if err != nil {
		return nil, fmt.Errorf("absolute screening: %w", err)
	}
	ranked, err := signal.RankBySMARatio(screened, s.longWindow, s.shortWindow)
	if err != nil {
		return nil, fmt.Errorf("relative ranking: %w", err)
	}
	return signal.Top(ranked, s.topN), nil
}

// Simulate 先选股再模拟
func (s *MomentumStrategy) Simulate(ctx context.Context, table *types.PriceTable, cfg types.SimulationConfig) (*types.SimulationResult, error) {
	if err := ValidateRange(table, cfg); err != nil {
		return nil, err
	}
	top, err := s.Select(table, cfg)
	if err != nil {
		return nil, err
	}

	log := s.deps.logger()
	if len(top) == 0 {
		log.Warn("No symbol survived momentum screening, holding cash")
		return s.holdCash(ctx, table, cfg)
	}
	for i, r := range top {
		log.Infof("#%d %s delta %.2f%%", i+1, r.Symbol, r.DeltaPercent)
	}

	result, err := s.absolute.Simulate(ctx, table.Restrict(signal.Symbols(top)), cfg)
	if err != nil {
		return nil, err
	}
	result.Strategy = s.Name()
	return result, nil
}

// holdCash 无标的入选时逐日记录现金余额
func (s *MomentumStrategy) holdCash(ctx context.Context, table *types.PriceTable, cfg types.SimulationConfig) (*types.SimulationResult, error) {
	pm := portfolio.NewManager(cfg.InitialInvestment, s.deps.sinks()...)
	end := types.DateOnly(cfg.EndDate)
	for day := types.DateOnly(cfg.StartDate); day.Before(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pm.SetDate(day)
		pm.TakeSample()
	}
	result := newResult(s.Name(), table.Restrict(nil), cfg)
	result.Samples = pm.GetSamples()
	result.Events = pm.GetEvents()
	result.Finalize(pm.TotalValue())
	return result, nil
}
