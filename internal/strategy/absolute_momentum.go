package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/opsxjacky/Momentum-backtest/internal/indicator"
	"github.com/opsxjacky/Momentum-backtest/internal/portfolio"
	"github.com/opsxjacky/Momentum-backtest/internal/signal"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// AbsoluteMomentumStrategy 绝对动量策略
// 每个自然日按等权目标逐标的买卖: 负信号清仓, 正信号补足到目标仓位
type AbsoluteMomentumStrategy struct {
	name          string
	smaWindow     int
	envelope      float64
	skipRemaining bool // 预算不足时跳过当日剩余标的的买入
	deps          Deps
}

// NewAbsoluteMomentumStrategy 创建绝对动量策略
func NewAbsoluteMomentumStrategy(config types.StrategyConfig, deps Deps) *AbsoluteMomentumStrategy {
	return &AbsoluteMomentumStrategy{
		name:          config.Name,
		smaWindow:     config.SMAWindow,
		envelope:      config.EnvelopePercent,
		skipRemaining: config.SkipRemainingOnZeroBudget,
		deps:          deps,
	}
}

// Name 返回策略名称
func (s *AbsoluteMomentumStrategy) Name() string {
	if s.name != "" {
		return s.name
	}
	return "AbsoluteMomentum"
}

// Simulate 逐日模拟
func (s *AbsoluteMomentumStrategy) Simulate(ctx context.Context, table *types.PriceTable, cfg types.SimulationConfig) (*types.SimulationResult, error) {
	if err := ValidateRange(table, cfg); err != nil {
		return nil, err
	}
	smas, err := indicator.ComputeTable(table, s.smaWindow)
	if err != nil {
		return nil, fmt.Errorf("compute moving averages: %w", err)
	}

	log := s.deps.logger()
	pm := portfolio.NewManager(cfg.InitialInvestment, s.deps.sinks()...)
	start := types.DateOnly(cfg.StartDate)
	end := types.DateOnly(cfg.EndDate)

	log.Infof("Running %s from %s to %s (%d symbols, sma %d, envelope %.2f%%)",
		s.Name(), start.Format("2006-01-02"), end.Format("2006-01-02"), table.Len(), s.smaWindow, s.envelope)

	// 自然日推进, 周末由前向查找吸收
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("simulation stopped at %s: %w", day.Format("2006-01-02"), err)
		}
		s.step(pm, table, smas, day)
	}

	result := newResult(s.Name(), table, cfg)
	result.Samples = pm.GetSamples()
	result.Events = pm.GetEvents()
	result.Finalize(pm.TotalValue())

	log.Infof("Final balance: %.2f (profit %.2f)", result.FinalValue, result.Profit)
	return result, nil
}

// step 单日状态转移
func (s *AbsoluteMomentumStrategy) step(pm *portfolio.Manager, table *types.PriceTable, smas map[string]*types.MovingAverageSeries, day time.Time) {
	pm.SetDate(day)

	// 1. 解析当日价格
	priced := make(map[string]bool, table.Len())
	for _, symbol := range table.Symbols {
		series, _ := table.Pick(symbol)
		price, ok := series.Resolve(day)
		if !ok {
			pm.Record(types.EventMissingPrice, symbol, 0, 0, types.ErrMissingPriceData.Error())
			continue
		}
		pm.MarkPrice(symbol, price)
		priced[symbol] = true
	}

	// 2-4. 持仓市值与等权目标
	stockValue := pm.StockValue()
	target := (pm.Cash() + stockValue) / float64(table.Len())
	s.deps.logger().Day(day, pm.Cash(), pm.Cash()+stockValue)

	// 5. 按列顺序处理, 先卖出的现金可被后面的买入使用
	buying := true
	for _, symbol := range table.Symbols {
		if !priced[symbol] {
			continue
		}
		price, _ := pm.LastPrice(symbol)
		series, _ := table.Pick(symbol)
		sig, _, _ := signal.DecideAbsoluteAt(series, smas[symbol].Series, day, s.envelope)

		switch sig {
		case types.SignalNegative:
			pm.SellAll(symbol, price)
		case types.SignalPositive:
			if !buying {
				continue
			}
			if target <= 0 {
				pm.Record(types.EventSkipNoBudget, symbol, 0, price, fmt.Sprintf("target %.2f is not positive", target))
				buying = !s.skipRemaining
				continue
			}
			count := portfolio.BuyCount(target, price, pm.Shares(symbol))
			if count <= 0 {
				pm.Record(types.EventSkipNoBudget, symbol, 0, price, fmt.Sprintf("target %.2f buys no shares", target))
				buying = !s.skipRemaining
				continue
			}
			pm.Buy(symbol, count, price)
		}
	}

	// 6-7. 负现金记为故障, 记录采样
	pm.TakeSample()
}
