package strategy

import (
	"context"
	"fmt"

	"github.com/opsxjacky/Momentum-backtest/internal/portfolio"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// BuyAndHoldStrategy 买入持有 (闭式计算, 不逐日迭代)
type BuyAndHoldStrategy struct {
	name string
	deps Deps
}

// NewBuyAndHoldStrategy 创建买入持有策略
func NewBuyAndHoldStrategy(config types.StrategyConfig, deps Deps) *BuyAndHoldStrategy {
	return &BuyAndHoldStrategy{name: config.Name, deps: deps}
}

// Name 返回策略名称
func (s *BuyAndHoldStrategy) Name() string {
	if s.name != "" {
		return s.name
	}
	return "BuyAndHold"
}

// Simulate 起始日按等额资金买入整数股, 持有到结束日
func (s *BuyAndHoldStrategy) Simulate(ctx context.Context, table *types.PriceTable, cfg types.SimulationConfig) (*types.SimulationResult, error) {
	if err := ValidateRange(table, cfg); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := types.DateOnly(cfg.StartDate)
	end := types.DateOnly(cfg.EndDate)
	pm := portfolio.NewManager(cfg.InitialInvestment, s.deps.sinks()...)
	perSymbol := cfg.InitialInvestment / float64(table.Len())

	pm.SetDate(start)
	for _, symbol := range table.Symbols {
		series, _ := table.Pick(symbol)
		price, ok := series.Resolve(start)
		if !ok {
			pm.Record(types.EventMissingPrice, symbol, 0, 0, types.ErrMissingPriceData.Error())
			continue
		}
		pm.MarkPrice(symbol, price)
		if count := portfolio.BuyCount(perSymbol, price, 0); count > 0 {
			pm.Buy(symbol, count, price)
		} else {
			pm.Record(types.EventSkipNoBudget, symbol, 0, price, fmt.Sprintf("%.2f buys no shares", perSymbol))
		}
	}
	pm.TakeSample()

	pm.SetDate(end)
	for _, symbol := range table.Symbols {
		series, _ := table.Pick(symbol)
		price, ok := series.Resolve(end)
		if !ok {
			// 结束日超出数据范围时取之前最后一个有效价格
			var last types.PricePoint
			last, ok = series.Until(end).Last()
			price = last.Value
		}
		if !ok {
			pm.Record(types.EventMissingPrice, symbol, pm.Shares(symbol), 0, types.ErrMissingPriceData.Error())
			continue
		}
		pm.MarkPrice(symbol, price)
	}
	pm.TakeSample()

	result := newResult(s.Name(), table, cfg)
	result.Samples = pm.GetSamples()
	result.Events = pm.GetEvents()
	result.Finalize(pm.TotalValue())
	s.deps.logger().Infof("%s profit: %.2f", s.Name(), result.Profit)
	return result, nil
}
