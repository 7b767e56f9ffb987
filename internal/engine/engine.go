package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/opsxjacky/Momentum-backtest/internal/portfolio"
	"github.com/opsxjacky/Momentum-backtest/internal/report"
	"github.com/opsxjacky/Momentum-backtest/internal/strategy"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// BacktestEngine 回测引擎
type BacktestEngine struct {
	session  *Session
	strategy strategy.Strategy
	sinks    []portfolio.EventSink
	result   *types.SimulationResult
}

// New 创建回测引擎, 策略由配置决定
func New(session *Session, sinks ...portfolio.EventSink) (*BacktestEngine, error) {
	s, err := strategy.Build(session.Config.ToStrategyConfig(), strategy.Deps{Logger: session.Logger, Sinks: sinks})
	if err != nil {
		return nil, err
	}
	return &BacktestEngine{session: session, strategy: s, sinks: sinks}, nil
}

// SetStrategy 设置策略
func (e *BacktestEngine) SetStrategy(s strategy.Strategy) {
	e.strategy = s
}

// Strategy 当前策略
func (e *BacktestEngine) Strategy() strategy.Strategy {
	return e.strategy
}

// Run 运行回测, 价格表未加载时先加载
func (e *BacktestEngine) Run(ctx context.Context) (*types.SimulationResult, error) {
	if !e.session.Loaded() {
		if err := e.session.Load(ctx); err != nil {
			return nil, err
		}
	}
	cfg, err := e.session.Config.ToSimulationConfig()
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	started := time.Now()
	result, err := e.strategy.Simulate(ctx, e.session.Table, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.strategy.Name(), err)
	}

	e.session.Logger.WithFields(map[string]interface{}{
		"strategy": result.Strategy,
		"days":     len(result.Samples),
		"events":   len(result.Events),
		"elapsed":  time.Since(started).String(),
	}).Info("Backtest finished")

	e.result = result
	return result, nil
}

// Benchmark 在同一价格表上运行买入持有作为基准
func (e *BacktestEngine) Benchmark(ctx context.Context) (*types.SimulationResult, error) {
	if !e.session.Loaded() {
		return nil, fmt.Errorf("prices not loaded, run backtest first")
	}
	cfg, err := e.session.Config.ToSimulationConfig()
	if err != nil {
		return nil, err
	}
	bh := strategy.NewBuyAndHoldStrategy(types.StrategyConfig{}, strategy.Deps{Logger: e.session.Logger})
	return bh.Simulate(ctx, e.session.Table, cfg)
}

// GetResult 获取回测结果
func (e *BacktestEngine) GetResult() *types.SimulationResult {
	return e.result
}

// ResultSummary 结果摘要
type ResultSummary struct {
	StrategyName      string    `json:"strategy_name"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	InitialInvestment float64   `json:"initial_investment"`
	FinalValue        float64   `json:"final_value"`
	Profit            float64   `json:"profit"`
	TotalReturn       float64   `json:"total_return"`
	Buys              int       `json:"buys"`
	Sells             int       `json:"sells"`
	Faults            int       `json:"faults"`
}

// Summary 获取结果摘要
func (e *BacktestEngine) Summary() ResultSummary {
	r := e.result
	return ResultSummary{
		StrategyName:      r.Strategy,
		StartDate:         r.Config.StartDate,
		EndDate:           r.Config.EndDate,
		InitialInvestment: r.Config.InitialInvestment,
		FinalValue:        r.FinalValue,
		Profit:            r.Profit,
		TotalReturn:       r.TotalReturn,
		Buys:              r.CountEvents(types.EventBuy),
		Sells:             r.CountEvents(types.EventSell),
		Faults:            r.Faults,
	}
}

// ExportResults 导出结果到JSON文件
func (e *BacktestEngine) ExportResults(filepath string) error {
	if e.result == nil {
		return fmt.Errorf("no results to export, run backtest first")
	}

	output := struct {
		Summary ResultSummary         `json:"summary"`
		Symbols []string              `json:"symbols"`
		Events  []types.Event         `json:"events"`
		Samples []types.BalanceSample `json:"samples"`
	}{
		Summary: e.Summary(),
		Symbols: e.result.Symbols,
		Events:  e.result.Events,
		Samples: e.result.Samples,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(filepath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	e.session.Logger.WithField("path", filepath).Info("Results exported")
	return nil
}

// PrintSummary 打印回测摘要
func (e *BacktestEngine) PrintSummary(w io.Writer) {
	if e.result == nil {
		fmt.Fprintln(w, "No results available")
		return
	}
	report.Print(w, report.RenderSummary(e.result))
}
