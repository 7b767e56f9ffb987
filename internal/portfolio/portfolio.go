package portfolio

import (
	"math"
	"time"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// EventSink 模拟事件接收者 (日志/指标/记录器)
type EventSink interface {
	OnEvent(event types.Event)
}

// SinkFunc 函数适配为EventSink
type SinkFunc func(event types.Event)

// OnEvent 调用函数本身
func (f SinkFunc) OnEvent(event types.Event) { f(event) }

// Manager 单次模拟独占的投资组合状态
type Manager struct {
	portfolio  *types.Portfolio
	lastPrices map[string]float64
	events     []types.Event
	samples    []types.BalanceSample
	sinks      []EventSink
}

// NewManager 创建投资组合管理器, 初始只有现金
func NewManager(initialCash float64, sinks ...EventSink) *Manager {
	return &Manager{
		portfolio:  types.NewPortfolio(initialCash),
		lastPrices: make(map[string]float64),
		events:     make([]types.Event, 0),
		samples:    make([]types.BalanceSample, 0),
		sinks:      sinks,
	}
}

// GetPortfolio 获取当前投资组合
func (m *Manager) GetPortfolio() *types.Portfolio {
	return m.portfolio
}

// Cash 当前现金
func (m *Manager) Cash() float64 {
	return m.portfolio.Cash
}

// Shares 当前持股数
func (m *Manager) Shares(symbol string) int64 {
	return m.portfolio.Shares(symbol)
}

// GetEvents 获取所有事件
func (m *Manager) GetEvents() []types.Event {
	return m.events
}

// GetSamples 获取余额轨迹
func (m *Manager) GetSamples() []types.BalanceSample {
	return m.samples
}

// SetDate 推进模拟日期
func (m *Manager) SetDate(date time.Time) {
	m.portfolio.Date = types.DateOnly(date)
}

// MarkPrice 记录标的当日价格
func (m *Manager) MarkPrice(symbol string, price float64) {
	m.lastPrices[symbol] = price
}

// LastPrice 最近一次记录的价格
func (m *Manager) LastPrice(symbol string) (float64, bool) {
	p, ok := m.lastPrices[symbol]
	return p, ok
}

// StockValue 按最近价格计算持仓市值
func (m *Manager) StockValue() float64 {
	return m.portfolio.StockValue(m.lastPrices)
}

// TotalValue 现金加持仓市值
func (m *Manager) TotalValue() float64 {
	return m.portfolio.Cash + m.StockValue()
}

// Record 记录事件并通知所有接收者
func (m *Manager) Record(kind types.EventKind, symbol string, shares int64, price float64, message string) types.Event {
	event := types.Event{
		Date:    m.portfolio.Date,
		Kind:    kind,
		Symbol:  symbol,
		Shares:  shares,
		Price:   price,
		Cash:    m.portfolio.Cash,
		Message: message,
	}
	m.events = append(m.events, event)
	for _, sink := range m.sinks {
		sink.OnEvent(event)
	}
	return event
}

// Buy 买入整数股, 现金允许为负
func (m *Manager) Buy(symbol string, shares int64, price float64) types.Event {
	m.portfolio.Cash -= price * float64(shares)

	pos := m.portfolio.Positions[symbol]
	pos.Symbol = symbol
	pos.Shares += shares
	m.portfolio.Positions[symbol] = pos
	m.lastPrices[symbol] = price

	return m.Record(types.EventBuy, symbol, shares, price, "")
}

// SellAll 清仓, 无持仓时返回false
func (m *Manager) SellAll(symbol string, price float64) (types.Event, bool) {
	pos, exists := m.portfolio.Positions[symbol]
	if !exists || pos.Shares <= 0 {
		return types.Event{}, false
	}

	m.portfolio.Cash += float64(pos.Shares) * price
	delete(m.portfolio.Positions, symbol)
	m.lastPrices[symbol] = price

	return m.Record(types.EventSell, symbol, pos.Shares, price, ""), true
}

// BuyCount 按目标金额计算可买入整数股数
func BuyCount(target, price float64, owned int64) int64 {
	if price <= 0 {
		return 0
	}
	available := target - price*float64(owned)
	return int64(math.Floor(available / price))
}

// TakeSample 记录当日余额采样, 现金为负时记录故障
func (m *Manager) TakeSample() types.BalanceSample {
	sample := types.BalanceSample{
		Date:       m.portfolio.Date,
		Cash:       m.portfolio.Cash,
		TotalValue: m.TotalValue(),
	}
	if m.portfolio.Cash < 0 {
		sample.NegativeBalance = true
		m.Record(types.EventNegativeBalance, "", 0, 0, "cash balance below zero")
	}
	m.samples = append(m.samples, sample)
	return sample
}
