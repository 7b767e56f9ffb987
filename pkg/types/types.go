package types

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrMissingPriceData 在序列已知范围内无法解析出价格
	ErrMissingPriceData = errors.New("unresolvable price")
	// ErrInvalidConfiguration 模拟开始前发现的配置错误
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// DateOnly 截断到UTC日期
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PricePoint 单日数值 (Valid=false 表示缺失)
type PricePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Valid bool      `json:"valid"`
}

// Series 按日期递增排列的时间序列
type Series struct {
	Symbol string
	Points []PricePoint
}

// NewSeries 创建序列, 日期统一截断为UTC日期并排序
func NewSeries(symbol string, points []PricePoint) *Series {
	out := make([]PricePoint, len(points))
	for i, p := range points {
		p.Date = DateOnly(p.Date)
		out[i] = p
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return &Series{Symbol: symbol, Points: out}
}

// Len 返回数据点数量
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// index 二分查找第一个不早于date的位置
func (s *Series) index(date time.Time) int {
	d := DateOnly(date)
	return sort.Search(len(s.Points), func(i int) bool {
		return !s.Points[i].Date.Before(d)
	})
}

// At 精确查找指定日期的数据点
func (s *Series) At(date time.Time) (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	idx := s.index(date)
	if idx < len(s.Points) && s.Points[idx].Date.Equal(DateOnly(date)) {
		return s.Points[idx], true
	}
	return PricePoint{}, false
}

// Resolve 日期不在索引中时逐个自然日向后查找, 返回第一个索引日期上的值;
// 该日期值缺失或越过最后一个索引日期时返回缺失
func (s *Series) Resolve(date time.Time) (float64, bool) {
	if s.Len() == 0 {
		return 0, false
	}
	last := s.Points[len(s.Points)-1].Date
	for d := DateOnly(date); !d.After(last); d = d.AddDate(0, 0, 1) {
		if p, ok := s.At(d); ok {
			return p.Value, p.Valid
		}
	}
	return 0, false
}

// Last 返回最后一个有效数据点
func (s *Series) Last() (PricePoint, bool) {
	for i := s.Len() - 1; i >= 0; i-- {
		if s.Points[i].Valid {
			return s.Points[i], true
		}
	}
	return PricePoint{}, false
}

// Until 返回日期不晚于date的前缀
func (s *Series) Until(date time.Time) *Series {
	if s == nil {
		return nil
	}
	d := DateOnly(date)
	idx := sort.Search(len(s.Points), func(i int) bool {
		return s.Points[i].Date.After(d)
	})
	points := make([]PricePoint, idx)
	copy(points, s.Points[:idx])
	return &Series{Symbol: s.Symbol, Points: points}
}

// Values 返回所有有效值
func (s *Series) Values() []float64 {
	values := make([]float64, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.Points[i].Valid {
			values = append(values, s.Points[i].Value)
		}
	}
	return values
}

// MovingAverageSeries 移动平均序列
type MovingAverageSeries struct {
	*Series
	Window int
}

// PriceTable 多标的收盘价表, 所有序列共享同一日期索引
type PriceTable struct {
	Symbols []string // 列顺序, 影响模拟结果
	Series  map[string]*Series
	Start   time.Time
	End     time.Time
}

// NewPriceTable 按给定列顺序创建价格表
func NewPriceTable(symbols []string, series map[string]*Series, start, end time.Time) *PriceTable {
	return &PriceTable{
		Symbols: append([]string(nil), symbols...),
		Series:  series,
		Start:   DateOnly(start),
		End:     DateOnly(end),
	}
}

// Len 返回标的数量
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Symbols)
}

// Pick 取出单个标的的序列
func (t *PriceTable) Pick(symbol string) (*Series, bool) {
	s, ok := t.Series[symbol]
	return s, ok
}

// Restrict 仅保留给定标的, 顺序以symbols为准
func (t *PriceTable) Restrict(symbols []string) *PriceTable {
	kept := make([]string, 0, len(symbols))
	series := make(map[string]*Series, len(symbols))
	for _, symbol := range symbols {
		if s, ok := t.Series[symbol]; ok {
			kept = append(kept, symbol)
			series[symbol] = s
		}
	}
	return &PriceTable{Symbols: kept, Series: series, Start: t.Start, End: t.End}
}

// Until 截断所有序列到date (用于避免前视偏差)
func (t *PriceTable) Until(date time.Time) *PriceTable {
	series := make(map[string]*Series, len(t.Series))
	for symbol, s := range t.Series {
		series[symbol] = s.Until(date)
	}
	end := DateOnly(date)
	if end.After(t.End) {
		end = t.End
	}
	return &PriceTable{Symbols: append([]string(nil), t.Symbols...), Series: series, Start: t.Start, End: end}
}

// Signal 动量信号
type Signal int

const (
	SignalNegative  Signal = -1
	SignalNeutral   Signal = 0
	SignalPositive  Signal = 1
	SignalUndefined Signal = 2 // 历史数据不足
)

// String 信号名称
func (s Signal) String() string {
	switch s {
	case SignalNegative:
		return "Negative"
	case SignalNeutral:
		return "Neutral"
	case SignalPositive:
		return "Positive"
	default:
		return "Undefined"
	}
}

// SymbolSignal 标的及其最新信号
type SymbolSignal struct {
	Symbol    string  `json:"symbol"`
	Signal    Signal  `json:"signal"`
	Price     float64 `json:"price"`
	Reference float64 `json:"reference"`
}

// RankedSymbol 相对动量排名项
type RankedSymbol struct {
	Symbol       string  `json:"symbol"`
	DeltaPercent float64 `json:"delta_percent"`
}

// Position 持仓 (整数股)
type Position struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// Portfolio 模拟状态
type Portfolio struct {
	Date      time.Time
	Cash      float64 // 可能为负, 记为故障而非终止
	Positions map[string]Position
}

// NewPortfolio 创建新的投资组合
func NewPortfolio(initialCash float64) *Portfolio {
	return &Portfolio{
		Cash:      initialCash,
		Positions: make(map[string]Position),
	}
}

// Shares 返回标的持股数
func (p *Portfolio) Shares(symbol string) int64 {
	return p.Positions[symbol].Shares
}

// StockValue 按给定价格计算持仓市值
func (p *Portfolio) StockValue(prices map[string]float64) float64 {
	total := 0.0
	for symbol, pos := range p.Positions {
		total += float64(pos.Shares) * prices[symbol]
	}
	return total
}

// EventKind 模拟事件类型
type EventKind string

const (
	EventBuy             EventKind = "buy"
	EventSell            EventKind = "sell"
	EventNegativeBalance EventKind = "negative_balance"
	EventSkipNoBudget    EventKind = "skip_no_budget"
	EventMissingPrice    EventKind = "missing_price"
)

// Event 模拟事件记录
type Event struct {
	Date    time.Time `json:"date"`
	Kind    EventKind `json:"kind"`
	Symbol  string    `json:"symbol,omitempty"`
	Shares  int64     `json:"shares,omitempty"`
	Price   float64   `json:"price,omitempty"`
	Cash    float64   `json:"cash"`
	Message string    `json:"message,omitempty"`
}

// BalanceSample 每日余额采样
type BalanceSample struct {
	Date            time.Time `json:"date"`
	Cash            float64   `json:"cash"`
	TotalValue      float64   `json:"total_value"`
	NegativeBalance bool      `json:"negative_balance,omitempty"`
}

// SimulationConfig 模拟配置
type SimulationConfig struct {
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"` // 不包含
	InitialInvestment float64   `json:"initial_investment"`
}

// SimulationResult 模拟结果
type SimulationResult struct {
	Strategy    string           `json:"strategy"`
	Config      SimulationConfig `json:"config"`
	Symbols     []string         `json:"symbols"`
	Samples     []BalanceSample  `json:"samples"`
	Events      []Event          `json:"events"`
	FinalValue  float64          `json:"final_value"`
	Profit      float64          `json:"profit"`
	TotalReturn float64          `json:"total_return"`
	Faults      int              `json:"faults"`
}

// Finalize 根据最终价值计算收益
func (r *SimulationResult) Finalize(finalValue float64) {
	r.FinalValue = finalValue
	r.Profit = finalValue - r.Config.InitialInvestment
	if r.Config.InitialInvestment != 0 {
		r.TotalReturn = r.Profit / r.Config.InitialInvestment
	}
	r.Faults = 0
	for _, e := range r.Events {
		if e.Kind == EventNegativeBalance || e.Kind == EventMissingPrice {
			r.Faults++
		}
	}
}

// CountEvents 统计指定类型事件数量
func (r *SimulationResult) CountEvents(kind EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// StrategyConfig 策略配置
type StrategyConfig struct {
	Type            string
	Name            string
	SMAWindow       int     // 绝对动量均线窗口
	EnvelopePercent float64 // 包络百分比
	LongWindow      int     // 相对动量长均线
	ShortWindow     int     // 相对动量短均线
	ScreenWindow    int     // 动量策略筛选均线窗口
	TopN            int     // 动量策略持有数量

	SkipRemainingOnZeroBudget bool // 预算不足时跳过当日剩余买入
}

// DefaultStrategyConfig 默认策略参数
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		Type:                      "absolute_momentum",
		SMAWindow:                 200,
		EnvelopePercent:           3,
		LongWindow:                200,
		ShortWindow:               38,
		ScreenWindow:              200,
		TopN:                      10,
		SkipRemainingOnZeroBudget: true,
	}
}
