package data

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// YahooLoader 通过Yahoo Finance获取日线
type YahooLoader struct {
	// lookback 起始日之前额外获取的天数, 用于前向填充
	lookback time.Duration
}

// NewYahooLoader 创建Yahoo加载器
func NewYahooLoader() *YahooLoader {
	return &YahooLoader{lookback: 7 * 24 * time.Hour}
}

// SourceType 返回数据源类型
func (l *YahooLoader) SourceType() string {
	return ProviderYahoo
}

// FetchPrices 逐个标的拉取日线并对齐到工作日
func (l *YahooLoader) FetchPrices(ctx context.Context, symbols []string, start, end time.Time) (*types.PriceTable, error) {
	closes := make(map[string][]Close, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := l.history(symbol, start.Add(-l.lookback), end)
		if err != nil {
			return nil, err
		}
		closes[symbol] = rows
	}
	return BuildTable(symbols, closes, start, end), nil
}

func (l *YahooLoader) history(symbol string, start, end time.Time) ([]Close, error) {
	// chart接口的结束时间不包含当天
	until := types.DateOnly(end).AddDate(0, 0, 1)
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&until),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	result := make([]Close, 0)
	for iter.Next() {
		bar := iter.Bar()
		price := bar.AdjClose
		if price.IsZero() {
			price = bar.Close
		}
		value, _ := price.Float64()
		result = append(result, Close{
			Date:  types.DateOnly(time.Unix(int64(bar.Timestamp), 0).UTC()),
			Value: value,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
	}
	return result, nil
}
