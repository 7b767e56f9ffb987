package data

import (
	"sort"
	"time"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// Close 单个收盘价
type Close struct {
	Date  time.Time
	Value float64
}

// BusinessDays 返回 [start, end] 内的所有周一至周五
func BusinessDays(start, end time.Time) []time.Time {
	days := make([]time.Time, 0)
	last := types.DateOnly(end)
	for d := types.DateOnly(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	return days
}

// BuildTable 把原始收盘价对齐到工作日索引
// 无报价的工作日沿用之前最近的收盘价, 第一笔收盘价之前保持缺失
func BuildTable(symbols []string, closes map[string][]Close, start, end time.Time) *types.PriceTable {
	index := BusinessDays(start, end)
	series := make(map[string]*types.Series, len(symbols))

	for _, symbol := range symbols {
		raw := append([]Close(nil), closes[symbol]...)
		sort.SliceStable(raw, func(i, j int) bool {
			return raw[i].Date.Before(raw[j].Date)
		})

		points := make([]types.PricePoint, len(index))
		prior := types.PricePoint{}
		next := 0
		for i, d := range index {
			for next < len(raw) && !types.DateOnly(raw[next].Date).After(d) {
				prior = types.PricePoint{Value: raw[next].Value, Valid: true}
				next++
			}
			points[i] = types.PricePoint{Date: d, Value: prior.Value, Valid: prior.Valid}
		}
		series[symbol] = types.NewSeries(symbol, points)
	}

	return types.NewPriceTable(symbols, series, start, end)
}
