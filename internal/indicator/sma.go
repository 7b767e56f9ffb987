// Package indicator computes trailing indicators over price series.
package indicator

import (
	"errors"
	"fmt"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// ErrInvalidWindow is returned for non-positive window sizes.
var ErrInvalidWindow = errors.New("window must be positive")

// ComputeSMA returns the trailing simple moving average of series.
// A point stays absent until window valid prices have been observed; absent
// input points are skipped and yield an absent output.
func ComputeSMA(series *types.Series, window int) (*types.MovingAverageSeries, error) {
	if window <= 0 {
		return nil, fmt.Errorf("sma window %d: %w", window, ErrInvalidWindow)
	}
	if series == nil {
		return &types.MovingAverageSeries{Series: &types.Series{}, Window: window}, nil
	}

	out := make([]types.PricePoint, len(series.Points))
	ring := make([]float64, window)
	var sum float64
	count := 0

	for i, p := range series.Points {
		out[i] = types.PricePoint{Date: p.Date}
		if !p.Valid {
			continue
		}
		slot := count % window
		if count >= window {
			sum -= ring[slot]
		}
		ring[slot] = p.Value
		sum += p.Value
		count++
		if count >= window {
			out[i].Value = sum / float64(window)
			out[i].Valid = true
		}
	}

	return &types.MovingAverageSeries{
		Series: &types.Series{Symbol: series.Symbol, Points: out},
		Window: window,
	}, nil
}

// SMA returns the mean of the last window values, or false when there are
// fewer than window values.
func SMA(values []float64, window int) (float64, bool) {
	if window <= 0 || len(values) < window {
		return 0, false
	}
	sum := 0.0
	for i := len(values) - window; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(window), true
}

// ComputeTable computes the SMA of every series in table.
func ComputeTable(table *types.PriceTable, window int) (map[string]*types.MovingAverageSeries, error) {
	out := make(map[string]*types.MovingAverageSeries, table.Len())
	for _, symbol := range table.Symbols {
		s, _ := table.Pick(symbol)
		sma, err := ComputeSMA(s, window)
		if err != nil {
			return nil, err
		}
		out[symbol] = sma
	}
	return out, nil
}
