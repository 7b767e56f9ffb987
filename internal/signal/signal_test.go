package signal

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/Momentum-backtest/internal/indicator"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

var start = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func makeSeries(symbol string, values ...float64) *types.Series {
	points := make([]types.PricePoint, len(values))
	for i, v := range values {
		points[i] = types.PricePoint{Date: start.AddDate(0, 0, i), Value: v, Valid: !math.IsNaN(v)}
	}
	return types.NewSeries(symbol, points)
}

func makeTable(series ...*types.Series) *types.PriceTable {
	symbols := make([]string, len(series))
	m := make(map[string]*types.Series, len(series))
	for i, s := range series {
		symbols[i] = s.Symbol
		m[s.Symbol] = s
	}
	return types.NewPriceTable(symbols, m, start, start.AddDate(0, 0, 30))
}

func TestDecideAbsolute(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		ref      float64
		envelope float64
		want     types.Signal
	}{
		{"above envelope", 104, 100, 3, types.SignalPositive},
		{"below envelope", 96, 100, 3, types.SignalNegative},
		{"inside envelope", 101, 100, 3, types.SignalNeutral},
		{"zero envelope above", 100.01, 100, 0, types.SignalPositive},
		{"zero envelope equal", 100, 100, 0, types.SignalNeutral},
		{"zero envelope below", 99.99, 100, 0, types.SignalNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideAbsolute(tt.current, tt.ref, tt.envelope))
		})
	}
}

func TestDecideAbsolute_BoundaryIsNeutral(t *testing.T) {
	ref, envelope := 100.0, 3.0
	upper := ref * (1 + envelope/100)
	lower := ref * (1 - envelope/100)

	assert.Equal(t, types.SignalNeutral, DecideAbsolute(upper, ref, envelope))
	assert.Equal(t, types.SignalPositive, DecideAbsolute(math.Nextafter(upper, math.Inf(1)), ref, envelope))
	assert.Equal(t, types.SignalNeutral, DecideAbsolute(lower, ref, envelope))
	assert.Equal(t, types.SignalNegative, DecideAbsolute(math.Nextafter(lower, math.Inf(-1)), ref, envelope))
}

func TestDecideAbsolute_Monotonic(t *testing.T) {
	prev := types.SignalNegative
	for p := 90.0; p <= 110; p += 0.25 {
		got := DecideAbsolute(p, 100, 3)
		assert.GreaterOrEqual(t, int(got), int(prev), "price %.2f", p)
		prev = got
	}
	assert.Equal(t, types.SignalPositive, prev)
}

func TestDecideAbsoluteAt(t *testing.T) {
	price := makeSeries("A", 100, 100, 100, 200)
	sma, err := indicator.ComputeSMA(price, 3)
	require.NoError(t, err)

	sig, _, _ := DecideAbsoluteAt(price, sma.Series, start, 3)
	assert.Equal(t, types.SignalUndefined, sig, "insufficient history is undefined")

	sig, p, ref := DecideAbsoluteAt(price, sma.Series, start.AddDate(0, 0, 3), 3)
	assert.Equal(t, types.SignalPositive, sig)
	assert.Equal(t, 200.0, p)
	assert.InDelta(t, 400.0/3, ref, 1e-9)

	sig, _, _ = DecideAbsoluteAt(price, sma.Series, start.AddDate(0, 0, 10), 3)
	assert.Equal(t, types.SignalUndefined, sig, "past the series end")
}

func TestClassifyAndFilterAbsolute(t *testing.T) {
	table := makeTable(
		makeSeries("UP", 10, 10, 10, 20),
		makeSeries("DOWN", 10, 10, 10, 5),
		makeSeries("FLAT", 10, 10, 10, 10),
		makeSeries("NEW", 10),
	)

	signals, err := ClassifyTable(table, 3, 3)
	require.NoError(t, err)
	require.Len(t, signals, 4)
	assert.Equal(t, types.SignalPositive, signals[0].Signal)
	assert.Equal(t, types.SignalNegative, signals[1].Signal)
	assert.Equal(t, types.SignalNeutral, signals[2].Signal)
	assert.Equal(t, types.SignalUndefined, signals[3].Signal)

	filtered, _, err := FilterAbsolute(table, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"UP", "FLAT", "NEW"}, filtered.Symbols)

	_, _, err = FilterAbsolute(table, 0, 3)
	assert.ErrorIs(t, err, indicator.ErrInvalidWindow)
}

func TestRankBySMARatio(t *testing.T) {
	table := makeTable(
		makeSeries("SLOW", 10, 10, 10, 11),
		makeSeries("FAST", 10, 10, 10, 20),
		makeSeries("DOWN", 10, 10, 10, 5),
		makeSeries("TIE", 10, 10, 10, 11),
		makeSeries("SHORT", 10),
		makeSeries("ZERO", 0, 0, 0, 0),
	)

	ranked, err := RankBySMARatio(table, 4, 1)
	require.NoError(t, err)
	require.Len(t, ranked, 4)
	assert.Equal(t, []string{"FAST", "SLOW", "TIE", "DOWN"}, Symbols(ranked))

	// FAST: SMA1=20, SMA4=12.5
	assert.InDelta(t, (20/12.5-1)*100, ranked[0].DeltaPercent, 1e-9)
	assert.Less(t, ranked[3].DeltaPercent, 0.0)
}

func TestRankBySMARatio_InvalidWindows(t *testing.T) {
	_, err := RankBySMARatio(makeTable(), 0, 5)
	assert.ErrorIs(t, err, indicator.ErrInvalidWindow)
}

func TestTop(t *testing.T) {
	ranked := []types.RankedSymbol{{Symbol: "A"}, {Symbol: "B"}}
	assert.Len(t, Top(ranked, 1), 1)
	assert.Len(t, Top(ranked, 5), 2)
	assert.Empty(t, Top(ranked, -1))
}
