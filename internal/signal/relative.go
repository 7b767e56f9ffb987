package signal

import (
	"fmt"
	"sort"

	"github.com/opsxjacky/Momentum-backtest/internal/indicator"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// RankBySMARatio ranks symbols by (SMA(short)/SMA(long) - 1) * 100 at their
// latest date, highest first. Symbols with an absent average or a zero long
// average are left out. Equal deltas keep column order.
func RankBySMARatio(table *types.PriceTable, longWindow, shortWindow int) ([]types.RankedSymbol, error) {
	if longWindow <= 0 || shortWindow <= 0 {
		return nil, fmt.Errorf("rank windows long=%d short=%d: %w", longWindow, shortWindow, indicator.ErrInvalidWindow)
	}

	ranked := make([]types.RankedSymbol, 0, table.Len())
	for _, symbol := range table.Symbols {
		s, _ := table.Pick(symbol)
		values := s.Values()
		long, ok := indicator.SMA(values, longWindow)
		if !ok || long == 0 {
			continue
		}
		short, ok := indicator.SMA(values, shortWindow)
		if !ok {
			continue
		}
		ranked = append(ranked, types.RankedSymbol{
			Symbol:       symbol,
			DeltaPercent: (short/long - 1) * 100,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DeltaPercent > ranked[j].DeltaPercent
	})
	return ranked, nil
}

// Top returns at most limit entries of ranked.
func Top(ranked []types.RankedSymbol, limit int) []types.RankedSymbol {
	if limit < 0 {
		limit = 0
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// Symbols extracts the symbol names in rank order.
func Symbols(ranked []types.RankedSymbol) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Symbol
	}
	return out
}
