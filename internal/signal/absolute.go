// Package signal classifies momentum for single instruments and ranks
// instruments against each other.
package signal

import (
	"time"

	"github.com/opsxjacky/Momentum-backtest/internal/indicator"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// DecideAbsolute classifies current against an envelope of envelopePercent
// around reference. The bounds themselves are Neutral.
func DecideAbsolute(current, reference, envelopePercent float64) types.Signal {
	upper := reference * (1 + envelopePercent/100)
	lower := reference * (1 - envelopePercent/100)
	switch {
	case current > upper:
		return types.SignalPositive
	case current < lower:
		return types.SignalNegative
	default:
		return types.SignalNeutral
	}
}

// DecideAbsoluteAt resolves price and reference at date the same way and
// classifies them. Either side missing yields SignalUndefined.
func DecideAbsoluteAt(price, reference *types.Series, date time.Time, envelopePercent float64) (types.Signal, float64, float64) {
	p, ok := price.Resolve(date)
	if !ok {
		return types.SignalUndefined, 0, 0
	}
	ref, ok := reference.Resolve(date)
	if !ok {
		return types.SignalUndefined, p, 0
	}
	return DecideAbsolute(p, ref, envelopePercent), p, ref
}

// Latest classifies the last date of price against its moving average.
func Latest(price *types.Series, sma *types.MovingAverageSeries, envelopePercent float64) types.SymbolSignal {
	out := types.SymbolSignal{Symbol: price.Symbol, Signal: types.SignalUndefined}
	last, ok := price.Last()
	if !ok {
		return out
	}
	out.Price = last.Value
	ref, ok := sma.At(last.Date)
	if !ok || !ref.Valid {
		return out
	}
	out.Reference = ref.Value
	out.Signal = DecideAbsolute(last.Value, ref.Value, envelopePercent)
	return out
}

// ClassifyTable returns the latest absolute signal of every symbol in column order.
func ClassifyTable(table *types.PriceTable, window int, envelopePercent float64) ([]types.SymbolSignal, error) {
	smas, err := indicator.ComputeTable(table, window)
	if err != nil {
		return nil, err
	}
	out := make([]types.SymbolSignal, 0, table.Len())
	for _, symbol := range table.Symbols {
		s, _ := table.Pick(symbol)
		sig := Latest(s, smas[symbol], envelopePercent)
		sig.Symbol = symbol
		out = append(out, sig)
	}
	return out, nil
}

// FilterAbsolute drops every symbol currently in a downward trend.
// Neutral and undefined symbols are kept.
func FilterAbsolute(table *types.PriceTable, window int, envelopePercent float64) (*types.PriceTable, []types.SymbolSignal, error) {
	signals, err := ClassifyTable(table, window, envelopePercent)
	if err != nil {
		return nil, nil, err
	}
	kept := make([]string, 0, len(signals))
	for _, s := range signals {
		if s.Signal != types.SignalNegative {
			kept = append(kept, s.Symbol)
		}
	}
	return table.Restrict(kept), signals, nil
}
