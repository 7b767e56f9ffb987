// Package report renders rankings, signals and simulation results for the
// console and writes the plain-data files consumed by external charting.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// Money formats v with two decimals, half away from zero.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Percent formats a percentage with sign and two decimals.
func Percent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

func signalStyle(s types.Signal) lipgloss.Style {
	switch s {
	case types.SignalPositive:
		return positiveStyle
	case types.SignalNegative:
		return negativeStyle
	default:
		return neutralStyle
	}
}

// RenderRanking renders the relative momentum ranking, best first.
func RenderRanking(ranked []types.RankedSymbol) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Relative momentum") + "\n")
	if len(ranked) == 0 {
		b.WriteString(neutralStyle.Render("no symbol could be ranked"))
		return boxStyle.Render(b.String())
	}
	for i, r := range ranked {
		style := positiveStyle
		if r.DeltaPercent < 0 {
			style = negativeStyle
		}
		line := fmt.Sprintf("#%-3d %-8s %s", i+1, r.Symbol, style.Render(Percent(r.DeltaPercent)))
		b.WriteString(line)
		if i < len(ranked)-1 {
			b.WriteString("\n")
		}
	}
	return boxStyle.Render(b.String())
}

// RenderSignals renders the latest absolute signal per symbol.
func RenderSignals(signals []types.SymbolSignal) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Absolute momentum") + "\n")
	for i, s := range signals {
		ref := "-"
		if s.Signal != types.SignalUndefined {
			ref = Money(s.Reference)
		}
		line := fmt.Sprintf("%-8s %10s %10s  %s",
			s.Symbol, Money(s.Price), ref, signalStyle(s.Signal).Render(s.Signal.String()))
		b.WriteString(line)
		if i < len(signals)-1 {
			b.WriteString("\n")
		}
	}
	return boxStyle.Render(b.String())
}

// RenderSummary renders the headline numbers of a simulation.
func RenderSummary(result *types.SimulationResult) string {
	profitStyle := positiveStyle
	if result.Profit < 0 {
		profitStyle = negativeStyle
	}

	lines := []string{
		titleStyle.Render(result.Strategy),
		fmt.Sprintf("Period:        %s to %s",
			result.Config.StartDate.Format("2006-01-02"), result.Config.EndDate.Format("2006-01-02")),
		fmt.Sprintf("Symbols:       %d", len(result.Symbols)),
		fmt.Sprintf("Investment:    $%s", Money(result.Config.InitialInvestment)),
		fmt.Sprintf("Final value:   $%s", Money(result.FinalValue)),
		fmt.Sprintf("Profit:        %s", profitStyle.Render("$"+Money(result.Profit))),
		fmt.Sprintf("Total return:  %s", profitStyle.Render(Percent(result.TotalReturn*100))),
		fmt.Sprintf("Trades:        %d buys, %d sells",
			result.CountEvents(types.EventBuy), result.CountEvents(types.EventSell)),
	}
	if result.Faults > 0 {
		lines = append(lines, warnStyle.Render(fmt.Sprintf("Faults:        %d (%d negative balance, %d missing price)",
			result.Faults, result.CountEvents(types.EventNegativeBalance), result.CountEvents(types.EventMissingPrice))))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// Print writes a rendered block followed by a newline.
func Print(w io.Writer, block string) {
	fmt.Fprintln(w, block)
}
