package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/opsxjacky/Momentum-backtest/internal/indicator"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

const dateLayout = "2006-01-02"

// ExportChartData writes <dir>/<SYMBOL>.csv for every symbol of table with
// the close and one sma_<window> column per window. Absent values are empty
// cells. It returns the written paths in column order.
func ExportChartData(dir string, table *types.PriceTable, windows []int) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	averages := make([]map[string]*types.MovingAverageSeries, len(windows))
	for i, w := range windows {
		smas, err := indicator.ComputeTable(table, w)
		if err != nil {
			return nil, err
		}
		averages[i] = smas
	}

	paths := make([]string, 0, table.Len())
	for _, symbol := range table.Symbols {
		series, _ := table.Pick(symbol)
		path := filepath.Join(dir, symbol+".csv")
		if err := writeChartFile(path, series, windows, averages); err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", symbol, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeChartFile(path string, series *types.Series, windows []int, averages []map[string]*types.MovingAverageSeries) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"date", "close"}
	for _, win := range windows {
		header = append(header, "sma_"+strconv.Itoa(win))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, p := range series.Points {
		row := []string{p.Date.Format(dateLayout), cell(p)}
		for k := range windows {
			row = append(row, cell(averages[k][series.Symbol].Points[i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func cell(p types.PricePoint) string {
	if !p.Valid {
		return ""
	}
	return decimal.NewFromFloat(p.Value).Round(4).String()
}

// WriteTrajectoryCSV writes the balance samples of result.
func WriteTrajectoryCSV(out io.Writer, result *types.SimulationResult) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"date", "cash", "total_value", "negative_balance"}); err != nil {
		return err
	}
	for _, s := range result.Samples {
		row := []string{
			s.Date.Format(dateLayout),
			Money(s.Cash),
			Money(s.TotalValue),
			strconv.FormatBool(s.NegativeBalance),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteRanking writes the ranking as rank,symbol,delta_percent.
func WriteRanking(out io.Writer, ranked []types.RankedSymbol) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"rank", "symbol", "delta_percent"}); err != nil {
		return err
	}
	for i, r := range ranked {
		row := []string{strconv.Itoa(i + 1), r.Symbol, decimal.NewFromFloat(r.DeltaPercent).StringFixed(4)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
