package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// CSVLoader CSV数据加载器, 每个标的一个 <dataDir>/<SYMBOL>.csv
type CSVLoader struct {
	dataDir string
}

// NewCSVLoader 创建CSV加载器
func NewCSVLoader(dataDir string) *CSVLoader {
	return &CSVLoader{dataDir: dataDir}
}

// SourceType 返回数据源类型
func (l *CSVLoader) SourceType() string {
	return ProviderCSV
}

// FetchPrices 加载价格数据并对齐到工作日
func (l *CSVLoader) FetchPrices(ctx context.Context, symbols []string, start, end time.Time) (*types.PriceTable, error) {
	closes := make(map[string][]Close, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := l.loadSymbolData(symbol, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load data for %s: %w", symbol, err)
		}
		closes[symbol] = rows
	}
	return BuildTable(symbols, closes, start, end), nil
}

// loadSymbolData 加载单个标的数据, 保留end之前的所有行 (起始日之前的行用于前向填充)
func (l *CSVLoader) loadSymbolData(symbol string, end time.Time) ([]Close, error) {
	filePath := filepath.Join(l.dataDir, symbol+".csv")
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file has no data rows")
	}

	// 解析表头，找到各列的索引
	colIndex := parseHeader(records[0])
	if _, ok := colIndex["date"]; !ok {
		return nil, fmt.Errorf("CSV file %s has no date column", filePath)
	}
	if _, ok := colIndex["close"]; !ok {
		if _, ok := colIndex["adj_close"]; !ok {
			return nil, fmt.Errorf("CSV file %s has no close column", filePath)
		}
	}

	last := types.DateOnly(end)
	result := make([]Close, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		c, err := parseRow(records[i], colIndex)
		if err != nil {
			continue // 跳过解析错误的行
		}
		if c.Date.After(last) {
			continue
		}
		result = append(result, c)
	}

	return result, nil
}

// parseHeader 解析CSV表头
func parseHeader(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "Date", "date", "DATE", "Timestamp", "timestamp":
			colIndex["date"] = i
		case "Close", "close", "CLOSE":
			colIndex["close"] = i
		case "Adj Close", "adj_close", "AdjClose", "Adj_Close":
			colIndex["adj_close"] = i
		}
	}
	return colIndex
}

// parseRow 解析CSV行, 优先使用复权收盘价
func parseRow(row []string, colIndex map[string]int) (Close, error) {
	var c Close

	idx := colIndex["date"]
	if idx >= len(row) {
		return c, fmt.Errorf("row too short")
	}
	t, err := parseDate(row[idx])
	if err != nil {
		return c, err
	}
	c.Date = t

	col, ok := colIndex["adj_close"]
	if !ok {
		col = colIndex["close"]
	}
	if col >= len(row) {
		return c, fmt.Errorf("row too short")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return c, fmt.Errorf("invalid close %q: %w", row[col], err)
	}
	c.Value = v
	return c, nil
}

// parseDate 解析日期字符串
func parseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"02-01-2006",
		"2006-01-02 15:04:05",
	}

	dateStr = strings.TrimSpace(dateStr)
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return types.DateOnly(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
