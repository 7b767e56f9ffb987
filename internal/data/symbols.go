package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// DefaultSymbolLimit 默认最多读取的标的数量
const DefaultSymbolLimit = 100

// LoadSymbols 从CSV的Symbol列读取标的列表, limit<=0表示不限制
func LoadSymbols(path string, limit int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol list %s: %w", path, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read symbol list: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("symbol list %s is empty", path)
	}

	col := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "symbol") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("symbol list %s has no Symbol column", path)
	}

	symbols := make([]string, 0, len(records)-1)
	seen := make(map[string]bool)
	for _, row := range records[1:] {
		if limit > 0 && len(symbols) >= limit {
			break
		}
		if col >= len(row) {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(row[col]))
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	return symbols, nil
}
