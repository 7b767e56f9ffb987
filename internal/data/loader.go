package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// PriceProvider 价格数据源接口
type PriceProvider interface {
	// FetchPrices 获取 [start, end] 的收盘价表, 列顺序与symbols一致
	FetchPrices(ctx context.Context, symbols []string, start, end time.Time) (*types.PriceTable, error)

	// SourceType 数据源类型
	SourceType() string
}

// 数据源类型
const (
	ProviderCSV   = "csv"
	ProviderYahoo = "yahoo"
)

// NewProvider 根据类型创建数据源
func NewProvider(kind, dataDir string) (PriceProvider, error) {
	switch strings.ToLower(kind) {
	case "", ProviderCSV:
		return NewCSVLoader(dataDir), nil
	case ProviderYahoo:
		return NewYahooLoader(), nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", kind)
	}
}
