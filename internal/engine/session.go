package engine

import (
	"context"
	"fmt"

	"github.com/opsxjacky/Momentum-backtest/internal/config"
	"github.com/opsxjacky/Momentum-backtest/internal/data"
	"github.com/opsxjacky/Momentum-backtest/internal/logger"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// Session 一次运行的上下文: 配置, 日志, 数据源和已加载的价格表
// 所有命令共享同一个Session, 价格表加载后只读
type Session struct {
	Config   *config.Config
	Logger   *logger.Logger
	Provider data.PriceProvider
	Symbols  []string
	Table    *types.PriceTable
}

// NewSession 校验配置并创建数据源
func NewSession(cfg *config.Config, log *logger.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	provider, err := data.NewProvider(cfg.Data.Provider, cfg.Data.Dir)
	if err != nil {
		return nil, err
	}
	return &Session{Config: cfg, Logger: log, Provider: provider}, nil
}

// Load 解析标的列表并加载价格表
func (s *Session) Load(ctx context.Context) error {
	symbols, err := s.Config.ResolveSymbols()
	if err != nil {
		return fmt.Errorf("failed to resolve symbols: %w", err)
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to load: %w", types.ErrInvalidConfiguration)
	}
	from, to, err := s.Config.HistoryRange()
	if err != nil {
		return err
	}

	s.Logger.WithFields(map[string]interface{}{
		"provider": s.Provider.SourceType(),
		"symbols":  len(symbols),
		"from":     from.Format("2006-01-02"),
		"to":       to.Format("2006-01-02"),
	}).Info("Loading prices")

	table, err := s.Provider.FetchPrices(ctx, symbols, from, to)
	if err != nil {
		return fmt.Errorf("failed to load prices: %w", err)
	}
	s.Symbols = symbols
	s.Table = table
	return nil
}

// Loaded 价格表是否已加载
func (s *Session) Loaded() bool {
	return s.Table != nil
}
