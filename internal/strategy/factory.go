package strategy

import (
	"fmt"
	"strings"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// 策略类型
const (
	TypeBuyAndHold       = "buy_and_hold"
	TypeAbsoluteMomentum = "absolute_momentum"
	TypeMomentum         = "momentum"
)

// Build 根据配置创建策略变体
func Build(config types.StrategyConfig, deps Deps) (Strategy, error) {
	switch normalizeType(config.Type) {
	case TypeBuyAndHold:
		return NewBuyAndHoldStrategy(config, deps), nil
	case TypeAbsoluteMomentum:
		if err := requireWindows(map[string]int{"sma_window": config.SMAWindow}); err != nil {
			return nil, err
		}
		if config.EnvelopePercent < 0 {
			return nil, fmt.Errorf("envelope_percent must not be negative: %w", types.ErrInvalidConfiguration)
		}
		return NewAbsoluteMomentumStrategy(config, deps), nil
	case TypeMomentum:
		err := requireWindows(map[string]int{
			"sma_window":    config.SMAWindow,
			"screen_window": config.ScreenWindow,
			"long_window":   config.LongWindow,
			"short_window":  config.ShortWindow,
			"top_n":         config.TopN,
		})
		if err != nil {
			return nil, err
		}
		if config.EnvelopePercent < 0 {
			return nil, fmt.Errorf("envelope_percent must not be negative: %w", types.ErrInvalidConfiguration)
		}
		return NewMomentumStrategy(config, deps), nil
	default:
		return nil, fmt.Errorf("unknown strategy type %q: %w", config.Type, types.ErrInvalidConfiguration)
	}
}

func normalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "buy_and_hold", "buyandhold", "hold":
		return TypeBuyAndHold
	case "", "absolute_momentum", "absolute", "absolutemomentum":
		return TypeAbsoluteMomentum
	case "momentum", "relative_momentum":
		return TypeMomentum
	default:
		return t
	}
}

func requireWindows(values map[string]int) error {
	for _, name := range []string{"sma_window", "screen_window", "long_window", "short_window", "top_n"} {
		v, ok := values[name]
		if ok && v <= 0 {
			return fmt.Errorf("%s must be positive, got %d: %w", name, v, types.ErrInvalidConfiguration)
		}
	}
	return nil
}
