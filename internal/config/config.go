package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/opsxjacky/Momentum-backtest/internal/data"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

const dateLayout = "2006-01-02"

// 环境变量覆盖
const (
	EnvLogLevel = "MOMENTUM_LOG_LEVEL"
	EnvDataDir  = "MOMENTUM_DATA_DIR"
	EnvProvider = "MOMENTUM_PROVIDER"
)

// Config 配置文件结构
type Config struct {
	Backtest BacktestSection `yaml:"backtest"`
	Strategy StrategySection `yaml:"strategy"`
	Data     DataSection     `yaml:"data"`
	Output   OutputSection   `yaml:"output"`
	Log      LogSection      `yaml:"log"`
	Metrics  MetricsSection  `yaml:"metrics"`
}

// BacktestSection 回测配置
type BacktestSection struct {
	StartDate         string   `yaml:"start_date"`
	EndDate           string   `yaml:"end_date"`
	InitialInvestment float64  `yaml:"initial_investment"`
	Symbols           []string `yaml:"symbols"`
}

// StrategySection 策略配置
type StrategySection struct {
	Type   string         `yaml:"type"`
	Name   string         `yaml:"name"`
	Params StrategyParams `yaml:"params"`
}

// StrategyParams 策略参数
type StrategyParams struct {
	SMAWindow       int     `yaml:"sma_window"`
	EnvelopePercent float64 `yaml:"envelope_percent"`
	LongWindow      int     `yaml:"long_window"`
	ShortWindow     int     `yaml:"short_window"`
	ScreenWindow    int     `yaml:"screen_window"`
	TopN            int     `yaml:"top_n"`

	// 指针区分未设置与false
	SkipRemainingOnZeroBudget *bool `yaml:"skip_remaining_on_zero_budget"`
}

// DataSection 数据源配置
type DataSection struct {
	Provider     string `yaml:"provider"`
	HistoryStart string `yaml:"history_start"` // 早于start_date时用于均线预热
	Dir          string `yaml:"dir"`
	SymbolsFile  string `yaml:"symbols_file"`
	SymbolLimit  int    `yaml:"symbol_limit"`
}

// OutputSection 输出配置
type OutputSection struct {
	Path         string `yaml:"path"`
	EventLog     string `yaml:"event_log"`
	ChartWindows []int  `yaml:"chart_windows"`
}

// LogSection 日志配置
type LogSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsSection 指标配置
type MetricsSection struct {
	Addr string `yaml:"addr"`
}

// ValidationError 配置校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Unwrap 使 errors.Is(err, types.ErrInvalidConfiguration) 成立
func (e ValidationError) Unwrap() error {
	return types.ErrInvalidConfiguration
}

// Default 默认配置
func Default() *Config {
	s := types.DefaultStrategyConfig()
	skip := s.SkipRemainingOnZeroBudget
	return &Config{
		Backtest: BacktestSection{InitialInvestment: 10000},
		Strategy: StrategySection{
			Type: s.Type,
			Params: StrategyParams{
				SMAWindow:                 s.SMAWindow,
				EnvelopePercent:           s.EnvelopePercent,
				LongWindow:                s.LongWindow,
				ShortWindow:               s.ShortWindow,
				ScreenWindow:              s.ScreenWindow,
				TopN:                      s.TopN,
				SkipRemainingOnZeroBudget: &skip,
			},
		},
		Data: DataSection{
			Provider:    data.ProviderCSV,
			Dir:         "data",
			SymbolLimit: data.DefaultSymbolLimit,
		},
		Output: OutputSection{
			Path:         "output",
			ChartWindows: []int{38, 200},
		},
		Log: LogSection{Level: "info", Format: "console"},
	}
}

// LoadConfig 从文件加载配置, 未设置的字段取默认值, 然后应用环境变量覆盖
func LoadConfig(filepath string) (*Config, error) {
	raw, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.ApplyEnv()
	return config, nil
}

// ApplyEnv 加载 .env (若存在) 并应用 MOMENTUM_* 覆盖
func (c *Config) ApplyEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv(EnvProvider); v != "" {
		c.Data.Provider = v
	}
}

// Validate 在模拟开始前校验配置
func (c *Config) Validate() error {
	start, err := time.Parse(dateLayout, c.Backtest.StartDate)
	if err != nil {
		return ValidationError{"backtest.start_date", err.Error()}
	}
	end, err := time.Parse(dateLayout, c.Backtest.EndDate)
	if err != nil {
		return ValidationError{"backtest.end_date", err.Error()}
	}
	if !start.Before(end) {
		return ValidationError{"backtest.end_date", "must be after start_date"}
	}
	if c.Backtest.InitialInvestment < 0 {
		return ValidationError{"backtest.initial_investment", "must not be negative"}
	}
	if len(c.Backtest.Symbols) == 0 && c.Data.SymbolsFile == "" {
		return ValidationError{"backtest.symbols", "either symbols or data.symbols_file is required"}
	}

	p := c.Strategy.Params
	windows := []struct {
		field string
		value int
	}{
		{"strategy.params.sma_window", p.SMAWindow},
		{"strategy.params.long_window", p.LongWindow},
		{"strategy.params.short_window", p.ShortWindow},
		{"strategy.params.screen_window", p.ScreenWindow},
		{"strategy.params.top_n", p.TopN},
	}
	for _, w := range windows {
		if w.value <= 0 {
			return ValidationError{w.field, "must be positive"}
		}
	}
	if p.EnvelopePercent < 0 {
		return ValidationError{"strategy.params.envelope_percent", "must not be negative"}
	}
	for _, w := range c.Output.ChartWindows {
		if w <= 0 {
			return ValidationError{"output.chart_windows", "must be positive"}
		}
	}
	if c.Data.HistoryStart != "" {
		history, err := time.Parse(dateLayout, c.Data.HistoryStart)
		if err != nil {
			return ValidationError{"data.history_start", err.Error()}
		}
		if history.After(start) {
			return ValidationError{"data.history_start", "must not be after start_date"}
		}
	}
	if _, err := data.NewProvider(c.Data.Provider, c.Data.Dir); err != nil {
		return ValidationError{"data.provider", err.Error()}
	}
	return nil
}

// ToSimulationConfig 转换为模拟配置
func (c *Config) ToSimulationConfig() (types.SimulationConfig, error) {
	start, err := time.Parse(dateLayout, c.Backtest.StartDate)
	if err != nil {
		return types.SimulationConfig{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(dateLayout, c.Backtest.EndDate)
	if err != nil {
		return types.SimulationConfig{}, fmt.Errorf("invalid end_date: %w", err)
	}
	return types.SimulationConfig{
		StartDate:         start,
		EndDate:           end,
		InitialInvestment: c.Backtest.InitialInvestment,
	}, nil
}

// ToStrategyConfig 转换为策略配置
func (c *Config) ToStrategyConfig() types.StrategyConfig {
	p := c.Strategy.Params
	config := types.StrategyConfig{
		Type:                      c.Strategy.Type,
		Name:                      c.Strategy.Name,
		SMAWindow:                 p.SMAWindow,
		EnvelopePercent:           p.EnvelopePercent,
		LongWindow:                p.LongWindow,
		ShortWindow:               p.ShortWindow,
		ScreenWindow:              p.ScreenWindow,
		TopN:                      p.TopN,
		SkipRemainingOnZeroBudget: true,
	}
	if p.SkipRemainingOnZeroBudget != nil {
		config.SkipRemainingOnZeroBudget = *p.SkipRemainingOnZeroBudget
	}
	return config
}

// HistoryRange 返回需要加载的价格区间 [history_start 或 start_date, end_date]
func (c *Config) HistoryRange() (time.Time, time.Time, error) {
	sim, err := c.ToSimulationConfig()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if c.Data.HistoryStart == "" {
		return sim.StartDate, sim.EndDate, nil
	}
	history, err := time.Parse(dateLayout, c.Data.HistoryStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid history_start: %w", err)
	}
	return history, sim.EndDate, nil
}

// ResolveSymbols 返回回测标的: 显式列表优先, 否则读取标的文件
func (c *Config) ResolveSymbols() ([]string, error) {
	if len(c.Backtest.Symbols) > 0 {
		out := make([]string, 0, len(c.Backtest.Symbols))
		for _, s := range c.Backtest.Symbols {
			out = append(out, strings.ToUpper(strings.TrimSpace(s)))
		}
		return out, nil
	}
	return data.LoadSymbols(c.Data.SymbolsFile, c.Data.SymbolLimit)
}

// GetOutputPath 获取输出路径
func (c *Config) GetOutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	return "output"
}
