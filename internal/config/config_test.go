package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

func clearEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvProvider, "")
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	sim, err := cfg.ToSimulationConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), sim.StartDate)
	assert.Equal(t, 25000.0, sim.InitialInvestment)

	st := cfg.ToStrategyConfig()
	assert.Equal(t, "momentum", st.Type)
	assert.Equal(t, "top-momentum", st.Name)
	assert.Equal(t, 150, st.ScreenWindow)
	assert.Equal(t, 2, st.TopN)
	assert.False(t, st.SkipRemainingOnZeroBudget)

	symbols, err := cfg.ResolveSymbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, symbols)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
	assert.Equal(t, "out", cfg.GetOutputPath())
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("testdata/minimal.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	st := cfg.ToStrategyConfig()
	assert.Equal(t, types.DefaultStrategyConfig().SMAWindow, st.SMAWindow)
	assert.True(t, st.SkipRemainingOnZeroBudget)
	assert.Equal(t, 10000.0, cfg.Backtest.InitialInvestment)
	assert.Equal(t, []int{38, 200}, cfg.Output.ChartWindows)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvDataDir, "/tmp/prices")
	t.Setenv(EnvProvider, "yahoo")

	cfg, err := LoadConfig("testdata/minimal.yaml")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/prices", cfg.Data.Dir)
	assert.Equal(t, "yahoo", cfg.Data.Provider)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Backtest.StartDate = "2020-01-01"
		c.Backtest.EndDate = "2020-12-31"
		c.Backtest.Symbols = []string{"SPY"}
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"bad start", func(c *Config) { c.Backtest.StartDate = "01/01/2020" }, "backtest.start_date"},
		{"end before start", func(c *Config) { c.Backtest.EndDate = "2019-12-31" }, "backtest.end_date"},
		{"start equals end", func(c *Config) { c.Backtest.EndDate = c.Backtest.StartDate }, "backtest.end_date"},
		{"negative investment", func(c *Config) { c.Backtest.InitialInvestment = -1 }, "backtest.initial_investment"},
		{"no symbols", func(c *Config) { c.Backtest.Symbols = nil }, "backtest.symbols"},
		{"zero sma", func(c *Config) { c.Strategy.Params.SMAWindow = 0 }, "strategy.params.sma_window"},
		{"negative short", func(c *Config) { c.Strategy.Params.ShortWindow = -5 }, "strategy.params.short_window"},
		{"negative envelope", func(c *Config) { c.Strategy.Params.EnvelopePercent = -1 }, "strategy.params.envelope_percent"},
		{"bad chart window", func(c *Config) { c.Output.ChartWindows = []int{0} }, "output.chart_windows"},
		{"bad history start", func(c *Config) { c.Data.HistoryStart = "soon" }, "data.history_start"},
		{"history after start", func(c *Config) { c.Data.HistoryStart = "2020-02-01" }, "data.history_start"},
		{"unknown provider", func(c *Config) { c.Data.Provider = "ftp" }, "data.provider"},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)

			var ve ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
		})
	}
}

func TestHistoryRange(t *testing.T) {
	c := Default()
	c.Backtest.StartDate = "2020-06-01"
	c.Backtest.EndDate = "2020-12-31"

	from, to, err := c.HistoryRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), to)

	c.Data.HistoryStart = "2019-06-01"
	from, _, err = c.HistoryRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), from)
}

func TestValidate_ZeroInvestmentAllowed(t *testing.T) {
	c := Default()
	c.Backtest.StartDate = "2020-01-01"
	c.Backtest.EndDate = "2020-01-02"
	c.Backtest.Symbols = []string{"SPY"}
	c.Backtest.InitialInvestment = 0
	assert.NoError(t, c.Validate())
}
