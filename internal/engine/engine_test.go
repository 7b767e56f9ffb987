package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/Momentum-backtest/internal/config"
	"github.com/opsxjacky/Momentum-backtest/internal/portfolio"
	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// writePrices 写入2024-01-01起连续工作日的收盘价
func writePrices(t *testing.T, dir, symbol string, closes ...float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date,Close\n")
	day := 1
	for _, c := range closes {
		for {
			wd := (day - 1) % 7 // 2024-01-01 是周一
			if wd < 5 {
				break
			}
			day++
		}
		fmt.Fprintf(&b, "2024-01-%02d,%g\n", day, c)
		day++
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(b.String()), 0o644))
}

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Backtest.StartDate = "2024-01-02"
	cfg.Backtest.EndDate = "2024-01-12"
	cfg.Backtest.InitialInvestment = 1000
	cfg.Backtest.Symbols = []string{"UP", "FLAT"}
	cfg.Strategy.Params.SMAWindow = 2
	cfg.Data.Dir = dir
	return cfg
}

func TestBacktestEngine_Run(t *testing.T) {
	dir := t.TempDir()
	writePrices(t, dir, "UP", 10, 11, 12, 13, 14, 15, 16, 17, 18, 19)
	writePrices(t, dir, "FLAT", 50, 50, 50, 50, 50, 50, 50, 50, 50, 50)

	session, err := NewSession(testConfig(dir), nil)
	require.NoError(t, err)

	var kinds []types.EventKind
	eng, err := New(session, portfolio.SinkFunc(func(e types.Event) { kinds = append(kinds, e.Kind) }))
	require.NoError(t, err)
	assert.Equal(t, "AbsoluteMomentum", eng.Strategy().Name())

	result, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, session.Loaded())
	assert.Equal(t, []string{"UP", "FLAT"}, result.Symbols)
	assert.Len(t, result.Samples, 10, "one sample per calendar day in [start, end)")
	assert.Greater(t, result.CountEvents(types.EventBuy), 0)
	assert.Zero(t, result.CountEvents(types.EventBuy)-countKind(kinds, types.EventBuy), "sinks see every event")
	assert.Greater(t, result.FinalValue, 1000.0)
	assert.Same(t, result, eng.GetResult())

	bench, err := eng.Benchmark(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BuyAndHold", bench.Strategy)
	assert.Greater(t, bench.Profit, 0.0)
}

func TestBacktestEngine_ExportAndSummary(t *testing.T) {
	dir := t.TempDir()
	writePrices(t, dir, "UP", 10, 11, 12, 13, 14, 15, 16, 17, 18, 19)
	writePrices(t, dir, "FLAT", 50, 50, 50, 50, 50, 50, 50, 50, 50, 50)

	session, err := NewSession(testConfig(dir), nil)
	require.NoError(t, err)
	eng, err := New(session)
	require.NoError(t, err)

	assert.Error(t, eng.ExportResults(filepath.Join(dir, "early.json")), "nothing to export before Run")
	var empty bytes.Buffer
	eng.PrintSummary(&empty)
	assert.Contains(t, empty.String(), "No results available")

	_, err = eng.Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(dir, "result.json")
	require.NoError(t, eng.ExportResults(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var exported struct {
		Summary ResultSummary         `json:"summary"`
		Samples []types.BalanceSample `json:"samples"`
	}
	require.NoError(t, json.Unmarshal(raw, &exported))
	assert.Equal(t, "AbsoluteMomentum", exported.Summary.StrategyName)
	assert.Equal(t, 1000.0, exported.Summary.InitialInvestment)
	assert.Len(t, exported.Samples, 10)

	var buf bytes.Buffer
	eng.PrintSummary(&buf)
	assert.Contains(t, buf.String(), "AbsoluteMomentum")
	assert.Contains(t, buf.String(), "2024-01-02 to 2024-01-12")
}

func TestNewSession_InvalidConfiguration(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Backtest.EndDate = cfg.Backtest.StartDate

	_, err := NewSession(cfg, nil)
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
}

func TestNew_UnknownStrategy(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Strategy.Type = "martingale"
	session, err := NewSession(cfg, nil)
	require.NoError(t, err)

	_, err = New(session)
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
}

func TestSession_LoadMissingData(t *testing.T) {
	session, err := NewSession(testConfig(t.TempDir()), nil)
	require.NoError(t, err)

	err = session.Load(context.Background())
	assert.Error(t, err)
	assert.False(t, session.Loaded())
}

func countKind(kinds []types.EventKind, kind types.EventKind) int {
	n := 0
	for _, k := range kinds {
		if k == kind {
			n++
		}
	}
	return n
}
