package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"invalid", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New(Options{Level: "debug", Out: &bytes.Buffer{}}).Level())
	assert.Equal(t, zerolog.InfoLevel, New(Options{Level: "nope", Out: &bytes.Buffer{}}).Level())
}

func TestOnEvent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: "json", Out: &buf})

	log.OnEvent(types.Event{
		Date:   time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Kind:   types.EventBuy,
		Symbol: "AAPL",
		Shares: 5,
		Price:  120,
		Cash:   400,
	})
	log.OnEvent(types.Event{Kind: types.EventNegativeBalance, Cash: -5})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "AAPL", first["symbol"])
	assert.Equal(t, "2024-03-04", first["date"])
	assert.EqualValues(t, 5, first["shares"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "warn", second["level"])
	assert.Equal(t, "negative_balance", second["kind"])
}

func TestDayIsDebugOnly(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Level: "info", Format: "json", Out: &buf}).Day(time.Now(), 1, 2)
	assert.Empty(t, buf.String())

	New(Options{Level: "debug", Format: "json", Out: &buf}).Day(time.Now(), 1, 2)
	assert.Contains(t, buf.String(), `"total":2`)
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Format: "json", Out: &buf}).WithFields(map[string]interface{}{"run": "abc"}).Info("hello")
	assert.Contains(t, buf.String(), `"run":"abc"`)
}
