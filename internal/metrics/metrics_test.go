package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

func TestOnEventCountsKinds(t *testing.T) {
	m := New()
	m.OnEvent(types.Event{Kind: types.EventBuy})
	m.OnEvent(types.Event{Kind: types.EventBuy})
	m.OnEvent(types.Event{Kind: types.EventSell})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues("buy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Events.WithLabelValues("sell")))
}

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(&types.SimulationResult{
		Strategy:   "AbsoluteMomentum",
		FinalValue: 1234,
		Samples:    make([]types.BalanceSample, 3),
	})
	assert.Equal(t, 1234.0, testutil.ToFloat64(m.Balance.WithLabelValues("AbsoluteMomentum")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Days.WithLabelValues("AbsoluteMomentum")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.OnEvent(types.Event{Kind: types.EventSkipNoBudget})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `momentum_events_total{kind="skip_no_budget"} 1`)
}
