// Package metrics exposes simulator counters to prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opsxjacky/Momentum-backtest/pkg/types"
)

// Metrics holds the collectors of one process on a private registry.
type Metrics struct {
	Registry *prometheus.Registry
	Events   *prometheus.CounterVec
	Balance  *prometheus.GaugeVec
	Days     *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "momentum_events_total", Help: "Simulator events by kind"},
			[]string{"kind"},
		),
		Balance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "momentum_balance", Help: "Latest simulated total value"},
			[]string{"strategy"},
		),
		Days: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "momentum_days_total", Help: "Simulated days"},
			[]string{"strategy"},
		),
	}
	m.Registry.MustRegister(m.Events, m.Balance, m.Days)
	return m
}

// OnEvent counts a simulator event.
func (m *Metrics) OnEvent(e types.Event) {
	m.Events.WithLabelValues(string(e.Kind)).Inc()
}

// Observe records a finished simulation.
func (m *Metrics) Observe(result *types.SimulationResult) {
	m.Balance.WithLabelValues(result.Strategy).Set(result.FinalValue)
	m.Days.WithLabelValues(result.Strategy).Add(float64(len(result.Samples)))
}

// Handler serves the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve starts a /metrics endpoint in the background.
func (m *Metrics) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
