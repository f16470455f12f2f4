// Package metrics provides the Prometheus collectors of the manager.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// RequestsTotal counts handled requests by route and status code.
	RequestsTotal *prometheus.CounterVec

	RequestDuration *prometheus.HistogramVec

	// UnlockAttempts counts password checks by kind (account, identity) and result.
	UnlockAttempts *prometheus.CounterVec

	// NetworkSwitches counts change_net calls by requested network and result.
	NetworkSwitches *prometheus.CounterVec

	RateLimitHits prometheus.Counter

	WalletAccounts   prometheus.Gauge
	WalletIdentities prometheus.Gauge
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caviar_http_requests_total",
				Help: "Handled HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "caviar_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		UnlockAttempts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caviar_unlock_attempts_total",
				Help: "Password checks by kind and result",
			},
			[]string{"kind", "result"}, // account|identity, ok|fail
		),
		NetworkSwitches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "caviar_network_switches_total",
				Help: "Network switch requests by network and result",
			},
			[]string{"network", "result"},
		),
		RateLimitHits: f.NewCounter(
			prometheus.CounterOpts{
				Name: "caviar_rate_limit_hits_total",
				Help: "Requests rejected by the password route limiter",
			},
		),
		WalletAccounts: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "caviar_wallet_accounts",
				Help: "Accounts stored in the wallet file",
			},
		),
		WalletIdentities: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "caviar_wallet_identities",
				Help: "Identities stored in the wallet file",
			},
		),
	}
}

func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObserveUnlock(kind string, ok bool) {
	if m == nil {
		return
	}
	m.UnlockAttempts.WithLabelValues(kind, result(ok)).Inc()
}

func (m *Metrics) ObserveNetworkSwitch(network string, ok bool) {
	if m == nil {
		return
	}
	m.NetworkSwitches.WithLabelValues(network, result(ok)).Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitHits.Inc()
}

// SetWalletSize updates the wallet gauges.
func (m *Metrics) SetWalletSize(accounts, identities int) {
	if m == nil {
		return
	}
	m.WalletAccounts.Set(float64(accounts))
	m.WalletIdentities.Set(float64(identities))
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}
