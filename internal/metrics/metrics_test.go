package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservations(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("/create_account", "200", 5*time.Millisecond)
	m.ObserveUnlock("account", false)
	m.ObserveUnlock("account", false)
	m.ObserveNetworkSwitch("MainNet", true)
	m.ObserveRateLimited()
	m.SetWalletSize(3, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/create_account", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UnlockAttempts.WithLabelValues("account", "fail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NetworkSwitches.WithLabelValues("MainNet", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitHits))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.WalletAccounts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WalletIdentities))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/", "200", time.Millisecond)
		m.ObserveUnlock("identity", true)
		m.ObserveNetworkSwitch("TestNet", false)
		m.ObserveRateLimited()
		m.SetWalletSize(0, 0)
	})
}
