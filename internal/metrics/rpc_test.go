package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRPCCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewRPCMetrics(reg)
	require.NoError(t, err)

	m.ObserveRPC("getAccountInfo", time.Now(), nil)
	m.ObserveRPC("getAccountInfo", time.Now(), nil)
	m.ObserveRPC("getAccountInfo", time.Now(), errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("getAccountInfo", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("getAccountInfo", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}

func TestObserveTransaction(t *testing.T) {
	m, err := NewRPCMetrics(nil)
	require.NoError(t, err)

	m.ObserveTransaction(nil)
	m.ObserveTransaction(errors.New("failed"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transactions.WithLabelValues(OutcomeError)))
}

func TestNewRPCMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRPCMetrics(reg)
	require.NoError(t, err)
	second, err := NewRPCMetrics(reg)
	require.NoError(t, err)

	first.ObserveTransaction(nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.transactions.WithLabelValues(OutcomeOK)))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *RPCMetrics
	m.ObserveRPC("getLatestBlockhash", time.Now(), nil)
	m.ObserveTransaction(nil)
}
