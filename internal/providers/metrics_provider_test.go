package providers

import (
	"journald/internal/structures"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	prevReg, prevGath := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prevReg
		prometheus.DefaultGatherer = prevGath
	})
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}

	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObserveSummaryDuration(time.Second)
	m.IncDigestsSent("summary")
	m.IncDigestFailures("Europe/London")
	m.ObservePersistenceDuration(time.Millisecond)
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	useTestRegistry(t)

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_DigestCounters(t *testing.T) {
	useTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	mp, ok := m.(*MetricsProvider)
	require.True(t, ok)

	m.IncDigestsSent("summary")
	m.IncDigestsSent("summary")
	m.IncDigestsSent("no_entries")
	m.IncDigestFailures("America/New_York")

	assert.Equal(t, float64(2), testutil.ToFloat64(mp.digestsSent.WithLabelValues("summary")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mp.digestsSent.WithLabelValues("no_entries")))
	assert.Equal(t, float64(1), testutil.ToFloat64(mp.digestFailures.WithLabelValues("America/New_York")))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{201, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
