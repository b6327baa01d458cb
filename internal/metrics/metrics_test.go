package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/interception-tools/core/internal/metrics"
)

func TestCollectorsRecordValues(t *testing.T) {
	c := metrics.New()

	c.EventsForwarded.WithLabelValues("a").Inc()
	c.EventsForwarded.WithLabelValues("a").Inc()
	require.Equal(t, float64(2), testutil.ToFloat64(c.EventsForwarded.WithLabelValues("a")))

	c.QueueDepth.WithLabelValues("a").Set(3)
	require.Equal(t, float64(3), testutil.ToFloat64(c.QueueDepth.WithLabelValues("a")))

	c.BackpressureDrop.WithLabelValues("b").Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(c.BackpressureDrop.WithLabelValues("b")))

	c.JobsSpawned.Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(c.JobsSpawned))

	c.JobsReaped.Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(c.JobsReaped))

	c.DevicesMatched.Inc()
	require.Equal(t, float64(1), testutil.ToFloat64(c.DevicesMatched))
}
