package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestCollectorRecordsLifecycleEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.SetWorkers(4)
	require.Equal(t, float64(4), gaugeValue(t, c.workers))

	c.TaskSubmitted()
	c.TaskCompleted()
	c.TaskFaulted()
	c.WorkerRestart()
	c.ObserveTaskDuration(10 * time.Millisecond)

	require.Equal(t, float64(1), counterValue(t, c.tasksSubmitted))
	require.Equal(t, float64(1), counterValue(t, c.tasksCompleted))
	require.Equal(t, float64(1), counterValue(t, c.tasksFaulted))
	require.Equal(t, float64(1), counterValue(t, c.workerRestarts))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	require.NotPanics(t, func() {
		c.SetWorkers(1)
		c.TaskSubmitted()
		c.TaskCompleted()
		c.TaskFaulted()
		c.WorkerRestart()
		c.ObserveTaskDuration(time.Millisecond)
	})
}
