// Package metrics wraps the Prometheus collectors a scoped-pool.Pool can
// optionally report to, grounded on the RED-style categories the
// teacher's internal/metrics package uses for its job-queue counters,
// adapted to this domain's worker/task/fault vocabulary.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus collectors for one Pool. A nil
// *Collector is valid and records nothing: every method is safe to call
// on a nil receiver, so a Pool built without the WithMetrics option pays
// no instrumentation cost and has no dependency on a registry.
type Collector struct {
	workers        prometheus.Gauge
	tasksSubmitted prometheus.Counter
	tasksCompleted prometheus.Counter
	tasksFaulted   prometheus.Counter
	workerRestarts prometheus.Counter
	taskDuration   prometheus.Histogram
}

// New builds a Collector and registers its collectors with reg. Pass
// prometheus.DefaultRegisterer to use the global registry, as the
// teacher's internal/metrics package does.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scopedpool_workers",
			Help: "Current number of live or shutting-down worker goroutines.",
		}),
		tasksSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scopedpool_tasks_submitted_total",
			Help: "Total tasks submitted to any scope on this pool.",
		}),
		tasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scopedpool_tasks_completed_total",
			Help: "Total tasks that completed without faulting.",
		}),
		tasksFaulted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scopedpool_tasks_faulted_total",
			Help: "Total tasks whose closure panicked.",
		}),
		workerRestarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scopedpool_worker_restarts_total",
			Help: "Total worker goroutines replaced after an unrecovered fault.",
		}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scopedpool_task_duration_seconds",
			Help:    "Task execution time, from dequeue to completion or fault.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.workers,
		c.tasksSubmitted,
		c.tasksCompleted,
		c.tasksFaulted,
		c.workerRestarts,
		c.taskDuration,
	)

	return c
}

// SetWorkers reports the pool's current worker count.
func (c *Collector) SetWorkers(n int) {
	if c == nil {
		return
	}
	c.workers.Set(float64(n))
}

// TaskSubmitted records that a task was handed to a Scope for
// execution, before it has necessarily been picked up by a worker.
func (c *Collector) TaskSubmitted() {
	if c == nil {
		return
	}
	c.tasksSubmitted.Inc()
}

// TaskCompleted records that a task finished without faulting.
func (c *Collector) TaskCompleted() {
	if c == nil {
		return
	}
	c.tasksCompleted.Inc()
}

// TaskFaulted records that a task's closure panicked.
func (c *Collector) TaskFaulted() {
	if c == nil {
		return
	}
	c.tasksFaulted.Inc()
}

// WorkerRestart records that a worker was replaced after an unrecovered
// fault reached the top of its goroutine.
func (c *Collector) WorkerRestart() {
	if c == nil {
		return
	}
	c.workerRestarts.Inc()
}

// ObserveTaskDuration records how long a task ran for, from dequeue to
// completion or fault.
func (c *Collector) ObserveTaskDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.taskDuration.Observe(d.Seconds())
}
