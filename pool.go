// Package pool implements a scoped thread pool: a reusable set of worker
// goroutines that runs both long-lived detached jobs (Spawn) and
// short-lived jobs whose closures may borrow data from a caller's stack
// frame (Scope.Execute, inside Scoped/Zoom). When a call to Scoped or
// Zoom returns, every job submitted through its Scope has finished, so
// any borrowed data is once again unreferenced by the pool.
//
// A panic inside a job or inside a scheduler function passed to
// Scoped/Zoom is captured and surfaced to the caller that opened the
// scope as a *Fault, rather than crashing the process. A job's panic
// also unwinds the worker goroutine that was running it; the worker is
// replaced before the fault is allowed to shrink the pool's worker
// count, so a faulting job never costs the pool a slot.
//
// Go has no destructors, so cleanup that must have happened by the time
// Scoped or Zoom returns belongs inside the job closure itself (for
// example in a defer within the job). A job's own deferred calls run
// before the job is recorded as completed or faulted, so they have all
// run before the enclosing Scoped/Zoom call returns, even when sibling
// jobs panic.
package pool

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ChuLiYu/scoped-pool/internal/queue"
	"github.com/ChuLiYu/scoped-pool/metrics"
)

var log = slog.Default()

// Pool is a shareable handle to a set of worker goroutines and the task
// queue they share. Pool values are cheap to copy: copying a Pool does
// not duplicate the underlying workers or queue, and does not affect
// their lifecycle. A Pool is not destroyed when its last handle goes out
// of scope; it is destroyed only by an explicit call to Shutdown.
type Pool struct {
	id      uuid.UUID
	queue   *queue.Queue[message]
	workers *WaitGroup
	metrics *metrics.Collector
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithMetrics attaches a metrics.Collector that the pool and its workers
// report to. Without this option a Pool records no metrics at all; the
// core synchronization protocol never depends on metrics being present.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pool) { p.metrics = c }
}

// New constructs a Pool and grows it by size workers. If size is zero,
// no workers are spawned; use Expand to add them later.
func New(size int, opts ...Option) *Pool {
	p := Empty(opts...)
	for i := 0; i < size; i++ {
		p.Expand()
	}
	return p
}

// Empty constructs a Pool with zero workers and an empty task queue.
func Empty(opts ...Option) *Pool {
	p := &Pool{
		id:      uuid.New(),
		queue:   queue.New[message](),
		workers: NewWaitGroup(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns a UUID stamped on this pool at construction time, for log
// correlation only; it plays no part in the synchronization protocol.
func (p *Pool) ID() uuid.UUID {
	return p.id
}

// Workers returns the number of workers currently live or in the
// process of shutting down. Every worker goroutine is counted from the
// moment it is registered (before it starts) until it has fully exited,
// so Workers never transiently under-counts during a self-repair
// restart or an in-flight Shutdown.
func (p *Pool) Workers() int {
	return p.workers.Waiting()
}

// Spawn submits a detached job with an unbounded lifetime; it does not
// wait for the job to complete. Spawn is equivalent to
// Forever(p).Execute(j). A fault in a spawned job is contained
// by the pool's self-repair (the worker is replaced); since nothing ever
// joins the anonymous scope Spawn creates, the fault itself has no
// observer. Long-running services that need to observe faults in
// detached work should use a supervised Scope instead.
func (p *Pool) Spawn(j func()) {
	Forever(p).Execute(j)
}

// Scoped runs scheduler on a fresh bounded Scope and returns its result.
// Scoped does not return to its caller until every job submitted through
// the scope (including ones submitted by jobs submitted through it, via
// Recurse) has finished. If the scheduler itself panics, or any job it
// submitted panicked, Scoped returns a non-nil *Fault — after first
// waiting for every other submitted job to finish.
func (p *Pool) Scoped(scheduler func(s *Scope) error) error {
	return Forever(p).Zoom(scheduler)
}

// Shutdown pushes a single quit message and waits for the pool-wide
// worker count to drain to zero. Workers started before this call is
// made are guaranteed to have exited by the time Shutdown returns;
// workers started concurrently with Shutdown may or may not have
// exited.
//
// Calling Shutdown concurrently with an in-flight Scoped/Zoom call is
// undefined and may deadlock: workers can exit while the scope still has
// tasks outstanding, and those tasks will then never run to release
// their scope's waitgroup.
func (p *Pool) Shutdown() {
	p.queue.Push(quitMessage())
	if err := p.workers.Join(); err != nil {
		// Workers complete the pool-wide waitgroup on orderly Quit, but
		// every task fault reaches threadSentinel.repair, which poisons
		// it, and the poison is sticky. So any pool that has had a task
		// fault during its lifetime reports an error here. Shutdown has
		// no return value; it logs the error and returns.
		log.Error("pool: worker fault recorded before shutdown", "pool_id", p.id, "error", err)
	}
}

// Expand grows the pool by one worker. It can be used to accelerate
// in-flight work, or to replace a worker whose goroutine has unwound
// from a fault.
func (p *Pool) Expand() {
	p.workers.Submit()
	p.metrics.SetWorkers(p.workers.Waiting())
	go p.runWorker()
}

// runWorker is the body of one worker goroutine: it registers with the
// pool-wide waitgroup (the caller already called Submit before spawning
// this goroutine), then loops popping messages until it sees Quit or its
// own loop unwinds from an unexpected fault.
func (p *Pool) runWorker() {
	sentinel := &threadSentinel{pool: p}
	var start time.Time

	defer func() {
		if r := recover(); r != nil {
			fault := newFault(r)
			log.Error("pool: worker loop faulted, restarting", "pool_id", p.id, "error", fault)
			p.metrics.ObserveTaskDuration(time.Since(start))
			p.metrics.TaskFaulted()
			p.metrics.WorkerRestart()
			sentinel.repair(fault)
			return
		}
	}()

	for {
		msg := p.queue.Pop()

		if msg.quit {
			// Re-push Quit so the next worker to pop a message also
			// sees it; this cascades the shutdown signal through every
			// worker without the pool needing to know how many there
			// are.
			p.queue.Push(quitMessage())
			sentinel.cancel()
			return
		}

		ts := &taskSentinel{wg: msg.wait}
		start = time.Now()
		ts.run(msg.task)
		p.metrics.ObserveTaskDuration(time.Since(start))
		p.metrics.TaskCompleted()
	}
}
