package pool

// taskSentinel guards the execution of a single task. Its job is the one
// the Rust original gives to an RAII guard: call wg.Complete() on the
// normal-exit path, or wg.Poison() on the fault-unwind path — never
// both. Go has no destructors, so the same effect is produced with a
// recover() inside a deferred function: run defers a closure that always
// executes, and it distinguishes the two paths by whether a panic is
// being recovered.
type taskSentinel struct {
	wg *WaitGroup
}

// run executes job under the sentinel's protection. On normal return it
// completes wg. On panic it poisons wg with the captured Fault and then
// re-panics: the unwind is deliberately allowed to continue past this
// point, out of run and up through the worker loop, exactly as the Rust
// original's Sentinel destructor fires and then lets the panic continue
// unwinding into the enclosing thread body. It is the worker loop's own
// recover (via threadSentinel) that finally stops the unwind.
func (s *taskSentinel) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			s.wg.Poison(newFault(r))
			panic(r)
		}
		s.wg.Complete()
	}()

	j()
}

// threadSentinel guards the lifetime of a single worker goroutine. On
// orderly Quit it simply completes the pool-wide waitgroup. On any fault
// that reaches the top of the worker loop — every task fault reaches
// here, since taskSentinel deliberately re-panics after poisoning its
// scope's waitgroup — it first spawns a replacement worker, preserving
// the pool's worker count, and only then poisons the pool-wide
// waitgroup. The ordering is load-bearing: poisoning first would let a
// concurrent Shutdown joiner observe a transient zero before the
// replacement starts.
type threadSentinel struct {
	pool *Pool
}

func (s *threadSentinel) cancel() {
	s.pool.workers.Complete()
	s.pool.metrics.SetWorkers(s.pool.workers.Waiting())
}

func (s *threadSentinel) repair(fault *Fault) {
	s.pool.Expand()
	s.pool.workers.Poison(fault)
	s.pool.metrics.SetWorkers(s.pool.workers.Waiting())
}
