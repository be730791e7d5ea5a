package pool

import "github.com/google/uuid"

// Scope is a handle through which a group of jobs can be submitted to a
// Pool, together with a guarantee that every job submitted through it
// has finished by the time the scheduler function that owns the scope
// returns.
//
// The Rust original this design comes from uses a borrow-lifetime type
// parameter to let the compiler statically reject closures that
// outlive their scope. Go has no borrow checker, so that guarantee is
// made dynamically instead: Scope exposes no method that can return
// before the scope's Join has run to completion, so any closure
// submitted through Execute/Recurse is always fully executed before the
// scheduler call that created the scope returns control to its caller.
// Callers are responsible for not stashing a *Scope anywhere that
// outlives the Scoped/Zoom call that produced it.
type Scope struct {
	id   uuid.UUID
	pool *Pool
	wait *WaitGroup
}

// Forever creates a Scope whose jobs are never automatically joined; it
// backs Pool.Spawn. Holding on to the returned Scope and calling Join on
// it yourself is the supervised alternative to Spawn for long-running
// services that want to observe faults in detached work.
func Forever(p *Pool) *Scope {
	return &Scope{
		id:   uuid.New(),
		pool: p,
		wait: NewWaitGroup(),
	}
}

// ID returns a UUID stamped on this scope at construction time, for log
// correlation only.
func (s *Scope) ID() uuid.UUID {
	return s.id
}

// Execute submits job to be run by some worker in the scope's pool.
// Subsequent calls to Join (including the implicit Join performed by
// Scoped/Zoom) will wait for job to complete before returning.
func (s *Scope) Execute(j func()) {
	s.wait.Submit()
	s.pool.metrics.TaskSubmitted()
	s.pool.queue.Push(taskMessage(j, s.wait))
}

// Recurse is like Execute, but the submitted job itself receives a
// reference to this same Scope, so it can go on to submit further work
// that the outer Join will also wait for. Because the scope's waitgroup
// is shared between the outer call and whatever the recursive job
// submits, an outer Join transitively waits for the whole recursively
// scheduled tree.
func (s *Scope) Recurse(j func(s *Scope)) {
	s.Execute(func() { j(s) })
}

// Zoom opens a nested scope on the same pool and runs scheduler against
// it. On every exit path — normal return or a recovered panic in
// scheduler — Zoom joins the inner scope before returning, so inner jobs
// can never outlive the call to Zoom. If scheduler panics, or any job it
// submitted faulted, Zoom returns a non-nil *Fault after that join has
// completed; a poisoning scheduler panic takes precedence in the
// returned value over a poisoning job fault, but either way the caller
// observes exactly one fault.
func (s *Scope) Zoom(scheduler func(s *Scope) error) (err error) {
	inner := &Scope{
		id:   uuid.New(),
		pool: s.pool,
		wait: NewWaitGroup(),
	}

	defer func() {
		if r := recover(); r != nil {
			schedulerFault := newFault(r)
			// The inner join still happens first: every already
			// submitted job must finish before the scheduler's own
			// fault is allowed to surface.
			_ = inner.wait.Join()
			err = schedulerFault
			return
		}
		if joinErr := inner.wait.Join(); joinErr != nil {
			err = joinErr
		}
	}()

	return scheduler(inner)
}

// Join blocks until every job submitted through Execute/Recurse on this
// scope (logically prior to the call to Join) has completed. If any of
// them faulted, Join returns a non-nil *Fault.
func (s *Scope) Join() error {
	return s.wait.Join()
}
