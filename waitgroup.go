package pool

import "sync"

// WaitGroup is a synchronization primitive for awaiting a set of actions
// that can individually succeed or poison the whole group.
//
// It behaves like sync.WaitGroup for the submit/complete pair, but adds a
// sticky poisoned flag: once any outstanding submission poisons the group
// instead of completing normally, the next join to observe pending reach
// zero reports a fault to its caller rather than returning normally.
// Poisoning is deferred until the count drains so that one faulting task
// never releases joiners while sibling tasks are still running.
//
// The zero value is not usable; construct one with NewWaitGroup.
type WaitGroup struct {
	mu       sync.Mutex
	cond     sync.Cond
	pending  int
	poisoned bool
	fault    error
}

// NewWaitGroup returns an empty, unpoisoned WaitGroup.
func NewWaitGroup() *WaitGroup {
	wg := &WaitGroup{}
	wg.cond.L = &wg.mu
	return wg
}

// Submit records one additional outstanding action. Join will not return
// until a matching Complete or Poison has been observed.
func (wg *WaitGroup) Submit() {
	wg.mu.Lock()
	wg.pending++
	wg.mu.Unlock()
}

// Complete records the successful completion of one previously submitted
// action. If this was the last outstanding action, blocked joiners are
// woken.
func (wg *WaitGroup) Complete() {
	wg.mu.Lock()
	wg.pending--
	if wg.pending == 0 {
		wg.cond.Broadcast()
	}
	wg.mu.Unlock()
}

// Poison records the faulting completion of one previously submitted
// action and marks the group poisoned. The poisoned flag is sticky: once
// set it is never cleared, and cause is recorded only the first time
// Poison is called (the fault that surfaces to a joiner is always the
// first one observed, not the last). As with Complete, if this was the
// last outstanding action, blocked joiners are woken.
//
// cause may be nil, in which case Join reports a generic Fault.
func (wg *WaitGroup) Poison(cause error) {
	wg.mu.Lock()
	if !wg.poisoned {
		wg.poisoned = true
		wg.fault = cause
	}
	wg.pending--
	if wg.pending == 0 {
		wg.cond.Broadcast()
	}
	wg.mu.Unlock()
}

// Join blocks until every submitted action has been completed or
// poisoned. If the group is poisoned at that point, Join returns a
// non-nil *Fault (wrapping the cause passed to the first Poison call,
// if any); otherwise it returns nil.
//
// Join only waits for submissions that happened-before the call; a
// Submit racing a Join that has already observed pending == 0 is not
// waited on by that Join call.
func (wg *WaitGroup) Join() error {
	wg.mu.Lock()
	for wg.pending > 0 {
		wg.cond.Wait()
	}
	poisoned := wg.poisoned
	cause := wg.fault
	wg.mu.Unlock()

	if !poisoned {
		return nil
	}
	if f, ok := cause.(*Fault); ok {
		return f
	}
	return &Fault{message: "waitgroup poisoned by a faulting submission", cause: cause}
}

// Waiting returns a snapshot of the number of outstanding submissions.
func (wg *WaitGroup) Waiting() int {
	wg.mu.Lock()
	defer wg.mu.Unlock()
	return wg.pending
}
