package pool

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitGroupSubmitCompleteNoJoiner(t *testing.T) {
	wg := NewWaitGroup()
	wg.Submit()
	wg.Complete()
	assert.Equal(t, 0, wg.Waiting())
}

func TestWaitGroupJoinImmediateWhenEmpty(t *testing.T) {
	wg := NewWaitGroup()
	require.NoError(t, wg.Join())
}

func TestWaitGroupJoinSurfacesPoison(t *testing.T) {
	wg := NewWaitGroup()
	wg.Submit()
	wg.Poison(errors.New("boom"))

	err := wg.Join()
	require.Error(t, err)

	var fault *Fault
	require.ErrorAs(t, err, &fault)
}

func TestWaitGroupJoinWaitsForAllSubmissions(t *testing.T) {
	wg := NewWaitGroup()
	const n = 20

	for i := 0; i < n; i++ {
		wg.Submit()
	}

	done := make(chan struct{})
	go func() {
		wg.Join()
		close(done)
	}()

	var completed sync.WaitGroup
	for i := 0; i < n; i++ {
		completed.Add(1)
		go func() {
			defer completed.Done()
			time.Sleep(time.Millisecond)
			wg.Complete()
		}()
	}
	completed.Wait()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Join did not return after all submissions completed")
	}
}

func TestWaitGroupPoisonRecordsFirstCauseOnly(t *testing.T) {
	wg := NewWaitGroup()
	wg.Submit()
	wg.Submit()

	wg.Poison(errors.New("first"))
	wg.Poison(errors.New("second"))

	err := wg.Join()
	require.Error(t, err)

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "first", fault.Unwrap().Error())
}

func TestWaitGroupConservation(t *testing.T) {
	wg := NewWaitGroup()

	for i := 0; i < 5; i++ {
		wg.Submit()
	}
	assert.Equal(t, 5, wg.Waiting())

	wg.Complete()
	wg.Complete()
	assert.Equal(t, 3, wg.Waiting())

	wg.Poison(errors.New("x"))
	assert.Equal(t, 2, wg.Waiting())
}
