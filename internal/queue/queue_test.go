package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopSingleProducerFIFO(t *testing.T) {
	q := New[int]()

	for i := 0; i < 10; i++ {
		q.Push(i)
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, i, q.Pop())
	}
}

func TestPopBlocksUntilPush(t *testing.T) {
	q := New[string]()

	done := make(chan string)
	go func() {
		done <- q.Pop()
	}()

	select {
	case <-done:
		t.Fatal("Pop returned before any Push")
	case <-time.After(50 * time.Millisecond):
	}

	q.Push("hello")

	select {
	case v := <-done:
		assert.Equal(t, "hello", v)
	case <-time.After(time.Second):
		t.Fatal("Pop did not unblock after Push")
	}
}

func TestConcurrentProducersConsumersDeliverEveryValue(t *testing.T) {
	q := New[int]()
	const producers = 8
	const perProducer = 200
	const total = producers * perProducer

	var produce sync.WaitGroup
	for p := 0; p < producers; p++ {
		produce.Add(1)
		go func(base int) {
			defer produce.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(base*perProducer + i)
			}
		}(p)
	}

	seen := make(chan int, total)
	var consume sync.WaitGroup
	for c := 0; c < producers; c++ {
		consume.Add(1)
		go func() {
			defer consume.Done()
			for i := 0; i < perProducer; i++ {
				seen <- q.Pop()
			}
		}()
	}

	produce.Wait()
	consume.Wait()
	close(seen)

	unique := make(map[int]bool, total)
	for v := range seen {
		unique[v] = true
	}
	require.Len(t, unique, total)
}

func TestSingleProducerValuesAllDeliveredAcrossMultipleConsumers(t *testing.T) {
	q := New[int]()
	const consumers = 4
	const perConsumer = 125
	const n = consumers * perConsumer

	go func() {
		for i := 0; i < n; i++ {
			q.Push(i)
		}
	}()

	var mu sync.Mutex
	results := make([]int, 0, n)
	var wg sync.WaitGroup

	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perConsumer; i++ {
				v := q.Pop()
				mu.Lock()
				results = append(results, v)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, results, n)
	unique := make(map[int]bool, n)
	for _, v := range results {
		unique[v] = true
	}
	require.Len(t, unique, n)
}
