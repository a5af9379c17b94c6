package proxy

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOutboundQueueDrainsInOrder(t *testing.T) {
	q := newOutboundQueue()
	go q.drain()

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		i := i
		q.push(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drain did not process all pushed functions in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got, "FIFO order must be preserved across drain batches")
}

func TestOutboundQueueCloseStopsDrain(t *testing.T) {
	q := newOutboundQueue()
	drainDone := make(chan struct{})
	go func() {
		q.drain()
		close(drainDone)
	}()

	q.close()

	select {
	case <-drainDone:
	case <-time.After(time.Second):
		t.Fatal("drain did not return after close")
	}
}

func TestOutboundQueuePushAfterCloseIsNoop(t *testing.T) {
	q := newOutboundQueue()
	q.close()

	called := false
	q.push(func() { called = true })

	// drain should return immediately since done is already set and nothing
	// was queued.
	done := make(chan struct{})
	go func() { q.drain(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drain blocked despite queue already closed with nothing queued")
	}
	assert.False(t, called, "push after close must be dropped, not queued")
}
