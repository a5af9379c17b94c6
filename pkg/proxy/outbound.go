package proxy

import (
	"sync"

	"github.com/gammazero/deque"
)

// outboundQueue decouples the server session's read loop - which parses
// backend traffic and decides what to forward - from the client socket's
// actual write/flush rate (§5 backpressure): a slow client's flush
// blocking on its write deadline stalls only this queue's drain goroutine,
// never the goroutine producing packets for every other connection.
type outboundQueue struct {
	mu   sync.Mutex
	cond *sync.Cond
	dq   deque.Deque[func()]
	done bool
}

func newOutboundQueue() *outboundQueue {
	q := &outboundQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push enqueues fn to run on the drain goroutine, dropping it silently once
// the queue has been closed (the connection is already tearing down).
func (q *outboundQueue) push(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done {
		return
	}
	q.dq.PushBack(fn)
	q.cond.Signal()
}

// close unblocks a waiting drain for good; queued writes after this point
// are dropped by push.
func (q *outboundQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.done = true
	q.cond.Broadcast()
}

// drain runs every queued write in order until close is called, blocking
// between batches instead of busy-polling an empty queue.
func (q *outboundQueue) drain() {
	for {
		q.mu.Lock()
		for q.dq.Len() == 0 && !q.done {
			q.cond.Wait()
		}
		if q.dq.Len() == 0 && q.done {
			q.mu.Unlock()
			return
		}
		batch := make([]func(), 0, q.dq.Len())
		for q.dq.Len() > 0 {
			batch = append(batch, q.dq.PopFront())
		}
		q.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
	}
}
