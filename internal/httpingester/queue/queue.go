package queue

import (
	"sync"
	"time"

	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

// Outcome is the result of a queue operation.
type Outcome int

const (
	// Success indicates the operation completed and, for pops, a batch was returned.
	Success Outcome = iota
	// Full indicates a push timed out while the queue was at capacity.
	Full
	// Closed indicates the queue has been closed; for pops it additionally means the buffer has been drained.
	Closed
	// Empty indicates a pop found nothing buffered.
	Empty
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Full:
		return "full"
	case Closed:
		return "closed"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// BatchQueue is a bounded FIFO of batches shared between the listener's
// request handlers (producers) and the source generator (the single
// consumer). It is the only synchronization point between the two sides.
type BatchQueue struct {
	buffer    chan *model.Batch
	done      chan struct{}
	closeOnce sync.Once
}

func New(capacity int) *BatchQueue {
	return &BatchQueue{
		buffer: make(chan *model.Batch, capacity),
		done:   make(chan struct{}),
	}
}

// PushWait blocks the calling producer until space is available or timeout
// elapses. A timeout of zero or less makes a single non-blocking attempt.
// A non-Success outcome always returns ownership of the batch to the caller;
// nothing is dropped silently.
func (q *BatchQueue) PushWait(batch *model.Batch, timeout time.Duration) Outcome {
	select {
	case <-q.done:
		return Closed
	default:
	}

	if timeout <= 0 {
		select {
		case <-q.done:
			return Closed
		case q.buffer <- batch:
			return Success
		default:
			return Full
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-q.done:
		return Closed
	case q.buffer <- batch:
		return Success
	case <-timer.C:
		return Full
	}
}

// TryPop never blocks. After Close it keeps yielding buffered batches until
// the queue is drained and only then reports Closed.
func (q *BatchQueue) TryPop() (*model.Batch, Outcome) {
	select {
	case batch := <-q.buffer:
		return batch, Success
	default:
	}

	select {
	case <-q.done:
		// Closed, but batches may have been buffered before the close.
		select {
		case batch := <-q.buffer:
			return batch, Success
		default:
			return nil, Closed
		}
	default:
		return nil, Empty
	}
}

// Close is idempotent. Blocked pushers are woken with Closed and subsequent
// pushes fail immediately; pops continue to drain the buffer.
func (q *BatchQueue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}

func (q *BatchQueue) IsClosed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

func (q *BatchQueue) Len() int {
	return len(q.buffer)
}

func (q *BatchQueue) Capacity() int {
	return cap(q.buffer)
}
