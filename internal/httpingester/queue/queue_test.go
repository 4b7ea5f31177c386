package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

func TestPushWait_Success(t *testing.T) {
	q := New(2)
	assert.Equal(t, Success, q.PushWait(testBatch(), 0))
	assert.Equal(t, 1, q.Len())
}

func TestPushWait_FullWhenAtCapacity(t *testing.T) {
	q := New(2)
	assert.Equal(t, Success, q.PushWait(testBatch(), 0))
	assert.Equal(t, Success, q.PushWait(testBatch(), 0))
	assert.Equal(t, Full, q.PushWait(testBatch(), 0))
	assert.Equal(t, 2, q.Len())
}

func TestPushWait_TimesOutWhenAtCapacity(t *testing.T) {
	q := New(1)
	require.Equal(t, Success, q.PushWait(testBatch(), 0))

	start := time.Now()
	outcome := q.PushWait(testBatch(), 50*time.Millisecond)
	assert.Equal(t, Full, outcome)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestPushWait_UnblocksWhenSpaceBecomesAvailable(t *testing.T) {
	q := New(1)
	require.Equal(t, Success, q.PushWait(testBatch(), 0))

	outcomes := make(chan Outcome)
	go func() {
		outcomes <- q.PushWait(testBatch(), 5*time.Second)
	}()

	time.Sleep(50 * time.Millisecond)
	_, popOutcome := q.TryPop()
	require.Equal(t, Success, popOutcome)

	select {
	case outcome := <-outcomes:
		assert.Equal(t, Success, outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("blocked pusher was not woken by the pop")
	}
}

func TestPushWait_ClosedAfterClose(t *testing.T) {
	q := New(2)
	q.Close()
	assert.Equal(t, Closed, q.PushWait(testBatch(), 0))
	assert.Equal(t, Closed, q.PushWait(testBatch(), time.Second))
	assert.Equal(t, 0, q.Len())
}

func TestClose_WakesBlockedPushers(t *testing.T) {
	q := New(1)
	require.Equal(t, Success, q.PushWait(testBatch(), 0))

	outcomes := make(chan Outcome)
	for i := 0; i < 3; i++ {
		go func() {
			outcomes <- q.PushWait(testBatch(), time.Minute)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	q.Close()

	for i := 0; i < 3; i++ {
		select {
		case outcome := <-outcomes:
			assert.Equal(t, Closed, outcome)
		case <-time.After(5 * time.Second):
			t.Fatal("blocked pusher was not woken by the close")
		}
	}
}

func TestTryPop_Empty(t *testing.T) {
	q := New(2)
	batch, outcome := q.TryPop()
	assert.Nil(t, batch)
	assert.Equal(t, Empty, outcome)
}

func TestTryPop_Fifo(t *testing.T) {
	q := New(3)
	first := testBatch()
	second := testBatch()
	require.Equal(t, Success, q.PushWait(first, 0))
	require.Equal(t, Success, q.PushWait(second, 0))

	batch, outcome := q.TryPop()
	assert.Equal(t, Success, outcome)
	assert.Same(t, first, batch)

	batch, outcome = q.TryPop()
	assert.Equal(t, Success, outcome)
	assert.Same(t, second, batch)
}

func TestTryPop_DrainsBufferedBatchesAfterClose(t *testing.T) {
	q := New(3)
	require.Equal(t, Success, q.PushWait(testBatch(), 0))
	require.Equal(t, Success, q.PushWait(testBatch(), 0))
	q.Close()

	for i := 0; i < 2; i++ {
		batch, outcome := q.TryPop()
		assert.Equal(t, Success, outcome)
		assert.NotNil(t, batch)
	}

	batch, outcome := q.TryPop()
	assert.Nil(t, batch)
	assert.Equal(t, Closed, outcome)
}

func TestClose_Idempotent(t *testing.T) {
	q := New(2)
	require.Equal(t, Success, q.PushWait(testBatch(), 0))
	q.Close()
	q.Close()
	assert.True(t, q.IsClosed())

	// Still drains after the second close.
	batch, outcome := q.TryPop()
	assert.Equal(t, Success, outcome)
	assert.NotNil(t, batch)
	_, outcome = q.TryPop()
	assert.Equal(t, Closed, outcome)
}

// Every successful push must eventually be observed by a pop, and the queue
// must never buffer more than its capacity.
func TestConcurrentPushPop_NoBatchLost(t *testing.T) {
	const (
		producers          = 10
		batchesPerProducer = 50
		capacity           = 4
	)
	q := New(capacity)

	var pushed int64
	var pushedMutex sync.Mutex
	wg := sync.WaitGroup{}
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < batchesPerProducer; j++ {
				if q.PushWait(testBatch(), 5*time.Second) == Success {
					pushedMutex.Lock()
					pushed++
					pushedMutex.Unlock()
				}
			}
		}()
	}

	var popped int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			batch, outcome := q.TryPop()
			assert.LessOrEqual(t, q.Len(), capacity)
			switch outcome {
			case Success:
				assert.NotNil(t, batch)
				popped++
			case Empty:
				time.Sleep(time.Millisecond)
			case Closed:
				return
			}
		}
	}()

	wg.Wait()
	q.Close()
	<-done

	assert.Equal(t, int64(producers*batchesPerProducer), pushed)
	assert.Equal(t, pushed, popped)
}

func testBatch() *model.Batch {
	return model.NewBatch([]model.Row{{"col": "value"}})
}
