package source

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tabstreamproject/tabstream/internal/common/ingest/metrics"
	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
	"github.com/tabstreamproject/tabstream/internal/httpingester/queue"
	"github.com/tabstreamproject/tabstream/internal/httpingester/store"
)

// ListenerStatus reports whether the HTTP listener is still accepting
// requests. Read-only from the consumer's perspective.
type ListenerStatus interface {
	IsRunning() bool
}

// SourceGenerator is the single consumer of the ingestion queue. It drains
// batches one at a time, wraps each into a message envelope and forwards it
// to the sink, tracking the cumulative number of rows emitted against an
// optional stop threshold.
type SourceGenerator struct {
	queue          *queue.BatchQueue
	listener       ListenerStatus
	sink           store.Sink
	sleepTime      time.Duration
	stopAfter      int64
	metrics        *metrics.Metrics
	recordsEmitted int64
}

func New(
	batchQueue *queue.BatchQueue,
	listener ListenerStatus,
	sink store.Sink,
	sleepTime time.Duration,
	stopAfter int64,
	m *metrics.Metrics,
) *SourceGenerator {
	return &SourceGenerator{
		queue:     batchQueue,
		listener:  listener,
		sink:      sink,
		sleepTime: sleepTime,
		stopAfter: stopAfter,
		metrics:   m,
	}
}

// Run consumes until the stop threshold is reached, the queue is closed and
// drained, the listener has stopped and the queue is empty, or ctx is
// cancelled. All of these are normal termination and return nil. Run must be
// called at most once and is the only goroutine that pops from the queue.
func (g *SourceGenerator) Run(ctx context.Context) error {
	var sequenceId int64
	for {
		select {
		case <-ctx.Done():
			log.Info("Source generator cancelled; remaining buffered batches will not be emitted")
			return nil
		default:
		}

		batch, outcome := g.queue.TryPop()
		g.metrics.SetQueueDepth(g.queue.Len())
		switch outcome {
		case queue.Success:
			msg := model.NewBatchMessage(sequenceId, batch)
			sequenceId++
			if err := g.sink.Store(ctx, msg); err != nil {
				if ctx.Err() != nil {
					log.Info("Source generator cancelled; remaining buffered batches will not be emitted")
					return nil
				}
				// One bad batch must not stop ingestion of the rest.
				g.recordEmissionError(err)
				log.WithError(err).Errorf("Error emitting message %s; batch dropped", msg.MessageId)
			} else {
				g.recordsEmitted += batch.NumRows()
				g.metrics.RecordBatchEmitted(batch.NumRows())
			}
			if g.stopAfter > 0 && g.recordsEmitted >= g.stopAfter {
				log.Infof("Completed after emitting %d records", g.recordsEmitted)
				return nil
			}
		case queue.Empty:
			// Only consider stopping while the queue is empty, so that
			// batches enqueued just before the listener stopped are still
			// emitted.
			if !g.listener.IsRunning() {
				if g.queue.Len() == 0 {
					log.Info("Listener has stopped and the queue is drained; source generator terminating")
					return nil
				}
				continue
			}
			if !sleep(ctx, g.sleepTime) {
				log.Info("Source generator cancelled; remaining buffered batches will not be emitted")
				return nil
			}
		case queue.Closed:
			log.Info("Queue closed and drained; source generator terminating")
			return nil
		default:
			return errors.Errorf("unknown queue outcome: %s", outcome)
		}
	}
}

// RecordsEmitted reports the cumulative number of rows forwarded downstream.
func (g *SourceGenerator) RecordsEmitted() int64 {
	return g.recordsEmitted
}

func (g *SourceGenerator) recordEmissionError(err error) {
	if errors.Is(err, store.ErrConversion) {
		g.metrics.RecordEmissionError(metrics.EmissionErrorConversion)
	} else {
		g.metrics.RecordEmissionError(metrics.EmissionErrorStore)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
