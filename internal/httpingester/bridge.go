package httpingester

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/tabstreamproject/tabstream/internal/common/health"
	"github.com/tabstreamproject/tabstream/internal/common/ingest/metrics"
	"github.com/tabstreamproject/tabstream/internal/httpingester/configuration"
	"github.com/tabstreamproject/tabstream/internal/httpingester/queue"
	"github.com/tabstreamproject/tabstream/internal/httpingester/server"
	"github.com/tabstreamproject/tabstream/internal/httpingester/source"
	"github.com/tabstreamproject/tabstream/internal/httpingester/store"
)

// Bridge connects HTTP arrivals to the downstream sink: many short-lived
// request handlers push decoded batches into a bounded queue, and a single
// source generator pulls them out at its own pace. The queue is the only
// state shared between the two sides.
type Bridge struct {
	queue    *queue.BatchQueue
	server   *server.IngestServer
	source   *source.SourceGenerator
	stopOnce sync.Once
}

func NewBridge(
	config *configuration.HttpIngesterConfiguration,
	sink store.Sink,
	checker health.Checker,
	m *metrics.Metrics,
) *Bridge {
	batchQueue := queue.New(config.MaxQueueSize)
	handler := server.NewIngestHandler(
		batchQueue,
		config.AcceptStatus,
		config.QueueTimeout,
		config.MaxPayloadSize,
		config.Lines,
		m)
	ingestServer := server.NewIngestServer(
		config.BindAddress,
		config.Port,
		config.Endpoint,
		config.Method,
		config.ServerThreads,
		config.RequestTimeout,
		handler,
		checker)
	sourceGenerator := source.New(
		batchQueue,
		ingestServer,
		sink,
		config.SleepTime,
		config.StopAfter,
		m)

	return &Bridge{
		queue:  batchQueue,
		server: ingestServer,
		source: sourceGenerator,
	}
}

// Run starts the listener and then consumes on the calling goroutine until
// the source generator terminates. Stop is always attempted, including on
// the error path.
func (b *Bridge) Run(ctx context.Context) error {
	defer b.Stop()
	if err := b.server.Start(); err != nil {
		return errors.WithMessage(err, "error starting ingest server")
	}
	return b.source.Run(ctx)
}

// Stop is idempotent and safe to call from error paths. The listener is
// stopped before the queue is closed so that no new pushes race the close;
// the source generator then drains whatever remains buffered.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		b.server.Stop()
		b.queue.Close()
	})
}

// Addr reports the address the listener is bound to once started.
func (b *Bridge) Addr() string {
	return b.server.Addr()
}

// RecordsEmitted reports the cumulative number of rows emitted downstream.
func (b *Bridge) RecordsEmitted() int64 {
	return b.source.RecordsEmitted()
}
