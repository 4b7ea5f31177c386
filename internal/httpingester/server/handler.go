package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/tabstreamproject/tabstream/internal/common/ingest/metrics"
	"github.com/tabstreamproject/tabstream/internal/httpingester/decode"
	"github.com/tabstreamproject/tabstream/internal/httpingester/queue"
)

// IngestHandler decodes request bodies into batches and enqueues them,
// translating queue outcomes into HTTP response codes. It runs concurrently
// across the listener's workers; the queue is the only shared state.
type IngestHandler struct {
	queue          *queue.BatchQueue
	acceptStatus   int
	queueTimeout   time.Duration
	maxPayloadSize int64
	lines          bool
	metrics        *metrics.Metrics
}

func NewIngestHandler(
	batchQueue *queue.BatchQueue,
	acceptStatus int,
	queueTimeout time.Duration,
	maxPayloadSize int64,
	lines bool,
	m *metrics.Metrics,
) *IngestHandler {
	return &IngestHandler{
		queue:          batchQueue,
		acceptStatus:   acceptStatus,
		queueTimeout:   queueTimeout,
		maxPayloadSize: maxPayloadSize,
		lines:          lines,
		metrics:        m,
	}
}

func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxPayloadSize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		log.WithError(err).Error("Error reading request body")
		respondError(w, http.StatusInternalServerError, "error reading request body")
		return
	}

	batch, err := decode.Decode(body, h.lines)
	if err != nil {
		log.WithError(err).Error("Error occurred converting HTTP payload to rows")
		h.metrics.RecordDecodeError()
		respondError(w, http.StatusBadRequest, "error occurred converting HTTP payload to rows: "+err.Error())
		return
	}

	outcome := h.queue.PushWait(batch, h.queueTimeout)
	switch outcome {
	case queue.Success:
		h.metrics.RecordBatchReceived()
		h.metrics.SetQueueDepth(h.queue.Len())
		w.WriteHeader(h.acceptStatus)
	case queue.Full:
		h.metrics.RecordBatchRejected(metrics.RejectionReasonFull)
		respondError(w, http.StatusServiceUnavailable, "HTTP payload queue is full")
	case queue.Closed:
		h.metrics.RecordBatchRejected(metrics.RejectionReasonClosed)
		respondError(w, http.StatusServiceUnavailable, "HTTP payload queue is closed")
	default:
		log.Errorf("Unknown queue outcome: %s", outcome)
		respondError(w, http.StatusInternalServerError, "HTTP payload queue is in an unknown state")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		log.WithError(err).Error("Error writing response body")
	}
}
