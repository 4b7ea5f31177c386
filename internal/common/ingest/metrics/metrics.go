package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type (
	RejectionReason string
	EmissionError   string
)

const (
	RejectionReasonFull     RejectionReason = "full"
	RejectionReasonClosed   RejectionReason = "closed"
	EmissionErrorStore      EmissionError   = "store"
	EmissionErrorConversion EmissionError   = "conversion"
)

const (
	TabstreamHttpIngesterMetricsPrefix = "tabstream_http_ingester_"
)

type Metrics struct {
	batchesReceived prometheus.Counter
	batchesEmitted  prometheus.Counter
	rowsEmitted     prometheus.Counter
	decodeErrors    prometheus.Counter
	rejectedBatches *prometheus.CounterVec
	emissionErrors  *prometheus.CounterVec
	queueDepth      prometheus.Gauge
}

func NewMetrics(prefix string) *Metrics {
	batchesReceivedOpts := prometheus.CounterOpts{
		Name: prefix + "batches_received",
		Help: "Number of batches accepted onto the ingestion queue",
	}
	batchesEmittedOpts := prometheus.CounterOpts{
		Name: prefix + "batches_emitted",
		Help: "Number of batches emitted downstream",
	}
	rowsEmittedOpts := prometheus.CounterOpts{
		Name: prefix + "rows_emitted",
		Help: "Number of rows emitted downstream",
	}
	decodeErrorsOpts := prometheus.CounterOpts{
		Name: prefix + "decode_errors",
		Help: "Number of payloads rejected because they could not be decoded",
	}
	rejectedBatchesOpts := prometheus.CounterOpts{
		Name: prefix + "rejected_batches",
		Help: "Number of batches rejected at the queue grouped by reason",
	}
	emissionErrorsOpts := prometheus.CounterOpts{
		Name: prefix + "emission_errors",
		Help: "Number of batches dropped on emission grouped by error type",
	}
	queueDepthOpts := prometheus.GaugeOpts{
		Name: prefix + "queue_depth",
		Help: "Number of batches currently buffered on the ingestion queue",
	}
	return &Metrics{
		batchesReceived: promauto.NewCounter(batchesReceivedOpts),
		batchesEmitted:  promauto.NewCounter(batchesEmittedOpts),
		rowsEmitted:     promauto.NewCounter(rowsEmittedOpts),
		decodeErrors:    promauto.NewCounter(decodeErrorsOpts),
		rejectedBatches: promauto.NewCounterVec(rejectedBatchesOpts, []string{"reason"}),
		emissionErrors:  promauto.NewCounterVec(emissionErrorsOpts, []string{"error"}),
		queueDepth:      promauto.NewGauge(queueDepthOpts),
	}
}

func (m *Metrics) RecordBatchReceived() {
	m.batchesReceived.Inc()
}

func (m *Metrics) RecordBatchEmitted(numRows int64) {
	m.batchesEmitted.Inc()
	m.rowsEmitted.Add(float64(numRows))
}

func (m *Metrics) RecordDecodeError() {
	m.decodeErrors.Inc()
}

func (m *Metrics) RecordBatchRejected(reason RejectionReason) {
	m.rejectedBatches.With(map[string]string{"reason": string(reason)}).Inc()
}

func (m *Metrics) RecordEmissionError(error EmissionError) {
	m.emissionErrors.With(map[string]string{"error": string(error)}).Inc()
}

func (m *Metrics) SetQueueDepth(depth int) {
	m.queueDepth.Set(float64(depth))
}
