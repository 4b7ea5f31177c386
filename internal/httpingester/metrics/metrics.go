package metrics

import (
	"github.com/tabstreamproject/tabstream/internal/common/ingest/metrics"
)

var m = metrics.NewMetrics(metrics.TabstreamHttpIngesterMetricsPrefix)

func Get() *metrics.Metrics {
	return m
}
