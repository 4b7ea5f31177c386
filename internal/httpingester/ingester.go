package httpingester

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/tabstreamproject/tabstream/internal/common"
	"github.com/tabstreamproject/tabstream/internal/common/app"
	"github.com/tabstreamproject/tabstream/internal/common/health"
	"github.com/tabstreamproject/tabstream/internal/httpingester/configuration"
	"github.com/tabstreamproject/tabstream/internal/httpingester/metrics"
	"github.com/tabstreamproject/tabstream/internal/httpingester/store"
)

// Run creates a bridge that accepts tabular batches over HTTP and forwards
// them to the configured sink. It runs until a SIGTERM is received, the
// configured stop-after threshold is reached, or the listener fails.
func Run(config *configuration.HttpIngesterConfiguration) {
	log.Info("HTTP ingester starting")

	ctx := app.CreateContextWithShutdown()
	m := metrics.Get()

	if config.MetricsPort > 0 {
		shutdownMetricServer := common.ServeMetrics(config.MetricsPort)
		defer shutdownMetricServer()
	}

	startupChecker := health.NewStartupCompleteChecker()
	healthChecks := health.NewMultiChecker(startupChecker)

	sink, err := createSink(ctx, config)
	if err != nil {
		panic(errors.WithMessage(err, "error creating sink"))
	}
	defer sink.Close()
	if checker, ok := sink.(health.Checker); ok {
		healthChecks.Add(checker)
	}

	bridge := NewBridge(config, sink, healthChecks, m)
	startupChecker.MarkComplete()

	if err := bridge.Run(ctx); err != nil {
		panic(errors.WithMessage(err, "error running ingestion bridge"))
	}
	log.Infof("HTTP ingester stopped after emitting %d records", bridge.RecordsEmitted())
}

func createSink(ctx context.Context, config *configuration.HttpIngesterConfiguration) (store.Sink, error) {
	switch config.Sink.Type {
	case "pulsar":
		return store.NewPulsarSink(&config.Sink.Pulsar, config.Sink.PulsarTopic)
	case "redis":
		db := redis.NewUniversalClient(config.Sink.Redis.AsUniversalOptions())
		return store.NewRedisSink(db, config.Sink.RedisStream), nil
	case "postgres":
		return store.NewPostgresSink(ctx, config.Sink.Postgres, config.Sink.PostgresTable)
	case "nats":
		return store.NewNatsSink(config.Sink.Nats)
	case "stdout":
		return store.NewStdoutSink(), nil
	default:
		return nil, errors.Errorf("unknown sink type: %s", config.Sink.Type)
	}
}
