package configuration

import (
	"time"

	commonconfig "github.com/tabstreamproject/tabstream/internal/common/config"
)

type HttpIngesterConfiguration struct {
	// Address the listener binds to
	BindAddress string `validate:"required"`
	// Port the listener binds to
	Port uint16 `validate:"required"`
	// Path that tabular payloads are accepted on
	Endpoint string `validate:"required,startswith=/"`
	// HTTP method accepted on the endpoint
	Method string `validate:"required,oneof=POST PUT"`
	// Status code returned when a payload has been enqueued successfully.
	// Must be a recognised HTTP status code
	AcceptStatus int `validate:"required"`
	// Maximum number of connections served concurrently
	ServerThreads int `validate:"gte=1"`
	// Maximum accepted request body size in bytes
	MaxPayloadSize int64 `validate:"gt=0"`
	// Read/write deadline applied to each request
	RequestTimeout time.Duration `validate:"gt=0"`
	// Maximum number of batches buffered between the listener and the source generator
	MaxQueueSize int `validate:"gte=1"`
	// Time a producer will wait for queue space before being told to back off.
	// Zero makes a single non-blocking attempt
	QueueTimeout time.Duration `validate:"gte=0"`
	// Time the source generator sleeps between polls of an empty queue
	SleepTime time.Duration `validate:"gt=0"`
	// Treat request bodies as line-delimited JSON rather than a single document
	Lines bool
	// Stop ingesting once this many rows have been emitted downstream. Zero means unbounded
	StopAfter int64 `validate:"gte=0"`
	// Port prometheus metrics are served on. Zero disables the metrics server
	MetricsPort uint16
	// Downstream sink configuration
	Sink SinkConfig
}

type SinkConfig struct {
	// One of: stdout, pulsar, redis, postgres, nats
	Type string `validate:"required,oneof=stdout pulsar redis postgres nats"`
	// Pulsar topic messages are published to when type is pulsar
	PulsarTopic string
	Pulsar      commonconfig.PulsarConfig `validate:"-"`
	// Redis stream key messages are appended to when type is redis
	RedisStream string
	Redis       commonconfig.RedisConfig `validate:"-"`
	// Table messages are inserted into when type is postgres
	PostgresTable string
	Postgres      commonconfig.PostgresConfig `validate:"-"`
	Nats          commonconfig.NatsConfig     `validate:"-"`
}
