package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

const dataKey = "message"

// RedisSink appends each emitted message to a Redis stream.
type RedisSink struct {
	db     redis.UniversalClient
	stream string
}

func NewRedisSink(db redis.UniversalClient, stream string) *RedisSink {
	return &RedisSink{
		db:     db,
		stream: stream,
	}
}

func (s *RedisSink) Store(ctx context.Context, msg *model.BatchMessage) error {
	payload, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	err = s.db.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			dataKey: payload,
		},
	}).Err()
	return errors.WithMessagef(err, "error appending message %s to stream %s", msg.MessageId, s.stream)
}

func (s *RedisSink) Close() {
	if err := s.db.Close(); err != nil {
		log.WithError(err).Warn("Failed to close redis client")
	}
}

func (s *RedisSink) Check() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.db.Ping(ctx).Err()
}
