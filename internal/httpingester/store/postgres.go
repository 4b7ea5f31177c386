package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	commonconfig "github.com/tabstreamproject/tabstream/internal/common/config"
	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

// PostgresSink inserts each emitted message as a row holding the batch
// payload as jsonb.
type PostgresSink struct {
	pool      *pgxpool.Pool
	insertSql string
}

func NewPostgresSink(ctx context.Context, config commonconfig.PostgresConfig, table string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, config.ConnectionString())
	if err != nil {
		return nil, errors.WithMessage(err, "error creating postgres connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.WithMessage(err, "error connecting to postgres")
	}
	return &PostgresSink{
		pool: pool,
		insertSql: fmt.Sprintf(
			"INSERT INTO %s (message_id, sequence_id, ingest_time, num_rows, payload) VALUES ($1, $2, $3, $4, $5)",
			table),
	}, nil
}

func (s *PostgresSink) Store(ctx context.Context, msg *model.BatchMessage) error {
	payload, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, s.insertSql,
		msg.MessageId, msg.SequenceId, msg.IngestTime, msg.Batch.NumRows(), payload)
	return errors.WithMessagef(err, "error inserting message %s", msg.MessageId)
}

func (s *PostgresSink) Close() {
	s.pool.Close()
}

func (s *PostgresSink) Check() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
