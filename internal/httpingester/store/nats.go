package store

import (
	"context"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	commonconfig "github.com/tabstreamproject/tabstream/internal/common/config"
	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

// NatsSink publishes each emitted message to a NATS subject.
type NatsSink struct {
	conn    *nats.Conn
	subject string
}

func NewNatsSink(config commonconfig.NatsConfig) (*NatsSink, error) {
	var opts []nats.Option
	if config.ConnTimeout > 0 {
		opts = append(opts, nats.Timeout(config.ConnTimeout))
	}
	conn, err := nats.Connect(strings.Join(config.Servers, ","), opts...)
	if err != nil {
		return nil, errors.WithMessage(err, "error connecting to NATS")
	}
	return &NatsSink{
		conn:    conn,
		subject: config.Subject,
	}, nil
}

func (s *NatsSink) Store(ctx context.Context, msg *model.BatchMessage) error {
	payload, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	err = s.conn.Publish(s.subject, payload)
	return errors.WithMessagef(err, "error publishing message %s to subject %s", msg.MessageId, s.subject)
}

func (s *NatsSink) Close() {
	s.conn.Close()
}

func (s *NatsSink) Check() error {
	if !s.conn.IsConnected() {
		return errors.New("not connected to NATS")
	}
	return nil
}
