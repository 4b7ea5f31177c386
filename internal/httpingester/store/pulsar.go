package store

import (
	"context"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	commonconfig "github.com/tabstreamproject/tabstream/internal/common/config"
	"github.com/tabstreamproject/tabstream/internal/common/pulsarutils"
	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

// PulsarSink publishes each emitted message to a Pulsar topic.
type PulsarSink struct {
	client   pulsar.Client
	producer pulsar.Producer
}

func NewPulsarSink(config *commonconfig.PulsarConfig, topic string) (*PulsarSink, error) {
	client, err := pulsarutils.NewPulsarClient(config)
	if err != nil {
		return nil, errors.WithMessage(err, "error creating pulsar client")
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic:       topic,
		SendTimeout: config.SendTimeout,
	})
	if err != nil {
		client.Close()
		return nil, errors.WithMessagef(err, "error creating pulsar producer for topic %s", topic)
	}

	return &PulsarSink{
		client:   client,
		producer: producer,
	}, nil
}

func (s *PulsarSink) Store(ctx context.Context, msg *model.BatchMessage) error {
	payload, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	_, err = s.producer.Send(ctx, &pulsar.ProducerMessage{
		Payload: payload,
		Key:     msg.MessageId,
	})
	return errors.WithMessagef(err, "error publishing message %s", msg.MessageId)
}

func (s *PulsarSink) Close() {
	if err := s.producer.Flush(); err != nil {
		log.WithError(err).Warn("Failed to flush pulsar producer")
	}
	s.producer.Close()
	s.client.Close()
}
