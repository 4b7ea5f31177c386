package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

// ErrConversion indicates a message could not be converted to its wire form.
// The source generator drops such messages rather than terminating.
var ErrConversion = errors.New("message conversion failed")

// Sink should be implemented by the struct responsible for putting emitted
// messages in their final resting place, e.g. a message broker or a database.
// Store may be called from exactly one goroutine at a time.
type Sink interface {
	Store(ctx context.Context, msg *model.BatchMessage) error
	Close()
}

type wireMessage struct {
	SequenceId int64       `json:"sequenceId"`
	MessageId  string      `json:"messageId"`
	IngestTime time.Time   `json:"ingestTime"`
	Rows       []model.Row `json:"rows"`
}

func encodeMessage(msg *model.BatchMessage) ([]byte, error) {
	payload, err := json.Marshal(wireMessage{
		SequenceId: msg.SequenceId,
		MessageId:  msg.MessageId,
		IngestTime: msg.IngestTime,
		Rows:       msg.Batch.Rows,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrConversion, "marshalling message %s: %v", msg.MessageId, err)
	}
	return payload, nil
}

// ChannelSink forwards messages to an in-process channel. It is the sink used
// when the bridge is embedded in a larger pipeline and in tests.
type ChannelSink struct {
	out chan *model.BatchMessage
}

func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{
		out: make(chan *model.BatchMessage, bufferSize),
	}
}

// C is the channel emitted messages can be consumed from. It is closed when
// the sink is closed.
func (s *ChannelSink) C() <-chan *model.BatchMessage {
	return s.out
}

func (s *ChannelSink) Store(ctx context.Context, msg *model.BatchMessage) error {
	select {
	case s.out <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChannelSink) Close() {
	close(s.out)
}
