package store

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

// StdoutSink writes each emitted message to stdout as a JSON line. Intended
// for development and smoke testing.
type StdoutSink struct{}

func NewStdoutSink() *StdoutSink {
	return &StdoutSink{}
}

func (s *StdoutSink) Store(ctx context.Context, msg *model.BatchMessage) error {
	payload, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(payload, '\n'))
	return errors.WithMessage(err, "error writing message to stdout")
}

func (s *StdoutSink) Close() {}
