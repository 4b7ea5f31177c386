package configuration

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

func (c HttpIngesterConfiguration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	// Not expressible as a struct tag: the accept status must be one the
	// http package recognises, matching the behaviour on the wire.
	if http.StatusText(c.AcceptStatus) == "" {
		return errors.Errorf("invalid HTTP status code: %d", c.AcceptStatus)
	}
	return c.Sink.validate()
}

func (c SinkConfig) validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	switch c.Type {
	case "pulsar":
		if c.PulsarTopic == "" {
			return errors.New("sink.pulsarTopic is required for the pulsar sink")
		}
		return validate.Struct(c.Pulsar)
	case "redis":
		if c.RedisStream == "" {
			return errors.New("sink.redisStream is required for the redis sink")
		}
		return validate.Struct(c.Redis)
	case "postgres":
		if c.PostgresTable == "" {
			return errors.New("sink.postgresTable is required for the postgres sink")
		}
		return validate.Struct(c.Postgres)
	case "nats":
		return validate.Struct(c.Nats)
	}
	return nil
}
