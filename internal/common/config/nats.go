package config

import (
	"time"
)

type NatsConfig struct {
	// Seed list of NATS server URLs
	Servers []string `validate:"required"`
	// Subject that messages will be published to
	Subject string `validate:"required"`
	// Timeout for the initial connection
	ConnTimeout time.Duration
}
