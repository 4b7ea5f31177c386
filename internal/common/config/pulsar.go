package config

import (
	"time"
)

type PulsarConfig struct {
	// Pulsar service URL, e.g. pulsar://localhost:6650
	URL string `validate:"required"`
	// Path to the trusted TLS certificate file (must exist)
	TLSTrustCertsFilePath string
	// Whether Pulsar client accept untrusted TLS certificate from broker
	TLSAllowInsecureConnection bool
	// Whether the Pulsar client verify the validity of the host name from broker
	TLSValidateHostname bool
	// Max number of connections to a single broker that will be kept in the pool
	MaxConnectionsPerBroker int
	// Whether Pulsar authentication is enabled
	AuthenticationEnabled bool
	// Authentication type. Only "JWT" is supported
	AuthenticationType string
	// Path to the JWT token file
	JwtTokenPath string
	// Maximum time to wait for a message to be acknowledged by the broker
	SendTimeout time.Duration
}
