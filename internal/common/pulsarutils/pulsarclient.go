package pulsarutils

import (
	"strings"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/pkg/errors"

	commonconfig "github.com/tabstreamproject/tabstream/internal/common/config"
)

func NewPulsarClient(config *commonconfig.PulsarConfig) (pulsar.Client, error) {
	var authentication pulsar.Authentication

	if config.AuthenticationEnabled {
		if strings.ToLower(config.AuthenticationType) != "jwt" {
			return nil, errors.Errorf(
				"only JWT authentication for Pulsar is supported, got %q", config.AuthenticationType)
		}
		if strings.TrimSpace(config.JwtTokenPath) == "" {
			return nil, errors.New(
				"JWT authentication was configured for Pulsar but no JwtTokenPath was supplied")
		}
		authentication = pulsar.NewAuthenticationTokenFromFile(config.JwtTokenPath)
	}

	return pulsar.NewClient(pulsar.ClientOptions{
		URL:                        config.URL,
		TLSTrustCertsFilePath:      config.TLSTrustCertsFilePath,
		TLSValidateHostname:        config.TLSValidateHostname,
		TLSAllowInsecureConnection: config.TLSAllowInsecureConnection,
		MaxConnectionsPerBroker:    config.MaxConnectionsPerBroker,
		Authentication:             authentication,
	})
}
