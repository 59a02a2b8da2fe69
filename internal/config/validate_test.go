package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "listen addr without port",
			mutate:  func(c *Config) { c.Console.ListenAddr = "localhost" },
			wantErr: "must be host:port format",
		},
		{
			name:    "relative backend url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "/api" },
			wantErr: "absolute http or https URL",
		},
		{
			name:    "ftp backend url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "ftp://host/api" },
			wantErr: "absolute http or https URL",
		},
		{
			name: "spire without policy",
			mutate: func(c *Config) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
			},
			wantErr: "must set exactly one of",
		},
		{
			name: "spire with both policies",
			mutate: func(c *Config) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
				c.SPIRE.ExpectedServerSPIFFEID = "spiffe://example.org/catalog"
				c.SPIRE.ExpectedServerTrustDomain = "example.org"
			},
			wantErr: "cannot set both",
		},
		{
			name: "spire with bad id",
			mutate: func(c *Config) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
				c.SPIRE.ExpectedServerSPIFFEID = "http://example.org/catalog"
			},
			wantErr: "invalid spire.expected_server_spiffe_id",
		},
		{
			name: "spire with trust domain",
			mutate: func(c *Config) {
				c.SPIRE.WorkloadSocket = "unix:///tmp/agent.sock"
				c.SPIRE.ExpectedServerTrustDomain = "example.org"
			},
		},
		{
			name:    "policy without socket",
			mutate:  func(c *Config) { c.SPIRE.ExpectedServerTrustDomain = "example.org" },
			wantErr: "workload_socket must be set",
		},
		{
			name:    "half a credential pair",
			mutate:  func(c *Config) { c.Auth.Password = "" },
			wantErr: "username and password must both be set",
		},
		{
			name:    "audit with http url",
			mutate:  func(c *Config) { c.Audit.AMQPURL = "http://rabbit:5672" },
			wantErr: "amqp or amqps scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
