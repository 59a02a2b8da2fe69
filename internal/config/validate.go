package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spiffe/go-spiffe/v2/spiffeid"
)

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Console.Validate(); err != nil {
		return fmt.Errorf("%w: console: %w", ErrInvalidConfig, err)
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("%w: backend: %w", ErrInvalidConfig, err)
	}
	if err := c.SPIRE.Validate(); err != nil {
		return fmt.Errorf("%w: spire: %w", ErrInvalidConfig, err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("%w: auth: %w", ErrInvalidConfig, err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("%w: audit: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the console listener settings.
func (s ConsoleSection) Validate() error {
	if strings.TrimSpace(s.ListenAddr) == "" {
		return errors.New("listen_addr must be set")
	}
	if _, _, err := net.SplitHostPort(s.ListenAddr); err != nil {
		return fmt.Errorf("listen_addr %q must be host:port format: %w", s.ListenAddr, err)
	}
	if s.ReadHeaderTimeout < 0 {
		return errors.New("read_header_timeout must not be negative")
	}
	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown_timeout must not be negative")
	}
	return nil
}

// Validate checks the backend URL and timeout.
func (s BackendSection) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", s.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url %q must be an absolute http or https URL", s.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base_url %q has no host", s.BaseURL)
	}
	if s.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// Validate checks the mTLS settings.
//
// Ensures:
//   - Nothing is set, or WorkloadSocket is set together with exactly one of
//     ExpectedServerSPIFFEID / ExpectedServerTrustDomain
//   - SPIFFE ID / trust domain strings are syntactically valid (using SDK validation)
func (s SPIRESection) Validate() error {
	hasServerID := s.ExpectedServerSPIFFEID != ""
	hasTrustDomain := s.ExpectedServerTrustDomain != ""

	if !s.Enabled() {
		if hasServerID || hasTrustDomain {
			return errors.New("workload_socket must be set when a server verification policy is configured")
		}
		return nil
	}

	if !hasServerID && !hasTrustDomain {
		return errors.New("must set exactly one of spire.expected_server_spiffe_id or spire.expected_server_trust_domain")
	}
	if hasServerID && hasTrustDomain {
		return errors.New("cannot set both spire.expected_server_spiffe_id and spire.expected_server_trust_domain")
	}

	if hasServerID {
		if _, err := spiffeid.FromString(s.ExpectedServerSPIFFEID); err != nil {
			return fmt.Errorf("invalid spire.expected_server_spiffe_id %q: %w", s.ExpectedServerSPIFFEID, err)
		}
	}
	if hasTrustDomain {
		if _, err := spiffeid.TrustDomainFromString(s.ExpectedServerTrustDomain); err != nil {
			return fmt.Errorf("invalid spire.expected_server_trust_domain %q: %w", s.ExpectedServerTrustDomain, err)
		}
	}
	return nil
}

// Validate requires a complete credential pair.
func (s AuthSection) Validate() error {
	if s.Username == "" || s.Password == "" {
		return errors.New("username and password must both be set")
	}
	return nil
}

// Validate checks the audit publisher URL when one is set.
func (s AuditSection) Validate() error {
	if !s.Enabled() {
		return nil
	}
	u, err := url.Parse(s.AMQPURL)
	if err != nil {
		return fmt.Errorf("invalid amqp_url: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("amqp_url must use the amqp or amqps scheme, got %q", u.Scheme)
	}
	if s.Exchange == "" {
		return errors.New("exchange must be set")
	}
	return nil
}
