package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// applyEnvOverrides overrides config values with environment variables if set
// Returns error for invalid environment variable values to fail fast
func applyEnvOverrides(cfg *Config) error {
	// Console
	if addr := os.Getenv("LIBADMIN_LISTEN_ADDR"); addr != "" {
		cfg.Console.ListenAddr = addr
	}
	if secure := os.Getenv("LIBADMIN_SECURE_COOKIES"); secure != "" {
		b, err := parseBool(secure)
		if err != nil {
			return fmt.Errorf("invalid LIBADMIN_SECURE_COOKIES %q: %w", secure, err)
		}
		cfg.Console.SecureCookies = b
	}

	// Backend
	if url := os.Getenv("LIBADMIN_BACKEND_URL"); url != "" {
		cfg.Backend.BaseURL = url
	}
	if timeout := os.Getenv("LIBADMIN_BACKEND_TIMEOUT"); timeout != "" {
		t, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid LIBADMIN_BACKEND_TIMEOUT %q: %w", timeout, err)
		}
		cfg.Backend.Timeout = t
	}

	// SPIRE
	if socket := os.Getenv("SPIRE_AGENT_SOCKET"); socket != "" {
		cfg.SPIRE.WorkloadSocket = socket
	}
	if id := os.Getenv("LIBADMIN_EXPECTED_SERVER_ID"); id != "" {
		cfg.SPIRE.ExpectedServerSPIFFEID = id
	}
	if td := os.Getenv("LIBADMIN_EXPECTED_TRUST_DOMAIN"); td != "" {
		cfg.SPIRE.ExpectedServerTrustDomain = td
	}

	// Session gate credentials
	if user := os.Getenv("LIBADMIN_USERNAME"); user != "" {
		cfg.Auth.Username = user
	}
	if pass := os.Getenv("LIBADMIN_PASSWORD"); pass != "" {
		cfg.Auth.Password = pass
	}

	// Audit
	if url := os.Getenv("LIBADMIN_AMQP_URL"); url != "" {
		cfg.Audit.AMQPURL = url
	}

	if debug := os.Getenv("LIBADMIN_DEBUG"); debug != "" {
		b, err := parseBool(debug)
		if err != nil {
			return fmt.Errorf("invalid LIBADMIN_DEBUG %q: %w", debug, err)
		}
		cfg.Debug = b
	}

	return nil
}

// parseBool parses boolean environment variables
// Accepts: "true", "1", "yes", "on" for true; "false", "0", "no", "off" for false
func parseBool(value string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}
