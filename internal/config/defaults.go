package config

import "time"

const (
	DefaultListenAddr        = ":3000"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultBackendURL        = "http://localhost:8080/api"
	DefaultUsername          = "admin"
	DefaultPassword          = "password"
	DefaultAuditExchange     = "catalog.audit"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields. Backend.Timeout is deliberately left at
// zero: requests are not timed out unless configured.
func ApplyDefaults(cfg *Config) {
	if cfg.Console.ListenAddr == "" {
		cfg.Console.ListenAddr = DefaultListenAddr
	}
	if cfg.Console.ReadHeaderTimeout == 0 {
		cfg.Console.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.Console.ShutdownTimeout == 0 {
		cfg.Console.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBackendURL
	}

	if cfg.Auth.Username == "" && cfg.Auth.Password == "" {
		cfg.Auth.Username = DefaultUsername
		cfg.Auth.Password = DefaultPassword
	}

	if cfg.Audit.Exchange == "" {
		cfg.Audit.Exchange = DefaultAuditExchange
	}
}
