package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// rate_limit.requests_per_second must be positive.
	if c.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.requests_per_second must be > 0, got %v", c.RateLimit.RequestsPerSecond))
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.burst must be >= 0, got %d", c.RateLimit.Burst))
	}

	// token.type must be a known value.
	switch c.Token.Type {
	case "session", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("token.type must be \"session\" or \"jwt\", got %q", c.Token.Type))
	}

	// If token.type is "jwt", a signing secret must be available.
	if c.Token.Type == "jwt" {
		if c.Token.JWT.Secret == "" && c.Token.JWT.SecretFile == "" {
			errs = append(errs, fmt.Errorf("token.jwt.secret or token.jwt.secret_file is required when token.type is \"jwt\""))
		}
	}

	// token.ttl must be positive.
	if c.Token.TTL <= 0 {
		errs = append(errs, fmt.Errorf("token.ttl must be > 0, got %v", c.Token.TTL))
	}

	return errors.Join(errs...)
}
