package config

import (
	"context"
	"errors"
	"log/slog"
)

// SecretFetcher retrieves a named secret bundle as a flat string mapping.
type SecretFetcher interface {
	Fetch(ctx context.Context, secretName string) (map[string]string, error)
}

// Resolver produces the process configuration, preferring the remote secret
// store and falling back to the local environment.
type Resolver struct {
	bootstrap Bootstrap
	fetcher   SecretFetcher
	logger    *slog.Logger
}

// NewResolver creates a Resolver. fetcher may be nil, in which case Resolve
// always reads the environment.
func NewResolver(bootstrap Bootstrap, fetcher SecretFetcher, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Resolver{
		bootstrap: bootstrap,
		fetcher:   fetcher,
		logger:    logger,
	}, nil
}

// Resolve returns the configuration mapping. It never fails: any error from
// the secret store is logged and the mapping is rebuilt from environment
// variables instead.
func (r *Resolver) Resolve(ctx context.Context) *Config {
	if r.fetcher == nil {
		r.logger.Warn("no secret store configured, using environment variables")
		return FromEnvironment()
	}

	r.logger.Info("loading secrets",
		"secret", r.bootstrap.SecretName,
		"region", r.bootstrap.Region,
		"endpoint", r.bootstrap.Endpoint,
	)

	payload, err := r.fetcher.Fetch(ctx, r.bootstrap.SecretName)
	if err != nil {
		r.logger.Warn("error accessing secrets, falling back to environment variables",
			"secret", r.bootstrap.SecretName,
			"error", err,
		)
		return FromEnvironment()
	}

	r.logger.Info("loaded secrets", "secret", r.bootstrap.SecretName, "endpoint", r.bootstrap.Endpoint)
	return FromSecret(payload, r.bootstrap.Region)
}
