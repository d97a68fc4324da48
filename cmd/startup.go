package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/bimmerbailey/clarifier/internal/awsutil"
	"github.com/bimmerbailey/clarifier/internal/config"
	"github.com/bimmerbailey/clarifier/internal/llm"
	"github.com/bimmerbailey/clarifier/internal/secrets"
)

const defaultStartupTimeout = 30 * time.Second

// app is everything a command needs after startup. It is built once and
// treated as read-only.
type app struct {
	cfg      *config.Config
	strategy llm.Strategy
	provider llm.Provider
	logger   *slog.Logger
}

// startupOptions replaces the AWS-facing pieces in tests.
type startupOptions struct {
	fetcher      config.SecretFetcher
	providerOpts []llm.Option
}

// resolveConfig loads the dotenv file and resolves the configuration mapping.
// An unreadable dotenv file is logged and skipped.
func resolveConfig(ctx context.Context, logger *slog.Logger, opts startupOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(viper.GetString("env_file")); err != nil {
		logger.Warn("ignoring dotenv file", "error", err)
	}

	boot := config.LoadBootstrap()
	fetcher := opts.fetcher
	if fetcher == nil && boot.SecretName != "" {
		accessor, err := secrets.NewAccessor(awsutil.Settings{
			Region:      boot.Region,
			Endpoint:    boot.Endpoint,
			HTTPTimeout: viper.GetDuration("aws.http_timeout"),
		}, logger, secrets.WithIdentityPool(config.FromEnvironment().IdentityPoolID))
		if err != nil {
			return nil, fmt.Errorf("failed to create secret accessor: %w", err)
		}
		fetcher = accessor
	}

	resolver, err := config.NewResolver(boot, fetcher, logger)
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(ctx), nil
}

// startup resolves configuration, selects the credential strategy and builds
// the inference provider. The whole sequence runs under the startup timeout.
func startup(ctx context.Context, logger *slog.Logger, opts startupOptions) (*app, error) {
	timeout := viper.GetDuration("startup_timeout")
	if timeout <= 0 {
		timeout = defaultStartupTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cfg, err := resolveConfig(ctx, logger, opts)
	if err != nil {
		return nil, err
	}

	strategy := llm.SelectStrategy(cfg.Env)
	logger.Info("selected credential strategy", "env", cfg.Env, "strategy", strategy, "config_source", cfg.Source)

	providerOpts := append([]llm.Option{llm.WithHTTPTimeout(viper.GetDuration("aws.http_timeout"))}, opts.providerOpts...)
	provider, err := llm.NewProvider(ctx, cfg, logger, providerOpts...)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, strategy: strategy, provider: provider, logger: logger}, nil
}
