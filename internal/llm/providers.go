package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/bimmerbailey/clarifier/internal/awsutil"
	"github.com/bimmerbailey/clarifier/internal/config"
	"github.com/bimmerbailey/clarifier/internal/identity"
	"github.com/bimmerbailey/clarifier/internal/llm/bedrock"
	"github.com/bimmerbailey/clarifier/internal/llm/mock"
)

// Option customizes how NewProvider builds AWS clients.
type Option func(*factory)

type factory struct {
	load        awsutil.Loader
	userPool    func(aws.Config) identity.UserPoolAPI
	identity    func(aws.Config) identity.CognitoIdentityAPI
	runtime     func(aws.Config) bedrock.RuntimeAPI
	httpTimeout time.Duration
}

// WithLoader overrides how aws.Config values are loaded.
func WithLoader(l awsutil.Loader) Option {
	return func(f *factory) { f.load = l }
}

// WithUserPoolClient overrides the Cognito user pool client constructor.
func WithUserPoolClient(fn func(aws.Config) identity.UserPoolAPI) Option {
	return func(f *factory) { f.userPool = fn }
}

// WithIdentityClient overrides the Cognito identity pool client constructor.
func WithIdentityClient(fn func(aws.Config) identity.CognitoIdentityAPI) Option {
	return func(f *factory) { f.identity = fn }
}

// WithRuntimeClient overrides the Bedrock Runtime client constructor.
func WithRuntimeClient(fn func(aws.Config) bedrock.RuntimeAPI) Option {
	return func(f *factory) { f.runtime = fn }
}

// WithHTTPTimeout bounds each AWS HTTP round trip.
func WithHTTPTimeout(d time.Duration) Option {
	return func(f *factory) { f.httpTimeout = d }
}

// NewProvider creates the inference provider for the configured environment
// tag. The configuration is validated first; a *ConfigurationError names every
// missing key. The federated strategy logs in eagerly, so a failure at any
// hop of the exchange is returned here rather than on the first request.
func NewProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	f := &factory{
		load:     awsutil.Load,
		userPool: identity.NewUserPoolClient,
		identity: identity.NewIdentityClient,
		runtime:  bedrock.NewRuntimeClient,
	}
	for _, opt := range opts {
		opt(f)
	}

	strategy := SelectStrategy(cfg.Env)
	logger.Debug("creating llm provider", "env", cfg.Env, "strategy", strategy)

	if err := Validate(cfg, strategy); err != nil {
		return nil, err
	}

	switch strategy {
	case StrategyLocal:
		return newMockProvider(cfg, logger)
	case StrategyDev:
		return newAmbientProvider(ctx, cfg, f, logger)
	case StrategyFederated:
		return newFederatedProvider(ctx, cfg, f, logger)
	default:
		return nil, fmt.Errorf("unknown strategy: %s", strategy)
	}
}

func (f *factory) settings(cfg *config.Config) awsutil.Settings {
	return awsutil.Settings{
		Region:      cfg.Region,
		Endpoint:    cfg.AWSEndpoint,
		HTTPTimeout: f.httpTimeout,
	}
}

// newMockProvider creates the offline provider. It touches no network and
// needs no credentials.
func newMockProvider(cfg *config.Config, logger *slog.Logger) (Provider, error) {
	p, err := mock.New(mock.Config{Region: cfg.Region}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create mock provider: %w", err)
	}

	logger.Info("initialized local mock provider", "region", cfg.Region)
	return &mockProviderAdapter{provider: p}, nil
}

// newAmbientProvider creates a Bedrock provider that signs with the default
// AWS credential chain.
func newAmbientProvider(ctx context.Context, cfg *config.Config, f *factory, logger *slog.Logger) (Provider, error) {
	awsCfg, err := f.load(ctx, f.settings(cfg), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create bedrock provider: %w", err)
	}

	p, err := bedrock.New(f.runtime(awsCfg), bedrock.Config{Model: cfg.BedrockModelID, Mode: "ambient"}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create bedrock provider: %w", err)
	}

	logger.Info("initialized bedrock provider",
		"mode", "ambient",
		"region", cfg.Region,
		"endpoint", cfg.AWSEndpoint,
	)
	return &bedrockProviderAdapter{provider: p, name: "bedrock-ambient"}, nil
}

// newFederatedProvider logs in through the user pool, exchanges the id token
// at the identity pool and creates a Bedrock provider signing with the
// resulting credentials. The credentials are cached until they expire; the
// next call after expiry repeats the exchange.
func newFederatedProvider(ctx context.Context, cfg *config.Config, f *factory, logger *slog.Logger) (Provider, error) {
	settings := f.settings(cfg)

	// Cognito login and identity exchange are unsigned calls.
	cognitoCfg, err := f.load(ctx, settings, aws.AnonymousCredentials{})
	if err != nil {
		return nil, fmt.Errorf("failed to create cognito clients: %w", err)
	}

	federated, err := identity.NewFederatedProvider(identity.FederatedConfig{
		Region:         cfg.Region,
		UserPoolID:     cfg.UserPoolID,
		ClientID:       cfg.ClientID,
		ClientSecret:   cfg.ClientSecret,
		IdentityPoolID: cfg.IdentityPoolID,
		Username:       cfg.CognitoUsername,
		Password:       cfg.CognitoPassword,
	}, f.userPool(cognitoCfg), f.identity(cognitoCfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create federated credentials: %w", err)
	}

	creds := aws.NewCredentialsCache(federated)
	if _, err := creds.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("federated login failed: %w", err)
	}

	awsCfg, err := f.load(ctx, settings, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create bedrock provider: %w", err)
	}

	p, err := bedrock.New(f.runtime(awsCfg), bedrock.Config{Model: cfg.BedrockModelID, Mode: "federated"}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create bedrock provider: %w", err)
	}

	logger.Info("initialized bedrock provider",
		"mode", "federated",
		"region", cfg.Region,
		"user_pool", cfg.UserPoolID,
		"identity_pool", cfg.IdentityPoolID,
	)
	return &bedrockProviderAdapter{provider: p, name: "bedrock-federated"}, nil
}
