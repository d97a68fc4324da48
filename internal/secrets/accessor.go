// Package secrets reads clarifier's configuration bundle from AWS Secrets
// Manager, falling back to anonymous Cognito identity pool credentials when
// the process has no usable ambient credentials.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/tidwall/gjson"

	"github.com/bimmerbailey/clarifier/internal/awsutil"
	"github.com/bimmerbailey/clarifier/internal/identity"
)

// SecretsManagerAPI defines the Secrets Manager operations used here,
// enabling mock injection for testing.
type SecretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// ClientFactory builds a Secrets Manager client. A nil provider selects the
// ambient credential chain.
type ClientFactory func(ctx context.Context, creds aws.CredentialsProvider) (SecretsManagerAPI, error)

// IdentityClientFactory builds an unsigned identity pool client.
type IdentityClientFactory func(ctx context.Context) (identity.CognitoIdentityAPI, error)

// Accessor fetches named secret bundles.
type Accessor struct {
	identityPoolID string
	newClient      ClientFactory
	newIdentity    IdentityClientFactory
	logger         *slog.Logger
}

// Option configures an Accessor.
type Option func(*Accessor)

// WithIdentityPool enables the anonymous identity pool fallback.
func WithIdentityPool(id string) Option {
	return func(a *Accessor) { a.identityPoolID = id }
}

// WithClientFactory replaces the Secrets Manager client factory.
func WithClientFactory(f ClientFactory) Option {
	return func(a *Accessor) { a.newClient = f }
}

// WithIdentityClientFactory replaces the identity pool client factory.
func WithIdentityClientFactory(f IdentityClientFactory) Option {
	return func(a *Accessor) { a.newIdentity = f }
}

// NewAccessor creates an Accessor whose AWS clients use settings. No network
// calls are made until Fetch.
func NewAccessor(settings awsutil.Settings, logger *slog.Logger, opts ...Option) (*Accessor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	a := &Accessor{
		logger: logger,
		newClient: func(ctx context.Context, creds aws.CredentialsProvider) (SecretsManagerAPI, error) {
			cfg, err := awsutil.Load(ctx, settings, creds)
			if err != nil {
				return nil, err
			}
			return secretsmanager.NewFromConfig(cfg), nil
		},
		newIdentity: func(ctx context.Context) (identity.CognitoIdentityAPI, error) {
			cfg, err := awsutil.Load(ctx, settings, aws.AnonymousCredentials{})
			if err != nil {
				return nil, err
			}
			return identity.NewIdentityClient(cfg), nil
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Fetch returns the secret's JSON object as a flat string mapping.
//
// The ambient credential chain is tried first. If that fails for any reason
// and an identity pool is configured, the fetch is retried once with
// anonymous identity pool credentials and that attempt's error is returned.
// Without an identity pool the first error is returned as is.
func (a *Accessor) Fetch(ctx context.Context, secretName string) (map[string]string, error) {
	if secretName == "" {
		return nil, &AccessError{Op: "ambient fetch", SecretName: secretName, Err: ErrMissingSecretName}
	}

	payload, err := a.fetchWith(ctx, secretName, nil)
	if err == nil {
		return payload, nil
	}
	if a.identityPoolID == "" {
		return nil, &AccessError{Op: "ambient fetch", SecretName: secretName, Err: err}
	}

	a.logger.Info("ambient secret fetch failed, trying identity pool credentials",
		"secret", secretName,
		"error_code", errorCode(err),
	)

	payload, err = a.fetchWithIdentityPool(ctx, secretName)
	if err != nil {
		return nil, &AccessError{Op: "identity pool fallback", SecretName: secretName, Err: err}
	}
	return payload, nil
}

func (a *Accessor) fetchWithIdentityPool(ctx context.Context, secretName string) (map[string]string, error) {
	idClient, err := a.newIdentity(ctx)
	if err != nil {
		return nil, err
	}

	creds, err := identity.AnonymousCredentials(ctx, idClient, a.identityPoolID)
	if err != nil {
		return nil, err
	}

	return a.fetchWith(ctx, secretName, awsutil.Static(creds))
}

func (a *Accessor) fetchWith(ctx context.Context, secretName string, creds aws.CredentialsProvider) (map[string]string, error) {
	client, err := a.newClient(ctx, creds)
	if err != nil {
		return nil, err
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, err
	}
	if out == nil || out.SecretString == nil {
		return nil, ErrEmptySecret
	}

	return parsePayload(*out.SecretString)
}

// parsePayload flattens a JSON object into strings. String values are kept
// verbatim, other scalars keep their JSON text, and nulls are dropped.
func parsePayload(raw string) (map[string]string, error) {
	if !gjson.Valid(raw) {
		return nil, ErrMalformedSecret
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, ErrMalformedSecret
	}

	payload := make(map[string]string)
	root.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.Null:
		case gjson.String:
			payload[key.String()] = value.String()
		default:
			payload[key.String()] = value.Raw
		}
		return true
	})
	return payload, nil
}

// errorCode extracts the AWS error code for logging, if there is one.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return fmt.Sprintf("%T", err)
}
