// Package awsutil loads AWS SDK configuration for clarifier's service clients.
package awsutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// DefaultHTTPTimeout bounds every individual AWS API call.
const DefaultHTTPTimeout = 15 * time.Second

// ErrMissingRegion is returned when no region is configured.
var ErrMissingRegion = errors.New("AWS region is required")

// Settings describes how AWS clients reach their services.
type Settings struct {
	// Region is the AWS region, e.g. "eu-west-1".
	Region string

	// Endpoint overrides the service endpoint for every client (LocalStack etc.).
	Endpoint string

	// HTTPTimeout bounds each HTTP round trip. Zero uses DefaultHTTPTimeout.
	HTTPTimeout time.Duration
}

// Loader builds an aws.Config. A nil provider means the SDK default
// credential chain (environment, shared profile, instance or task role).
type Loader func(ctx context.Context, s Settings, creds aws.CredentialsProvider) (aws.Config, error)

// Load is the default Loader.
func Load(ctx context.Context, s Settings, creds aws.CredentialsProvider) (aws.Config, error) {
	if s.Region == "" {
		return aws.Config{}, ErrMissingRegion
	}

	timeout := s.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s.Region),
		config.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(timeout)),
	}
	if s.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(s.Endpoint))
	}
	if creds != nil {
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// Static wraps a fixed credential set as a provider.
func Static(c aws.Credentials) aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken)
}
