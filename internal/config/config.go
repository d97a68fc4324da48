// Package config provides the configuration mapping and its resolution chain
// for clarifier.
package config

import (
	"strings"
)

// Key names one entry of the configuration mapping.
type Key string

// Known configuration keys. The logical name is snake case; the secret field
// and environment variable carry the upper-case form (see Key.EnvName).
const (
	KeyEnv             Key = "env"
	KeyRegion          Key = "region"
	KeyAWSEndpoint     Key = "aws_endpoint"
	KeyBedrockModelID  Key = "bedrock_model_id"
	KeyBedrockMock     Key = "bedrock_mock"
	KeyUserPoolID      Key = "user_pool_id"
	KeyClientID        Key = "client_id"
	KeyClientSecret    Key = "client_secret"
	KeyIdentityPoolID  Key = "identity_pool_id"
	KeyCognitoUsername Key = "cognito_username"
	KeyCognitoPassword Key = "cognito_password"
	KeyAPIKey          Key = "api_key"
)

// Keys returns every known key in display order.
func Keys() []Key {
	return []Key{
		KeyEnv,
		KeyRegion,
		KeyAWSEndpoint,
		KeyBedrockModelID,
		KeyBedrockMock,
		KeyUserPoolID,
		KeyClientID,
		KeyClientSecret,
		KeyIdentityPoolID,
		KeyCognitoUsername,
		KeyCognitoPassword,
		KeyAPIKey,
	}
}

// EnvName returns the upper-case name used both as the secret JSON field and
// as the environment variable, e.g. "USER_POOL_ID".
func (k Key) EnvName() string {
	return strings.ToUpper(string(k))
}

// Secret reports whether values of this key must never be displayed.
func (k Key) Secret() bool {
	switch k {
	case KeyClientSecret, KeyCognitoPassword, KeyAPIKey:
		return true
	default:
		return false
	}
}

// Source identifies where a Config was loaded from.
type Source string

const (
	SourceSecretsManager Source = "secrets-manager"
	SourceEnvironment    Source = "environment"
)

// Config is the flat configuration mapping. Every field is optional here;
// which ones are required depends on the credential strategy chosen later.
// A Config is built once at startup and must not be modified afterwards.
type Config struct {
	Env            string `json:"env,omitempty"`
	Region         string `json:"region,omitempty"`
	AWSEndpoint    string `json:"aws_endpoint,omitempty"`
	BedrockModelID string `json:"bedrock_model_id,omitempty"`
	BedrockMock    string `json:"bedrock_mock,omitempty"`

	// Cognito -> Bedrock (federated strategy)
	UserPoolID      string `json:"user_pool_id,omitempty"`
	ClientID        string `json:"client_id,omitempty"`
	ClientSecret    string `json:"-"`
	IdentityPoolID  string `json:"identity_pool_id,omitempty"`
	CognitoUsername string `json:"cognito_username,omitempty"`
	CognitoPassword string `json:"-"`

	// APIKey protects the HTTP endpoints when set.
	APIKey string `json:"-"`

	Source Source `json:"source"`
}

// Get returns the value stored for k. The boolean is false when the value is
// absent or empty; empty strings count as missing.
func (c *Config) Get(k Key) (string, bool) {
	if c == nil {
		return "", false
	}
	p := c.field(k)
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

// Has reports whether k carries a non-empty value.
func (c *Config) Has(k Key) bool {
	_, ok := c.Get(k)
	return ok
}

// Missing returns the keys from required that have no value, preserving the
// order of required.
func (c *Config) Missing(required []Key) []Key {
	var missing []Key
	for _, k := range required {
		if !c.Has(k) {
			missing = append(missing, k)
		}
	}
	return missing
}

// set stores v under k. Unknown keys are ignored.
func (c *Config) set(k Key, v string) {
	if p := c.field(k); p != nil {
		*p = v
	}
}

func (c *Config) field(k Key) *string {
	switch k {
	case KeyEnv:
		return &c.Env
	case KeyRegion:
		return &c.Region
	case KeyAWSEndpoint:
		return &c.AWSEndpoint
	case KeyBedrockModelID:
		return &c.BedrockModelID
	case KeyBedrockMock:
		return &c.BedrockMock
	case KeyUserPoolID:
		return &c.UserPoolID
	case KeyClientID:
		return &c.ClientID
	case KeyClientSecret:
		return &c.ClientSecret
	case KeyIdentityPoolID:
		return &c.IdentityPoolID
	case KeyCognitoUsername:
		return &c.CognitoUsername
	case KeyCognitoPassword:
		return &c.CognitoPassword
	case KeyAPIKey:
		return &c.APIKey
	default:
		return nil
	}
}

// FromSecret projects a secret payload (upper-case field names) onto a Config.
// When the payload has no REGION, fallbackRegion is used instead.
func FromSecret(payload map[string]string, fallbackRegion string) *Config {
	cfg := &Config{Source: SourceSecretsManager}
	for _, k := range Keys() {
		cfg.set(k, payload[k.EnvName()])
	}
	if _, ok := payload[KeyRegion.EnvName()]; !ok {
		cfg.Region = fallbackRegion
	}
	return cfg
}

// Masked returns a display-safe form of the value stored for k.
func (c *Config) Masked(k Key) string {
	v, ok := c.Get(k)
	if !ok {
		return ""
	}
	if k.Secret() {
		return "********"
	}
	return v
}
