package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ciptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// FederatedConfig holds the user pool and identity pool settings for a
// username/password login.
type FederatedConfig struct {
	Region         string
	UserPoolID     string
	ClientID       string
	ClientSecret   string // optional; enables SECRET_HASH
	IdentityPoolID string
	Username       string
	Password       string
}

// FederatedProvider implements aws.CredentialsProvider by logging into the
// user pool and exchanging the id token through the identity pool. Every
// Retrieve performs the full exchange; wrap it in aws.NewCredentialsCache so
// it only runs again once the previous credentials have expired.
type FederatedProvider struct {
	cfg      FederatedConfig
	userPool UserPoolAPI
	identity CognitoIdentityAPI
	logger   *slog.Logger
}

// NewFederatedProvider creates a FederatedProvider. It performs no network calls.
func NewFederatedProvider(cfg FederatedConfig, userPool UserPoolAPI, identity CognitoIdentityAPI, logger *slog.Logger) (*FederatedProvider, error) {
	if userPool == nil || identity == nil {
		return nil, fmt.Errorf("cognito clients cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.IdentityPoolID == "" {
		return nil, ErrMissingIdentityPool
	}
	return &FederatedProvider{
		cfg:      cfg,
		userPool: userPool,
		identity: identity,
		logger:   logger,
	}, nil
}

// Retrieve logs in and returns fresh temporary credentials.
func (p *FederatedProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	token, err := p.login(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}

	logins := map[string]string{ProviderName(p.cfg.Region, p.cfg.UserPoolID): token}
	creds, err := exchange(ctx, p.identity, p.cfg.IdentityPoolID, logins)
	if err != nil {
		return aws.Credentials{}, err
	}

	p.logger.Debug("obtained federated credentials",
		"identity_pool", p.cfg.IdentityPoolID,
		"expires", creds.Expires,
	)
	return creds, nil
}

// login authenticates against the user pool and returns the id token.
func (p *FederatedProvider) login(ctx context.Context) (string, error) {
	params := map[string]string{
		"USERNAME": p.cfg.Username,
		"PASSWORD": p.cfg.Password,
	}
	if p.cfg.ClientSecret != "" {
		params["SECRET_HASH"] = SecretHash(p.cfg.Username, p.cfg.ClientID, p.cfg.ClientSecret)
	}

	out, err := p.userPool.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       ciptypes.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(p.cfg.ClientID),
		AuthParameters: params,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if out == nil {
		return "", ErrLoginFailed
	}
	if out.ChallengeName != "" {
		return "", fmt.Errorf("%w: %s", ErrChallengeRequired, out.ChallengeName)
	}
	if out.AuthenticationResult == nil || aws.ToString(out.AuthenticationResult.IdToken) == "" {
		return "", ErrNoIDToken
	}

	p.logger.Debug("user pool login succeeded", "user_pool", p.cfg.UserPoolID)
	return aws.ToString(out.AuthenticationResult.IdToken), nil
}

// ProviderName returns the identity pool login key for a user pool, e.g.
// "cognito-idp.eu-west-1.amazonaws.com/eu-west-1_AbCdEf".
func ProviderName(region, userPoolID string) string {
	return fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

// SecretHash computes the SECRET_HASH parameter required by app clients that
// have a client secret: base64(HMAC-SHA256(secret, username+clientID)).
func SecretHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
