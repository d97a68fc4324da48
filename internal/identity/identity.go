// Package identity exchanges Cognito identities for temporary AWS credentials.
//
// Two flows are supported:
//
//   - Anonymous: an unauthenticated identity is obtained from an identity pool
//     and exchanged for temporary credentials.
//   - Federated: a username/password login against a user pool yields an id
//     token, which the identity pool exchanges for temporary credentials.
package identity

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// CognitoIdentityAPI defines the identity pool operations used here, enabling
// mock injection for testing.
type CognitoIdentityAPI interface {
	GetId(
		ctx context.Context,
		params *cognitoidentity.GetIdInput,
		optFns ...func(*cognitoidentity.Options),
	) (*cognitoidentity.GetIdOutput, error)

	GetCredentialsForIdentity(
		ctx context.Context,
		params *cognitoidentity.GetCredentialsForIdentityInput,
		optFns ...func(*cognitoidentity.Options),
	) (*cognitoidentity.GetCredentialsForIdentityOutput, error)
}

// UserPoolAPI defines the user pool operations used here.
type UserPoolAPI interface {
	InitiateAuth(
		ctx context.Context,
		params *cognitoidentityprovider.InitiateAuthInput,
		optFns ...func(*cognitoidentityprovider.Options),
	) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

// NewIdentityClient creates an identity pool client from an AWS config.
func NewIdentityClient(cfg aws.Config) CognitoIdentityAPI {
	return cognitoidentity.NewFromConfig(cfg)
}

// NewUserPoolClient creates a user pool client from an AWS config.
func NewUserPoolClient(cfg aws.Config) UserPoolAPI {
	return cognitoidentityprovider.NewFromConfig(cfg)
}

// AnonymousCredentials obtains an unauthenticated identity from the pool and
// exchanges it for temporary credentials.
func AnonymousCredentials(ctx context.Context, client CognitoIdentityAPI, identityPoolID string) (aws.Credentials, error) {
	if identityPoolID == "" {
		return aws.Credentials{}, ErrMissingIdentityPool
	}
	return exchange(ctx, client, identityPoolID, nil)
}

// exchange runs GetId followed by GetCredentialsForIdentity. logins is nil
// for unauthenticated identities.
func exchange(ctx context.Context, client CognitoIdentityAPI, identityPoolID string, logins map[string]string) (aws.Credentials, error) {
	idOut, err := client.GetId(ctx, &cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(identityPoolID),
		Logins:         logins,
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("failed to get identity id: %w", err)
	}
	if idOut == nil || aws.ToString(idOut.IdentityId) == "" {
		return aws.Credentials{}, ErrNoIdentityID
	}

	credOut, err := client.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId: idOut.IdentityId,
		Logins:     logins,
	})
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("failed to get credentials for identity: %w", err)
	}
	if credOut == nil || credOut.Credentials == nil {
		return aws.Credentials{}, ErrNilCredentials
	}

	c := credOut.Credentials
	creds := aws.Credentials{
		AccessKeyID:     aws.ToString(c.AccessKeyId),
		SecretAccessKey: aws.ToString(c.SecretKey),
		SessionToken:    aws.ToString(c.SessionToken),
		Source:          "CognitoIdentity",
	}
	if c.Expiration != nil {
		creds.CanExpire = true
		creds.Expires = aws.ToTime(c.Expiration)
	}
	return creds, nil
}
