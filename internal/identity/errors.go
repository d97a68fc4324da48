package identity

import "errors"

// Sentinel errors for Cognito identity operations.
var (
	// ErrMissingIdentityPool is returned when no identity pool id is configured.
	ErrMissingIdentityPool = errors.New("identity pool id is required")

	// ErrNoIdentityID is returned when GetId yields no identity id.
	ErrNoIdentityID = errors.New("identity pool returned no identity id")

	// ErrNilCredentials is returned when GetCredentialsForIdentity yields no credentials.
	ErrNilCredentials = errors.New("identity pool returned no credentials")

	// ErrLoginFailed is returned when the user pool rejects the login.
	ErrLoginFailed = errors.New("user pool login failed")

	// ErrChallengeRequired is returned when the user pool answers with an auth
	// challenge (new password, MFA) instead of tokens.
	ErrChallengeRequired = errors.New("user pool requires an authentication challenge")

	// ErrNoIDToken is returned when the login succeeds without an id token.
	ErrNoIDToken = errors.New("user pool returned no id token")
)
