package secrets

import (
	"errors"
	"fmt"
)

// Sentinel errors for secret retrieval.
var (
	// ErrMissingSecretName is returned when no secret name is configured.
	ErrMissingSecretName = errors.New("secret name is required")

	// ErrEmptySecret is returned when the secret has no SecretString.
	ErrEmptySecret = errors.New("secret has no string value")

	// ErrMalformedSecret is returned when the SecretString is not a JSON object.
	ErrMalformedSecret = errors.New("secret is not a JSON object")
)

// AccessError reports a failure to retrieve a secret.
type AccessError struct {
	// Op is the step that failed, e.g. "ambient fetch" or "identity pool fallback".
	Op         string
	SecretName string
	Err        error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("secrets: %s of %q failed: %v", e.Op, e.SecretName, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}
