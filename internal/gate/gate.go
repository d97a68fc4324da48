// Package gate authorizes requests by a shared API key.
package gate

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// HeaderName is the request header that carries the API key.
const HeaderName = "X-API-Key"

// ErrUnauthorized is returned when the provided key does not match.
var ErrUnauthorized = errors.New("invalid or missing API key")

// Gate compares presented keys with the configured one. A Gate without a
// configured key authorizes every request.
type Gate struct {
	expected []byte
}

// New creates a Gate for the expected key. An empty key opens the gate.
func New(expected string) *Gate {
	if expected == "" {
		return &Gate{}
	}
	return &Gate{expected: []byte(expected)}
}

// Open reports whether the gate lets every request through.
func (g *Gate) Open() bool {
	return len(g.expected) == 0
}

// Authorize returns nil when provided matches the configured key exactly,
// or when no key is configured.
func (g *Gate) Authorize(provided string) error {
	if g.Open() {
		return nil
	}
	if provided == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(provided), g.expected) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Middleware rejects requests whose X-API-Key header fails Authorize by
// calling deny instead of next.
func (g *Gate) Middleware(deny func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := g.Authorize(r.Header.Get(HeaderName)); err != nil {
				deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
