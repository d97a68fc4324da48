package gate

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		provided string
		wantErr  bool
	}{
		{"exact match", "abc", "abc", false},
		{"longer key", "abc", "abcd", true},
		{"shorter key", "abc", "ab", true},
		{"absent key", "abc", "", true},
		{"case differs", "abc", "ABC", true},
		{"open gate without key", "", "", false},
		{"open gate ignores key", "", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.expected).Authorize(tt.provided)
			if tt.wantErr {
				if !errors.Is(err, ErrUnauthorized) {
					t.Errorf("Authorize(%q) = %v, want ErrUnauthorized", tt.provided, err)
				}
				return
			}
			if err != nil {
				t.Errorf("Authorize(%q) unexpected error: %v", tt.provided, err)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	if !New("").Open() {
		t.Error("gate without key should be open")
	}
	if New("abc").Open() {
		t.Error("gate with key should not be open")
	}
}

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	deny := func(w http.ResponseWriter, _ *http.Request, _ error) {
		w.WriteHeader(http.StatusUnauthorized)
	}
	h := New("abc").Middleware(deny)(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "abc", http.StatusNoContent},
		{"invalid", "abcd", http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/recommendation", nil)
			if tt.header != "" {
				req.Header.Set(HeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
