package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bimmerbailey/clarifier/internal/gate"
	"github.com/bimmerbailey/clarifier/internal/recommend"
)

var (
	errModelNotConfigured = errors.New("BEDROCK_MODEL_ID is not configured")
	errInvalidBody        = errors.New("request body must be a JSON object with an objective")
)

// handlerWithError is an HTTP handler that can return an error.
type handlerWithError func(http.ResponseWriter, *http.Request) error

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

// statusFor maps an error to its HTTP status and client-facing detail.
func statusFor(err error) (int, string) {
	var upstream *recommend.UpstreamError
	switch {
	case errors.Is(err, gate.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid API key"
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, recommend.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errModelNotConfigured):
		return http.StatusInternalServerError, err.Error()
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "inference failed"
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// errorHandler wraps a handlerWithError and converts returned errors into
// JSON error responses. 5xx errors are logged with full detail.
func (s *Server) errorHandler(fn handlerWithError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, detail := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", code, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", code, "error", err)
	}
	writeJSON(w, code, errorBody{Detail: detail}, s.logger)
}

func writeJSON(w http.ResponseWriter, code int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", "error", err)
	}
}
