// Package recommend turns a loosely worded objective into a clearer one by
// asking the configured inference provider.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/bimmerbailey/clarifier/internal/llm"
	"github.com/bimmerbailey/clarifier/internal/prompt"
)

// DefaultTimeout bounds a single inference call.
const DefaultTimeout = 60 * time.Second

// ErrInvalidRequest is returned for requests that cannot be answered,
// such as a blank objective.
var ErrInvalidRequest = errors.New("invalid recommendation request")

// UpstreamError reports a failed or unusable inference call.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("inference via %s failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Request is a recommendation request.
type Request struct {
	Objective string  `json:"objective"`
	Context   *string `json:"context,omitempty"`
}

// Response is a recommendation.
type Response struct {
	ID                   string `json:"id"`
	Objective            string `json:"objective"`
	RecommendedObjective string `json:"recommended_objective"`
	Rationale            string `json:"rationale,omitempty"`
	ModelID              string `json:"model_id"`
}

// Service produces recommendations with a held provider.
// It is safe for concurrent use.
type Service struct {
	provider llm.Provider
	logger   *slog.Logger
	timeout  time.Duration
}

// NewService creates a Service. A zero timeout uses DefaultTimeout.
func NewService(provider llm.Provider, logger *slog.Logger, timeout time.Duration) (*Service, error) {
	if provider == nil {
		return nil, errors.New("provider cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{provider: provider, logger: logger, timeout: timeout}, nil
}

// Recommend asks the provider for a clearer version of req.Objective.
// Provider failures and unusable replies are returned as *UpstreamError.
func (s *Service) Recommend(ctx context.Context, modelID string, req Request) (*Response, error) {
	objective := strings.TrimSpace(req.Objective)
	if objective == "" {
		return nil, fmt.Errorf("%w: objective is required", ErrInvalidRequest)
	}

	opts := prompt.BuildOptions{Objective: objective}
	if req.Context != nil {
		opts.Context = *req.Context
	}
	messages, err := prompt.Build(prompt.TypeClarifyObjective, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Chat(ctx, messages, &llm.ChatOptions{
		Model:       modelID,
		Temperature: 0,
		MaxTokens:   512,
	})
	if err != nil {
		s.logger.Error("inference failed", "provider", s.provider.Name(), "model", modelID, "error", err)
		return nil, &UpstreamError{Provider: s.provider.Name(), Err: err}
	}

	recommended, rationale, err := parseReply(resp.Content)
	if err != nil {
		s.logger.Warn("unusable model reply", "provider", s.provider.Name(), "model", modelID, "error", err)
		return nil, &UpstreamError{Provider: s.provider.Name(), Err: err}
	}

	s.logger.Info("recommendation produced",
		"provider", s.provider.Name(),
		"model", modelID,
		"duration", time.Since(start),
		"total_tokens", resp.TokensTotal,
	)

	return &Response{
		ID:                   uuid.NewString(),
		Objective:            objective,
		RecommendedObjective: recommended,
		Rationale:            rationale,
		ModelID:              modelID,
	}, nil
}

// parseReply extracts the JSON object from a model reply. Code fences and
// surrounding prose are tolerated.
func parseReply(content string) (recommended, rationale string, err error) {
	raw := extractObject(content)
	if raw == "" || !gjson.Valid(raw) {
		return "", "", fmt.Errorf("%w: reply does not contain a JSON object", llm.ErrInvalidResponse)
	}

	obj := gjson.Parse(raw)
	recommended = strings.TrimSpace(obj.Get("recommended_objective").String())
	if recommended == "" {
		return "", "", fmt.Errorf("%w: recommended_objective is empty", llm.ErrInvalidResponse)
	}
	return recommended, strings.TrimSpace(obj.Get("rationale").String()), nil
}

// extractObject returns the text from the first '{' to the last '}'.
func extractObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
