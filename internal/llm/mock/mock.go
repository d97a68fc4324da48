// Package mock provides a deterministic, offline implementation of the
// llm.Provider interface for local development.
//
// Note: To avoid import cycles, this package defines its own types that match
// the llm.Provider interface. The parent llm package adapts them.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultModel is reported when no model is requested.
const DefaultModel = "local-mock"

// Provider answers chat requests without any network access. The same
// messages always produce the same response.
type Provider struct {
	region string
	logger *slog.Logger
}

// Config holds mock-specific configuration.
type Config struct {
	// Region is recorded for logging only.
	Region string
}

// Message represents a single message in a conversation.
type Message struct {
	Role    string
	Content string
}

// ChatOptions configures chat behavior.
type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// Response represents a complete response.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

// New creates a mock provider.
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger.Debug("created local mock provider", "region", cfg.Region)
	return &Provider{region: cfg.Region, logger: logger}, nil
}

// Chat returns a canned clarification of the objective found in the last
// user message, encoded as the JSON object the recommendation prompt asks for.
func (p *Provider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model := DefaultModel
	if opts != nil && opts.Model != "" {
		model = opts.Model
	}

	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			user = messages[i].Content
			break
		}
	}

	objective, extra := extractFields(user)
	body, err := json.Marshal(map[string]string{
		"recommended_objective": clarify(objective, extra),
		"rationale":             "Deterministic local mock: restates the objective as a verifiable outcome.",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode mock response: %w", err)
	}

	prompt := 0
	for _, m := range messages {
		prompt += len(strings.Fields(m.Content))
	}
	completion := len(strings.Fields(string(body)))

	p.logger.Debug("mock chat completed", "model", model, "prompt_tokens", prompt)

	return &Response{
		Content:      string(body),
		Model:        model,
		TokensPrompt: prompt,
		TokensTotal:  prompt + completion,
	}, nil
}

// extractFields pulls the "Objective:" and "Context:" lines out of a prompt.
// Without an "Objective:" line the whole text is used.
func extractFields(text string) (objective, background string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Objective:"):
			objective = strings.TrimSpace(strings.TrimPrefix(line, "Objective:"))
		case strings.HasPrefix(line, "Context:"):
			background = strings.TrimSpace(strings.TrimPrefix(line, "Context:"))
		}
	}
	if objective == "" {
		objective = strings.TrimSpace(text)
	}
	return objective, background
}

func clarify(objective, background string) string {
	objective = strings.TrimRight(strings.TrimSpace(objective), ".!?")
	if objective == "" {
		objective = "the stated goal is met"
	} else {
		r, size := utf8.DecodeRuneInString(objective)
		objective = string(unicode.ToLower(r)) + objective[size:]
	}

	scope := "the target environment"
	if background != "" {
		scope = strings.TrimRight(background, ".!?")
	}
	return fmt.Sprintf("Verify that %s in %s, with a measurable pass/fail criterion recorded for each run.", objective, scope)
}
