package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/bimmerbailey/clarifier/internal/llm/bedrock"
	"github.com/bimmerbailey/clarifier/internal/llm/mock"
)

// mockProviderAdapter adapts mock.Provider to the Provider interface.
// This is needed to avoid import cycles between llm and its subpackages.
type mockProviderAdapter struct {
	provider *mock.Provider
}

func (a *mockProviderAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	mockMessages := make([]mock.Message, len(messages))
	for i, msg := range messages {
		mockMessages[i] = mock.Message{Role: msg.Role, Content: msg.Content}
	}

	var mockOpts *mock.ChatOptions
	if opts != nil {
		mockOpts = &mock.ChatOptions{
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		}
	}

	resp, err := a.provider.Chat(ctx, mockMessages, mockOpts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrContextCanceled, err)
		}
		return nil, err
	}

	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.TokensPrompt,
		TokensTotal:  resp.TokensTotal,
	}, nil
}

func (a *mockProviderAdapter) Name() string {
	return "local-mock"
}

// bedrockProviderAdapter adapts bedrock.Provider to the Provider interface.
type bedrockProviderAdapter struct {
	provider *bedrock.Provider
	name     string
}

func (a *bedrockProviderAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	bedrockMessages := make([]bedrock.Message, len(messages))
	for i, msg := range messages {
		bedrockMessages[i] = bedrock.Message{Role: msg.Role, Content: msg.Content}
	}

	var bedrockOpts *bedrock.ChatOptions
	if opts != nil {
		bedrockOpts = &bedrock.ChatOptions{
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
		}
	}

	resp, err := a.provider.Chat(ctx, bedrockMessages, bedrockOpts)
	if err != nil {
		return nil, translateBedrockError(err)
	}

	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.TokensPrompt,
		TokensTotal:  resp.TokensTotal,
	}, nil
}

func (a *bedrockProviderAdapter) Name() string {
	return a.name
}

// translateBedrockError re-wraps bedrock sentinels as the llm sentinels so
// callers only check against this package.
func translateBedrockError(err error) error {
	switch {
	case errors.Is(err, bedrock.ErrContextCanceled):
		return fmt.Errorf("%w: %v", ErrContextCanceled, err)
	case errors.Is(err, bedrock.ErrInvalidResponse):
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	case errors.Is(err, bedrock.ErrMissingModel):
		return fmt.Errorf("%w: %v", ErrMissingModel, err)
	case errors.Is(err, bedrock.ErrProviderUnavailable):
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	default:
		return err
	}
}
