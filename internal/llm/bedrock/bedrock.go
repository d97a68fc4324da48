// Package bedrock provides an AWS Bedrock implementation of the llm.Provider
// interface using the Converse API.
//
// Note: To avoid import cycles, this package defines its own types that match
// the llm.Provider interface. The parent llm package adapts them.
package bedrock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
)

// RuntimeAPI defines the Bedrock Runtime operations used here, enabling mock
// injection for testing.
type RuntimeAPI interface {
	Converse(
		ctx context.Context,
		params *bedrockruntime.ConverseInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.ConverseOutput, error)
}

// NewRuntimeClient creates a Bedrock Runtime client from an AWS config.
func NewRuntimeClient(cfg aws.Config) RuntimeAPI {
	return bedrockruntime.NewFromConfig(cfg)
}

// Provider implements the LLM provider interface for Bedrock.
type Provider struct {
	client RuntimeAPI
	config Config
	logger *slog.Logger
}

// Config holds Bedrock-specific configuration.
type Config struct {
	// Model is the default model id used when a request names none.
	Model string

	// Mode labels how the client authenticates ("ambient" or "federated").
	Mode string
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

// Response represents a complete LLM response.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

// Common errors
var (
	ErrProviderUnavailable = errors.New("llm provider is not reachable")
	ErrInvalidResponse     = errors.New("provider returned invalid response")
	ErrContextCanceled     = errors.New("operation was canceled")
	ErrMissingModel        = errors.New("model id is required")
)

// New creates a Bedrock provider around an already-authenticated client.
func New(client RuntimeAPI, cfg Config, logger *slog.Logger) (*Provider, error) {
	if client == nil {
		return nil, errors.New("bedrock client cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Provider{client: client, config: cfg, logger: logger}, nil
}

// Chat sends messages to Bedrock and returns a complete response.
func (p *Provider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	model := p.config.Model
	if opts != nil && opts.Model != "" {
		model = opts.Model
	}
	if model == "" {
		return nil, ErrMissingModel
	}

	input := &bedrockruntime.ConverseInput{ModelId: aws.String(model)}
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			input.System = append(input.System, &types.SystemContentBlockMemberText{Value: msg.Content})
		case "assistant":
			input.Messages = append(input.Messages, textMessage(types.ConversationRoleAssistant, msg.Content))
		default:
			input.Messages = append(input.Messages, textMessage(types.ConversationRoleUser, msg.Content))
		}
	}

	if opts != nil {
		inference := &types.InferenceConfiguration{Temperature: aws.Float32(opts.Temperature)}
		if opts.MaxTokens > 0 {
			inference.MaxTokens = aws.Int32(int32(opts.MaxTokens))
		}
		input.InferenceConfig = inference
	}

	p.logger.Debug("sending converse request", "model", model, "messages", len(input.Messages), "mode", p.config.Mode)

	out, err := p.client.Converse(ctx, input)
	if err != nil {
		p.logger.Error("converse request failed", "error", err, "model", model, "code", errorCode(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrContextCanceled, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	content, err := outputText(out)
	if err != nil {
		return nil, err
	}

	resp := &Response{Content: content, Model: model}
	if out.Usage != nil {
		resp.TokensPrompt = int(aws.ToInt32(out.Usage.InputTokens))
		resp.TokensTotal = int(aws.ToInt32(out.Usage.TotalTokens))
	}

	p.logger.Debug("converse request completed",
		"model", model,
		"stop_reason", out.StopReason,
		"prompt_tokens", resp.TokensPrompt,
		"total_tokens", resp.TokensTotal)

	return resp, nil
}

func textMessage(role types.ConversationRole, text string) types.Message {
	return types.Message{
		Role:    role,
		Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: text}},
	}
}

// outputText concatenates the text blocks of a Converse reply.
func outputText(out *bedrockruntime.ConverseOutput) (string, error) {
	if out == nil {
		return "", fmt.Errorf("%w: empty output", ErrInvalidResponse)
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("%w: output is not a message", ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text content", ErrInvalidResponse)
	}
	return sb.String(), nil
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
