package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jonathan/ticket-drafter/internal/types"
)

// OpenRouterClient implements Client for OpenRouter, which speaks the
// OpenAI chat-completions wire format.
type OpenRouterClient struct {
	cfg    ProviderConfig
	client openai.Client
}

// NewOpenRouterClient creates a new OpenRouter backend caller.
func NewOpenRouterClient(cfg ProviderConfig) *OpenRouterClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenRouterClient{
		cfg:    cfg,
		client: openai.NewClient(opts...),
	}
}

// Provider returns the backend identifier.
func (c *OpenRouterClient) Provider() types.Provider {
	return types.ProviderOpenRouter
}

// Call performs one chat-completion call against the named model.
func (c *OpenRouterClient) Call(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &ConfigError{Message: "OPENROUTER_API_KEY is not set"}
	}

	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(int64(c.cfg.MaxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenRouterError(ctx, model, err)
	}

	if len(resp.Choices) == 0 {
		return "", &EmptyResponseError{Model: model}
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &EmptyResponseError{Model: model}
	}

	return content, nil
}

// classifyOpenRouterError maps SDK and transport failures onto the
// shared error taxonomy.
func classifyOpenRouterError(ctx context.Context, model string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Model: model, Cause: err}
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Model:      model,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Type,
			Cause:      err,
		}
	}

	return &ProviderError{Model: model, Message: "OpenRouter API call failed", Cause: err}
}
