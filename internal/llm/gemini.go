package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/ticket-drafter/internal/types"
)

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	cfg ProviderConfig
}

// NewGeminiClient creates a new Gemini backend caller.
func NewGeminiClient(cfg ProviderConfig) *GeminiClient {
	return &GeminiClient{cfg: cfg}
}

// Provider returns the backend identifier.
func (c *GeminiClient) Provider() types.Provider {
	return types.ProviderGemini
}

// Call performs one generation call against the named Gemini model.
func (c *GeminiClient) Call(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &ConfigError{Message: "GOOGLE_GEMINI_API_KEY is not set"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.cfg.APIKey))
	if err != nil {
		return "", classifyGeminiError(ctx, model, err)
	}
	defer func() { _ = client.Close() }()

	m := client.GenerativeModel(model)
	m.SetTemperature(float32(c.cfg.Temperature))
	m.SetMaxOutputTokens(int32(c.cfg.MaxTokens))
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", classifyGeminiError(ctx, model, err)
	}

	return extractGeminiText(model, resp)
}

// extractGeminiText joins the text parts of the first candidate.
func extractGeminiText(model string, resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &EmptyResponseError{Model: model}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &EmptyResponseError{Model: model}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	joined := strings.Join(parts, "")
	if strings.TrimSpace(joined) == "" {
		return "", &EmptyResponseError{Model: model}
	}

	return joined, nil
}

// classifyGeminiError maps SDK and transport failures onto the shared
// error taxonomy.
func classifyGeminiError(ctx context.Context, model string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Model: model, Cause: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{
			Model:      model,
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Cause:      err,
		}
	}

	return &ProviderError{Model: model, Message: "Gemini API call failed", Cause: err}
}
