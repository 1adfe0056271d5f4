package llm

import (
	"context"
	"fmt"

	"github.com/jonathan/ticket-drafter/internal/types"
)

// Client is the capability interface over model backends. One call, one
// model, one composed prompt pair; the reply is the raw completion text
// or a classified failure (TimeoutError, ProviderError,
// EmptyResponseError, ConfigError).
type Client interface {
	// Call performs a single outbound generation call against the named
	// model. The context carries the per-call time budget; on expiry the
	// in-flight request is cancelled, not abandoned.
	Call(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
	// Provider returns the backend this client talks to.
	Provider() types.Provider
}

// NewClient creates the backend caller for the configured provider.
func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case types.ProviderGemini:
		return NewGeminiClient(cfg), nil
	case types.ProviderOpenRouter:
		return NewOpenRouterClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %q", cfg.Provider)
	}
}
