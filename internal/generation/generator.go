// Package generation orchestrates ticket generation: it composes the
// prompts, drives the backend caller through the fixed retry/fallback
// policy, and normalizes the reply into a typed record.
package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/ticket-drafter/internal/llm"
	"github.com/jonathan/ticket-drafter/internal/prompts"
	"github.com/jonathan/ticket-drafter/internal/schemas"
	"github.com/jonathan/ticket-drafter/internal/types"
)

// Generator runs the generation state machine for one provider. It is
// stateless across requests; two concurrent calls share nothing but the
// read-only configuration.
type Generator struct {
	client       llm.Client
	cfg          llm.ProviderConfig
	strictSchema bool
}

// New creates a Generator. strictSchema enables the post-parse
// structural check of the record against the requested sections; when a
// strict check fails the reply is treated as malformed output, making
// it eligible for the same-model retry.
func New(client llm.Client, cfg llm.ProviderConfig, strictSchema bool) *Generator {
	return &Generator{
		client:       client,
		cfg:          cfg,
		strictSchema: strictSchema,
	}
}

// Generate converts the request into a TicketData record, or fails
// with one classified error.
//
// Policy, per model in [primary, fallback]:
//   - success: return immediately;
//   - malformed output: retry the same model once with the corrective
//     prompt; a second failure of any kind abandons the model;
//   - timeout / provider error / empty response: no same-model retry,
//     proceed to the next model with the original prompt.
//
// Exhausting the chain fails with the last observed error,
// classification intact. Fixed and non-adaptive: no backoff, no jitter,
// no state carried between requests.
func (g *Generator) Generate(ctx context.Context, req *types.GenerateTicketRequest) (*types.TicketData, error) {
	if g.cfg.APIKey == "" {
		return nil, &llm.ConfigError{
			Message: fmt.Sprintf("missing API credential for provider %s", g.cfg.Provider),
		}
	}

	// Composed once per request, not per model.
	schema := schemas.BuildDescription(req.Sections)
	systemPrompt := prompts.BuildSystemPrompt()
	initialPrompt := prompts.BuildUserPrompt(req.Input, req.TicketType, req.Sections, schema)

	var lastErr error
	for _, model := range g.cfg.ModelChain() {
		ticket, err := g.attempt(ctx, model, systemPrompt, initialPrompt, req.Sections)

		retries := 0
		for err != nil && isMalformed(err) && retries < g.cfg.MaxRetries {
			retries++
			retryPrompt := prompts.BuildRetryPrompt(req.Input, req.TicketType, req.Sections, schema)
			ticket, err = g.attempt(ctx, model, systemPrompt, retryPrompt, req.Sections)
		}

		if err == nil {
			return ticket, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// Provider returns the backend this generator drives.
func (g *Generator) Provider() types.Provider {
	return g.client.Provider()
}

// attempt performs one bounded call and normalizes the reply.
func (g *Generator) attempt(ctx context.Context, model, systemPrompt, userPrompt string, sections []types.Section) (*types.TicketData, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	raw, err := g.client.Call(callCtx, model, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	cleaned := StripFence(raw)
	ticket, err := ParseTicket(model, cleaned)
	if err != nil {
		return nil, err
	}

	if g.strictSchema {
		if err := schemas.ValidateRecord(sections, cleaned); err != nil {
			return nil, &MalformedOutputError{Model: model, Cause: err}
		}
	}

	return ticket, nil
}

func isMalformed(err error) bool {
	var malformed *MalformedOutputError
	return errors.As(err, &malformed)
}
