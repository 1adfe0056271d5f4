package generation

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/ticket-drafter/internal/types"
)

// StripFence removes a single markdown code fence wrapper from a model
// reply, with or without a language tag. Models often wrap JSON in
// ```json ... ``` blocks even when instructed not to. Idempotent: text
// without a fence passes through unchanged.
func StripFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a bare language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ParseTicket parses normalized reply text into a TicketData record.
// Any JSON syntax failure yields a MalformedOutputError attributed to
// the model that produced the text; no partial record is returned.
func ParseTicket(model, text string) (*types.TicketData, error) {
	var ticket types.TicketData
	if err := json.Unmarshal([]byte(text), &ticket); err != nil {
		return nil, &MalformedOutputError{Model: model, Cause: err}
	}
	return &ticket, nil
}
