package prompts

import (
	"strings"

	"github.com/jonathan/ticket-drafter/internal/types"
)

const ticketsFile = "tickets.json"

// BuildSystemPrompt returns the fixed system instruction: role framing
// plus the hard output constraints. Identical for every request.
func BuildSystemPrompt() string {
	return MustGet(ticketsFile, "system")
}

// BuildUserPrompt builds the initial user prompt. The raw input is
// embedded verbatim inside triple-quote delimiters so the model treats
// it as data rather than instructions.
func BuildUserPrompt(input string, ticketType types.TicketType, sections []types.Section, schema string) string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = string(s)
	}

	template := MustGet(ticketsFile, "user")
	return Format(template, map[string]string{
		"TicketType": string(ticketType),
		"Input":      input,
		"Sections":   strings.Join(names, ", "),
		"Schema":     schema,
	})
}

// BuildRetryPrompt builds the corrective prompt used after a malformed
// reply: the initial prompt with the fix-your-JSON clause appended. It
// composes BuildUserPrompt rather than duplicating its construction.
func BuildRetryPrompt(input string, ticketType types.TicketType, sections []types.Section, schema string) string {
	base := BuildUserPrompt(input, ticketType, sections, schema)
	return base + "\n\n" + MustGet(ticketsFile, "retry-suffix")
}
