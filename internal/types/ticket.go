// Package types provides type definitions for structured data used throughout the ticket-drafter system.
package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// TicketType describes the kind of ticket being generated. It shapes
// prompt wording only, not the output schema.
type TicketType string

// Supported ticket types
const (
	TicketTypeBug   TicketType = "Bug"
	TicketTypeTask  TicketType = "Task"
	TicketTypeStory TicketType = "Story"
)

// Section is one of the nine fixed named parts of a ticket.
type Section string

// Supported ticket sections
const (
	SectionSummary            Section = "Summary"
	SectionType               Section = "Type"
	SectionDescription        Section = "Description"
	SectionScope              Section = "Scope"
	SectionAcceptanceCriteria Section = "Acceptance Criteria"
	SectionExpectedOutcome    Section = "Expected Outcome"
	SectionRisks              Section = "Risks"
	SectionDependencies       Section = "Dependencies"
	SectionValidationPlan     Section = "Validation Plan"
)

// AllSections lists every section in canonical order.
var AllSections = []Section{
	SectionSummary,
	SectionType,
	SectionDescription,
	SectionScope,
	SectionAcceptanceCriteria,
	SectionExpectedOutcome,
	SectionRisks,
	SectionDependencies,
	SectionValidationPlan,
}

// Provider identifies an external text-generation backend.
type Provider string

// Supported providers
const (
	ProviderOpenRouter Provider = "openrouter"
	ProviderGemini     Provider = "gemini"
)

// Valid reports whether t is a known ticket type.
func (t TicketType) Valid() bool {
	switch t {
	case TicketTypeBug, TicketTypeTask, TicketTypeStory:
		return true
	}
	return false
}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	for _, known := range AllSections {
		if s == known {
			return true
		}
	}
	return false
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	return p == ProviderOpenRouter || p == ProviderGemini
}

// GenerateTicketRequest represents a single ticket generation request.
// Input is the free-form text to convert; Sections is the ordered set of
// requested sections. Provider is optional and falls back to the
// server-configured default when empty.
type GenerateTicketRequest struct {
	Input      string     `json:"input" validate:"required,min=10,max=10000"`
	TicketType TicketType `json:"ticketType" validate:"required"`
	Sections   []Section  `json:"sections" validate:"required,min=1,max=20"`
	Provider   Provider   `json:"provider,omitempty"`
}

// Validate validates the GenerateTicketRequest using the validator plus
// enum membership checks that struct tags cannot express.
func (r *GenerateTicketRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}

	if !r.TicketType.Valid() {
		return fmt.Errorf("invalid ticket type: %q (must be Bug, Task, or Story)", r.TicketType)
	}

	for _, s := range r.Sections {
		if !s.Valid() {
			return fmt.Errorf("invalid section: %q", s)
		}
	}

	if r.Provider != "" && !r.Provider.Valid() {
		return fmt.Errorf("invalid provider: %q (must be openrouter or gemini)", r.Provider)
	}

	return nil
}

// TicketData is the structured result of a generation. Only fields
// corresponding to the requested sections are expected to be populated.
type TicketData struct {
	Summary            string   `json:"summary,omitempty"`
	Type               string   `json:"type,omitempty"`
	Description        string   `json:"description,omitempty"`
	Scope              []string `json:"scope,omitempty"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	ExpectedOutcome    []string `json:"expected_outcome,omitempty"`
	Risks              []string `json:"risks,omitempty"`
	Dependencies       []string `json:"dependencies,omitempty"`
	ValidationPlan     []string `json:"validation_plan,omitempty"`
}

// GenerateTicketResponse is the HTTP response body for a successful generation.
type GenerateTicketResponse struct {
	Ticket *TicketData `json:"ticket"`
}
