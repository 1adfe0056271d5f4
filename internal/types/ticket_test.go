package types

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *GenerateTicketRequest {
	return &GenerateTicketRequest{
		Input:      "Users cannot reset their password after clicking the email link",
		TicketType: TicketTypeBug,
		Sections:   []Section{SectionSummary, SectionDescription},
	}
}

func TestGenerateTicketRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GenerateTicketRequest)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(r *GenerateTicketRequest) {},
		},
		{
			name:   "valid with provider",
			mutate: func(r *GenerateTicketRequest) { r.Provider = ProviderGemini },
		},
		{
			name:    "empty input",
			mutate:  func(r *GenerateTicketRequest) { r.Input = "" },
			wantErr: "Input",
		},
		{
			name:    "input too short",
			mutate:  func(r *GenerateTicketRequest) { r.Input = "short" },
			wantErr: "Input",
		},
		{
			name:    "input too long",
			mutate:  func(r *GenerateTicketRequest) { r.Input = strings.Repeat("a", 10001) },
			wantErr: "Input",
		},
		{
			name:   "input at max length",
			mutate: func(r *GenerateTicketRequest) { r.Input = strings.Repeat("a", 10000) },
		},
		{
			name:    "missing ticket type",
			mutate:  func(r *GenerateTicketRequest) { r.TicketType = "" },
			wantErr: "TicketType",
		},
		{
			name:    "unknown ticket type",
			mutate:  func(r *GenerateTicketRequest) { r.TicketType = "Epic" },
			wantErr: "invalid ticket type",
		},
		{
			name:    "no sections",
			mutate:  func(r *GenerateTicketRequest) { r.Sections = nil },
			wantErr: "Sections",
		},
		{
			name:    "unknown section",
			mutate:  func(r *GenerateTicketRequest) { r.Sections = []Section{"Budget"} },
			wantErr: "invalid section",
		},
		{
			name:    "unknown provider",
			mutate:  func(r *GenerateTicketRequest) { r.Provider = "acme" },
			wantErr: "invalid provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestTicketTypeValid(t *testing.T) {
	assert.True(t, TicketTypeBug.Valid())
	assert.True(t, TicketTypeTask.Valid())
	assert.True(t, TicketTypeStory.Valid())
	assert.False(t, TicketType("Epic").Valid())
	assert.False(t, TicketType("").Valid())
}

func TestSectionValid(t *testing.T) {
	for _, s := range AllSections {
		assert.True(t, s.Valid(), "section %q", s)
	}
	assert.False(t, Section("Budget").Valid())
	assert.False(t, Section("summary").Valid(), "section names are case sensitive")
}

func TestProviderValid(t *testing.T) {
	assert.True(t, ProviderOpenRouter.Valid())
	assert.True(t, ProviderGemini.Valid())
	assert.False(t, Provider("acme").Valid())
}

func TestAllSectionsCount(t *testing.T) {
	assert.Len(t, AllSections, 9)
}

func TestTicketDataOmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(&TicketData{Summary: "Fix login"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary": "Fix login"}`, string(data))
}

func TestGenerateTicketRequestJSONKeys(t *testing.T) {
	raw := `{
		"input": "Users cannot reset their password after clicking the link",
		"ticketType": "Story",
		"sections": ["Summary", "Risks"],
		"provider": "gemini"
	}`

	var req GenerateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	assert.Equal(t, TicketTypeStory, req.TicketType)
	assert.Equal(t, []Section{SectionSummary, SectionRisks}, req.Sections)
	assert.Equal(t, ProviderGemini, req.Provider)
}
