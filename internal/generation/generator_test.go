package generation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ticket-drafter/internal/llm"
	"github.com/jonathan/ticket-drafter/internal/types"
)

// scriptedCall is one canned backend reply.
type scriptedCall struct {
	text string
	err  error
}

// fakeClient replays scripted replies and records every call it receives.
type fakeClient struct {
	script []scriptedCall
	calls  []recordedCall
}

type recordedCall struct {
	model      string
	userPrompt string
}

func (f *fakeClient) Call(_ context.Context, model, _, userPrompt string) (string, error) {
	f.calls = append(f.calls, recordedCall{model: model, userPrompt: userPrompt})
	if len(f.script) == 0 {
		return "", errors.New("unexpected call")
	}
	next := f.script[0]
	f.script = f.script[1:]
	return next.text, next.err
}

func (f *fakeClient) Provider() types.Provider {
	return types.ProviderOpenRouter
}

func testConfig() llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider:      types.ProviderOpenRouter,
		APIKey:        "test-key",
		PrimaryModel:  "model-a",
		FallbackModel: "model-b",
		Temperature:   0.3,
		MaxTokens:     500,
		Timeout:       time.Second,
		MaxRetries:    1,
	}
}

func testRequest() *types.GenerateTicketRequest {
	return &types.GenerateTicketRequest{
		Input:      "Users cannot reset their password after clicking the email link",
		TicketType: types.TicketTypeTask,
		Sections: []types.Section{
			types.SectionSummary,
			types.SectionDescription,
			types.SectionAcceptanceCriteria,
		},
	}
}

const validReply = `{
	"summary": "Password reset link broken",
	"description": "Clicking the reset link in the email does not update the password.",
	"acceptance_criteria": ["Link opens the reset form", "New password is accepted"]
}`

func isRetryPrompt(prompt string) bool {
	return strings.Contains(prompt, "previous response contained invalid JSON")
}

func TestGenerateSuccessFirstAttempt(t *testing.T) {
	client := &fakeClient{script: []scriptedCall{{text: validReply}}}
	gen := New(client, testConfig(), false)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, ticket)

	require.Len(t, client.calls, 1)
	assert.Equal(t, "model-a", client.calls[0].model)
	assert.False(t, isRetryPrompt(client.calls[0].userPrompt))

	assert.Equal(t, "Password reset link broken", ticket.Summary)
	assert.Len(t, ticket.AcceptanceCriteria, 2)
}

func TestGenerateOnlyRequestedFieldsPopulated(t *testing.T) {
	client := &fakeClient{script: []scriptedCall{{text: validReply}}}
	gen := New(client, testConfig(), false)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	// Marshal and count keys: exactly the three requested fields.
	data, err := json.Marshal(ticket)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "summary")
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "acceptance_criteria")
}

func TestGenerateMalformedThenRetrySucceeds(t *testing.T) {
	client := &fakeClient{script: []scriptedCall{
		{text: `{"summary": "broken",`}, // invalid JSON
		{text: validReply},
	}}
	gen := New(client, testConfig(), false)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, ticket)

	// Same model twice, second call carries the corrective prompt;
	// the fallback model is never consulted.
	require.Len(t, client.calls, 2)
	assert.Equal(t, "model-a", client.calls[0].model)
	assert.Equal(t, "model-a", client.calls[1].model)
	assert.False(t, isRetryPrompt(client.calls[0].userPrompt))
	assert.True(t, isRetryPrompt(client.calls[1].userPrompt))
}

func TestGenerateMalformedTwiceFallsBack(t *testing.T) {
	client := &fakeClient{script: []scriptedCall{
		{text: `not json`},
		{text: `still not json`},
		{text: validReply},
	}}
	gen := New(client, testConfig(), false)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, ticket)

	// model-a: initial + one retry, then model-b with the ORIGINAL prompt.
	require.Len(t, client.calls, 3)
	assert.Equal(t, "model-a", client.calls[0].model)
	assert.Equal(t, "model-a", client.calls[1].model)
	assert.Equal(t, "model-b", client.calls[2].model)
	assert.True(t, isRetryPrompt(client.calls[1].userPrompt))
	assert.False(t, isRetryPrompt(client.calls[2].userPrompt))
	assert.Equal(t, client.calls[0].userPrompt, client.calls[2].userPrompt)
}

func TestGenerateTimeoutSkipsRetry(t *testing.T) {
	client := &fakeClient{script: []scriptedCall{
		{err: &llm.TimeoutError{Model: "model-a"}},
		{text: validReply},
	}}
	gen := New(client, testConfig(), false)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, ticket)

	// Transport failures consume no retry budget: straight to model-b
	// with the original prompt.
	require.Len(t, client.calls, 2)
	assert.Equal(t, "model-a", client.calls[0].model)
	assert.Equal(t, "model-b", client.calls[1].model)
	assert.False(t, isRetryPrompt(client.calls[1].userPrompt))
}

func TestGenerateAllModelsTimeOut(t *testing.T) {
	client := &fakeClient{script: []scriptedCall{
		{err: &llm.TimeoutError{Model: "model-a"}},
		{err: &llm.TimeoutError{Model: "model-b"}},
	}}
	gen := New(client, testConfig(), false)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Nil(t, ticket)

	// Terminal failure keeps the classification and is attributed to
	// the last model attempted.
	var timeout *llm.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "model-b", timeout.Model)
}

func TestGenerateProviderErrorFallsBack(t *testing.T) {
	client := &fakeClient{script: []scriptedCall{
		{err: &llm.ProviderError{Model: "model-a", StatusCode: 503}},
		{err: &llm.EmptyResponseError{Model: "model-b"}},
	}}
	gen := New(client, testConfig(), false)

	_, err := gen.Generate(context.Background(), testRequest())
	require.Error(t, err)

	var empty *llm.EmptyResponseError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "model-b", empty.Model)
	require.Len(t, client.calls, 2)
}

func TestGenerateMissingCredential(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	client := &fakeClient{}
	gen := New(client, cfg, false)

	_, err := gen.Generate(context.Background(), testRequest())
	require.Error(t, err)

	var configErr *llm.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Empty(t, client.calls, "no outbound call without a credential")
}

func TestGenerateStrictSchemaRejectsExtraFields(t *testing.T) {
	// Reply is valid JSON but includes a field that was not requested;
	// strict mode classifies it as malformed and retries once.
	withExtra := `{
		"summary": "Password reset link broken",
		"description": "Clicking the reset link does nothing.",
		"acceptance_criteria": ["works"],
		"risks": ["unrequested"]
	}`
	client := &fakeClient{script: []scriptedCall{
		{text: withExtra},
		{text: validReply},
	}}
	gen := New(client, testConfig(), true)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, ticket)

	require.Len(t, client.calls, 2)
	assert.True(t, isRetryPrompt(client.calls[1].userPrompt))
}

func TestGenerateStrictSchemaDisabledAcceptsExtraFields(t *testing.T) {
	withExtra := `{
		"summary": "Password reset link broken",
		"description": "Clicking the reset link does nothing.",
		"acceptance_criteria": ["works"],
		"risks": ["unrequested"]
	}`
	client := &fakeClient{script: []scriptedCall{{text: withExtra}}}
	gen := New(client, testConfig(), false)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, ticket)
	require.Len(t, client.calls, 1)
}

func TestGenerateNoFallbackModel(t *testing.T) {
	cfg := testConfig()
	cfg.FallbackModel = ""
	client := &fakeClient{script: []scriptedCall{
		{err: &llm.TimeoutError{Model: "model-a"}},
	}}
	gen := New(client, cfg, false)

	_, err := gen.Generate(context.Background(), testRequest())
	require.Error(t, err)
	require.Len(t, client.calls, 1)
}

func TestGenerateFencedReply(t *testing.T) {
	client := &fakeClient{script: []scriptedCall{
		{text: "```json\n" + validReply + "\n```"},
	}}
	gen := New(client, testConfig(), false)

	ticket, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Password reset link broken", ticket.Summary)
}
