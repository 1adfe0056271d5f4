package llm

import "fmt"

// ConfigError indicates missing or invalid provider configuration, such
// as an absent API credential. It is fatal: no outbound call is made and
// nothing is retried.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// TimeoutError indicates an outbound call did not complete within its
// time budget. The orchestrator responds by falling back to the next
// model rather than retrying the same one.
type TimeoutError struct {
	Model string
	Cause error
}

func (e *TimeoutError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("call to model %s timed out: %v", e.Model, e.Cause)
	}
	return fmt.Sprintf("call to model %s timed out", e.Model)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ProviderError indicates a non-success status or API-level error
// payload from the model backend.
type ProviderError struct {
	Model      string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("provider error from model %s", e.Model)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// EmptyResponseError indicates the call succeeded at the transport level
// but returned no usable content.
type EmptyResponseError struct {
	Model string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("empty response from model %s", e.Model)
}
