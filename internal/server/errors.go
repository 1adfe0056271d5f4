package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/ticket-drafter/internal/llm"
	"github.com/jonathan/ticket-drafter/internal/types"
)

// HTTPStatus maps a terminal generation error to the response status.
// Only the classification crosses the boundary; provider error bodies
// and parse diagnostics stay server-side.
func HTTPStatus(err error) int {
	var timeout *llm.TimeoutError
	if errors.As(err, &timeout) {
		return http.StatusRequestTimeout
	}
	return http.StatusInternalServerError
}

// publicMessage returns the user-facing message for a terminal
// generation error.
func publicMessage(err error, provider types.Provider) string {
	var timeout *llm.TimeoutError
	if errors.As(err, &timeout) {
		return "Request timeout. Please try again."
	}
	return fmt.Sprintf("Failed to generate ticket with %s. Please try again.", provider)
}
