package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/ticket-drafter/internal/types"
)

// handleGenerateTicket converts free-form text into a structured ticket.
// All pre-conditions (size, content type, sanitization, validation) are
// enforced here so the generation core only ever sees valid requests.
func (s *Server) handleGenerateTicket(w http.ResponseWriter, r *http.Request) {
	if contentLength := r.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > maxBodySize {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		s.errorResponse(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req types.GenerateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	// Sanitize before validation so length bounds apply to what the
	// model will actually see.
	req.Input = sanitizeInput(req.Input)

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	provider := req.Provider
	if provider == "" {
		provider = s.defaultProvider
	}

	gen, ok := s.generators[provider]
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid provider. Must be 'openrouter' or 'gemini'")
		return
	}

	ticket, err := gen.Generate(r.Context(), &req)
	if err != nil {
		log.Printf("[generate] generation failed provider=%s: %v", provider, err)
		s.errorResponse(w, HTTPStatus(err), publicMessage(err, provider))
		return
	}

	s.jsonResponse(w, http.StatusOK, types.GenerateTicketResponse{Ticket: ticket})
}

// validationMessage converts a validation failure into a user-facing
// message without exposing validator internals.
func validationMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Input") && strings.Contains(msg, "min"):
		return "Input text must be at least 10 characters"
	case strings.Contains(msg, "Input") && strings.Contains(msg, "max"):
		return "Input text must not exceed 10000 characters"
	case strings.Contains(msg, "Input"):
		return "Input text is required"
	case strings.Contains(msg, "Sections"):
		return "At least one valid section must be selected"
	case strings.Contains(msg, "invalid section"):
		return msg
	case strings.Contains(msg, "invalid ticket type"):
		return "Valid ticket type is required (Bug, Task, or Story)"
	case strings.Contains(msg, "invalid provider"):
		return "Invalid provider. Must be 'openrouter' or 'gemini'"
	case strings.Contains(msg, "TicketType"):
		return "Valid ticket type is required (Bug, Task, or Story)"
	default:
		return "Invalid request"
	}
}
