// Package server provides the HTTP API for the ticket drafter.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/ticket-drafter/internal/generation"
	"github.com/jonathan/ticket-drafter/internal/llm"
	"github.com/jonathan/ticket-drafter/internal/server/ratelimit"
	"github.com/jonathan/ticket-drafter/internal/types"
)

// Server represents the HTTP server.
type Server struct {
	httpServer      *http.Server
	rateLimiter     *ratelimit.Limiter
	generators      map[types.Provider]*generation.Generator
	defaultProvider types.Provider
}

// Config holds server configuration.
type Config struct {
	Port            int
	DefaultProvider types.Provider // empty falls back to DEFAULT_PROVIDER env, then openrouter
	StrictSchema    bool           // enable post-parse structural validation of model output
}

// New creates a new server instance.
func New(cfg Config) (*Server, error) {
	defaultProvider := cfg.DefaultProvider
	if defaultProvider == "" {
		defaultProvider = types.Provider(os.Getenv("DEFAULT_PROVIDER"))
	}
	if defaultProvider == "" {
		defaultProvider = types.ProviderOpenRouter
	}
	if !defaultProvider.Valid() {
		return nil, fmt.Errorf("invalid default provider: %q", defaultProvider)
	}

	s := &Server{
		generators:      make(map[types.Provider]*generation.Generator),
		defaultProvider: defaultProvider,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// One generator per backend; credentials are checked per request so
	// a provider without a key still fails cleanly instead of at boot.
	for _, providerCfg := range []llm.ProviderConfig{
		llm.LoadOpenRouterConfig(),
		llm.LoadGeminiConfig(),
	} {
		client, err := llm.NewClient(providerCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s client: %w", providerCfg.Provider, err)
		}
		s.generators[providerCfg.Provider] = generation.New(client, providerCfg, cfg.StrictSchema)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/generate-ticket", s.handleGenerateTicket)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.withSecurityHeaders(mux)))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second, // covers the worst-case four outbound calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withSecurityHeaders adds the standard security headers to every response.
func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		next.ServeHTTP(w, r)
	})
}

// withRateLimit enforces the per-client rate limit.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		clientID := s.extractClientID(r)
		result := s.rateLimiter.Allow(clientID)

		s.setRateLimitHeaders(w, result)
		if !result.Allowed {
			s.rateLimitResponse(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging with a request id.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		log.Printf("[%s] %s %s request_id=%s", r.Method, r.URL.Path, r.RemoteAddr, requestID)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v request_id=%s", r.Method, r.URL.Path, time.Since(start), requestID)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier used as the rate limit
// key. Proxy headers are consulted first so deployments behind a load
// balancer limit end clients rather than the proxy.
func (s *Server) extractClientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}
	if realIP := r.Header.Get("X-Real-Ip"); realIP != "" {
		return realIP
	}
	if cfIP := r.Header.Get("Cf-Connecting-Ip"); cfIP != "" {
		return cfIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, result ratelimit.Result) {
	if result.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		w.Header().Set("X-RateLimit-Reset", result.ResetAt.Format(time.RFC3339))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, result ratelimit.Result) {
	if result.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(result.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		result.Limit, result.Remaining, result.ResetAt.Format(time.RFC3339))

	s.errorResponse(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}
