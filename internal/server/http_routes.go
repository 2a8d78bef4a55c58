package server

import (
	"net/http"
	"strings"

	"interviewprep/internal/observability"

	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all HTTP routes and middleware. om may be nil.
func (s *Server) setupRoutes(om *observability.ObservabilityManager) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(recoverer(s.Logger))
	r.Use(accessLog(s.Logger))
	r.Use(om.HTTPMiddleware())
	r.Use(maxBytes(s.MaxRequestSize))

	r.Get("/", s.formHandler)
	r.Post("/generate", s.createFormGenerateHandler(om))

	r.Get("/health", s.healthHandler)
	r.Get("/stats", s.statsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/options", s.optionsHandler)
		r.With(s.authMiddleware).Post("/questions", s.createQuestionsHandler(om))
	})

	return r
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if len(s.APIKeys) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				apiKey = after
			}
		}

		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "Missing API key",
				Code:    "UNAUTHORIZED",
				Message: "X-API-Key header or Authorization Bearer token required",
			})
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "Invalid API key",
				Code:    "UNAUTHORIZED",
				Message: "Unauthorized access",
			})
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"api_key_prefix", maskAPIKey(apiKey))

		next.ServeHTTP(w, r)
	})
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
