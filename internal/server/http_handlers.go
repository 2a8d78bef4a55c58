package server

import (
	"context"
	"net/http"
	"time"

	"interviewprep/internal/types"
	"interviewprep/internal/utils"
)

const defaultHealthCheckTimeout = 5 * time.Second

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if s.AppConfig != nil && s.AppConfig.Observability.HealthCheck.Timeout > 0 {
		return s.AppConfig.Observability.HealthCheck.Timeout
	}
	return defaultHealthCheckTimeout
}

// healthHandler reports provider, model, credential presence and breaker
// state. It never creates the completion client and never prints the key.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.getHealthCheckTimeout())
	defer cancel()

	handle := s.Service.Handle()
	aiCfg := handle.Config()
	breaker := handle.Breaker()
	credentialPresent := handle.CredentialPresent(ctx)

	response := map[string]any{
		"status":  "healthy",
		"service": "interviewprep",
		"version": s.Version,
		"ai": map[string]any{
			"provider":    aiCfg.Provider,
			"model":       aiCfg.Model,
			"initialized": handle.Initialized(),
		},
		"credential": map[string]any{
			"name":    aiCfg.CredentialName,
			"present": credentialPresent,
			"source":  handle.CredentialSource(),
		},
		"circuit_breaker": map[string]any{
			"state":   breaker.State(),
			"healthy": breaker.IsHealthy(),
		},
	}

	if handle.Initialized() {
		response["model_info"] = handle.ModelInfo(ctx)
	}

	status := http.StatusOK
	if !credentialPresent || !breaker.IsHealthy() {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}

// statsHandler provides server statistics
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	handle := s.Service.Handle()

	prompt := map[string]any{
		"source": s.Service.Prompts().Source(),
	}
	if s.TemplateWatcher != nil {
		prompt["watcher"] = s.TemplateWatcher.Stats()
	}

	response := map[string]any{
		"service": "interviewprep",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_request_size":       utils.FormatFileSize(s.MaxRequestSize),
			"api_auth_enabled":       len(s.APIKeys) > 0,
		},
		"circuit_breaker": handle.Breaker().Stats(),
		"client": map[string]any{
			"initialized":       handle.Initialized(),
			"credential_source": handle.CredentialSource(),
		},
		"prompt": prompt,
	}

	writeJSON(w, http.StatusOK, response)
}

// optionsHandler lists the enumerations and form defaults
func (s *Server) optionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"roundTypes":         types.RoundTypes,
		"experienceBrackets": types.ExperienceBrackets,
		"answerChoices":      types.AnswerChoices,
		"defaults":           types.DefaultGenerationRequest(),
	})
}
