package server

import (
	"time"

	"interviewprep/internal/ai"
	"interviewprep/internal/config"
	apperrors "interviewprep/internal/errors"
)

// QuestionRequest is the body of POST /api/v1/questions. Enumerated fields
// accept the full label or its first word; omitted ones take the form
// defaults. includeAnswers defaults to true.
type QuestionRequest struct {
	JobTitle            string `json:"jobTitle"`
	RoundType           string `json:"roundType"`
	ExperienceBracket   string `json:"experienceBracket"`
	IncludeAnswers      *bool  `json:"includeAnswers"`
	CandidateBackground string `json:"candidateBackground"`
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error       string   `json:"error"`
	Code        string   `json:"code"`
	Message     string   `json:"message,omitempty"`
	Remediation []string `json:"remediation,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig config.TLSConfig

	// API Authentication for /api/v1/questions
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Question generation and the prompt template it renders
	Service *ai.Service

	TemplateWatcher *TemplateWatcher

	Logger *apperrors.Logger

	pages *pageRenderer
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
}

// ServerConfigFrom copies the server section of appCfg
func ServerConfigFrom(appCfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           appCfg.Server.Host,
		Port:           appCfg.Server.Port,
		Version:        version,
		TLSConfig:      appCfg.Server.TLS,
		APIKeys:        appCfg.Server.APIKeys,
		ReadTimeout:    appCfg.Server.ReadTimeout,
		WriteTimeout:   appCfg.Server.WriteTimeout,
		IdleTimeout:    appCfg.Server.IdleTimeout,
		MaxRequestSize: appCfg.Server.MaxRequestSize,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, service *ai.Service, logger *apperrors.Logger) (*Server, error) {
	if logger == nil {
		logger = apperrors.Discard()
	}

	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	pages, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		Service:        service,
		Logger:         logger,
		pages:          pages,
	}, nil
}
