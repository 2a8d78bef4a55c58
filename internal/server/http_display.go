package server

import (
	"fmt"
	"net/http"

	"interviewprep/internal/utils"
)

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo(httpServer *http.Server) {
	scheme := "http"
	if httpServer.TLSConfig != nil {
		scheme = "https"
	}
	fmt.Printf("Interview question generator on %s://%s\n", scheme, httpServer.Addr)

	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayPromptInfo()
}

// displayEndpoints shows available endpoints
func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /                  - Question generator form")
	fmt.Println("  POST /generate          - Submit the form")
	fmt.Println("  POST /api/v1/questions  - Generate questions as JSON (requires API key when configured)")
	fmt.Println("  GET  /api/v1/options    - Round types, experience levels and defaults")
	fmt.Println("  GET  /health            - Health check")
	fmt.Println("  GET  /stats             - Server statistics")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /api/v1/questions")
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %s\n", utils.FormatFileSize(s.MaxRequestSize))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

// displayPromptInfo shows where the prompt template comes from
func (s *Server) displayPromptInfo() {
	fmt.Printf("Prompt template: %s\n", s.Service.Prompts().Source())
	if s.TemplateWatcher != nil {
		fmt.Println("  - Hot reload enabled")
	}
}
