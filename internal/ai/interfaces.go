package ai

import (
	"context"

	"interviewprep/internal/types"
)

// CompletionProvider sends one prompt to a hosted model and returns its text
type CompletionProvider interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// Completion is the raw model output plus token usage when reported
type Completion struct {
	Text  string
	Usage *types.TokenUsage
}

// ModelInfo represents information about the configured model
type ModelInfo struct {
	Provider    string `json:"provider"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
