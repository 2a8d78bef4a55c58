package ai

import (
	"context"
	"fmt"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	"google.golang.org/genai"
)

// GeminiProvider implements CompletionProvider for Google Gemini
type GeminiProvider struct {
	client  *genai.Client
	config  config.AIConfig
	breaker *CompletionBreaker
	logger  *errors.Logger
}

var _ CompletionProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(ctx context.Context, cfg config.AIConfig, apiKey string, breaker *CompletionBreaker, logger *errors.Logger) (*GeminiProvider, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeRequestFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:  client,
		config:  cfg,
		breaker: breaker,
		logger:  logger,
	}, nil
}

// Complete sends prompt in a single GenerateContent call
func (g *GeminiProvider) Complete(ctx context.Context, prompt string) (*Completion, error) {
	ctx, span := startCompletionSpan(ctx, g.config, prompt)
	defer span.End()

	temperature := g.config.Temperature
	genaiConfig := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if g.config.MaxTokens > 0 {
		genaiConfig.MaxOutputTokens = int32(g.config.MaxTokens)
	}

	completion, err := g.breaker.Execute(func() (*Completion, error) {
		result, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(prompt), genaiConfig)
		if err != nil {
			return nil, err
		}
		return &Completion{
			Text:  result.Text(),
			Usage: extractTokenUsage(result),
		}, nil
	})
	endCompletionSpan(span, completion, err)
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Provider: config.ProviderGemini,
		Name:     g.config.Model,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", config.ProviderGemini,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", config.ProviderGemini,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// Close is a no-op; the genai client holds no resources in single-shot use
func (g *GeminiProvider) Close() error {
	return nil
}

func extractTokenUsage(result *genai.GenerateContentResponse) *types.TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &types.TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
