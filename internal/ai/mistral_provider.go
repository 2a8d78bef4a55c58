package ai

import (
	"context"
	"fmt"
	"math"
	"strings"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	openai "github.com/sashabaranov/go-openai"
)

// MistralBaseURL is Mistral's OpenAI-compatible chat completions endpoint
const MistralBaseURL = "https://api.mistral.ai/v1"

// MistralProvider implements CompletionProvider against Mistral's
// OpenAI-compatible API. ai.baseURL points it at any other compatible server.
type MistralProvider struct {
	client  *openai.Client
	config  config.AIConfig
	breaker *CompletionBreaker
	logger  *errors.Logger
}

var _ CompletionProvider = (*MistralProvider)(nil)

// NewMistralProvider creates a new Mistral provider instance
func NewMistralProvider(cfg config.AIConfig, apiKey string, breaker *CompletionBreaker, logger *errors.Logger) *MistralProvider {
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = MistralBaseURL
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &MistralProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  cfg,
		breaker: breaker,
		logger:  logger,
	}
}

// Complete sends prompt as a single user message
func (m *MistralProvider) Complete(ctx context.Context, prompt string) (*Completion, error) {
	ctx, span := startCompletionSpan(ctx, m.config, prompt)
	defer span.End()

	req := openai.ChatCompletionRequest{
		Model: m.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: m.config.Temperature,
		MaxTokens:   m.config.MaxTokens, // omitted when zero
	}
	if req.Temperature == 0 {
		// go-openai drops a zero temperature from the body
		req.Temperature = math.SmallestNonzeroFloat32
	}

	completion, err := m.breaker.Execute(func() (*Completion, error) {
		resp, err := m.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("completion response contained no choices")
		}
		return &Completion{
			Text: resp.Choices[0].Message.Content,
			Usage: &types.TokenUsage{
				InputTokens:  int64(resp.Usage.PromptTokens),
				OutputTokens: int64(resp.Usage.CompletionTokens),
				TotalTokens:  int64(resp.Usage.TotalTokens),
			},
		}, nil
	})
	endCompletionSpan(span, completion, err)
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// GetModelInfo looks the configured model up in the model listing
func (m *MistralProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Provider: config.ProviderMistral,
		Name:     m.config.Model,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := m.client.GetModel(checkCtx, m.config.Model)
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		m.logger.Warn("Model availability check failed",
			"model", m.config.Model,
			"provider", config.ProviderMistral,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.ID
	return modelInfo
}

func (m *MistralProvider) Close() error {
	return nil
}
