package ai

import (
	"context"
	"fmt"
	"strings"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// defaultAnthropicMaxTokens is used when ai.maxTokens is unset; the
// Messages API requires a value.
const defaultAnthropicMaxTokens = 4096

// AnthropicProvider implements CompletionProvider for the Claude Messages API
type AnthropicProvider struct {
	client  anthropic.Client
	config  config.AIConfig
	breaker *CompletionBreaker
	logger  *errors.Logger
}

var _ CompletionProvider = (*AnthropicProvider)(nil)

// NewAnthropicProvider creates a new Anthropic provider instance
func NewAnthropicProvider(cfg config.AIConfig, apiKey string, breaker *CompletionBreaker, logger *errors.Logger) *AnthropicProvider {
	// The SDK retries 429 and 5xx by default; a submission gets one attempt
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicProvider{
		client:  anthropic.NewClient(opts...),
		config:  cfg,
		breaker: breaker,
		logger:  logger,
	}
}

// Complete sends prompt as a single user message
func (a *AnthropicProvider) Complete(ctx context.Context, prompt string) (*Completion, error) {
	ctx, span := startCompletionSpan(ctx, a.config, prompt)
	defer span.End()

	maxTokens := int64(a.config.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.config.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(float64(a.config.Temperature)),
	}

	completion, err := a.breaker.Execute(func() (*Completion, error) {
		msg, err := a.client.Messages.New(ctx, params)
		if err != nil {
			return nil, err
		}

		var sb strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return &Completion{
			Text: sb.String(),
			Usage: &types.TokenUsage{
				InputTokens:  msg.Usage.InputTokens,
				OutputTokens: msg.Usage.OutputTokens,
				TotalTokens:  msg.Usage.InputTokens + msg.Usage.OutputTokens,
			},
		}, nil
	})
	endCompletionSpan(span, completion, err)
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// GetModelInfo checks the configured model against the Models API
func (a *AnthropicProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Provider: config.ProviderAnthropic,
		Name:     a.config.Model,
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := a.client.Models.Get(checkCtx, a.config.Model, anthropic.ModelGetParams{})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		a.logger.Warn("Model availability check failed",
			"model", a.config.Model,
			"provider", config.ProviderAnthropic,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	return modelInfo
}

func (a *AnthropicProvider) Close() error {
	return nil
}
