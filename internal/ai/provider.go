package ai

import (
	"context"
	"fmt"
	"time"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// modelCheckTimeout bounds the GetModelInfo round trip used by /health
const modelCheckTimeout = 10 * time.Second

// ProviderFactory builds a provider once a credential has been resolved
type ProviderFactory func(ctx context.Context, cfg config.AIConfig, apiKey string, breaker *CompletionBreaker, logger *errors.Logger) (CompletionProvider, error)

// NewProvider is the default ProviderFactory
func NewProvider(ctx context.Context, cfg config.AIConfig, apiKey string, breaker *CompletionBreaker, logger *errors.Logger) (CompletionProvider, error) {
	logger.Debug("Initializing completion provider",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"max_tokens", cfg.MaxTokens)

	switch cfg.Provider {
	case config.ProviderMistral:
		return NewMistralProvider(cfg, apiKey, breaker, logger), nil
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, cfg, apiKey, breaker, logger)
	case config.ProviderAnthropic:
		return NewAnthropicProvider(cfg, apiKey, breaker, logger), nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}

// startCompletionSpan opens the "<provider>.complete" span shared by every provider
func startCompletionSpan(ctx context.Context, cfg config.AIConfig, prompt string) (context.Context, trace.Span) {
	tracer := otel.Tracer("interviewprep.ai." + cfg.Provider)
	ctx, span := tracer.Start(ctx, cfg.Provider+".complete")
	span.SetAttributes(
		attribute.String("ai.provider", cfg.Provider),
		attribute.String("ai.model", cfg.Model),
		attribute.Float64("ai.temperature", float64(cfg.Temperature)),
		attribute.Int("input.prompt_length", len(prompt)),
	)
	return ctx, span
}

// endCompletionSpan records the outcome of a completion on span
func endCompletionSpan(span trace.Span, completion *Completion, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return
	}
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.text_length", len(completion.Text)),
	)
	if u := completion.Usage; u != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", u.InputTokens),
			attribute.Int64("ai.tokens.output", u.OutputTokens),
			attribute.Int64("ai.tokens.total", u.TotalTokens),
		)
	}
}
