package ai

import (
	"context"
	"time"

	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service turns generation requests into question sets: validate, build the
// prompt, make exactly one completion call.
type Service struct {
	handle  *ClientHandle
	prompts *PromptBuilder
	logger  *errors.Logger
	now     func() time.Time
}

// NewService wires a client handle and prompt builder together
func NewService(handle *ClientHandle, prompts *PromptBuilder, logger *errors.Logger) *Service {
	if logger == nil {
		logger = errors.Discard()
	}
	return &Service{
		handle:  handle,
		prompts: prompts,
		logger:  logger,
		now:     time.Now,
	}
}

// Prompts returns the builder, for template hot reload
func (s *Service) Prompts() *PromptBuilder {
	return s.prompts
}

// Handle returns the client handle, for health reporting
func (s *Service) Handle() *ClientHandle {
	return s.handle
}

// BuildPrompt validates req and renders its prompt without calling out
func (s *Service) BuildPrompt(req types.GenerationRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	return s.prompts.Build(req), nil
}

// Generate makes one completion call for req. Every error it returns is an
// *errors.AppError carrying a taxonomy code.
func (s *Service) Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	cfg := s.handle.Config()

	tracer := otel.Tracer("interviewprep.ai")
	ctx, span := tracer.Start(ctx, "ai.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", cfg.Provider),
		attribute.String("interview.round_type", string(req.RoundType)),
		attribute.String("interview.experience", string(req.ExperienceBracket)),
		attribute.Bool("interview.include_answers", req.IncludeAnswers),
	)

	prompt, err := s.BuildPrompt(req)
	if err != nil {
		span.RecordError(err)
		s.logger.Debug("Generation request rejected", "reason", errors.MessageOf(err))
		return nil, err
	}

	provider, err := s.handle.Provider(ctx)
	if err != nil {
		return nil, s.fail(span, Classify(err))
	}

	start := s.now()
	completion, err := provider.Complete(ctx, prompt)
	if err != nil {
		appErr := Classify(err)
		if errors.KindOf(appErr) == errors.KindAuthenticationFailure {
			// Drop the rejected key so a rotated one is picked up next time
			s.handle.Reset()
		}
		return nil, s.fail(span, appErr.WithContext("provider", cfg.Provider))
	}

	s.logger.Info("Question set generated",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"round_type", string(req.RoundType),
		"include_answers", req.IncludeAnswers,
		"duration_ms", s.now().Sub(start).Milliseconds(),
		"output_length", len(completion.Text))
	span.SetAttributes(attribute.Bool("success", true))

	return &types.GenerationResult{
		Request:     req,
		Questions:   completion.Text,
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		GeneratedAt: s.now().UTC(),
		TokenUsage:  completion.Usage,
	}, nil
}

// ModelInfo reports on the configured model for health checks
func (s *Service) ModelInfo(ctx context.Context) *ModelInfo {
	return s.handle.ModelInfo(ctx)
}

func (s *Service) fail(span trace.Span, appErr *errors.AppError) error {
	span.RecordError(appErr)
	span.SetAttributes(
		attribute.Bool("success", false),
		attribute.String("error.kind", string(errors.KindOf(appErr))),
	)
	s.logger.LogError(appErr, "Question generation failed", "kind", string(errors.KindOf(appErr)))
	return appErr
}
