package common

import (
	"context"

	"interviewprep/internal/errors"
	"interviewprep/internal/types"
)

// GenerateFunc performs one generation for a validated request
type GenerateFunc func(context.Context, types.GenerationRequest) (*types.GenerationResult, error)

// RunGenerateCommand validates req, runs generate once and hands the result
// to the output handler. Nothing is sent when validation fails.
func RunGenerateCommand(
	ctx context.Context,
	logger *errors.Logger,
	out *OutputHandler,
	cmdConfig CommandConfig,
	req types.GenerationRequest,
	generate GenerateFunc,
) error {
	if err := req.Validate(); err != nil {
		return err
	}

	logger.Info("Generating interview questions",
		"job_title", req.JobTitle,
		"round_type", req.RoundType,
		"experience", req.ExperienceBracket,
		"include_answers", req.IncludeAnswers,
		"format", cmdConfig.OutputFormat)

	result, err := generate(ctx, req)
	if err != nil {
		return err
	}

	if result.TokenUsage != nil {
		logger.Info("AI token usage",
			"input_tokens", result.TokenUsage.InputTokens,
			"output_tokens", result.TokenUsage.OutputTokens,
			"total_tokens", result.TokenUsage.TotalTokens)
	}

	return out.HandleOutput(result, cmdConfig)
}
