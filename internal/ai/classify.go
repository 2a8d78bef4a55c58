package ai

import (
	"context"
	stderrors "errors"
	"net/http"
	"regexp"

	"interviewprep/internal/errors"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

var (
	unauthorizedPattern = regexp.MustCompile(`(?i)\b401\b|unauthori[sz]ed`)
	rateLimitPattern    = regexp.MustCompile(`(?i)rate[ _-]?limit|\bquota\b|too many requests|\brate\b`)
)

// Classify maps a generation failure onto the error taxonomy. Errors that
// already carry a taxonomy code pass through; provider errors are classified
// by HTTP status first and by their text second.
func Classify(err error) *errors.AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := errors.As(err); ok && errors.KindOf(appErr) != errors.KindGenericFailure {
		return appErr
	}

	switch {
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return errors.NewAIError(errors.ErrCodeRequestFailed,
			"The completion service is temporarily unavailable after repeated failures", err)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewAIError(errors.ErrCodeRequestFailed,
			"The request to the completion service was cancelled", err)
	}

	switch statusCode(err) {
	case http.StatusUnauthorized:
		return authenticationFailed(err)
	case http.StatusTooManyRequests:
		return rateLimited(err)
	}

	msg := err.Error()
	switch {
	case unauthorizedPattern.MatchString(msg):
		return authenticationFailed(err)
	case rateLimitPattern.MatchString(msg):
		return rateLimited(err)
	}

	if appErr, ok := errors.As(err); ok && appErr.Code == errors.ErrCodeRequestFailed {
		return appErr
	}
	return errors.NewAIError(errors.ErrCodeRequestFailed, "The request to the completion service failed", err)
}

// statusCode extracts the HTTP status from any provider SDK error, or 0
func statusCode(err error) int {
	var genaiErr genai.APIError
	if stderrors.As(err, &genaiErr) {
		return genaiErr.Code
	}
	var googleErr *googleapi.Error
	if stderrors.As(err, &googleErr) {
		return googleErr.Code
	}
	var openaiErr *openai.APIError
	if stderrors.As(err, &openaiErr) {
		return openaiErr.HTTPStatusCode
	}
	var requestErr *openai.RequestError
	if stderrors.As(err, &requestErr) {
		return requestErr.HTTPStatusCode
	}
	var anthropicErr *anthropic.Error
	if stderrors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	return 0
}

func authenticationFailed(cause error) *errors.AppError {
	return errors.NewAIError(errors.ErrCodeAuthenticationFailed,
		"The completion service rejected the API key", cause)
}

func rateLimited(cause error) *errors.AppError {
	return errors.NewAIError(errors.ErrCodeRateLimited,
		"The completion service rate limit was exceeded", cause)
}
