package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/observability"
	"interviewprep/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// generate validates req and runs one generation, recording the api.generate
// span and the business metrics. Input rejections never reach the service.
func (s *Server) generate(ctx context.Context, om *observability.ObservabilityManager, surface string, req types.GenerationRequest) (*types.GenerationResult, error) {
	tracer := om.Tracer("interviewprep.api")
	ctx, span := tracer.Start(ctx, "api.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("surface", surface),
		attribute.String("interview.round_type", string(req.RoundType)),
		attribute.Bool("interview.include_answers", req.IncludeAnswers),
		attribute.Int("request.background_length", len(req.CandidateBackground)),
	)

	metrics := om.GetMetrics()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.kind", string(apperrors.KindInputValidation)))
		metrics.RecordBusinessMetric(ctx, observability.MetricInputRejected, false, om,
			attribute.String("field", rejectedField(err)),
			attribute.String("surface", surface))
		return nil, err
	}

	var result *types.GenerationResult
	err := metrics.TrackAIOperationWithTokens(ctx, "generate", func(ctx context.Context) *observability.AIOperationResult {
		res, genErr := s.Service.Generate(ctx, req)
		if genErr != nil {
			return &observability.AIOperationResult{Error: genErr}
		}
		result = res
		return &observability.AIOperationResult{TokenUsage: res.TokenUsage}
	}, om)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.kind", string(apperrors.KindOf(err))))
		return nil, err
	}

	metrics.RecordBusinessMetric(ctx, observability.MetricQuestionSetGenerated, true, om,
		attribute.String("round_type", string(req.RoundType)),
		attribute.String("include_answers", strconv.FormatBool(req.IncludeAnswers)))

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("response.questions_length", len(result.Questions)),
	)
	return result, nil
}

// createQuestionsHandler serves POST /api/v1/questions
func (s *Server) createQuestionsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body QuestionRequest
		if status, err := parseJSONRequest(r, &body); err != nil {
			writeErrorResponse(w, status, ErrorResponse{
				Error:   "Invalid request body",
				Code:    apperrors.ErrCodeInvalidRequest,
				Message: err.Error(),
			})
			return
		}

		req, err := body.toGenerationRequest()
		if err == nil {
			var result *types.GenerationResult
			result, err = s.generate(r.Context(), om, "api", req)
			if err == nil {
				writeJSON(w, http.StatusOK, result)
				return
			}
		} else {
			om.GetMetrics().RecordBusinessMetric(r.Context(), observability.MetricInputRejected, false, om,
				attribute.String("field", rejectedField(err)),
				attribute.String("surface", "api"))
		}

		writeAppError(w, err)
	}
}

// createFormGenerateHandler serves POST /generate and re-renders the page
// with either the result or the error guidance.
func (s *Server) createFormGenerateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			status, msg := bodyErrorStatus(err)
			s.renderPage(w, status, formPage{
				Request: types.DefaultGenerationRequest(),
				Error:   &apperrors.Guidance{Title: "Invalid submission", Summary: msg},
			})
			return
		}

		req, err := requestFromForm(r)
		if err == nil {
			var result *types.GenerationResult
			result, err = s.generate(r.Context(), om, "form", req)
			if err == nil {
				view, renderErr := s.pages.resultView(result)
				if renderErr != nil {
					s.Logger.LogError(renderErr, "Failed to render questions")
					http.Error(w, "Failed to render result", http.StatusInternalServerError)
					return
				}
				s.renderPage(w, http.StatusOK, formPage{Request: req, Result: view})
				return
			}
		} else {
			om.GetMetrics().RecordBusinessMetric(r.Context(), observability.MetricInputRejected, false, om,
				attribute.String("field", rejectedField(err)),
				attribute.String("surface", "form"))
		}

		guidance := apperrors.GuidanceForError(err)
		s.renderPage(w, statusForError(err), formPage{Request: req, Error: &guidance})
	}
}

// formHandler serves the empty form prefilled with the defaults
func (s *Server) formHandler(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, formPage{Request: types.DefaultGenerationRequest()})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page formPage) {
	if err := s.pages.render(w, status, page); err != nil {
		s.Logger.LogError(err, "Failed to render page")
	}
}

// statusForError maps the failure taxonomy onto HTTP status codes
func statusForError(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindInputValidation:
		return http.StatusBadRequest
	case apperrors.KindMissingCredential:
		return http.StatusServiceUnavailable
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

// writeAppError writes err in the JSON envelope with its remediation steps
func writeAppError(w http.ResponseWriter, err error) {
	guidance := apperrors.GuidanceForError(err)
	code := apperrors.ErrCodeRequestFailed
	if appErr, ok := apperrors.As(err); ok {
		code = appErr.Code
	}
	writeErrorResponse(w, statusForError(err), ErrorResponse{
		Error:       guidance.Title,
		Code:        code,
		Message:     apperrors.MessageOf(err),
		Remediation: guidance.Steps,
	})
}

// rejectedField is the "field" context of a validation error
func rejectedField(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		if field, ok := appErr.Context["field"].(string); ok {
			return field
		}
	}
	return "unknown"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
