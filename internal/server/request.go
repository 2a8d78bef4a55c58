package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/types"
)

// Form field names
const (
	fieldJobTitle          = "job_title"
	fieldRoundType         = "round_type"
	fieldExperienceBracket = "experience_bracket"
	fieldIncludeAnswers    = "include_answers"
	fieldBackground        = "candidate_background"
)

// requestFromForm reads a parsed form. The returned request always carries
// what the user typed so the form can be redisplayed, even alongside an error.
func requestFromForm(r *http.Request) (types.GenerationRequest, error) {
	req := types.GenerationRequest{
		JobTitle:            r.PostFormValue(fieldJobTitle),
		CandidateBackground: r.PostFormValue(fieldBackground),
		IncludeAnswers:      types.IncludeAnswersFromChoice(r.PostFormValue(fieldIncludeAnswers)),
		RoundType:           types.DefaultRoundType,
		ExperienceBracket:   types.DefaultExperienceBracket,
	}
	return req, applyEnums(&req, r.PostFormValue(fieldRoundType), r.PostFormValue(fieldExperienceBracket))
}

// toGenerationRequest applies the JSON API defaults
func (q QuestionRequest) toGenerationRequest() (types.GenerationRequest, error) {
	req := types.GenerationRequest{
		JobTitle:            q.JobTitle,
		CandidateBackground: q.CandidateBackground,
		IncludeAnswers:      true,
		RoundType:           types.DefaultRoundType,
		ExperienceBracket:   types.DefaultExperienceBracket,
	}
	if q.IncludeAnswers != nil {
		req.IncludeAnswers = *q.IncludeAnswers
	}
	return req, applyEnums(&req, q.RoundType, q.ExperienceBracket)
}

// applyEnums parses non-blank enum values into req
func applyEnums(req *types.GenerationRequest, round, experience string) error {
	if strings.TrimSpace(round) != "" {
		rt, err := types.ParseRoundType(round)
		if err != nil {
			return apperrors.NewValidationError(apperrors.ErrCodeInputValidation,
				fmt.Sprintf("Unknown interview round %q", round), err).
				WithContext("field", "roundType")
		}
		req.RoundType = rt
	}
	if strings.TrimSpace(experience) != "" {
		eb, err := types.ParseExperienceBracket(experience)
		if err != nil {
			return apperrors.NewValidationError(apperrors.ErrCodeInputValidation,
				fmt.Sprintf("Unknown experience level %q", experience), err).
				WithContext("field", "experienceBracket")
		}
		req.ExperienceBracket = eb
	}
	return nil
}

// parseJSONRequest parses a JSON body into v. The returned status is the one
// to answer with when err is non-nil.
func parseJSONRequest(r *http.Request, v any) (int, error) {
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return http.StatusUnsupportedMediaType, fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		status, msg := bodyErrorStatus(err)
		return status, errors.New(msg)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return http.StatusBadRequest, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return http.StatusOK, nil
}

// bodyErrorStatus distinguishes an oversized body from other read failures
func bodyErrorStatus(err error) (int, string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
	}
	return http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	writeJSON(w, statusCode, response)
}
