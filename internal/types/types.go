package types

import (
	"fmt"
	"strings"
	"time"

	"interviewprep/internal/errors"
)

// RoundType is the kind of interview round questions are generated for
type RoundType string

const (
	RoundHR                  RoundType = "HR Round"
	RoundTechnical           RoundType = "Technical Round"
	RoundManager             RoundType = "Manager Round"
	RoundTelephonicScreening RoundType = "Telephonic Screening"
	RoundRemoteScreening     RoundType = "Remote Screening"
	RoundFinal               RoundType = "Final Round"
)

// RoundTypes lists every supported round in display order
var RoundTypes = []RoundType{
	RoundHR,
	RoundTechnical,
	RoundManager,
	RoundTelephonicScreening,
	RoundRemoteScreening,
	RoundFinal,
}

// Valid reports whether r is one of RoundTypes
func (r RoundType) Valid() bool {
	for _, rt := range RoundTypes {
		if r == rt {
			return true
		}
	}
	return false
}

// ParseRoundType accepts the full label ("Technical Round") or its first word,
// case-insensitively ("technical").
func ParseRoundType(s string) (RoundType, error) {
	s = strings.TrimSpace(s)
	for _, rt := range RoundTypes {
		if strings.EqualFold(s, string(rt)) || strings.EqualFold(s, shortName(string(rt))) {
			return rt, nil
		}
	}
	return "", fmt.Errorf("unknown round type %q", s)
}

// ExperienceBracket is a labelled experience range such as "Mid Level (3-5 years)"
type ExperienceBracket string

const (
	ExperienceFreshGraduate ExperienceBracket = "Fresh Graduate (0 years)"
	ExperienceEntry         ExperienceBracket = "Entry Level (1-2 years)"
	ExperienceMid           ExperienceBracket = "Mid Level (3-5 years)"
	ExperienceSenior        ExperienceBracket = "Senior Level (5-8 years)"
	ExperienceExpert        ExperienceBracket = "Expert Level (8+ years)"
)

// ExperienceBrackets lists every supported bracket in display order
var ExperienceBrackets = []ExperienceBracket{
	ExperienceFreshGraduate,
	ExperienceEntry,
	ExperienceMid,
	ExperienceSenior,
	ExperienceExpert,
}

func (e ExperienceBracket) Valid() bool {
	for _, b := range ExperienceBrackets {
		if e == b {
			return true
		}
	}
	return false
}

// ParseExperienceBracket accepts the full label or its first word ("senior").
func ParseExperienceBracket(s string) (ExperienceBracket, error) {
	s = strings.TrimSpace(s)
	for _, b := range ExperienceBrackets {
		if strings.EqualFold(s, string(b)) || strings.EqualFold(s, shortName(string(b))) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown experience bracket %q", s)
}

func shortName(label string) string {
	first, _, _ := strings.Cut(label, " ")
	return first
}

// Answer choices offered by the form
const (
	AnswerChoiceYes = "Yes, show me sample answers"
	AnswerChoiceNo  = "No, just the questions"
)

// AnswerChoices lists the two answer options in display order
var AnswerChoices = []string{AnswerChoiceYes, AnswerChoiceNo}

// IncludeAnswersFromChoice is true iff the choice contains "Yes"
func IncludeAnswersFromChoice(choice string) bool {
	return strings.Contains(choice, "Yes")
}

// AnswerChoiceFor is the inverse of IncludeAnswersFromChoice
func AnswerChoiceFor(includeAnswers bool) string {
	if includeAnswers {
		return AnswerChoiceYes
	}
	return AnswerChoiceNo
}

// Form defaults
const (
	DefaultJobTitle          = "Machine Learning Engineer"
	DefaultBackground        = "Completed a Data Science Diploma, worked on prompt-tuning projects..."
	DefaultRoundType         = RoundHR
	DefaultExperienceBracket = ExperienceFreshGraduate
)

// GenerationRequest is the per-submission input for question generation
type GenerationRequest struct {
	JobTitle            string            `json:"jobTitle" yaml:"jobTitle"`
	RoundType           RoundType         `json:"roundType" yaml:"roundType"`
	ExperienceBracket   ExperienceBracket `json:"experienceBracket" yaml:"experienceBracket"`
	IncludeAnswers      bool              `json:"includeAnswers" yaml:"includeAnswers"`
	CandidateBackground string            `json:"candidateBackground" yaml:"candidateBackground"`
}

// DefaultGenerationRequest returns a request prefilled with the form defaults
func DefaultGenerationRequest() GenerationRequest {
	return GenerationRequest{
		JobTitle:            DefaultJobTitle,
		RoundType:           DefaultRoundType,
		ExperienceBracket:   DefaultExperienceBracket,
		IncludeAnswers:      true,
		CandidateBackground: DefaultBackground,
	}
}

// Validation messages shown for the two free-text fields
const (
	MsgJobTitleRequired   = "Please enter a job role to continue"
	MsgBackgroundRequired = "Please share your background to get personalized questions"
)

// Validate enforces the two non-empty checks and rejects enumerated values
// outside the fixed sets. Every failure is an INPUT_VALIDATION error.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.JobTitle) == "" {
		return errors.NewValidationError(errors.ErrCodeInputValidation, MsgJobTitleRequired, nil).
			WithContext("field", "jobTitle")
	}
	if strings.TrimSpace(r.CandidateBackground) == "" {
		return errors.NewValidationError(errors.ErrCodeInputValidation, MsgBackgroundRequired, nil).
			WithContext("field", "candidateBackground")
	}
	if !r.RoundType.Valid() {
		return errors.NewValidationError(errors.ErrCodeInputValidation,
			fmt.Sprintf("Unknown interview round %q", r.RoundType), nil).
			WithContext("field", "roundType")
	}
	if !r.ExperienceBracket.Valid() {
		return errors.NewValidationError(errors.ErrCodeInputValidation,
			fmt.Sprintf("Unknown experience level %q", r.ExperienceBracket), nil).
			WithContext("field", "experienceBracket")
	}
	return nil
}

// TokenUsage reports the tokens consumed by one completion
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens" yaml:"inputTokens"`
	OutputTokens int64 `json:"outputTokens" yaml:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens" yaml:"totalTokens"`
}

// GenerationResult is the outcome of a successful generation. Questions holds
// the completion text exactly as returned.
type GenerationResult struct {
	Request     GenerationRequest `json:"request" yaml:"request"`
	Questions   string            `json:"questions" yaml:"questions"`
	Provider    string            `json:"provider" yaml:"provider"`
	Model       string            `json:"model" yaml:"model"`
	GeneratedAt time.Time         `json:"generatedAt" yaml:"generatedAt"`
	TokenUsage  *TokenUsage       `json:"tokenUsage,omitempty" yaml:"tokenUsage,omitempty"`
}
