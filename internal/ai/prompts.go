package ai

import (
	"strings"
	"sync"

	"interviewprep/internal/config"
	"interviewprep/internal/types"
)

// DefaultQuestionTemplate is the built-in question prompt. Slots are
// {job_title}, {round_type}, {experience_years}, {include_answers} and
// {candidate_background}.
const DefaultQuestionTemplate = `You are an expert interview coach specializing in preparing candidates for {job_title} roles.

Generate exactly 5 {round_type} interview questions suitable for a candidate with {experience_years} of experience.

Candidate background: {candidate_background}

{include_answers}

Format your response clearly with:
**Question 1:** [question]

**Question 2:** [question]

etc.

If model answers are requested, provide them after each question like this:
**Model Answer:** [detailed answer]

Use a supportive tone that builds confidence. Focus on practical, real-world scenarios relevant to current industry practices.`

// Answer instruction clauses
const (
	AnswersClauseWith    = "After each question, provide a comprehensive model answer that demonstrates strong communication skills and technical competence."
	AnswersClauseWithout = "Only provide the questions without model answers."
)

// Template placeholders
const (
	SlotJobTitle            = "{job_title}"
	SlotRoundType           = "{round_type}"
	SlotExperienceYears     = "{experience_years}"
	SlotIncludeAnswers      = "{include_answers}"
	SlotCandidateBackground = "{candidate_background}"
)

// ExperienceText returns the text between the first "(" and the following
// ")". A label without parentheses is returned unchanged.
func ExperienceText(bracket types.ExperienceBracket) string {
	label := string(bracket)
	_, rest, ok := strings.Cut(label, "(")
	if !ok {
		return label
	}
	inner, _, _ := strings.Cut(rest, ")")
	return inner
}

// AnswersClause maps the answers toggle to its instruction
func AnswersClause(includeAnswers bool) string {
	if includeAnswers {
		return AnswersClauseWith
	}
	return AnswersClauseWithout
}

// PromptBuilder renders generation requests into prompts. The template can be
// swapped at runtime by the hot reload watcher.
type PromptBuilder struct {
	mu       sync.RWMutex
	template string
	source   string
}

// NewPromptBuilder uses DefaultQuestionTemplate when text is blank
func NewPromptBuilder(text, source string) *PromptBuilder {
	b := &PromptBuilder{}
	b.SetTemplate(text, source)
	return b
}

// NewPromptBuilderFromConfig uses the configured template override, if any
func NewPromptBuilderFromConfig(cfg config.PromptConfig) *PromptBuilder {
	return NewPromptBuilder(cfg.Text(), cfg.Source())
}

// SetTemplate replaces the template. A blank text restores the default.
func (b *PromptBuilder) SetTemplate(text, source string) {
	if strings.TrimSpace(text) == "" {
		text, source = DefaultQuestionTemplate, config.PromptSourceDefault
	}
	b.mu.Lock()
	b.template, b.source = text, source
	b.mu.Unlock()
}

// Source reports where the current template came from
func (b *PromptBuilder) Source() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.source
}

// Build fills every slot in one pass, so user text that happens to contain a
// placeholder is left as typed.
func (b *PromptBuilder) Build(req types.GenerationRequest) string {
	b.mu.RLock()
	tmpl := b.template
	b.mu.RUnlock()

	r := strings.NewReplacer(
		SlotJobTitle, req.JobTitle,
		SlotRoundType, string(req.RoundType),
		SlotExperienceYears, ExperienceText(req.ExperienceBracket),
		SlotIncludeAnswers, AnswersClause(req.IncludeAnswers),
		SlotCandidateBackground, req.CandidateBackground,
	)
	return r.Replace(tmpl)
}
