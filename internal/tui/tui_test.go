package tui

import (
	"context"
	"fmt"
	"testing"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls []types.GenerationRequest
	err   error
}

func (g *fakeGenerator) Generate(_ context.Context, req types.GenerationRequest) (*types.GenerationResult, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return &types.GenerationResult{
		Request:    req,
		Questions:  "**Question 1:** Why this role?",
		Provider:   "mistral",
		Model:      "mistral-small-latest",
		TokenUsage: &types.TokenUsage{TotalTokens: 99},
	}, nil
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(model)
	}
	return m, cmd
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyRight    = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft     = tea.KeyMsg{Type: tea.KeyLeft}
	keyCtrlS    = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestNewModelPrefillsDefaults(t *testing.T) {
	m := newModel(context.Background(), &fakeGenerator{}, types.DefaultGenerationRequest())
	assert.Equal(t, types.DefaultGenerationRequest(), m.request())
	assert.Equal(t, fieldJobTitle, m.focus)
	assert.Contains(t, m.View(), "Generate Questions")
	assert.Contains(t, m.View(), string(types.RoundHR))
}

func TestFocusAndSelectors(t *testing.T) {
	m := newModel(context.Background(), &fakeGenerator{}, types.DefaultGenerationRequest())

	m, _ = press(t, m, keyTab)
	assert.Equal(t, fieldRound, m.focus)

	m, _ = press(t, m, keyRight, keyRight)
	assert.Equal(t, types.RoundManager, m.request().RoundType)

	m, _ = press(t, m, keyLeft, keyLeft, keyLeft)
	assert.Equal(t, types.RoundFinal, m.request().RoundType, "selectors wrap around")

	m, _ = press(t, m, keyTab, keyRight)
	assert.Equal(t, types.ExperienceEntry, m.request().ExperienceBracket)

	m, _ = press(t, m, keyTab, keyRight)
	assert.False(t, m.request().IncludeAnswers)

	m, _ = press(t, m, keyShiftTab, keyShiftTab, keyShiftTab, keyShiftTab)
	assert.Equal(t, fieldSubmit, m.focus, "focus wraps backwards")
}

func TestSubmitGeneratesOnce(t *testing.T) {
	gen := &fakeGenerator{}
	req := types.DefaultGenerationRequest()
	req.JobTitle = "SRE"
	m := newModel(context.Background(), gen, req)

	m, cmd := press(t, m, keyCtrlS)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Contains(t, m.View(), "Generating your questions")

	// Keys are ignored while a generation is in flight
	m, _ = press(t, m, keyTab)
	assert.Equal(t, fieldJobTitle, m.focus)

	msg := m.generateCmd(m.request())()
	next, _ := m.Update(msg)
	m = next.(model)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "SRE", gen.calls[0].JobTitle)
	assert.False(t, m.loading)
	assert.Equal(t, viewResult, m.view)

	view := m.View()
	assert.Contains(t, view, "Question 1")
	assert.Contains(t, view, "**Role:** SRE")

	m, _ = press(t, m, keyEsc)
	assert.Equal(t, viewForm, m.view)
	assert.Equal(t, "SRE", m.request().JobTitle, "form keeps its values")
}

func TestSubmitRejectsBlankFields(t *testing.T) {
	gen := &fakeGenerator{}
	req := types.DefaultGenerationRequest()
	req.CandidateBackground = "  "
	m := newModel(context.Background(), gen, req)

	m, cmd := press(t, m, keyCtrlS)
	assert.Nil(t, cmd)
	assert.False(t, m.loading)
	require.NotNil(t, m.guidance)
	assert.Equal(t, types.MsgBackgroundRequired, m.guidance.Summary)
	assert.Contains(t, m.View(), types.MsgBackgroundRequired)
	assert.Empty(t, gen.calls)
}

func TestGenerationErrorShowsGuidance(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.NewAIError(apperrors.ErrCodeRateLimited, "slow down", fmt.Errorf("429"))}
	m := newModel(context.Background(), gen, types.DefaultGenerationRequest())

	m, _ = press(t, m, keyCtrlS)
	next, _ := m.Update(m.generateCmd(m.request())())
	m = next.(model)

	assert.Equal(t, viewForm, m.view)
	require.NotNil(t, m.guidance)
	assert.Equal(t, apperrors.KindRateLimited, m.guidance.Kind)
	assert.Contains(t, m.View(), m.guidance.Title)
}

func TestQuitKeys(t *testing.T) {
	m := newModel(context.Background(), &fakeGenerator{}, types.DefaultGenerationRequest())

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = press(t, m, keyEsc)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
