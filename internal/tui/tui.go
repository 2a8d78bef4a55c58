// Package tui is a terminal rendition of the question form: the same five
// fields, one generation per submit, with the result shown in a scrollable pane.
package tui

import (
	"context"
	"fmt"
	"strings"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Generator produces a question set; *ai.Service satisfies it
type Generator interface {
	Generate(ctx context.Context, req types.GenerationRequest) (*types.GenerationResult, error)
}

// Form fields in focus order
const (
	fieldJobTitle = iota
	fieldRound
	fieldExperience
	fieldAnswers
	fieldBackground
	fieldSubmit
	fieldCount
)

type viewState int

const (
	viewForm viewState = iota
	viewResult
)

// generatedMsg is sent when an async generation completes
type generatedMsg struct {
	result *types.GenerationResult
	err    error
}

type model struct {
	ctx       context.Context
	generator Generator

	jobTitle   textinput.Model
	background textarea.Model
	round      int
	experience int
	answers    int
	focus      int

	spinner  spinner.Model
	loading  bool
	guidance *apperrors.Guidance

	view     viewState
	result   *types.GenerationResult
	viewport viewport.Model

	width  int
	height int
}

func newModel(ctx context.Context, gen Generator, initial types.GenerationRequest) model {
	ti := textinput.New()
	ti.Placeholder = types.DefaultJobTitle
	ti.CharLimit = 120
	ti.Width = 50
	ti.SetValue(initial.JobTitle)
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = types.DefaultBackground
	ta.SetWidth(60)
	ta.SetHeight(5)
	ta.ShowLineNumbers = false
	ta.SetValue(initial.CandidateBackground)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		ctx:        ctx,
		generator:  gen,
		jobTitle:   ti,
		background: ta,
		round:      indexOf(types.RoundTypes, initial.RoundType),
		experience: indexOf(types.ExperienceBrackets, initial.ExperienceBracket),
		answers:    indexOf(types.AnswerChoices, types.AnswerChoiceFor(initial.IncludeAnswers)),
		spinner:    sp,
		viewport:   viewport.New(80, 20),
		width:      80,
		height:     24,
	}
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return 0
}

// request reads the form as it stands
func (m model) request() types.GenerationRequest {
	return types.GenerationRequest{
		JobTitle:            m.jobTitle.Value(),
		RoundType:           types.RoundTypes[m.round],
		ExperienceBracket:   types.ExperienceBrackets[m.experience],
		IncludeAnswers:      types.IncludeAnswersFromChoice(types.AnswerChoices[m.answers]),
		CandidateBackground: m.background.Value(),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(m.width-4, 20)
		m.viewport.Height = max(m.height-4, 5)
		m.background.SetWidth(max(min(m.width-22, 80), 20))
		if m.view == viewResult {
			m.viewport.SetContent(m.renderResult())
		}
		return m, nil

	case generatedMsg:
		m.loading = false
		if msg.err != nil {
			g := apperrors.GuidanceForError(msg.err)
			m.guidance = &g
			return m, nil
		}
		m.guidance = nil
		m.result = msg.result
		m.view = viewResult
		m.viewport.SetContent(m.renderResult())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.view == viewResult {
			return m.updateResultView(msg)
		}
		return m.updateFormView(msg)
	}

	return m, nil
}

func (m model) updateFormView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "down":
		if msg.String() == "down" && m.focus == fieldBackground {
			break
		}
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		if msg.String() == "up" && m.focus == fieldBackground {
			break
		}
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "left", "right":
		if m.cycle(msg.String() == "right") {
			return m, nil
		}
	case "ctrl+s":
		return m.submit()
	case "enter":
		switch m.focus {
		case fieldSubmit:
			return m.submit()
		case fieldBackground:
			// newline, handled by the textarea below
		default:
			return m, m.setFocus(m.focus + 1)
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldJobTitle:
		m.jobTitle, cmd = m.jobTitle.Update(msg)
	case fieldBackground:
		m.background, cmd = m.background.Update(msg)
	}
	return m, cmd
}

func (m model) updateResultView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace", "n":
		m.view = viewForm
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// cycle steps the focused selector and reports whether one had focus
func (m *model) cycle(forward bool) bool {
	step := func(i, n int) int {
		if forward {
			return (i + 1) % n
		}
		return (i + n - 1) % n
	}
	switch m.focus {
	case fieldRound:
		m.round = step(m.round, len(types.RoundTypes))
	case fieldExperience:
		m.experience = step(m.experience, len(types.ExperienceBrackets))
	case fieldAnswers:
		m.answers = step(m.answers, len(types.AnswerChoices))
	default:
		return false
	}
	return true
}

func (m *model) setFocus(field int) tea.Cmd {
	m.focus = field
	m.jobTitle.Blur()
	m.background.Blur()
	switch field {
	case fieldJobTitle:
		return m.jobTitle.Focus()
	case fieldBackground:
		return m.background.Focus()
	}
	return nil
}

// submit validates locally and starts one generation. A rejected form never
// reaches the generator.
func (m model) submit() (tea.Model, tea.Cmd) {
	req := m.request()
	if err := req.Validate(); err != nil {
		g := apperrors.GuidanceForError(err)
		m.guidance = &g
		return m, nil
	}
	m.guidance = nil
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.generateCmd(req))
}

func (m model) generateCmd(req types.GenerationRequest) tea.Cmd {
	ctx, gen := m.ctx, m.generator
	return func() tea.Msg {
		result, err := gen.Generate(ctx, req)
		return generatedMsg{result: result, err: err}
	}
}

func (m model) View() string {
	if m.view == viewResult {
		return m.viewport.View() + "\n" +
			hintStyle.Render("↑/↓ scroll  esc new questions  q quit")
	}
	return m.renderForm()
}

func (m model) renderForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AI Interview Question Generator"))
	b.WriteString("\n")

	b.WriteString(m.row(fieldJobTitle, "Job Role", m.jobTitle.View()))
	b.WriteString(m.row(fieldRound, "Interview Round", m.selector(fieldRound, string(types.RoundTypes[m.round]))))
	b.WriteString(m.row(fieldExperience, "Experience Level", m.selector(fieldExperience, string(types.ExperienceBrackets[m.experience]))))
	b.WriteString(m.row(fieldAnswers, "Model Answers?", m.selector(fieldAnswers, types.AnswerChoices[m.answers])))
	b.WriteString(m.row(fieldBackground, "Your Background", m.background.View()))

	button := buttonStyle.Render("Generate Questions")
	if m.focus == fieldSubmit {
		button = focusedButtonStyle.Render("Generate Questions")
	}
	b.WriteString("\n  " + button)
	if m.loading {
		b.WriteString("  " + m.spinner.View() + " Generating your questions...")
	}
	b.WriteString("\n")

	if m.guidance != nil {
		b.WriteString("\n" + renderGuidance(*m.guidance) + "\n")
	}

	b.WriteString(hintStyle.Render("tab/shift+tab move  ←/→ change  ctrl+s generate  esc quit"))
	return b.String()
}

func (m model) row(field int, label, value string) string {
	style := labelStyle
	if m.focus == field {
		style = focusedLabelStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, "  ", style.Render(label), value) + "\n"
}

func (m model) selector(field int, value string) string {
	text := "‹ " + value + " ›"
	if m.focus == field {
		return focusedSelectorStyle.Render(text)
	}
	return selectorStyle.Render(text)
}

func renderGuidance(g apperrors.Guidance) string {
	var b strings.Builder
	b.WriteString(errorTitleStyle.Render(g.Title))
	b.WriteString("\n" + g.Summary)
	for i, step := range g.Steps {
		fmt.Fprintf(&b, "\n%d. %s", i+1, step)
	}
	return errorBoxStyle.Render(b.String())
}

// renderResult lays out the question set with the preparation tips. The
// completion text is shown as written.
func (m model) renderResult() string {
	r := m.result
	wrap := lipgloss.NewStyle().Width(max(m.viewport.Width-2, 20))

	var b strings.Builder
	b.WriteString(bannerStyle.Render(types.SuccessBanner) + "\n\n")
	b.WriteString(wrap.Render(types.ResultHeader(r.Request)) + "\n\n")
	b.WriteString(wrap.Render(r.Questions) + "\n")

	b.WriteString(sectionStyle.Render("Interview Preparation Tips") + "\n")
	for _, section := range types.PrepTips {
		b.WriteString("\n" + section.Title + "\n")
		for _, tip := range section.Tips {
			b.WriteString(wrap.Render("  • "+tip) + "\n")
		}
	}

	b.WriteString(sectionStyle.Render("You've Got This!") + "\n")
	for _, mot := range types.Motivations {
		b.WriteString(wrap.Render(mot.Title+": "+mot.Text) + "\n")
	}

	footer := fmt.Sprintf("Generated by %s / %s", r.Provider, r.Model)
	if r.TokenUsage != nil {
		footer += fmt.Sprintf(" (%d tokens)", r.TokenUsage.TotalTokens)
	}
	b.WriteString("\n" + dimStyle.Render(footer))
	return b.String()
}

// Run shows the form until the user quits. initial prefills the fields.
func Run(ctx context.Context, gen Generator, initial types.GenerationRequest) error {
	p := tea.NewProgram(newModel(ctx, gen, initial), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
