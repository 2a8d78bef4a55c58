package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/types"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// formPage is the data behind templates/page.html
type formPage struct {
	Request types.GenerationRequest
	Error   *apperrors.Guidance
	Result  *resultView
}

// resultView is a rendered question set. Questions and Header are HTML
// produced by goldmark from the completion text, with raw HTML omitted.
type resultView struct {
	Banner      string
	Header      template.HTML
	Questions   template.HTML
	Tips        []types.TipSection
	Motivations []types.Motivation
	Provider    string
	Model       string
}

type pageRenderer struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
}

func newPageRenderer() (*pageRenderer, error) {
	tmpl, err := template.New("page.html").Funcs(template.FuncMap{
		"roundTypes":         func() []types.RoundType { return types.RoundTypes },
		"experienceBrackets": func() []types.ExperienceBracket { return types.ExperienceBrackets },
		"answerChoices":      func() []string { return types.AnswerChoices },
		"answerChoiceFor":    types.AnswerChoiceFor,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	return &pageRenderer{
		tmpl: tmpl,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}, nil
}

// renderMarkdown converts completion text to HTML
func (p *pageRenderer) renderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- goldmark omits raw HTML by default
}

func (p *pageRenderer) resultView(result *types.GenerationResult) (*resultView, error) {
	header, err := p.renderMarkdown(types.ResultHeader(result.Request))
	if err != nil {
		return nil, err
	}
	questions, err := p.renderMarkdown(result.Questions)
	if err != nil {
		return nil, err
	}
	return &resultView{
		Banner:      types.SuccessBanner,
		Header:      header,
		Questions:   questions,
		Tips:        types.PrepTips,
		Motivations: types.Motivations,
		Provider:    result.Provider,
		Model:       result.Model,
	}, nil
}

// render buffers the page so a template error never leaves a half-written body
func (p *pageRenderer) render(w http.ResponseWriter, status int, page formPage) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "page.html", page); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
