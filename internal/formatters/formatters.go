package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"interviewprep/internal/types"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

const typeGenerationResult = "GenerationResult"

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry is the registry used by the CLI output handler
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter(FormatJSON, &JSONFormatter{})
	registry.RegisterFormatter(FormatYAML, &YAMLFormatter{})
	registry.RegisterFormatter(FormatText, &ResultTextFormatter{})
	registry.RegisterFormatter(FormatMarkdown, &ResultMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers formatter for format and the data type it reports
func (fr *FormatterRegistry) RegisterFormatter(format string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][formatter.SupportedType()] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.GenerationResult, *types.GenerationResult:
		return typeGenerationResult
	default:
		return "any"
	}
}

func asResult(data any) (types.GenerationResult, error) {
	switch v := data.(type) {
	case types.GenerationResult:
		return v, nil
	case *types.GenerationResult:
		if v == nil {
			return types.GenerationResult{}, fmt.Errorf("nil GenerationResult")
		}
		return *v, nil
	}
	return types.GenerationResult{}, fmt.Errorf("expected GenerationResult, got %T", data)
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// YAMLFormatter handles YAML formatting for any data type
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return "any"
}

// ResultTextFormatter prints the question set with plain section banners
type ResultTextFormatter struct{}

func (tf *ResultTextFormatter) Format(data any) (string, error) {
	result, err := asResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	req := result.Request

	output.WriteString("=== INTERVIEW QUESTIONS ===\n")
	fmt.Fprintf(&output, "Role: %s | Round: %s | Experience: %s\n\n",
		req.JobTitle, req.RoundType, req.ExperienceBracket)
	output.WriteString(result.Questions)
	output.WriteString("\n\n")

	for _, section := range types.PrepTips {
		fmt.Fprintf(&output, "=== %s ===\n", strings.ToUpper(section.Title))
		for _, tip := range section.Tips {
			fmt.Fprintf(&output, "- %s\n", tip)
		}
		output.WriteString("\n")
	}

	if result.TokenUsage != nil {
		fmt.Fprintf(&output, "Generated by %s/%s (%d tokens)\n",
			result.Provider, result.Model, result.TokenUsage.TotalTokens)
	} else {
		fmt.Fprintf(&output, "Generated by %s/%s\n", result.Provider, result.Model)
	}

	return output.String(), nil
}

func (tf *ResultTextFormatter) SupportedType() string {
	return typeGenerationResult
}

// ResultMarkdownFormatter mirrors the web result page as Markdown
type ResultMarkdownFormatter struct{}

func (mf *ResultMarkdownFormatter) Format(data any) (string, error) {
	result, err := asResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Interview Questions\n\n")
	output.WriteString(types.ResultHeader(result.Request))
	output.WriteString("\n\n")
	output.WriteString(result.Questions)
	output.WriteString("\n\n")

	output.WriteString("## Interview Preparation Tips\n\n")
	for _, section := range types.PrepTips {
		fmt.Fprintf(&output, "### %s\n\n", section.Title)
		for _, tip := range section.Tips {
			fmt.Fprintf(&output, "- %s\n", tip)
		}
		output.WriteString("\n")
	}

	output.WriteString("## You've Got This!\n\n")
	for _, m := range types.Motivations {
		fmt.Fprintf(&output, "- **%s:** %s\n", m.Title, m.Text)
	}

	return output.String(), nil
}

func (mf *ResultMarkdownFormatter) SupportedType() string {
	return typeGenerationResult
}
