package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptFile(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
		return path
	}

	t.Run("trims content", func(t *testing.T) {
		path := write("valid.md", "\n  Generate {round_type} questions  \n")
		content, err := LoadPromptFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Generate {round_type} questions", content)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPromptFile(filepath.Join(dir, "nope.md"))
		assert.ErrorContains(t, err, "prompt file not found")
	})

	t.Run("empty file", func(t *testing.T) {
		path := write("empty.md", "   \n\t")
		_, err := LoadPromptFile(path)
		assert.ErrorContains(t, err, "is empty")
	})

	t.Run("directory", func(t *testing.T) {
		_, err := LoadPromptFile(dir)
		assert.ErrorContains(t, err, "is a directory")
	})

	t.Run("too large", func(t *testing.T) {
		path := write("huge.md", strings.Repeat("x", MaxPromptFileSize+1))
		_, err := LoadPromptFile(path)
		assert.ErrorContains(t, err, "too large")
	})
}

func TestLoadPromptTemplate(t *testing.T) {
	t.Run("no override", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.loadPromptTemplate())
		assert.Equal(t, PromptSourceDefault, cfg.AI.Prompt.Source())
	})

	t.Run("inline template", func(t *testing.T) {
		cfg := &Config{AI: AIConfig{Prompt: PromptConfig{Template: "inline {job_title}"}}}
		require.NoError(t, cfg.loadPromptTemplate())
		assert.Equal(t, "inline {job_title}", cfg.AI.Prompt.Text())
		assert.Equal(t, PromptSourceInline, cfg.AI.Prompt.Source())
	})

	t.Run("both inline and file", func(t *testing.T) {
		cfg := &Config{AI: AIConfig{Prompt: PromptConfig{Template: "a", TemplateFile: "b"}}}
		assert.ErrorContains(t, cfg.loadPromptTemplate(), "choose one")
	})

	t.Run("file is loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prompt.md")
		require.NoError(t, os.WriteFile(path, []byte("from file"), 0600))

		cfg := &Config{AI: AIConfig{Prompt: PromptConfig{TemplateFile: path}}}
		require.NoError(t, cfg.loadPromptTemplate())
		assert.Equal(t, "from file", cfg.AI.Prompt.Text())
	})
}
