package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Template sources reported by PromptConfig.Source
const (
	PromptSourceDefault = "default"
	PromptSourceInline  = "config"
	PromptSourceFile    = "file"
)

// MaxPromptFileSize bounds template files; anything larger is almost
// certainly the wrong file.
const MaxPromptFileSize = 64 * 1024

// Text returns the configured template override, or "" for the built-in default
func (p PromptConfig) Text() string {
	if p.Template != "" {
		return p.Template
	}
	return p.loaded
}

// Source reports where Text came from
func (p PromptConfig) Source() string {
	switch {
	case p.Template != "":
		return PromptSourceInline
	case p.loaded != "":
		return PromptSourceFile + ":" + p.TemplateFile
	default:
		return PromptSourceDefault
	}
}

// loadPromptTemplate reads ai.prompt.templateFile when configured
func (c *Config) loadPromptTemplate() error {
	p := &c.AI.Prompt
	if p.Template != "" && p.TemplateFile != "" {
		return fmt.Errorf("cannot specify both ai.prompt.template and ai.prompt.templateFile - choose one")
	}
	if p.TemplateFile == "" {
		log.Println("[CONFIG] No custom prompt template configured - using built-in default")
		return nil
	}

	content, err := LoadPromptFile(p.TemplateFile)
	if err != nil {
		return err
	}
	p.loaded = content
	return nil
}

// LoadPromptFile reads and validates a prompt template file. It is also
// used by the hot reload watcher.
func LoadPromptFile(filePath string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for prompt file '%s': %w", filePath, err)
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("prompt file not found: %s", absPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat prompt file '%s': %w", absPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("prompt file '%s' is a directory", absPath)
	}
	if info.Size() > MaxPromptFileSize {
		return "", fmt.Errorf("prompt file '%s' is too large (%d bytes, max %d)", absPath, info.Size(), MaxPromptFileSize)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file '%s': %w", absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("prompt file '%s' is empty", absPath)
	}

	log.Printf("[CONFIG] Successfully loaded prompt template from file: %s (%d characters)", absPath, len(trimmed))
	return trimmed, nil
}

// UsePromptFile switches the question template to the file at path,
// replacing any inline template.
func (c *Config) UsePromptFile(path string) error {
	c.AI.Prompt.Template = ""
	c.AI.Prompt.TemplateFile = path
	c.AI.Prompt.loaded = ""
	return c.loadPromptTemplate()
}
