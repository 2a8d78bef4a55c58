package cli

import (
	"os"
	"path/filepath"
	"testing"

	"interviewprep/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyServeFlags(t *testing.T) {
	promptFile := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(promptFile, []byte("Ask about {job_title}\n"), 0600))

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: "8080"},
		AI:     config.AIConfig{Prompt: config.PromptConfig{Template: "inline {job_title}"}},
	}

	require.NoError(t, serveCmd.Flags().Set("port", "9999"))
	require.NoError(t, serveCmd.Flags().Set("prompt-file", promptFile))
	require.NoError(t, serveCmd.Flags().Set("watch-prompt", "true"))

	require.NoError(t, applyServeFlags(serveCmd, cfg))
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset flags keep the configured value")
	assert.Equal(t, "Ask about {job_title}", cfg.AI.Prompt.Text())
	assert.Equal(t, config.PromptSourceFile+":"+promptFile, cfg.AI.Prompt.Source())
	assert.True(t, cfg.AI.Prompt.Watch)
}
