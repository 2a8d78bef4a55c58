package server

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"interviewprep/internal/config"
	apperrors "interviewprep/internal/errors"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSetter struct {
	mu      sync.Mutex
	text    string
	source  string
	updates int
}

func (r *recordingSetter) SetTemplate(text, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text, r.source = text, source
	r.updates++
}

func (r *recordingSetter) snapshot() (string, string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text, r.source, r.updates
}

func writePrompt(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestTemplateWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	writePrompt(t, path, "Questions for {job_title}")

	target := &recordingSetter{}
	tw := NewTemplateWatcher(path, "Questions for {job_title}", 20*time.Millisecond, target, apperrors.Discard())
	require.NoError(t, tw.Start())
	t.Cleanup(func() { _ = tw.Stop() })
	assert.True(t, tw.IsRunning())
	assert.Error(t, tw.Start(), "second start is rejected")

	writePrompt(t, path, "  Five {round_type} questions for {job_title}\n")
	assert.Eventually(t, func() bool {
		text, _, _ := target.snapshot()
		return text == "Five {round_type} questions for {job_title}"
	}, 2*time.Second, 10*time.Millisecond)

	_, source, updates := target.snapshot()
	assert.Equal(t, config.PromptSourceFile+":"+path, source)
	assert.Equal(t, 1, updates)
	assert.Equal(t, 1, tw.Stats()["reloads"])
	assert.Contains(t, tw.Stats(), "last_reload_at")
}

func TestTemplateWatcherKeepsTemplateOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	writePrompt(t, path, "original")

	target := &recordingSetter{}
	tw := NewTemplateWatcher(path, "original", 20*time.Millisecond, target, apperrors.Discard())
	require.NoError(t, tw.Start())
	t.Cleanup(func() { _ = tw.Stop() })

	writePrompt(t, path, "   \n")
	assert.Eventually(t, func() bool {
		return tw.Stats()["failures"].(int) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	_, _, updates := target.snapshot()
	assert.Zero(t, updates)
	assert.NotEmpty(t, tw.Stats()["last_error"])
}

func TestTemplateWatcherIgnoresUnchangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	writePrompt(t, path, "same")

	target := &recordingSetter{}
	tw := NewTemplateWatcher(path, "same", time.Millisecond, target, nil)

	tw.reload()
	_, _, updates := target.snapshot()
	assert.Zero(t, updates)

	writePrompt(t, path, strings.Repeat("x", 10))
	tw.reload()
	text, _, updates := target.snapshot()
	assert.Equal(t, strings.Repeat("x", 10), text)
	assert.Equal(t, 1, updates)
}

func TestTemplateWatcherStopIsIdempotent(t *testing.T) {
	tw := NewTemplateWatcher(filepath.Join(t.TempDir(), "prompt.txt"), "", 0, &recordingSetter{}, nil)
	assert.NoError(t, tw.Stop())

	require.NoError(t, tw.Start())
	assert.NoError(t, tw.Stop())
	assert.False(t, tw.IsRunning())
	assert.NoError(t, tw.Stop())
}

func TestTemplateWatcherRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	writePrompt(t, path, "first")

	target := &recordingSetter{}
	tw := NewTemplateWatcher(path, "first", 20*time.Millisecond, target, nil)
	require.NoError(t, tw.Start())
	require.NoError(t, tw.Stop())

	require.NoError(t, tw.Start())
	t.Cleanup(func() { _ = tw.Stop() })
	assert.True(t, tw.IsRunning())

	writePrompt(t, path, "second")
	assert.Eventually(t, func() bool {
		text, _, _ := target.snapshot()
		return text == "second"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, tw.Stop())
	assert.False(t, tw.IsRunning())
}

func TestTemplateWatcherStartMissingDirectory(t *testing.T) {
	tw := NewTemplateWatcher("/nonexistent/dir/prompt.txt", "", 0, &recordingSetter{}, nil)
	assert.Error(t, tw.Start())
	assert.False(t, tw.IsRunning())
}

func TestShouldProcessEvent(t *testing.T) {
	tw := NewTemplateWatcher("/etc/interviewprep/prompt.txt", "", 0, &recordingSetter{}, nil)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to file", fsnotify.Event{Name: "/etc/interviewprep/prompt.txt", Op: fsnotify.Write}, true},
		{"rename over file", fsnotify.Event{Name: "/etc/interviewprep/prompt.txt", Op: fsnotify.Rename}, true},
		{"create file", fsnotify.Event{Name: "/etc/interviewprep/prompt.txt", Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: "/etc/interviewprep/prompt.txt", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/etc/interviewprep/other.txt", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tw.shouldProcessEvent(tt.event))
		})
	}
}
