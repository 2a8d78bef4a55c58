package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"interviewprep/internal/config"
	apperrors "interviewprep/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// TemplateSetter receives reloaded prompt templates
type TemplateSetter interface {
	SetTemplate(text, source string)
}

// TemplateWatcher reloads the prompt template file into a TemplateSetter when
// it changes. A file that fails to load (empty, unreadable, too large) keeps
// the previous template.
type TemplateWatcher struct {
	mu sync.RWMutex

	path   string
	target TemplateSetter
	last   string

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	doneChan   chan struct{}

	logger *apperrors.Logger

	running      bool
	reloads      int
	failures     int
	lastReloadAt time.Time
	lastError    string
}

// NewTemplateWatcher creates a watcher for path. current is the template the
// target already holds, so an unchanged file is not re-applied.
func NewTemplateWatcher(path, current string, debounceDelay time.Duration, target TemplateSetter, logger *apperrors.Logger) *TemplateWatcher {
	if debounceDelay <= 0 {
		debounceDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = apperrors.Discard()
	}
	return &TemplateWatcher{
		path:          path,
		target:        target,
		last:          current,
		debounceDelay: debounceDelay,
		reloadChan:    make(chan struct{}, 1), // Buffered to prevent blocking
		logger:        logger,
	}
}

// Start begins watching the template file
func (tw *TemplateWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.running {
		return fmt.Errorf("template watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so atomic writes (write temp, rename over) are seen
	dir := filepath.Dir(tw.path)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			tw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	// Fresh channels per run so a stopped watcher can be started again
	tw.fsWatcher = watcher
	tw.stopChan = make(chan struct{})
	tw.doneChan = make(chan struct{})
	tw.running = true
	go tw.watchLoop(watcher, tw.stopChan, tw.doneChan)

	tw.logger.Info("Prompt template watcher started",
		"file", tw.path,
		"debounce_delay", tw.debounceDelay)
	return nil
}

// Stop stops the watcher and waits for its loop to exit
func (tw *TemplateWatcher) Stop() error {
	tw.mu.Lock()
	if !tw.running {
		tw.mu.Unlock()
		return nil
	}
	close(tw.stopChan)
	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}
	tw.running = false
	watcher, done := tw.fsWatcher, tw.doneChan
	tw.mu.Unlock()

	<-done

	if err := watcher.Close(); err != nil {
		tw.logger.LogError(err, "Failed to close file system watcher")
		return err
	}
	tw.logger.Info("Prompt template watcher stopped")
	return nil
}

func (tw *TemplateWatcher) watchLoop(watcher *fsnotify.Watcher, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if tw.shouldProcessEvent(event) {
				tw.scheduleReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			tw.logger.LogError(err, "File watcher error")

		case <-tw.reloadChan:
			tw.reload()

		case <-stop:
			return
		}
	}
}

// shouldProcessEvent reports whether event touches the template file
func (tw *TemplateWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(tw.path) &&
		filepath.Base(event.Name) != filepath.Base(tw.path) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (tw *TemplateWatcher) scheduleReload() {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.debounceTimer != nil {
		tw.debounceTimer.Stop()
	}

	tw.debounceTimer = time.AfterFunc(tw.debounceDelay, func() {
		select {
		case tw.reloadChan <- struct{}{}:
		default:
			// reload already scheduled
		}
	})
}

// reload reads the file and applies it when it differs from the last template
func (tw *TemplateWatcher) reload() {
	if _, err := os.Stat(tw.path); os.IsNotExist(err) {
		// Mid-rename; the Create event that follows triggers another reload
		return
	}

	content, err := config.LoadPromptFile(tw.path)

	tw.mu.Lock()
	defer tw.mu.Unlock()

	if err != nil {
		tw.failures++
		tw.lastError = err.Error()
		tw.logger.LogError(err, "Prompt template reload failed, keeping previous template", "file", tw.path)
		return
	}
	if content == tw.last {
		return
	}

	tw.target.SetTemplate(content, config.PromptSourceFile+":"+tw.path)
	tw.last = content
	tw.reloads++
	tw.lastReloadAt = time.Now()
	tw.lastError = ""
	tw.logger.Info("Prompt template reloaded", "file", tw.path, "characters", len(content))
}

// IsRunning returns whether the watcher is currently running
func (tw *TemplateWatcher) IsRunning() bool {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	return tw.running
}

// Stats reports reload counters for /stats
func (tw *TemplateWatcher) Stats() map[string]any {
	tw.mu.RLock()
	defer tw.mu.RUnlock()
	stats := map[string]any{
		"file":     tw.path,
		"running":  tw.running,
		"reloads":  tw.reloads,
		"failures": tw.failures,
	}
	if !tw.lastReloadAt.IsZero() {
		stats["last_reload_at"] = tw.lastReloadAt
	}
	if tw.lastError != "" {
		stats["last_error"] = tw.lastError
	}
	return stats
}
