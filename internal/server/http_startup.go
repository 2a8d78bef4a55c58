package server

import (
	"context"
	"fmt"
	"errors"
	"net/http"
	"time"

	"interviewprep/internal/observability"
)

// Start serves until ctx is cancelled or the listener fails. Callers wire
// SIGINT and SIGTERM into ctx.
func (s *Server) Start(ctx context.Context) error {
	om, err := s.initializeObservability()
	if err != nil {
		return err
	}
	defer s.shutdownObservability(om)

	httpServer := s.setupHTTPServer(om)

	if err := s.configureTLS(httpServer); err != nil {
		return err
	}

	if err := s.startTemplateWatcher(); err != nil {
		return err
	}

	s.displayServerInfo(httpServer)

	return s.startWithGracefulShutdown(ctx, httpServer)
}

// initializeObservability sets up observability components
func (s *Server) initializeObservability() (*observability.ObservabilityManager, error) {
	obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)

	om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	return om, nil
}

// shutdownObservability flushes exporters
func (s *Server) shutdownObservability(om *observability.ObservabilityManager) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := om.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown observability")
	}
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer(om *observability.ObservabilityManager) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:           s.setupRoutes(om),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}
}

// startTemplateWatcher hot-reloads ai.prompt.templateFile when watching is on
func (s *Server) startTemplateWatcher() error {
	if s.AppConfig == nil {
		return nil
	}
	prompt := s.AppConfig.AI.Prompt
	if !prompt.Watch || prompt.TemplateFile == "" {
		return nil
	}

	s.TemplateWatcher = NewTemplateWatcher(prompt.TemplateFile, prompt.Text(), prompt.DebounceDelay,
		s.Service.Prompts(), s.Logger)
	if err := s.TemplateWatcher.Start(); err != nil {
		return fmt.Errorf("failed to start prompt template watcher: %w", err)
	}
	return nil
}

// startWithGracefulShutdown serves until the listener fails or ctx is done,
// then drains in-flight requests.
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server) error {
	listenErr := make(chan error, 1)
	go func() {
		s.Logger.Info("HTTP server listening", "address", server.Addr, "tls_enabled", server.TLSConfig != nil)
		var err error
		if server.TLSConfig != nil {
			err = server.ListenAndServeTLS("", "") // certificates are in TLSConfig
		} else {
			err = server.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		s.stopTemplateWatcher()
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Shutting down", "reason", context.Cause(ctx).Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.stopTemplateWatcher()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Graceful shutdown failed, forcing close")
		return server.Close()
	}
	if err := s.Service.Handle().Close(); err != nil {
		s.Logger.LogError(err, "Failed to close completion client")
	}
	s.Logger.Info("Server stopped")
	return nil
}

func (s *Server) stopTemplateWatcher() {
	if s.TemplateWatcher == nil {
		return
	}
	if err := s.TemplateWatcher.Stop(); err != nil {
		s.Logger.LogError(err, "Failed to stop prompt template watcher")
	}
}
