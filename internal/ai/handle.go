package ai

import (
	"context"
	"sync"

	"interviewprep/internal/config"
	"interviewprep/internal/credentials"
	"interviewprep/internal/errors"
)

// CredentialResolver is the slice of *credentials.Resolver the handle needs
type CredentialResolver interface {
	Name() string
	Resolve(ctx context.Context) (credentials.Credential, error)
}

// ClientHandle owns the lazily created completion provider. The first
// successful Provider call builds it and later calls reuse it; a failed
// attempt caches nothing, so the next call resolves the credential again.
type ClientHandle struct {
	mu       sync.Mutex
	cfg      config.AIConfig
	resolver CredentialResolver
	factory  ProviderFactory
	breaker  *CompletionBreaker
	logger   *errors.Logger

	provider CompletionProvider
	source   string
}

// HandleOption configures a ClientHandle
type HandleOption func(*ClientHandle)

// WithProviderFactory replaces NewProvider
func WithProviderFactory(factory ProviderFactory) HandleOption {
	return func(h *ClientHandle) { h.factory = factory }
}

// InitClient returns a handle for cfg. No credential lookup or network
// call happens until Provider is first called.
func InitClient(cfg config.AIConfig, resolver CredentialResolver, logger *errors.Logger, opts ...HandleOption) *ClientHandle {
	if logger == nil {
		logger = errors.Discard()
	}
	h := &ClientHandle{
		cfg:      cfg,
		resolver: resolver,
		factory:  NewProvider,
		breaker:  NewCompletionBreaker(cfg.Provider, cfg.CircuitBreaker, logger),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Provider returns the cached provider, creating it on first use. A missing
// credential fails with MISSING_CREDENTIAL before the factory runs.
func (h *ClientHandle) Provider(ctx context.Context) (CompletionProvider, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.provider != nil {
		return h.provider, nil
	}

	cred, err := h.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	provider, err := h.factory(ctx, h.cfg, cred.Value, h.breaker, h.logger)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewAIError(errors.ErrCodeRequestFailed, "Failed to create completion client", err)
	}

	h.provider = provider
	h.source = cred.Source
	h.logger.Info("Completion client initialized",
		"provider", h.cfg.Provider,
		"model", h.cfg.Model,
		"credential_name", h.resolver.Name(),
		"credential_source", cred.Source)
	return provider, nil
}

// Initialized reports whether a provider is cached
func (h *ClientHandle) Initialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.provider != nil
}

// CredentialSource is where the cached provider's credential came from, or ""
func (h *ClientHandle) CredentialSource() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.source
}

// CredentialPresent reports whether a credential is available without
// creating a provider. It never returns the value.
func (h *ClientHandle) CredentialPresent(ctx context.Context) bool {
	if h.Initialized() {
		return true
	}
	_, err := h.resolver.Resolve(ctx)
	return err == nil
}

// ModelInfo asks the cached provider about its model. Without a provider it
// reports the configured model as unavailable rather than initializing one.
func (h *ClientHandle) ModelInfo(ctx context.Context) *ModelInfo {
	h.mu.Lock()
	provider := h.provider
	h.mu.Unlock()

	if provider == nil {
		return &ModelInfo{
			Provider: h.cfg.Provider,
			Name:     h.cfg.Model,
			Error:    "completion client not initialized",
		}
	}
	return provider.GetModelInfo(ctx)
}

// Breaker is the circuit breaker shared by every provider this handle creates.
// It is nil when disabled.
func (h *ClientHandle) Breaker() *CompletionBreaker {
	return h.breaker
}

// Config returns the completion settings the handle was created with
func (h *ClientHandle) Config() config.AIConfig {
	return h.cfg
}

// Reset drops the cached provider so the next call resolves the credential
// again. It is used after the service rejects the key.
func (h *ClientHandle) Reset() {
	h.mu.Lock()
	provider := h.provider
	h.provider, h.source = nil, ""
	h.mu.Unlock()

	if provider != nil {
		if err := provider.Close(); err != nil {
			h.logger.Warn("Failed to close completion client", "error", err.Error())
		}
	}
}

// Close releases the cached provider
func (h *ClientHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.provider == nil {
		return nil
	}
	err := h.provider.Close()
	h.provider, h.source = nil, ""
	return err
}
