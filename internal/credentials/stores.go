package credentials

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"

	"github.com/spf13/viper"
)

// FileStore reads a secrets file (TOML, YAML or JSON, by extension) on every
// lookup so edits take effect without a restart.
type FileStore struct {
	path string
}

// NewFileStore returns nil when path is empty
func NewFileStore(path string) *FileStore {
	if path == "" {
		return nil
	}
	return &FileStore{path: path}
}

func (s *FileStore) Name() string {
	return "secrets-file:" + s.path
}

func (s *FileStore) Lookup(_ context.Context, key string) (string, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return "", nil
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	if ext := strings.TrimPrefix(filepath.Ext(s.path), "."); ext == "" {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read secrets file: %w", err)
	}

	// viper lower-cases keys, so lookups are case-insensitive
	return v.GetString(key), nil
}

// secretReader is the slice of *config.VaultClient the store needs
type secretReader interface {
	GetStringSecret(ctx context.Context, path, key string) (string, error)
}

// VaultStore reads the credential from a KVv2 path. The Vault connection is
// opened on first lookup and reused afterwards; a failed connection is
// retried on the next lookup.
type VaultStore struct {
	path   string
	field  string
	cfg    config.VaultConfig
	logger *errors.Logger

	mu     sync.Mutex
	reader secretReader
	dial   func(ctx context.Context) (secretReader, error)
}

// NewVaultStore returns nil when Vault is disabled or no credential path is set
func NewVaultStore(cfg config.VaultConfig, logger *errors.Logger) *VaultStore {
	if !cfg.Enabled || cfg.Secrets.Credential == "" {
		return nil
	}
	field := cfg.Secrets.CredentialField
	if field == "" {
		field = "api_key"
	}
	s := &VaultStore{
		path:   cfg.Secrets.Credential,
		field:  field,
		cfg:    cfg,
		logger: logger,
	}
	s.dial = func(ctx context.Context) (secretReader, error) {
		client, err := config.NewVaultClient(ctx, s.cfg, s.logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return s
}

func (s *VaultStore) Name() string {
	return "vault:" + s.path
}

// Lookup ignores key: the credential lives under the configured field
func (s *VaultStore) Lookup(ctx context.Context, _ string) (string, error) {
	reader, err := s.client(ctx)
	if err != nil {
		return "", err
	}
	return reader.GetStringSecret(ctx, s.path, s.field)
}

func (s *VaultStore) client(ctx context.Context) (secretReader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader != nil {
		return s.reader, nil
	}
	reader, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	s.reader = reader
	return reader, nil
}

// NewResolverFromConfig wires the environment, secrets file and Vault stores
// in precedence order.
func NewResolverFromConfig(cfg *config.Config, logger *errors.Logger) *Resolver {
	var stores []SecretStore
	if fs := NewFileStore(cfg.Secrets.File); fs != nil {
		stores = append(stores, fs)
	}
	if vs := NewVaultStore(cfg.Vault, logger); vs != nil {
		stores = append(stores, vs)
	}
	return NewResolver(cfg.AI.CredentialName, logger, WithStores(stores...))
}
