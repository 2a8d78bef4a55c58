package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"interviewprep/internal/errors"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	return errors.Discard()
}

// newFakeVault serves sys/health and a fixed set of KVv2 secrets
func newFakeVault(t *testing.T, secrets map[string]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v1/sys/health" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"initialized":  true,
				"sealed":       false,
				"standby":      false,
				"version":      "1.15.0",
				"cluster_name": "test",
			})
			return
		}
		if r.Header.Get("X-Vault-Token") != "test-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		data, ok := secrets[r.URL.Path[len("/v1/"):]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"errors":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"data":     data,
				"metadata": map[string]any{"version": 3},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVaultClientGetStringSecret(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"secret/data/interviewprep": {"api_key": "mistral-secret-value", "count": 7},
	})

	client, err := NewVaultClient(context.Background(), VaultConfig{
		Enabled: true,
		Address: srv.URL,
		Token:   "test-token",
	}, newTestLogger())
	require.NoError(t, err)
	require.NotNil(t, client)

	ctx := context.Background()

	t.Run("string value", func(t *testing.T) {
		value, err := client.GetStringSecret(ctx, "secret/data/interviewprep", "api_key")
		require.NoError(t, err)
		assert.Equal(t, "mistral-secret-value", value)
	})

	t.Run("version is parsed", func(t *testing.T) {
		secret, err := client.GetSecretV2(ctx, "secret/data/interviewprep")
		require.NoError(t, err)
		assert.Equal(t, int64(3), secret.Version)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := client.GetStringSecret(ctx, "secret/data/interviewprep", "other")
		assert.ErrorContains(t, err, "not found")
	})

	t.Run("non-string value", func(t *testing.T) {
		_, err := client.GetStringSecret(ctx, "secret/data/interviewprep", "count")
		assert.ErrorContains(t, err, "not a string")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := client.GetStringSecret(ctx, "secret/data/nope", "api_key")
		assert.Error(t, err)
	})
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(context.Background(), VaultConfig{Enabled: false}, newTestLogger())
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestApplyVaultSecrets(t *testing.T) {
	srv := newFakeVault(t, map[string]map[string]any{
		"secret/data/api-keys": {"keys": "alpha, beta ,,gamma"},
		"secret/data/tls":      {"cert": "cert-pem", "key": "key-pem"},
	})

	cfg := &Config{
		Vault: VaultConfig{
			Enabled: true,
			Address: srv.URL,
			Token:   "test-token",
			Secrets: VaultSecrets{
				APIKeys:  "secret/data/api-keys",
				TLSCerts: "secret/data/tls",
			},
		},
		Server: ServerConfig{
			TLS: TLSConfig{Mode: "server", CertFile: "/etc/cert.pem"},
		},
	}

	require.NoError(t, ApplyVaultSecrets(context.Background(), cfg, newTestLogger()))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.Server.APIKeys)
	assert.Equal(t, "cert-pem", cfg.Server.TLS.CertContent)
	assert.Equal(t, "key-pem", cfg.Server.TLS.KeyContent)
	assert.Empty(t, cfg.Server.TLS.CertFile, "vault content replaces the file path")
	assert.NoError(t, cfg.ValidateTLSConfig())
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{Vault: VaultConfig{Enabled: false}}
	assert.NoError(t, ApplyVaultSecrets(context.Background(), cfg, newTestLogger()))
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "json number", input: json.Number("42"), expected: 42},
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "test/path")

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestLoadSingleCertificate(t *testing.T) {
	logger := newTestLogger()

	tests := []struct {
		name     string
		data     map[string]any
		expected bool
	}{
		{name: "valid certificate content", data: map[string]any{"cert": "-----BEGIN CERTIFICATE-----"}, expected: true},
		{name: "empty certificate content", data: map[string]any{"cert": ""}},
		{name: "missing certificate key", data: map[string]any{"other": "value"}},
		{name: "non-string certificate value", data: map[string]any{"cert": 123}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target string
			ok := loadSingleCertificate(&VaultSecret{Data: tt.data}, "cert", &target, "TLS certificate content", logger)
			assert.Equal(t, tt.expected, ok)
			if tt.expected {
				assert.NotEmpty(t, target)
			} else {
				assert.Empty(t, target)
			}
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	logger := newTestLogger()

	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "direct-token", token)
	})

	t.Run("token from file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600))

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, logger)
		assert.NoError(t, err)
		assert.Equal(t, "file-token", token)
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"}, logger)
		assert.ErrorContains(t, err, "failed to read vault token file")
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		assert.ErrorContains(t, err, "vault token is required")
	})
}

func TestVaultClientExtractSecretData(t *testing.T) {
	vc := &VaultClient{logger: newTestLogger()}

	data, err := vc.extractSecretData(&api.Secret{
		Data: map[string]any{"data": map[string]any{"api_key": "x"}},
	}, "secret/test")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"api_key": "x"}, data)

	_, err = vc.extractSecretData(&api.Secret{Data: map[string]any{"data": "flat"}}, "secret/test")
	assert.ErrorContains(t, err, "KVv2")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "abcd****wxyz", MaskSecret("abcdefghwxyz"))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "", MaskSecret(""))
}
