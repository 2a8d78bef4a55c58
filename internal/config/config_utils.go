package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// providerDefaults holds the model and credential variable used when the
// configuration leaves them empty.
var providerDefaults = map[string]struct {
	model      string
	credential string
}{
	ProviderMistral:   {model: "mistral-small-latest", credential: "MISTRALAI_API_KEY"},
	ProviderGemini:    {model: "gemini-2.0-flash", credential: "GEMINI_API_KEY"},
	ProviderAnthropic: {model: "claude-3-5-haiku-latest", credential: "ANTHROPIC_API_KEY"},
}

// applyFallbacks fills in values derived from other settings
func (c *Config) applyFallbacks() {
	c.applyProviderDefaults()
	c.applyServerAPIKeyFallbacks()
	c.applyTLSDefaults()
	c.applyObservabilityDefaults()
}

// applyProviderDefaults derives model and credential name from the provider
func (c *Config) applyProviderDefaults() {
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	defaults, ok := providerDefaults[c.AI.Provider]
	if !ok {
		return // Validate reports the unsupported provider
	}
	if c.AI.Model == "" {
		c.AI.Model = defaults.model
	}
	if c.AI.CredentialName == "" {
		c.AI.CredentialName = defaults.credential
	}
}

// applyServerAPIKeyFallbacks parses a comma separated key list from the
// environment and drops blank entries.
func (c *Config) applyServerAPIKeyFallbacks() {
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv(EnvPrefix + "_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitAndTrim(apiKeysEnv)
		}
	}
	c.Server.APIKeys = splitAndTrim(strings.Join(c.Server.APIKeys, ","))
}

// applyTLSDefaults applies default TLS configuration values
func (c *Config) applyTLSDefaults() {
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}
}

// applyObservabilityDefaults applies default observability configuration values
func (c *Config) applyObservabilityDefaults() {
	if c.Observability.ServiceInstance == "" {
		c.Observability.ServiceInstance = generateServiceInstanceID(c.Observability.ServiceName)
	}
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// generateServiceInstanceID generates a unique service instance ID
func generateServiceInstanceID(serviceName string) string {
	if hostname, err := os.Hostname(); err == nil {
		return fmt.Sprintf("%s-%s", serviceName, hostname)
	}
	return fmt.Sprintf("%s-1", serviceName)
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// logConfigurationSources prints where configuration came from and the
// values that matter when diagnosing a deployment. Secrets are masked.
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed == "" {
		configFileUsed = "none (defaults and environment)"
	}
	log.Printf("[CONFIG] Config file: %s", configFileUsed)

	for _, name := range []string{
		EnvPrefix + "_AI_PROVIDER",
		EnvPrefix + "_AI_MODEL",
		EnvPrefix + "_SERVER_PORT",
		EnvPrefix + "_SERVER_HOST",
		EnvPrefix + "_SERVER_APIKEYS",
		EnvPrefix + "_APP_LOGLEVEL",
		EnvPrefix + "_VAULT_ENABLED",
		c.AI.CredentialName,
	} {
		value := os.Getenv(name)
		if name == "" || value == "" {
			continue
		}
		if isSensitiveName(name) {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG] env %s=%s", name, value)
	}

	log.Printf("[CONFIG] provider=%s model=%s credential=%s secretsFile=%q",
		c.AI.Provider, c.AI.Model, c.AI.CredentialName, c.Secrets.File)
	log.Printf("[CONFIG] listen=%s:%s tls=%s logLevel=%s vault=%t observability=%t",
		c.Server.Host, c.Server.Port, c.Server.TLS.Mode, c.App.LogLevel, c.Vault.Enabled, c.Observability.Enabled)
}

func isSensitiveName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "key") || strings.Contains(lower, "token") || strings.Contains(lower, "secret")
}
