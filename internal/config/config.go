package config

import (
	stderrors "errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Completion credential precedence order:
// 1. Process environment variable named by ai.credentialName
// 2. Secrets file (secrets.file)
// 3. Vault KVv2 path (vault.secrets.credential)
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Secrets       SecretsConfig       `mapstructure:"secrets"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds completion service configuration
type AIConfig struct {
	Provider       string               `mapstructure:"provider"` // mistral, gemini or anthropic
	Model          string               `mapstructure:"model"`
	Temperature    float32              `mapstructure:"temperature"`
	MaxTokens      int                  `mapstructure:"maxTokens"`
	CredentialName string               `mapstructure:"credentialName"` // Env var / secret key holding the API key
	BaseURL        string               `mapstructure:"baseURL"`        // Override for OpenAI-compatible endpoints
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
	Prompt         PromptConfig         `mapstructure:"prompt"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// PromptConfig holds the question template override
type PromptConfig struct {
	Template      string        `mapstructure:"template"`     // Inline template
	TemplateFile  string        `mapstructure:"templateFile"` // Path to a template file
	Watch         bool          `mapstructure:"watch"`        // Hot reload TemplateFile on change
	DebounceDelay time.Duration `mapstructure:"debounceDelay"`

	loaded string // TemplateFile content read at load time
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication for /api/v1 routes
	APIKeys []string `mapstructure:"apiKeys"`
}

// TLSConfig holds server TLS configuration
type TLSConfig struct {
	Mode     string `mapstructure:"mode"`     // TLS mode: "disabled" or "server"
	CertFile string `mapstructure:"certFile"` // Server certificate file (PEM)
	KeyFile  string `mapstructure:"keyFile"`  // Server private key file (PEM)

	// Certificate content (used when loaded from Vault instead of files)
	CertContent string `mapstructure:"certContent"`
	KeyContent  string `mapstructure:"keyContent"`

	MinVersion string `mapstructure:"minVersion"` // "1.2" or "1.3"
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	DotEnvFile       string   `mapstructure:"dotEnvFile"`
}

// SecretsConfig points at a deployment secrets file (TOML, YAML or JSON)
type SecretsConfig struct {
	File string `mapstructure:"file"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig     `mapstructure:"businessMetrics"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

// BusinessMetricsConfig holds business metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackRejections   bool `mapstructure:"trackRejections"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoadConfig reads defaults, then the first config.yaml found in
// /etc/interviewprep, $HOME/.interviewprep or the working directory, then
// INTERVIEWPREP_* environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigWith(viper.New())
}

// LoadConfigWith loads configuration through v, which may already carry
// bound command line flags.
func LoadConfigWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range []string{"/etc/interviewprep/", "$HOME/.interviewprep", "."} {
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyFallbacks()
	cfg.logConfigurationSources(v.ConfigFileUsed())

	if err := cfg.loadPromptTemplate(); err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loaded")
	return &cfg, nil
}

// EnvPrefix prefixes every configuration environment variable
const EnvPrefix = "INTERVIEWPREP"

// Supported completion providers
const (
	ProviderMistral   = "mistral"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Validate checks if the configuration is valid. The completion credential
// is deliberately not required here: it is resolved on first use so that a
// missing key surfaces as a user-facing error instead of a startup failure.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderMistral, ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported AI provider: %s (must be 'mistral', 'gemini' or 'anthropic')", c.AI.Provider)
	}

	if c.AI.Model == "" {
		return fmt.Errorf("AI model is required")
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI temperature must be between 0 and 2, got %.2f", c.AI.Temperature)
	}

	if c.AI.CredentialName == "" {
		return fmt.Errorf("AI credential name is required")
	}

	if c.AI.CircuitBreaker.Enabled {
		if c.AI.CircuitBreaker.FailureThreshold <= 0 || c.AI.CircuitBreaker.FailureThreshold > 1 {
			return fmt.Errorf("circuit breaker failure threshold must be in (0, 1]")
		}
	}

	if c.AI.Prompt.Watch && c.AI.Prompt.TemplateFile == "" {
		return fmt.Errorf("ai.prompt.watch requires ai.prompt.templateFile")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}
