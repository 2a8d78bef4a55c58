package config

import (
	"time"

	"github.com/spf13/viper"
)

// defaults are keyed by dotted configuration path. Model and credential name
// stay empty here and are derived from the provider in applyFallbacks.
var defaults = map[string]any{
	"ai.provider":       ProviderMistral,
	"ai.model":          "",
	"ai.temperature":    0.7,
	"ai.maxTokens":      0, // no output cap unless configured
	"ai.credentialName": "",
	"ai.baseURL":        "",

	"ai.circuitBreaker.enabled":          false,
	"ai.circuitBreaker.maxRequests":      1,
	"ai.circuitBreaker.interval":         time.Minute,
	"ai.circuitBreaker.timeout":          30 * time.Second,
	"ai.circuitBreaker.minRequests":      3,
	"ai.circuitBreaker.failureThreshold": 0.6,

	"ai.prompt.template":      "",
	"ai.prompt.templateFile":  "",
	"ai.prompt.watch":         false,
	"ai.prompt.debounceDelay": 500 * time.Millisecond,

	"server.host":           "localhost",
	"server.port":           "8080",
	"server.readTimeout":    30 * time.Second,
	"server.writeTimeout":   2 * time.Minute, // completions can be slow
	"server.idleTimeout":    2 * time.Minute,
	"server.maxRequestSize": 64 * 1024,
	"server.apiKeys":        []string{},

	"server.tls.mode":       "disabled",
	"server.tls.certFile":   "",
	"server.tls.keyFile":    "",
	"server.tls.minVersion": "1.2",

	"app.logLevel":         "info",
	"app.defaultFormat":    "markdown",
	"app.supportedFormats": []string{"json", "yaml", "text", "markdown"},
	"app.maxFileSize":      1 << 20,
	"app.dotEnvFile":       ".env",

	"secrets.file": "",

	"vault.enabled":                 false,
	"vault.address":                 "",
	"vault.token":                   "",
	"vault.tokenFile":               "",
	"vault.namespace":               "",
	"vault.secrets.apiKeys":         "",
	"vault.secrets.credential":      "",
	"vault.secrets.credentialField": "api_key",
	"vault.secrets.tlsCerts":        "",

	"observability.enabled":         false,
	"observability.serviceName":     "interviewprep",
	"observability.serviceVersion":  "", // falls back to the build version
	"observability.serviceInstance": "",
	"observability.consoleOutput":   false,
	"observability.sampleRate":      1.0,

	"observability.tracing.enabled":            true,
	"observability.tracing.sampleRate":         1.0,
	"observability.metrics.enabled":            true,
	"observability.metrics.collectionInterval": 15 * time.Second,

	"observability.customMetrics.aiOperations.enabled":              true,
	"observability.customMetrics.aiOperations.trackDuration":        true,
	"observability.customMetrics.aiOperations.trackTokenUsage":      true,
	"observability.customMetrics.businessMetrics.enabled":           true,
	"observability.customMetrics.businessMetrics.trackSuccessRates": true,
	"observability.customMetrics.businessMetrics.trackRejections":   true,

	"observability.console.enabled":     false,
	"observability.console.prettyPrint": true,

	"observability.prometheus.enabled":  false,
	"observability.prometheus.endpoint": "/metrics",
	"observability.prometheus.port":     "9090",

	"observability.otlp.enabled":  false,
	"observability.otlp.endpoint": "http://localhost:4318",
	"observability.otlp.insecure": true,
	"observability.otlp.headers":  map[string]string{},

	"observability.healthCheck.timeout": 5 * time.Second,
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
