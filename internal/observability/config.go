package observability

import (
	"cmp"

	"interviewprep/internal/config"
)

// DefaultServiceName is used when no configuration is available
const DefaultServiceName = "interviewprep"

// GetObservabilityConfig derives the manager settings from cfg. A nil cfg
// yields a console-only setup, which is what local runs want.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    DefaultServiceName,
			ServiceVersion: version,
			Enabled:        true,
			ConsoleOutput:  true,
			PrettyPrint:    true,
			SampleRate:     1.0,
			Prometheus:     GetPrometheusConfig(nil),
		}
	}

	obs := cfg.Observability
	return ObservabilityConfig{
		ServiceName:    cmp.Or(obs.ServiceName, DefaultServiceName),
		ServiceVersion: cmp.Or(obs.ServiceVersion, version),
		Enabled:        obs.Enabled,
		ConsoleOutput:  obs.ConsoleOutput,
		PrettyPrint:    obs.Console.PrettyPrint,
		SampleRate:     obs.SampleRate,
		Prometheus:     GetPrometheusConfig(cfg),
	}
}

// GetPrometheusConfig returns the scrape endpoint settings, disabled on /metrics:9090
// when cfg is nil.
func GetPrometheusConfig(cfg *config.Config) PrometheusConfig {
	if cfg == nil {
		return PrometheusConfig{Endpoint: "/metrics", Port: "9090"}
	}
	p := cfg.Observability.Prometheus
	return PrometheusConfig{Enabled: p.Enabled, Endpoint: p.Endpoint, Port: p.Port}
}
