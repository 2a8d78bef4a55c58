package observability

import (
	"context"
	"fmt"
	"testing"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func metricsOnlyConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "interviewprep-test"
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.CustomMetrics.AIOperations = config.AIOperationsMetricsConfig{
		Enabled: true, TrackDuration: true, TrackTokenUsage: true,
	}
	cfg.Observability.CustomMetrics.BusinessMetrics = config.BusinessMetricsConfig{
		Enabled: true, TrackSuccessRates: true, TrackRejections: true,
	}
	return cfg
}

func newTestManager(t *testing.T, cfg *config.Config) *ObservabilityManager {
	t.Helper()
	om, err := NewObservabilityManager(GetObservabilityConfig(cfg, "test"), cfg, errors.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	return om
}

func collect(t *testing.T, om *ObservabilityManager) map[string]metricdata.Metrics {
	t.Helper()
	require.NotNil(t, om.manualReader)
	var rm metricdata.ResourceMetrics
	require.NoError(t, om.manualReader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumValue(t *testing.T, m metricdata.Metrics, attr attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
			total += dp.Value
		}
	}
	return total
}

func TestTrackAIOperationWithTokens(t *testing.T) {
	om := newTestManager(t, metricsOnlyConfig())
	m := om.GetMetrics()
	ctx := context.Background()

	err := m.TrackAIOperationWithTokens(ctx, "generate", func(context.Context) *AIOperationResult {
		return &AIOperationResult{TokenUsage: &types.TokenUsage{InputTokens: 10, OutputTokens: 20, TotalTokens: 30}}
	}, om)
	require.NoError(t, err)

	failure := errors.NewAIError(errors.ErrCodeRateLimited, "slow down", nil)
	err = m.TrackAIOperationWithTokens(ctx, "generate", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: failure}
	}, om)
	assert.Same(t, failure, err)

	got := collect(t, om)
	require.Contains(t, got, "interviewprep_ai_requests_total")
	assert.Equal(t, int64(1), sumValue(t, got["interviewprep_ai_requests_total"], attribute.Bool("success", true)))
	assert.Equal(t, int64(1), sumValue(t, got["interviewprep_ai_requests_total"], attribute.Bool("success", false)))

	require.Contains(t, got, "interviewprep_ai_errors_total")
	assert.Equal(t, int64(1), sumValue(t, got["interviewprep_ai_errors_total"],
		attribute.String("kind", string(errors.KindRateLimited))))

	assert.Contains(t, got, "interviewprep_ai_processing_duration_seconds")

	tokens, ok := got["interviewprep_ai_token_usage"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, tokens.DataPoints, 3)
}

func TestRecordBusinessMetric(t *testing.T) {
	om := newTestManager(t, metricsOnlyConfig())
	m := om.GetMetrics()
	ctx := context.Background()

	m.RecordBusinessMetric(ctx, MetricQuestionSetGenerated, true, om,
		attribute.String("round_type", "technical"),
		attribute.Bool("include_answers", true))
	m.RecordBusinessMetric(ctx, MetricInputRejected, false, om, attribute.String("field", "job_title"))
	m.RecordBusinessMetric(ctx, MetricInputRejected, false, om, attribute.String("field", "background"))
	m.RecordBusinessMetric(ctx, "unknown_metric", true, om)

	got := collect(t, om)
	assert.Equal(t, int64(1), sumValue(t, got["interviewprep_question_sets_generated_total"],
		attribute.String("round_type", "technical")))
	assert.Equal(t, int64(1), sumValue(t, got["interviewprep_input_rejections_total"],
		attribute.String("field", "job_title")))
	assert.Equal(t, int64(1), sumValue(t, got["interviewprep_input_rejections_total"],
		attribute.String("field", "background")))
}

func TestBusinessMetricsDisabled(t *testing.T) {
	cfg := metricsOnlyConfig()
	cfg.Observability.CustomMetrics.BusinessMetrics.Enabled = false
	om := newTestManager(t, cfg)

	om.GetMetrics().RecordBusinessMetric(context.Background(), MetricQuestionSetGenerated, true, om)

	got := collect(t, om)
	assert.NotContains(t, got, "interviewprep_question_sets_generated_total")
}

func TestDisabledManager(t *testing.T) {
	cfg := metricsOnlyConfig()
	cfg.Observability.Enabled = false
	om := newTestManager(t, cfg)

	calls := 0
	err := om.GetMetrics().TrackAIOperationWithTokens(context.Background(), "generate", func(context.Context) *AIOperationResult {
		calls++
		return &AIOperationResult{Error: fmt.Errorf("boom")}
	}, om)
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, calls)

	// recording on an uninitialized manager is a no-op
	om.GetMetrics().RecordBusinessMetric(context.Background(), MetricInputRejected, false, om)

	_, span := om.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestNilManager(t *testing.T) {
	var om *ObservabilityManager
	assert.NotNil(t, om.GetMetrics())
	assert.NoError(t, om.Shutdown(context.Background()))
	assert.NotNil(t, om.HTTPMiddleware())
}

func TestGetObservabilityConfig(t *testing.T) {
	fallback := GetObservabilityConfig(nil, "1.2.3")
	assert.Equal(t, DefaultServiceName, fallback.ServiceName)
	assert.Equal(t, "1.2.3", fallback.ServiceVersion)
	assert.False(t, fallback.Prometheus.Enabled)

	cfg := &config.Config{}
	cfg.Observability.ServiceVersion = "9.9.9"
	cfg.Observability.Prometheus = config.PrometheusConfig{Enabled: true, Endpoint: "/m", Port: "9999"}
	got := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, DefaultServiceName, got.ServiceName)
	assert.Equal(t, "9.9.9", got.ServiceVersion)
	assert.Equal(t, PrometheusConfig{Enabled: true, Endpoint: "/m", Port: "9999"}, got.Prometheus)
}
