package observability

import (
	"context"
	"fmt"
	"time"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Business metric types accepted by RecordBusinessMetric
const (
	MetricQuestionSetGenerated = "question_set_generated"
	MetricInputRejected        = "input_rejected"
)

// Metrics holds all custom metrics. The zero value records nothing.
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Business metrics
	QuestionSetsGenerated metric.Int64Counter
	InputRejections       metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram("interviewprep_ai_processing_duration_seconds",
		metric.WithDescription("Time spent waiting for the completion service"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}
	if m.AIRequestCount, err = meter.Int64Counter("interviewprep_ai_requests_total",
		metric.WithDescription("Total number of completion requests")); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}
	if m.AIErrorCount, err = meter.Int64Counter("interviewprep_ai_errors_total",
		metric.WithDescription("Total number of failed generations by error kind")); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}
	if m.AITokenUsage, err = meter.Int64Histogram("interviewprep_ai_token_usage",
		metric.WithDescription("Token usage for completion requests (input, output, total)"),
		metric.WithUnit("tokens")); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}
	if m.QuestionSetsGenerated, err = meter.Int64Counter("interviewprep_question_sets_generated_total",
		metric.WithDescription("Total number of interview question sets generated")); err != nil {
		return nil, fmt.Errorf("failed to create question sets metric: %w", err)
	}
	if m.InputRejections, err = meter.Int64Counter("interviewprep_input_rejections_total",
		metric.WithDescription("Total number of submissions rejected by input validation")); err != nil {
		return nil, fmt.Errorf("failed to create input rejections metric: %w", err)
	}
	return m, nil
}

// customMetrics returns the custom metric switches. Without a full
// configuration everything is tracked.
func customMetrics(om *ObservabilityManager) config.CustomMetricsConfig {
	if om == nil || om.fullConfig == nil {
		return config.CustomMetricsConfig{
			AIOperations:    config.AIOperationsMetricsConfig{Enabled: true, TrackDuration: true, TrackTokenUsage: true},
			BusinessMetrics: config.BusinessMetricsConfig{Enabled: true, TrackSuccessRates: true, TrackRejections: true},
		}
	}
	return om.fullConfig.Observability.CustomMetrics
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *types.TokenUsage
}

// TrackAIOperationWithTokens records duration, request count, error kind and
// token usage around fn. Attributes go on whatever span ctx carries.
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	start := time.Now()
	result := fn(ctx)
	if result == nil {
		result = &AIOperationResult{}
	}

	switches := customMetrics(om).AIOperations
	if m.AIRequestCount == nil || !switches.Enabled {
		return result.Error
	}

	span := oteltrace.SpanFromContext(ctx)
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", result.Error == nil),
	)
	span.SetAttributes(attribute.String("operation", operation), attribute.Bool("success", result.Error == nil))

	m.AIRequestCount.Add(ctx, 1, attrs)
	if switches.TrackDuration {
		m.AIProcessingTime.Record(ctx, time.Since(start).Seconds(), attrs)
	}

	if result.Error != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("kind", string(errors.KindOf(result.Error))),
		))
	}

	if usage := result.TokenUsage; usage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", usage.InputTokens),
			attribute.Int64("ai.tokens.output", usage.OutputTokens),
			attribute.Int64("ai.tokens.total", usage.TotalTokens),
		)
		if switches.TrackTokenUsage {
			for tokenType, value := range map[string]int64{
				"input":  usage.InputTokens,
				"output": usage.OutputTokens,
				"total":  usage.TotalTokens,
			} {
				m.AITokenUsage.Record(ctx, value, metric.WithAttributes(
					attribute.String("operation", operation),
					attribute.String("token_type", tokenType),
				))
			}
		}
	}

	return result.Error
}

// RecordBusinessMetric counts one business event. Input rejections carry
// only the given attributes; other events also carry success.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	switches := customMetrics(om).BusinessMetrics
	if !switches.Enabled {
		return
	}

	switch metricType {
	case MetricQuestionSetGenerated:
		if m.QuestionSetsGenerated != nil {
			attrs := append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)
			m.QuestionSetsGenerated.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	case MetricInputRejected:
		if m.InputRejections != nil && switches.TrackRejections {
			m.InputRejections.Add(ctx, 1, metric.WithAttributes(attributes...))
		}
	}
}
