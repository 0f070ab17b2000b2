package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds the domain metrics for the compliance engine.
type Registry struct {
	meter metric.Meter

	ValidationDuration   metric.Float64Histogram
	ValidationCounter    metric.Int64Counter
	RuleViolationCounter metric.Int64Counter
	EscalationCounter    metric.Int64Counter
	QuickCheckCounter    metric.Int64Counter
	QuickCheckCacheHits  metric.Int64Counter

	APIRequestDuration metric.Float64Histogram
	APIRequestCounter  metric.Int64Counter
}

// NewRegistry creates the metrics registry on the named meter.
func NewRegistry(meterName string) (*Registry, error) {
	meter := otel.Meter(meterName)
	r := &Registry{meter: meter}

	var err error

	r.ValidationDuration, err = meter.Float64Histogram(
		"compliance.validation.duration",
		metric.WithDescription("Time to run a full content validation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	r.ValidationCounter, err = meter.Int64Counter(
		"compliance.validation.total",
		metric.WithDescription("Content validations by resulting status"),
	)
	if err != nil {
		return nil, err
	}

	r.RuleViolationCounter, err = meter.Int64Counter(
		"compliance.rule_violation.total",
		metric.WithDescription("Rule violations by rule id"),
	)
	if err != nil {
		return nil, err
	}

	r.EscalationCounter, err = meter.Int64Counter(
		"compliance.escalation.total",
		metric.WithDescription("Validations escalated to human review"),
	)
	if err != nil {
		return nil, err
	}

	r.QuickCheckCounter, err = meter.Int64Counter(
		"compliance.quick_check.total",
		metric.WithDescription("Quick compliance checks by result"),
	)
	if err != nil {
		return nil, err
	}

	r.QuickCheckCacheHits, err = meter.Int64Counter(
		"compliance.quick_check.cache_hits",
		metric.WithDescription("Quick compliance checks served from cache"),
	)
	if err != nil {
		return nil, err
	}

	r.APIRequestDuration, err = meter.Float64Histogram(
		"api.request.duration",
		metric.WithDescription("API request duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	r.APIRequestCounter, err = meter.Int64Counter(
		"api.request.total",
		metric.WithDescription("API requests by route and status code"),
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// RecordValidation records one full validation run.
func (r *Registry) RecordValidation(ctx context.Context, status string, escalated bool, ruleIDs []string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.ValidationDuration.Record(ctx, float64(elapsed.Milliseconds()))
	r.ValidationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	for _, id := range ruleIDs {
		r.RuleViolationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("rule_id", id)))
	}
	if escalated {
		r.EscalationCounter.Add(ctx, 1)
	}
}

// RecordQuickCheck records one quick compliance check.
func (r *Registry) RecordQuickCheck(ctx context.Context, compliant, cacheHit bool) {
	if r == nil {
		return
	}
	r.QuickCheckCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("compliant", compliant)))
	if cacheHit {
		r.QuickCheckCacheHits.Add(ctx, 1)
	}
}

// RecordAPIRequest records one handled API request.
func (r *Registry) RecordAPIRequest(ctx context.Context, route string, statusCode int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.APIRequestDuration.Record(ctx, float64(elapsed.Milliseconds()),
		metric.WithAttributes(attribute.String("route", route)))
	r.APIRequestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status_code", statusCode),
	))
}
