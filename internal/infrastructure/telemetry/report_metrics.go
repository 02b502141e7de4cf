// Package telemetry provides OpenTelemetry metrics for report computation.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "stockcard/reports"

// ErrMeterNil is returned when a nil meter is passed to NewReportMetrics.
var ErrMeterNil = errors.New("telemetry: meter is nil")

// ReportMetrics counts recoverable failures and report executions.
// The zero value is not usable; a nil *ReportMetrics records nothing.
type ReportMetrics struct {
	lineFetchFailures metric.Int64Counter
	unresolved        metric.Int64Counter
	reports           metric.Int64Counter
	duration          metric.Float64Histogram
}

// NewReportMetrics registers the instruments on meter.
func NewReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &ReportMetrics{}
	var err error

	m.lineFetchFailures, err = meter.Int64Counter(
		"stockcard_line_fetch_failures_total",
		metric.WithDescription("Document headers whose lines could not be loaded"),
		metric.WithUnit("{documents}"),
	)
	if err != nil {
		return nil, err
	}

	m.unresolved, err = meter.Int64Counter(
		"stockcard_unresolved_articles_total",
		metric.WithDescription("Catalogue codes with no matching article"),
		metric.WithUnit("{articles}"),
	)
	if err != nil {
		return nil, err
	}

	m.reports, err = meter.Int64Counter(
		"stockcard_reports_total",
		metric.WithDescription("Reports computed, by report and outcome"),
		metric.WithUnit("{reports}"),
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram(
		"stockcard_report_duration_seconds",
		metric.WithDescription("Report computation time"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// NewGlobalReportMetrics uses the globally registered meter provider
// (a no-op unless the process installs one).
func NewGlobalReportMetrics() (*ReportMetrics, error) {
	return NewReportMetrics(otel.GetMeterProvider().Meter(meterName))
}

// LineFetchFailed records n headers of the given document kind whose lines failed.
func (m *ReportMetrics) LineFetchFailed(ctx context.Context, document string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.lineFetchFailures.Add(ctx, int64(n), metric.WithAttributes(attribute.String("document", document)))
}

// UnresolvedArticles records n catalogue codes that mapped to no article.
func (m *ReportMetrics) UnresolvedArticles(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.unresolved.Add(ctx, int64(n))
}

// ReportDone records one report execution.
func (m *ReportMetrics) ReportDone(ctx context.Context, report string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("report", report),
		attribute.String("outcome", outcome),
	)
	m.reports.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(started).Seconds(), attrs)
}
