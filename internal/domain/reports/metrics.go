package reports

import (
	"context"
	"time"
)

// Metrics receives the observable side of report computation. It is
// implemented by infrastructure/telemetry.
type Metrics interface {
	LineFetchFailed(ctx context.Context, document string, n int)
	UnresolvedArticles(ctx context.Context, n int)
	ReportDone(ctx context.Context, report string, started time.Time, err error)
}

type nopMetrics struct{}

func (nopMetrics) LineFetchFailed(context.Context, string, int)         {}
func (nopMetrics) UnresolvedArticles(context.Context, int)              {}
func (nopMetrics) ReportDone(context.Context, string, time.Time, error) {}
