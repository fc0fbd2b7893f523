package report

import "context"

// ReportService computes read-side aggregates from the attendance ledger.
type ReportService interface {
	// StatsByPeriod groups entries per employee for the requested period.
	StatsByPeriod(ctx context.Context, req StatsRequest) (StatsReport, error)
}
