package service

import (
	"context"
	"time"

	"github.com/target/fraudwatch-ui-api/internal/domain/model"
)

// DefaultReportWindow is the summary window used when callers do not
// request one.
const DefaultReportWindow = 24 * time.Hour

// ReportRepository is the data-layer contract ReportService needs.
type ReportRepository interface {
	Summary(ctx context.Context, since time.Time) (*model.ReportSummary, error)
	ReviewerActivity(ctx context.Context, since time.Time, limit int) ([]*model.ReviewerActivity, error)
}

// ReportServiceOptions groups dependencies for ReportService.
type ReportServiceOptions struct {
	Reports ReportRepository
}

// ReportService builds review-workload summaries for the dashboard.
type ReportService struct {
	reports ReportRepository
	nowFunc func() time.Time
}

// NewReportService constructs a new ReportService.
func NewReportService(opts ReportServiceOptions) *ReportService {
	return &ReportService{reports: opts.Reports, nowFunc: time.Now}
}

// SetNowFunc overrides the clock, for tests.
func (s *ReportService) SetNowFunc(now func() time.Time) { s.nowFunc = now }

// Summary aggregates the review workload over the trailing window.
// A non-positive window falls back to DefaultReportWindow.
func (s *ReportService) Summary(ctx context.Context, window time.Duration) (*model.ReportSummary, error) {
	if window <= 0 {
		window = DefaultReportWindow
	}
	return s.reports.Summary(ctx, s.nowFunc().Add(-window))
}

// ReviewerActivity lists per-reviewer verdict counts over the trailing window.
func (s *ReportService) ReviewerActivity(ctx context.Context, window time.Duration, limit int) ([]*model.ReviewerActivity, error) {
	if window <= 0 {
		window = DefaultReportWindow
	}
	return s.reports.ReviewerActivity(ctx, s.nowFunc().Add(-window), limit)
}
