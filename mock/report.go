package mock

import (
	"context"

	betterbing "github.com/huyouare/better-bing"
)

var _ betterbing.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of betterbing.ReportService.
type ReportService struct {
	CreateReportFn   func(ctx context.Context, report *betterbing.CrawlReport) error
	FindReportByIDFn func(ctx context.Context, id string) (*betterbing.CrawlReport, error)
	FindReportsFn    func(ctx context.Context, filter betterbing.ReportFilter) ([]*betterbing.CrawlReport, error)
	DeleteReportFn   func(ctx context.Context, id string) error
}

func (s *ReportService) CreateReport(ctx context.Context, report *betterbing.CrawlReport) error {
	return s.CreateReportFn(ctx, report)
}

func (s *ReportService) FindReportByID(ctx context.Context, id string) (*betterbing.CrawlReport, error) {
	return s.FindReportByIDFn(ctx, id)
}

func (s *ReportService) FindReports(ctx context.Context, filter betterbing.ReportFilter) ([]*betterbing.CrawlReport, error) {
	return s.FindReportsFn(ctx, filter)
}

func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	return s.DeleteReportFn(ctx, id)
}
