package betterbing

import "context"

// ReportService records finished crawls so they can be listed later.
// Reports are keyed by their session ID.
type ReportService interface {
	// CreateReport stores report. Returns EINVALID if the report has no
	// session and ECONFLICT if a report with the same session ID exists.
	CreateReport(ctx context.Context, report *CrawlReport) error

	// FindReportByID returns the report of session id.
	// Returns ENOTFOUND if it does not exist.
	FindReportByID(ctx context.Context, id string) (*CrawlReport, error)

	// FindReports returns reports matching filter, newest first.
	FindReports(ctx context.Context, filter ReportFilter) ([]*CrawlReport, error)

	// DeleteReport removes a report. Returns ENOTFOUND if it does not exist.
	DeleteReport(ctx context.Context, id string) error
}

// ReportFilter represents a filter passed to FindReports.
type ReportFilter struct {
	SeedURL *string

	Offset int
	Limit  int
}
