package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	betterbing "github.com/huyouare/better-bing"
)

// Compile-time interface verification.
var _ betterbing.ReportService = (*ReportService)(nil)

// ReportService implements betterbing.ReportService using SQLite.
type ReportService struct {
	db *DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReport stores a finished crawl and the pages it wrote or failed on.
func (s *ReportService) CreateReport(ctx context.Context, report *betterbing.CrawlReport) error {
	if report == nil || report.Session == nil || report.Session.ID == "" {
		return betterbing.Errorf(betterbing.EINVALID, "report session required")
	}
	session := report.Session

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM crawls WHERE id = ?", session.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return betterbing.Errorf(betterbing.ECONFLICT, "report %s already recorded", session.ID)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO crawls (id, seed_url, output_root, page_limit, destination_root,
			discovered, pages_written, pages_failed, pages_skipped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.Request.SeedURL, session.Request.OutputRoot, session.Request.PageLimit,
		report.DestinationRoot, report.Discovered, report.PagesWritten, report.PagesFailed, report.PagesSkipped,
		formatTime(session.StartedAt), formatTime(report.FinishedAt))
	if err != nil {
		return err
	}

	for i, w := range report.Written {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO crawl_pages (crawl_id, failed, position, url, path, bytes)
			VALUES (?, 0, ?, ?, ?, ?)
		`, session.ID, i, w.URL, w.Path, w.Bytes); err != nil {
			return err
		}
	}
	for i, f := range report.Failures {
		code, message := failureCause(f.Err)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO crawl_pages (crawl_id, failed, position, url, error_code, error_message)
			VALUES (?, 1, ?, ?, ?, ?)
		`, session.ID, i, f.URL, code, message); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindReportByID retrieves the report of one crawl session.
func (s *ReportService) FindReportByID(ctx context.Context, id string) (*betterbing.CrawlReport, error) {
	reports, err := s.findReports(ctx, "SELECT "+crawlColumns+" FROM crawls WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, betterbing.Errorf(betterbing.ENOTFOUND, "report not found")
	}
	return reports[0], nil
}

// FindReports retrieves reports matching the filter, newest first.
func (s *ReportService) FindReports(ctx context.Context, filter betterbing.ReportFilter) ([]*betterbing.CrawlReport, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + crawlColumns + " FROM crawls WHERE 1=1")

	if filter.SeedURL != nil {
		query.WriteString(" AND seed_url = ?")
		args = append(args, *filter.SeedURL)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	return s.findReports(ctx, query.String(), args...)
}

// DeleteReport permanently removes a report and its pages.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM crawls WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return betterbing.Errorf(betterbing.ENOTFOUND, "report not found")
	}

	return nil
}

const crawlColumns = `id, seed_url, output_root, page_limit, destination_root,
	discovered, pages_written, pages_failed, pages_skipped, started_at, finished_at`

// findReports runs a crawls query and attaches the pages of every row.
// The rows are drained before pages are loaded; the DB has one connection.
func (s *ReportService) findReports(ctx context.Context, query string, args ...any) ([]*betterbing.CrawlReport, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var reports []*betterbing.CrawlReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, report := range reports {
		if err := s.attachPages(ctx, report); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func scanReport(rows *sql.Rows) (*betterbing.CrawlReport, error) {
	session := &betterbing.CrawlSession{}
	report := &betterbing.CrawlReport{Session: session}
	var startedAt, finishedAt string

	if err := rows.Scan(&session.ID, &session.Request.SeedURL, &session.Request.OutputRoot, &session.Request.PageLimit,
		&report.DestinationRoot, &report.Discovered, &report.PagesWritten, &report.PagesFailed, &report.PagesSkipped,
		&startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if session.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if report.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) attachPages(ctx context.Context, report *betterbing.CrawlReport) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT failed, url, path, bytes, error_code, error_message
		FROM crawl_pages
		WHERE crawl_id = ?
		ORDER BY failed, position
	`, report.Session.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var failed bool
		var url, path, code, message string
		var bytes int
		if err := rows.Scan(&failed, &url, &path, &bytes, &code, &message); err != nil {
			return err
		}

		if !failed {
			report.Written = append(report.Written, betterbing.WrittenPage{URL: url, Path: path, Bytes: bytes})
			continue
		}
		failure := betterbing.PageFailure{URL: url}
		if code != "" {
			failure.Err = &betterbing.Error{Code: code, Message: message}
		}
		report.Failures = append(report.Failures, failure)
	}
	return rows.Err()
}

// failureCause splits a page error into the code and message stored for it.
func failureCause(err error) (code, message string) {
	if err == nil {
		return "", ""
	}
	var e *betterbing.Error
	if errors.As(err, &e) {
		return e.Code, e.Message
	}
	return betterbing.EINTERNAL, err.Error()
}
