package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	betterbing "github.com/huyouare/better-bing"
	"github.com/huyouare/better-bing/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.Preview {
		return c.runPreview(deps)
	}
	return c.runCrawl(deps)
}

func (c *CrawlCmd) runPreview(deps *Dependencies) error {
	urls, err := deps.Links.ExtractLinks(deps.Ctx, c.SeedURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", betterbing.ErrorMessage(err))
		return err
	}

	for i, u := range urls {
		if i == c.Limit {
			fmt.Fprintf(deps.Stdout, "# %d more beyond the limit of %d\n", len(urls)-c.Limit, c.Limit)
			break
		}
		fmt.Fprintln(deps.Stdout, u)
	}

	if deps.Reports != nil {
		reports, err := deps.Reports.FindReports(deps.Ctx, betterbing.ReportFilter{SeedURL: &c.SeedURL, Limit: 1})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: reading history: %v\n", err)
		} else if len(reports) > 0 {
			last := reports[0]
			fmt.Fprintf(deps.Stdout, "# last crawled %s: %s\n",
				last.Session.StartedAt.Local().Format(time.DateTime), crawl.FormatSummary(last))
		}
	}

	return nil
}

func (c *CrawlCmd) runCrawl(deps *Dependencies) error {
	session := crawl.NewSession(betterbing.SeedRequest{
		SeedURL:    c.SeedURL,
		OutputRoot: c.OutputRoot,
		PageLimit:  c.Limit,
	})

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressDiscovered:
			fmt.Fprintf(deps.Stdout, "Found %d URLs\n", e.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "\nskip %s: %s\n", e.URL, betterbing.ErrorMessage(e.Error))
			fmt.Fprintf(deps.Stdout, "\r[%d/%d] %s", e.Completed, e.Total, crawl.TruncateURL(e.URL, 40))
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "\r[%d/%d] %s", e.Completed, e.Total, crawl.TruncateURL(e.URL, 40))
		case crawl.ProgressFinished:
			// Clear progress line
			fmt.Fprintf(deps.Stdout, "\r%80s\r", "")
		}
	}

	crawlFn := deps.Crawler.Crawl
	if c.Single {
		crawlFn = deps.Crawler.SavePage
	}

	report, err := crawlFn(deps.Ctx, session, progress)
	if report != nil && deps.Reports != nil {
		// Recorded even when the crawl was canceled.
		if herr := deps.Reports.CreateReport(context.WithoutCancel(deps.Ctx), report); herr != nil {
			fmt.Fprintf(deps.Stderr, "warning: recording history: %v\n", herr)
		}
	}
	if report != nil {
		if perr := c.printReport(deps, report); perr != nil {
			return perr
		}
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(deps.Stderr, "error: interrupted")
		return err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", betterbing.ErrorMessage(err))
		return err
	}
	return nil
}

func (c *CrawlCmd) printReport(deps *Dependencies, report *betterbing.CrawlReport) error {
	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	fmt.Fprintln(deps.Stdout, crawl.FormatSummary(report))
	if report.DestinationRoot != "" && report.PagesWritten > 0 {
		fmt.Fprintf(deps.Stdout, "Output: %s\n", report.DestinationRoot)
	}
	return nil
}

// DefaultOutputRoot names the output directory after the seed's host,
// with dots replaced by dashes: https://docs.example.com/ -> docs-example-com.
func DefaultOutputRoot(seedURL string) string {
	u, err := url.Parse(seedURL)
	if err != nil || u.Hostname() == "" {
		return "crawl"
	}
	return strings.ReplaceAll(strings.ToLower(u.Hostname()), ".", "-")
}
