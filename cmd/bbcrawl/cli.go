package main

import (
	"context"
	"io"

	betterbing "github.com/huyouare/better-bing"
	"github.com/huyouare/better-bing/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Links discovers the seed's internal links in preview mode.
	Links crawl.LinkDiscoverer

	Crawler *crawl.Crawler

	// Reports, if set, records every crawl.
	Reports betterbing.ReportService
}

// CrawlCmd handles the main crawl operation.
type CrawlCmd struct {
	SeedURL    string
	OutputRoot string
	Limit      int
	Preview    bool
	Single     bool
	JSON       bool
}
