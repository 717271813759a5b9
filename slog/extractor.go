package slog

import (
	"log/slog"
	"time"

	betterbing "github.com/huyouare/better-bing"
)

// Ensure LoggingTextExtractor implements betterbing.TextExtractor.
var _ betterbing.TextExtractor = (*LoggingTextExtractor)(nil)

// LoggingTextExtractor wraps a TextExtractor with debug logging.
type LoggingTextExtractor struct {
	next   betterbing.TextExtractor
	logger *slog.Logger
}

// NewLoggingTextExtractor creates a new LoggingTextExtractor.
func NewLoggingTextExtractor(next betterbing.TextExtractor, logger *slog.Logger) *LoggingTextExtractor {
	return &LoggingTextExtractor{next: next, logger: logger}
}

// Extract logs input and output sizes.
func (e *LoggingTextExtractor) Extract(html string) (text string, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract",
			"html_bytes", len(html),
			"text_bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html)
}

// Ensure LoggingLinkSelector implements betterbing.LinkSelector.
var _ betterbing.LinkSelector = (*LoggingLinkSelector)(nil)

// LoggingLinkSelector wraps a LinkSelector with debug logging.
type LoggingLinkSelector struct {
	next   betterbing.LinkSelector
	logger *slog.Logger
}

// NewLoggingLinkSelector creates a new LoggingLinkSelector.
func NewLoggingLinkSelector(next betterbing.LinkSelector, logger *slog.Logger) *LoggingLinkSelector {
	return &LoggingLinkSelector{next: next, logger: logger}
}

// SelectLinks logs how many hyperlinks the document holds.
func (s *LoggingLinkSelector) SelectLinks(html string) (hrefs []string, base string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("select links",
			"links", len(hrefs),
			"base", base,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SelectLinks(html)
}
