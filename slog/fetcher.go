// Package slog provides logging decorators for the crawler's services.
// Each decorator logs one line per call with its duration and error and
// otherwise delegates to the wrapped implementation.
package slog

import (
	"context"
	"log/slog"
	"time"

	betterbing "github.com/huyouare/better-bing"
)

var _ betterbing.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every download. Failed downloads are logged at warn
// level together with their error code, so retries stand out in the
// debug stream.
type LoggingFetcher struct {
	next   betterbing.Fetcher
	logger *slog.Logger
}

func NewLoggingFetcher(next betterbing.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	begin := time.Now()
	html, err = f.next.Fetch(ctx, url)

	attrs := []any{"url", url, "duration", time.Since(begin)}
	if err != nil {
		attrs = append(attrs, "code", betterbing.ErrorCode(err), "err", err)
		f.logger.WarnContext(ctx, "fetch", attrs...)
		return html, err
	}
	f.logger.InfoContext(ctx, "fetch", append(attrs, "bytes", len(html))...)
	return html, nil
}

func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	if err != nil {
		f.logger.Warn("close fetcher", "err", err)
	}
	return err
}
