package crawl

import (
	"context"
	"errors"
	"time"

	betterbing "github.com/huyouare/better-bing"
)

// FetchFunc performs a single fetch attempt.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryFunc is told about each failed attempt that will be repeated after
// wait. attempt is the number of the attempt about to start.
type RetryFunc func(url string, attempt int, wait time.Duration, err error)

// DefaultRetryDelays returns 500ms, 1s, 2s: four attempts in total.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}
}

// FetchWithRetry calls fetch until it succeeds, fails permanently, or the
// delays run out, sleeping delays[i] before attempt i+2. The error of the
// last attempt is returned. onRetry may be nil.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration, onRetry RetryFunc) (string, error) {
	for attempt := 1; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt > len(delays) || !Retryable(err) {
			return "", err
		}

		wait := delays[attempt-1]
		if onRetry != nil {
			onRetry(url, attempt+1, wait, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return "", err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retryable reports whether a failed fetch is worth repeating. Missing
// pages, unusable responses and a canceled context are final. Transport
// timeouts arrive wrapped as EFETCH and are retried.
func Retryable(err error) bool {
	var e *betterbing.Error
	if errors.As(err, &e) {
		return e.Code != betterbing.ENOTFOUND && e.Code != betterbing.EINVALID
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
