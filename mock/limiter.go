package mock

import (
	"context"

	betterbing "github.com/huyouare/better-bing"
)

var _ betterbing.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of betterbing.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
