package crawl

import (
	"time"

	"github.com/google/uuid"
	betterbing "github.com/huyouare/better-bing"
)

// NewSession creates a session for req with a fresh random ID.
func NewSession(req betterbing.SeedRequest) *betterbing.CrawlSession {
	return &betterbing.CrawlSession{
		ID:        uuid.NewString(),
		Request:   req,
		StartedAt: time.Now(),
	}
}
