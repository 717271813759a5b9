package betterbing

import (
	"encoding/json"
	"net/url"
	"time"
)

// SeedRequest describes a single crawl.
type SeedRequest struct {
	// SeedURL is the absolute http or https page links are discovered from.
	SeedURL string `json:"seedUrl" yaml:"seed_url"`

	// OutputRoot is the directory text files are written into.
	OutputRoot string `json:"outputRoot" yaml:"output_root"`

	// PageLimit bounds how many discovered pages are fetched.
	// Zero means discover only.
	PageLimit int `json:"pageLimit" yaml:"page_limit"`
}

// Validate returns an error if the request contains invalid fields.
func (r *SeedRequest) Validate() error {
	if r.SeedURL == "" {
		return Errorf(EINVALID, "seed URL required")
	}
	u, err := url.Parse(r.SeedURL)
	if err != nil {
		return Errorf(EINVALID, "invalid seed URL %q", r.SeedURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "seed URL %q must use http or https", r.SeedURL)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "seed URL %q has no host", r.SeedURL)
	}
	if r.OutputRoot == "" {
		return Errorf(EINVALID, "output root required")
	}
	if r.PageLimit < 0 {
		return Errorf(EINVALID, "page limit must not be negative, got %d", r.PageLimit)
	}
	return nil
}

// CrawlSession identifies one crawl invocation. The caller creates it and
// passes it to the crawler, which returns it inside the CrawlReport.
type CrawlSession struct {
	ID        string      `json:"id"`
	Request   SeedRequest `json:"request"`
	StartedAt time.Time   `json:"startedAt"`
}

// CrawlReport summarizes what a crawl wrote to disk.
type CrawlReport struct {
	Session         *CrawlSession `json:"session"`
	DestinationRoot string        `json:"destinationRoot"`

	// Discovered is the size of the discovered link set before truncation.
	Discovered int `json:"discovered"`

	PagesWritten int `json:"pagesWritten"`
	PagesFailed  int `json:"pagesFailed"`

	// PagesSkipped counts pages that were never attempted because the
	// crawl was canceled.
	PagesSkipped int `json:"pagesSkipped"`

	// Written and Failures are in discovered order.
	Written  []WrittenPage `json:"written"`
	Failures []PageFailure `json:"failures"`

	FinishedAt time.Time `json:"finishedAt"`
}

// WrittenPage records one file produced by a crawl.
type WrittenPage struct {
	URL   string `json:"url"`
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// PageFailure records a page that could not be fetched or written.
// In JSON the error is carried as its code and message.
type PageFailure struct {
	URL string `json:"url"`
	Err error  `json:"-"`
}

type pageFailureJSON struct {
	URL     string `json:"url"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f PageFailure) MarshalJSON() ([]byte, error) {
	return json.Marshal(pageFailureJSON{
		URL:     f.URL,
		Code:    ErrorCode(f.Err),
		Message: ErrorMessage(f.Err),
	})
}

func (f *PageFailure) UnmarshalJSON(data []byte) error {
	var v pageFailureJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.URL = v.URL
	f.Err = nil
	if v.Code != "" {
		f.Err = &Error{Code: v.Code, Message: v.Message}
	}
	return nil
}

// Bytes returns the total size of all written pages.
func (r *CrawlReport) Bytes() int {
	var n int
	for _, w := range r.Written {
		n += w.Bytes
	}
	return n
}
