package betterbing_test

import (
	"encoding/json"
	"errors"
	"testing"

	betterbing "github.com/huyouare/better-bing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     betterbing.SeedRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req:  betterbing.SeedRequest{SeedURL: "http://www.paulgraham.com/articles.html", OutputRoot: "data", PageLimit: 25},
		},
		{
			name: "zero limit means discover only",
			req:  betterbing.SeedRequest{SeedURL: "https://example.com/", OutputRoot: "data", PageLimit: 0},
		},
		{
			name:    "missing seed",
			req:     betterbing.SeedRequest{OutputRoot: "data", PageLimit: 1},
			wantErr: true,
		},
		{
			name:    "relative seed",
			req:     betterbing.SeedRequest{SeedURL: "/articles.html", OutputRoot: "data", PageLimit: 1},
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			req:     betterbing.SeedRequest{SeedURL: "ftp://example.com/file", OutputRoot: "data", PageLimit: 1},
			wantErr: true,
		},
		{
			name:    "missing output root",
			req:     betterbing.SeedRequest{SeedURL: "https://example.com/", PageLimit: 1},
			wantErr: true,
		},
		{
			name:    "negative limit",
			req:     betterbing.SeedRequest{SeedURL: "https://example.com/", OutputRoot: "data", PageLimit: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()

			if tt.wantErr {
				assert.Equal(t, betterbing.EINVALID, betterbing.ErrorCode(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCrawlReport_Bytes(t *testing.T) {
	t.Parallel()

	report := &betterbing.CrawlReport{
		Written: []betterbing.WrittenPage{
			{URL: "https://example.com/a", Bytes: 10},
			{URL: "https://example.com/b", Bytes: 32},
		},
	}

	assert.Equal(t, 42, report.Bytes())
}

func TestPageFailure_JSON(t *testing.T) {
	t.Parallel()

	t.Run("application errors keep code and message", func(t *testing.T) {
		t.Parallel()

		f := betterbing.PageFailure{
			URL: "http://www.paulgraham.com/gone.html",
			Err: betterbing.Errorf(betterbing.ENOTFOUND, "HTTP 404 for http://www.paulgraham.com/gone.html"),
		}

		data, err := json.Marshal(f)

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"url": "http://www.paulgraham.com/gone.html",
			"code": "not_found",
			"message": "HTTP 404 for http://www.paulgraham.com/gone.html"
		}`, string(data))

		var back betterbing.PageFailure
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, f.URL, back.URL)
		assert.Equal(t, betterbing.ENOTFOUND, betterbing.ErrorCode(back.Err))
		assert.Equal(t, betterbing.ErrorMessage(f.Err), betterbing.ErrorMessage(back.Err))
	})

	t.Run("plain errors are reported as internal", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(betterbing.PageFailure{URL: "https://example.com/a", Err: errors.New("disk full")})

		require.NoError(t, err)
		assert.JSONEq(t, `{"url": "https://example.com/a", "code": "internal", "message": "Internal error."}`, string(data))
	})

	t.Run("reports list failures with reasons", func(t *testing.T) {
		t.Parallel()

		report := betterbing.CrawlReport{Failures: []betterbing.PageFailure{
			{URL: "https://example.com/a", Err: betterbing.Errorf(betterbing.EFETCH, "HTTP 503")},
		}}

		data, err := json.Marshal(report)

		require.NoError(t, err)
		assert.Contains(t, string(data), `"failures":[{"url":"https://example.com/a","code":"fetch","message":"HTTP 503"}]`)
	})
}
