package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	betterbing "github.com/huyouare/better-bing"
	bbhttp "github.com/huyouare/better-bing/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respond serves one canned response for every request.
func respond(t *testing.T, status int, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Fetch_Responses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
		wantCode    string
		wantMessage string
	}{
		{name: "html page", status: 200, contentType: "text/html", body: "<html><body>Essays</body></html>", want: "<html><body>Essays</body></html>"},
		{name: "xhtml page", status: 200, contentType: "application/xhtml+xml", body: "<html/>", want: "<html/>"},
		{name: "plain text", status: 200, contentType: "text/plain", body: "notes", want: "notes"},
		{name: "missing content type is sniffed as text", status: 200, body: "<p>hi</p>", want: "<p>hi</p>"},
		{name: "latin-1 from header", status: 200, contentType: "text/html; charset=iso-8859-1", body: "<p>caf\xe9</p>", want: "<p>café</p>"},
		{name: "not found", status: 404, body: "gone", wantCode: betterbing.ENOTFOUND, wantMessage: "404"},
		{name: "gone", status: 410, wantCode: betterbing.ENOTFOUND, wantMessage: "410"},
		{name: "server error", status: 503, wantCode: betterbing.EFETCH, wantMessage: "503"},
		{name: "binary body", status: 200, contentType: "image/png", body: "\x89PNG", wantCode: betterbing.EINVALID},
		{name: "pdf", status: 200, contentType: "application/pdf", body: "%PDF", wantCode: betterbing.EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := respond(t, tt.status, tt.contentType, tt.body)
			fetcher := bbhttp.NewFetcher()
			defer fetcher.Close()

			got, err := fetcher.Fetch(context.Background(), srv.URL)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, betterbing.ErrorCode(err))
				assert.Contains(t, betterbing.ErrorMessage(err), tt.wantMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetcher_Fetch_Options(t *testing.T) {
	t.Parallel()

	t.Run("sends the user agent", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.UserAgent()
		}))
		defer srv.Close()

		fetcher := bbhttp.NewFetcher(bbhttp.WithUserAgent("bbcrawl-test/1.0"))
		defer fetcher.Close()

		_, err := fetcher.Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "bbcrawl-test/1.0", <-agents)
	})

	t.Run("defaults the user agent", func(t *testing.T) {
		t.Parallel()

		agents := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agents <- r.UserAgent()
		}))
		defer srv.Close()

		_, err := bbhttp.NewFetcher().Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, bbhttp.DefaultUserAgent, <-agents)
	})

	t.Run("caps the body", func(t *testing.T) {
		t.Parallel()

		srv := respond(t, 200, "text/plain", "0123456789")

		body, err := bbhttp.NewFetcher(bbhttp.WithMaxBodySize(4)).Fetch(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Equal(t, "0123", body)
	})
}

func TestFetcher_Fetch_Failures(t *testing.T) {
	t.Parallel()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(slow.Close)

	t.Run("timeout is a fetch error", func(t *testing.T) {
		t.Parallel()

		_, err := bbhttp.NewFetcher(bbhttp.WithTimeout(10*time.Millisecond)).Fetch(context.Background(), slow.URL)

		assert.Equal(t, betterbing.EFETCH, betterbing.ErrorCode(err))
	})

	t.Run("cancellation is passed through", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := bbhttp.NewFetcher().Fetch(ctx, slow.URL)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown host is a fetch error", func(t *testing.T) {
		t.Parallel()

		_, err := bbhttp.NewFetcher(bbhttp.WithTimeout(100*time.Millisecond)).
			Fetch(context.Background(), "http://non-existent-host.invalid/page")

		assert.Equal(t, betterbing.EFETCH, betterbing.ErrorCode(err))
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        []byte
		contentType string
		want        string
	}{
		{
			name: "utf-8 without declaration",
			body: []byte("<p>naïve</p>"),
			want: "<p>naïve</p>",
		},
		{
			name: "meta charset declaration",
			body: []byte(`<html><head><meta charset="windows-1252"></head><body>5 \x80</body></html>`),
			want: `<html><head><meta charset="windows-1252"></head><body>5 €</body></html>`,
		},
		{
			name:        "header charset wins",
			body:        []byte("caf\xe9"),
			contentType: "text/html; charset=ISO-8859-1",
			want:        "café",
		},
		{
			name: "undeclared invalid bytes fall back to utf-8",
			body: []byte("caf\xe9"),
			want: "caf\uFFFD",
		},
		{
			name: "utf-8 byte order mark",
			body: []byte("\xef\xbb\xbfhello"),
			want: "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, bbhttp.Decode(tt.body, tt.contentType))
		})
	}
}

// Compile-time verification that Fetcher implements betterbing.Fetcher
var _ betterbing.Fetcher = (*bbhttp.Fetcher)(nil)
