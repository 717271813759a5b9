package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	betterbing "github.com/huyouare/better-bing"
	"github.com/huyouare/better-bing/mock"
	bbslog "github.com/huyouare/better-bing/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingTextExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs html and text sizes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TextExtractor{
			ExtractFn: func(_ string) (string, error) { return "hello", nil },
		}

		text, err := bbslog.NewLoggingTextExtractor(inner, logger).Extract("<p>hello</p>")

		require.NoError(t, err)
		assert.Equal(t, "hello", text)
		output := buf.String()
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, "html_bytes=12")
		assert.Contains(t, output, "text_bytes=5")
	})

	t.Run("logs and returns errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.TextExtractor{
			ExtractFn: func(_ string) (string, error) {
				return "", betterbing.Errorf(betterbing.EINVALID, "empty HTML input")
			},
		}

		_, err := bbslog.NewLoggingTextExtractor(inner, logger).Extract("")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "empty HTML input")
	})
}

func TestLoggingLinkSelector_SelectLinks(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.LinkSelector{
		SelectLinksFn: func(_ string) ([]string, string, error) {
			return []string{"/a", "/b"}, "/docs/", nil
		},
	}

	hrefs, base, err := bbslog.NewLoggingLinkSelector(inner, logger).SelectLinks("<a>")

	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, hrefs)
	assert.Equal(t, "/docs/", base)
	assert.Contains(t, buf.String(), "links=2")
	assert.Contains(t, buf.String(), "base=/docs/")
}
