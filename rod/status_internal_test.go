package rod

import (
	"fmt"
	"testing"

	betterbing "github.com/huyouare/better-bing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{name: "no response seen", status: 0},
		{name: "ok", status: 200},
		{name: "no content", status: 204},
		{name: "not found", status: 404, wantCode: betterbing.ENOTFOUND},
		{name: "gone", status: 410, wantCode: betterbing.ENOTFOUND},
		{name: "forbidden", status: 403, wantCode: betterbing.EFETCH},
		{name: "server error", status: 500, wantCode: betterbing.EFETCH},
		{name: "unavailable", status: 503, wantCode: betterbing.EFETCH},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkStatus("https://example.com/page", tt.status)

			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, betterbing.ErrorCode(err))
			assert.Equal(t, fmt.Sprintf("HTTP %d for https://example.com/page", tt.status), betterbing.ErrorMessage(err))
		})
	}
}
