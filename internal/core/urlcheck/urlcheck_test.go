// Package urlcheck_test contains tests for the urlcheck package.
package urlcheck_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hahihula/include-url-macro/internal/core/urlcheck"
)

func TestValidate_AcceptsHTTPAndHTTPS(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		host string
	}{
		{name: "https", raw: "https://example.com/hello.txt", host: "example.com"},
		{name: "http", raw: "http://example.com/hello.txt", host: "example.com"},
		{name: "with query", raw: "https://example.com/data?format=json&v=2", host: "example.com"},
		{name: "with port", raw: "http://localhost:8080/file", host: "localhost:8080"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u, err := urlcheck.Validate(tt.raw)
			require.NoError(t, err, "Validate should accept %q", tt.raw)
			assert.Equal(t, tt.host, u.Host)
		})
	}
}

func TestValidate_RejectsBeforeAnyIO(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		raw    string
		reason string
	}{
		{name: "not a url", raw: "not-a-url", reason: "relative URL without a base"},
		{name: "empty", raw: "", reason: "empty URL"},
		{name: "relative path", raw: "/path/to/file.txt", reason: "relative URL without a base"},
		{name: "ftp scheme", raw: "ftp://example.com/file", reason: "unsupported scheme"},
		{name: "file scheme", raw: "file:///etc/passwd", reason: "unsupported scheme"},
		{name: "malformed percent encoding", raw: "https://example.com/%zz", reason: "invalid URL escape"},
		{name: "scheme only", raw: "https://", reason: "missing host"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := urlcheck.Validate(tt.raw)
			require.Error(t, err, "Validate should reject %q", tt.raw)

			var invalid *urlcheck.InvalidURLError
			require.True(t, errors.As(err, &invalid), "error should be an InvalidURLError")
			assert.Contains(t, invalid.Reason, tt.reason)
		})
	}
}
