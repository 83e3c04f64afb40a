// Package fetcher performs the single blocking HTTP GET for a validated URL.
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of a non-2xx response body is kept for the
// diagnostic message.
const maxErrorBody = 512

// TransportError describes a failed fetch attempt: connection or TLS
// errors, a non-2xx status, or an unreadable body. A single failed attempt
// is terminal; no retries are performed.
type TransportError struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Status     string
	Body       string // truncated diagnostic text from a non-2xx response
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("fetch %s: unexpected status %s: %s", e.URL, e.Status, e.Body)
	}
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Fetch performs exactly one GET request for rawURL and returns the response
// body. The call blocks until the transport completes, fails, or times out;
// no timeout is imposed beyond what client already enforces. Any 2xx status
// is a success. client may be nil, in which case http.DefaultClient is used.
func Fetch(client *http.Client, rawURL string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Get(rawURL)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("reading response body: %w", err)}
	}

	return body, nil
}
