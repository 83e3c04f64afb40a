// Package urlcheck validates embed source URLs before any network activity.
package urlcheck

import (
	"fmt"
	"net/url"
)

// InvalidURLError describes a URL rejected during validation. No fetch is
// ever attempted for a URL that produced this error.
type InvalidURLError struct {
	Raw    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %s", e.Raw, e.Reason)
}

// Validate parses raw and constrains it to an absolute http or https URL
// with a host. Anything else is rejected here, not downstream: empty
// strings, relative URLs, unsupported schemes, malformed percent-encoding.
func Validate(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, &InvalidURLError{Raw: raw, Reason: "empty URL"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{Raw: raw, Reason: err.Error()}
	}

	if !u.IsAbs() {
		return nil, &InvalidURLError{Raw: raw, Reason: "relative URL without a base"}
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &InvalidURLError{Raw: raw, Reason: fmt.Sprintf("unsupported scheme %q (only http and https are allowed)", u.Scheme)}
	}

	if u.Host == "" {
		return nil, &InvalidURLError{Raw: raw, Reason: "missing host"}
	}

	return u, nil
}
