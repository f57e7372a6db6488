package vaultclient

import (
	"errors"
	"fmt"
)

// ErrStatus is wrapped by a [ClientError] when Vault answered with a known
// but non-success status code.
var ErrStatus = errors.New("vault request failed")

// ClientError is returned for every failed request. Transport failures
// (connection refused, DNS, timeouts, I/O) have a zero StatusCode and wrap
// the underlying cause. Status failures carry the HTTP status code and a
// best-effort rendering of the response body, and wrap either [ErrStatus] or
// [ErrUnknownStatus].
type ClientError struct {
	Err        error
	Method     string
	URL        string
	Body       string
	StatusCode int
}

func (e *ClientError) Error() string {
	if e.Transport() {
		return fmt.Sprintf("vault %s %s: %v", e.Method, e.URL, e.Err)
	}

	msg := fmt.Sprintf("vault %s %s - %d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}

	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Transport reports whether the request failed before any HTTP response was
// received.
func (e *ClientError) Transport() bool {
	return e.StatusCode == 0
}
