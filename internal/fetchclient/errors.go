package fetchclient

import (
	"errors"
	"fmt"
)

var (
	// ErrClientClosed is returned by fetches issued after Close.
	ErrClientClosed = errors.New("fetchclient: client closed")

	// ErrNilCallback is returned when a fetch is issued without a completion handler.
	ErrNilCallback = errors.New("fetchclient: nil completion callback")
)

// InvalidURLError is returned synchronously when a fetch target cannot be
// used. No request is issued and the callback is never invoked.
type InvalidURLError struct {
	URL    string
	Reason string
	Err    error
}

func (e *InvalidURLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid url %q: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid url %q: %s", e.URL, e.Reason)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// TransportError is delivered through a failed result when the round trip
// itself fails (DNS, TLS, connect, timeout, body read). HTTP status codes are
// never turned into a TransportError.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
