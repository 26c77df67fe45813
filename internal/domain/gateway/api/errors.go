package api

import "errors"

var (
	// ErrTransport marks any failure to obtain a usable answer from an upstream API.
	ErrTransport = errors.New("upstream transport failure")
	// ErrMalformedResponse marks a response that decoded but lacks required fields.
	// Errors wrapping it also wrap ErrTransport.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// transportError wraps an upstream failure so callers can match it with errors.Is(err, ErrTransport).
type transportError struct {
	upstream string
	err      error
}

func (e *transportError) Error() string {
	return e.upstream + ": " + e.err.Error()
}

func (e *transportError) Unwrap() []error {
	return []error{ErrTransport, e.err}
}

func newTransportError(upstream string, err error) error {
	return &transportError{upstream: upstream, err: err}
}
