package client

import (
	"errors"
	"fmt"
)

// ErrInvalidBaseURL is returned by New when the base URL is not an absolute
// http(s) URL.
var ErrInvalidBaseURL = errors.New("invalid base url: must be an absolute http or https url")

// ErrInvalidProxyAddress is returned when a proxy address is not in
// "host:port" form.
var ErrInvalidProxyAddress = errors.New("invalid proxy address: must be host:port")

// TransportError reports that a request could not be sent or its response
// could not be read. Its message is the underlying transport error text.
type TransportError struct {
	// Op names the endpoint being called, e.g. "set keys".
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns the underlying transport error message.
func (e *TransportError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError reports a completed request that the backend answered with a
// non-2xx status.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Detail is the backend's "detail" message. It may be empty when the
	// response body carried none.
	Detail string
}

// Error returns the backend detail, or the status when no detail was sent.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsTransport reports whether err is a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsAPI reports whether err is an *APIError.
func IsAPI(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
