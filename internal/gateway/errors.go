package gateway

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks a 2xx response whose body could not be
// decoded or failed its shape check.
var ErrMalformedResponse = errors.New("malformed response")

// APIError is any non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// TransportError covers failures where no usable response was obtained:
// the network call failed, the context ended, or the body was malformed.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
