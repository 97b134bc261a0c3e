package shortcut

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned before any network I/O when no API token is
// available from the token source.
var ErrNoToken = errors.New("no API token configured")

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.Code)
}

// TransportError reports a connection, DNS, or timeout class failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that did not match the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
