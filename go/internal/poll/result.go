package poll

import (
	"encoding/json"
	"fmt"
)

// Kind tags the variant held by a Result.
type Kind int

const (
	KindSuccess Kind = iota
	KindHTTPError
	KindTransportError
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindHTTPError:
		return "http_error"
	case KindTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of one network call. Exactly one variant is populated,
// selected by Kind. Results are consumed immediately and never stored.
type Result struct {
	Kind       Kind
	Body       json.RawMessage
	Status     int
	StatusText string
	Cause      error
}

// Success wraps a well-formed JSON body.
func Success(body json.RawMessage) Result {
	return Result{Kind: KindSuccess, Body: body}
}

// HTTPFailure records a completed call with a non-success status.
func HTTPFailure(status int, statusText string) Result {
	return Result{Kind: KindHTTPError, Status: status, StatusText: statusText}
}

// TransportFailure records a call that never produced a usable response.
func TransportFailure(cause error) Result {
	return Result{Kind: KindTransportError, Cause: cause}
}

// MalformedFailure records a response whose body was not the expected JSON.
func MalformedFailure(cause error) Result {
	return Result{Kind: KindTransportError, Cause: &MalformedError{Cause: cause}}
}

// Err returns the typed error for failure variants and nil on success.
func (r Result) Err() error {
	switch r.Kind {
	case KindSuccess:
		return nil
	case KindHTTPError:
		return &HTTPError{Status: r.Status, StatusText: r.StatusText}
	default:
		return &TransportError{Cause: r.Cause}
	}
}

// TransportError is a network or decoding failure. Always transient.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause == nil {
		return "transport error"
	}
	return fmt.Sprintf("transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// MalformedError marks a response body that could not be decoded.
type MalformedError struct {
	Cause error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Cause)
}

func (e *MalformedError) Unwrap() error { return e.Cause }

// HTTPError is a non-success status from the server. Fatal to polling.
type HTTPError struct {
	Status     int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server returned %d %s", e.Status, e.StatusText)
}
