package client

import (
	"fmt"
	"net/http"
)

// TransportError indicates no response was received at all. Always locally
// recoverable by retrying.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthExpiredError indicates the session could not be restored: a refresh was
// attempted and failed, or a 401 recurred after the retry. The client fires
// the login redirect before returning this.
type AuthExpiredError struct{}

func (e *AuthExpiredError) Error() string {
	return "session expired"
}

// ForbiddenError is a 403: the session is valid but lacks the required role.
// Never retried, never redirects.
type ForbiddenError struct {
	Detail string
}

func (e *ForbiddenError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "forbidden"
}

// ServerRejectedError is any other 4xx carrying a detail payload, e.g. a
// duplicate submission or validation failure. The detail is surfaced
// verbatim.
type ServerRejectedError struct {
	StatusCode int
	Detail     string
}

func (e *ServerRejectedError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request rejected (status %d)", e.StatusCode)
}

// ServerError is a 5xx. Not retried automatically.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server error (status %d)", e.StatusCode)
}

// statusError maps a non-2xx response onto the error taxonomy. 401 is not
// mapped here; the refresh protocol in DoRequest owns that status.
func statusError(statusCode int, detail string) error {
	switch {
	case statusCode == http.StatusForbidden:
		return &ForbiddenError{Detail: detail}
	case statusCode >= 500:
		return &ServerError{StatusCode: statusCode, Detail: detail}
	default:
		return &ServerRejectedError{StatusCode: statusCode, Detail: detail}
	}
}
