package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kokoro-care/kokoro/internal/common/apperrors"
)

// Error is the wire error envelope. The body is {"detail": "..."} so that
// API consumers can surface detail strings directly.
type Error struct {
	Detail     string `json:"detail"`
	StatusCode int    `json:"-"`
}

// Send writes the error response to the provided ResponseWriter.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	rspJson, err := json.Marshal(e)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("unable to encode error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(rspJson)
}

func (e *Error) Error() string {
	return e.Detail
}

// Is reports whether the error matches the target error.
func (e Error) Is(other error) bool {
	return e.Error() == other.Error()
}

// SendError sends an application error as an HTTP error response.
func SendError(w http.ResponseWriter, err apperrors.Error) {
	if err == nil {
		return
	}
	statusCode := err.StatusCode()
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	httperror := &Error{
		StatusCode: statusCode,
		Detail:     err.ErrorAll(),
	}
	httperror.Send(w)
}

// Common errors

// ErrReqMethodNotSupported returns an error for unsupported HTTP methods.
func ErrReqMethodNotSupported() *Error {
	return &Error{
		Detail:     "request method not supported",
		StatusCode: http.StatusMethodNotAllowed,
	}
}

// ErrUnableToParseReqData returns an error when request data cannot be parsed.
func ErrUnableToParseReqData() *Error {
	return &Error{
		Detail:     "unable to parse request data",
		StatusCode: http.StatusBadRequest,
	}
}

// ErrApplicationError returns an error for application-level failures.
// If no message is provided, a default message is used.
func ErrApplicationError(err ...string) *Error {
	s := "unable to process request"
	if len(err) > 0 {
		s = err[0]
	}
	return &Error{
		Detail:     s,
		StatusCode: http.StatusInternalServerError,
	}
}

// ErrUnAuthorized returns an error for unauthenticated requests.
func ErrUnAuthorized(str ...string) *Error {
	s := "認証が必要です"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{
		Detail:     s,
		StatusCode: http.StatusUnauthorized,
	}
}

// ErrForbidden returns an error for requests lacking the required role.
func ErrForbidden(str ...string) *Error {
	s := "アクセス権限がありません"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{
		Detail:     s,
		StatusCode: http.StatusForbidden,
	}
}

// ErrNotFound returns an error for missing resources.
func ErrNotFound(str ...string) *Error {
	s := "resource not found"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{
		Detail:     s,
		StatusCode: http.StatusNotFound,
	}
}

// ErrInvalidRequest returns an error for invalid request data.
func ErrInvalidRequest(str ...string) *Error {
	s := "invalid request data or empty request values"
	if len(str) > 0 {
		s = str[0]
	}
	return &Error{
		Detail:     s,
		StatusCode: http.StatusBadRequest,
	}
}

// ErrRequestTimeout returns an error for request timeout.
func ErrRequestTimeout() *Error {
	return &Error{
		Detail:     "request timed out",
		StatusCode: http.StatusRequestTimeout,
	}
}

// ErrRequestTooLarge returns an error when request body exceeds size limit.
func ErrRequestTooLarge(limit int64) *Error {
	return &Error{
		Detail:     fmt.Sprintf("request body too large (limit: %d bytes)", limit),
		StatusCode: http.StatusRequestEntityTooLarge,
	}
}
