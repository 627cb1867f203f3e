package apperrors

import (
	"errors"
	"strings"
)

// appError is the concrete implementation of Error.
type appError struct {
	msg           string
	base          error   // base error for errors.Is/As compatibility
	wrappedErrors []error // additional wrapped errors
	statuscode    int
	expandError   bool
}

func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the full message including wrapped errors if expandError
// is set. Otherwise it is the same as Error().
func (e *appError) ErrorAll() string {
	if !e.expandError {
		return e.Error()
	}
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.wrappedErrors {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *appError) Unwrap() error {
	return e.base
}

func (e *appError) UnwrapAll() []error {
	return e.wrappedErrors
}

// New creates a fresh error using the current error as a template. The new
// error inherits the status code but starts with a clean wrap chain.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

// Msg creates a new error with a new message and wraps the original.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: append([]error{e}, e.wrappedErrors...),
		statuscode:    e.statuscode,
	}
}

// MsgErr creates a new error with a message and wraps additional errors.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           msg,
		base:          e,
		wrappedErrors: all,
		statuscode:    e.statuscode,
	}
}

// Err attaches additional errors while keeping the original message.
func (e *appError) Err(errs ...error) Error {
	all := append([]error{e}, errs...)
	return &appError{
		msg:           e.msg,
		base:          e,
		wrappedErrors: all,
		statuscode:    e.statuscode,
	}
}

// SetStatusCode returns a shallow copy with an updated status code.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

func (e *appError) StatusCode() int {
	return e.statuscode
}

// SetExpandError returns a shallow copy with an updated expansion flag.
func (e *appError) SetExpandError(flag bool) Error {
	cp := *e
	cp.expandError = flag
	return &cp
}

// Is checks both the base error and all wrapped errors.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrappedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// New creates a root-level application error with the given message.
func New(msg string) Error {
	return &appError{
		msg: msg,
	}
}
