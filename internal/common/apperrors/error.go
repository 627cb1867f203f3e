// Package apperrors provides the application error type used across the
// kokoro services. It extends the standard error interface with HTTP status
// codes and error chaining so handlers can map failures onto wire responses
// without switching on concrete types.
package apperrors

// Error is the application error interface. All constructors return Error so
// call sites can chain refinements, e.g.
// ErrBadRequest.New("missing answers").SetStatusCode(http.StatusBadRequest).
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // fresh error using current as template
	Msg(msg string) Error                  // new message, wraps original
	MsgErr(msg string, err ...error) Error // new message, wraps extra errors
	Err(err ...error) Error                // attaches additional errors
	SetStatusCode(int) Error               // sets HTTP status code
	StatusCode() int                       // returns the current status code
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped errors
	ErrorAll() string                      // full message including wrapped errors
	UnwrapAll() []error                    // all wrapped errors
}
