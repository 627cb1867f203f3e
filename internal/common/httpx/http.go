// Package httpx provides HTTP request/response handling utilities shared by
// the kokoro services. It includes JSON response helpers, a typed error
// envelope, and a handler adapter that maps application errors onto wire
// responses.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/kokoro-care/kokoro/internal/common/apperrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// GetRequestData parses a JSON request body into data and runs struct
// validation on the result. Only POST and PUT carry bodies in this API.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return ErrUnableToParseReqData()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		return ErrUnableToParseReqData()
	}
	if err := validate.Struct(data); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("request validation failed")
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response represents an HTTP response with configurable status code and
// content type. Response may be a struct, pre-marshaled JSON, or a string.
// Cookies, when present, are set on the response before the body is written.
type Response struct {
	StatusCode  int
	Location    string
	Response    any
	ContentType string
	Cookies     []*http.Cookie
}

// RequestHandler is the handler signature used by all API endpoints.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler into an http.HandlerFunc with
// standardized error handling. Application errors carry their own status
// codes; anything else becomes a 500.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			sendHandlerError(w, err)
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		if rsp.ContentType == "" {
			rsp.ContentType = "application/json"
		}
		for _, cookie := range rsp.Cookies {
			http.SetCookie(w, cookie)
		}
		var location []string
		if rsp.Location != "" {
			location = append(location, rsp.Location)
		}
		switch rsp.ContentType {
		case "application/json":
			SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response, location...)
		case "text/plain":
			w.Header().Set("Content-Type", "text/plain")
			if rsp.StatusCode == http.StatusCreated && len(location) > 0 {
				w.Header().Set("Location", location[0])
			}
			w.WriteHeader(rsp.StatusCode)
			w.Write([]byte(rsp.Response.(string)))
		default:
			ErrApplicationError("unsupported response type").Send(w)
		}
	})
}

func sendHandlerError(w http.ResponseWriter, err error) {
	if httperror, ok := err.(*Error); ok {
		httperror.Send(w)
		return
	}
	if appErr, ok := err.(apperrors.Error); ok {
		statusCode := appErr.StatusCode()
		if statusCode == 0 {
			statusCode = http.StatusInternalServerError
		}
		httperror := &Error{
			StatusCode: statusCode,
			Detail:     appErr.ErrorAll(),
		}
		httperror.Send(w)
		return
	}
	ErrApplicationError(err.Error()).Send(w)
}
