// Package client is the typed HTTP client for the kokoro check service API.
// It layers two cross-cutting behaviors over every request: single-flight
// session refresh on 401, and forced navigation to the login page when
// authentication cannot be restored. Credentials are httpOnly cookies held in
// the client's cookie jar; the client never inspects token contents.
package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
)

const (
	apiPrefix   = "/api/v1"
	refreshPath = "/auth/refresh"
)

// Navigator abstracts the hosting environment's navigation so the client can
// force a return to the login page. Implementations must make NavigateToLogin
// idempotent in effect; the client additionally skips the call when
// CurrentPath already reports the login page.
type Navigator interface {
	CurrentPath() string
	NavigateToLogin()
}

// Client makes authenticated requests to the check service.
type Client struct {
	baseURL    string
	loginPath  string
	navigator  Navigator
	httpClient *http.Client

	// refreshGroup guarantees at most one refresh call is in flight; all
	// concurrent 401s share its outcome.
	refreshGroup singleflight.Group
}

// Options configures optional client behavior.
type Options struct {
	// Navigator receives the login redirect on unrecoverable auth failure.
	// A nil Navigator disables the redirect side effect.
	Navigator Navigator
	// LoginPath is the navigation location of the login page. Defaults to
	// "/login".
	LoginPath string
	// HTTPClient overrides the underlying transport. A cookie jar is
	// installed on it if it has none.
	HTTPClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Options) (*Client, error) {
	opt := Options{}
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.LoginPath == "" {
		opt.LoginPath = "/login"
	}

	httpClient := opt.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	return &Client{
		baseURL:    baseURL,
		loginPath:  opt.LoginPath,
		navigator:  opt.Navigator,
		httpClient: httpClient,
	}, nil
}

// RequestOptions describes one API request.
type RequestOptions struct {
	Method      string            // HTTP method (GET, POST, PUT, DELETE)
	Path        string            // API endpoint path below /api/v1
	QueryParams map[string]string // Optional query parameters
	Body        []byte            // Optional request body
	ContentType string            // Optional; defaults to application/json
	// SkipAuthRefresh disables the 401 refresh protocol for this request.
	// Set internally on the refresh call itself to prevent recursion.
	SkipAuthRefresh bool
}

// DoRequest makes an API request with the given options.
// Returns the response body, Location header (if present), and any error
// mapped onto the package error taxonomy.
//
// On a 401 (unless SkipAuthRefresh is set) the client joins or starts the
// single refresh operation, then resends the original request exactly once.
// A second 401, or a failed refresh, redirects to the login page and fails
// with AuthExpiredError.
func (c *Client) DoRequest(opts RequestOptions) ([]byte, string, error) {
	body, location, statusCode, err := c.doOnce(opts)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}
	if statusCode == http.StatusUnauthorized {
		if opts.SkipAuthRefresh {
			c.redirectToLogin()
			return nil, "", &AuthExpiredError{}
		}
		if err := c.refreshSession(); err != nil {
			c.redirectToLogin()
			return nil, "", &AuthExpiredError{}
		}
		// Retry exactly once against the refreshed session.
		body, location, statusCode, err = c.doOnce(opts)
		if err != nil {
			return nil, "", &TransportError{Err: err}
		}
		if statusCode == http.StatusUnauthorized {
			c.redirectToLogin()
			return nil, "", &AuthExpiredError{}
		}
	}
	if statusCode >= 400 {
		return nil, "", statusError(statusCode, errorDetail(body))
	}
	return body, location, nil
}

// doOnce issues a single HTTP round trip without any retry machinery.
func (c *Client) doOnce(opts RequestOptions) (body []byte, location string, statusCode int, err error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, "", 0, fmt.Errorf("invalid server URL: %v", err)
	}
	u.Path = path.Join(u.Path, apiPrefix, opts.Path)

	q := u.Query()
	for k, v := range opts.QueryParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequest(opts.Method, u.String(), bytes.NewBuffer(opts.Body))
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to create request: %v", err)
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", 0, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to read response body: %v", err)
	}
	return body, resp.Header.Get("Location"), resp.StatusCode, nil
}

// refreshSession joins the in-flight refresh operation, starting one if none
// is running. All callers observe the same outcome.
func (c *Client) refreshSession() error {
	_, err, _ := c.refreshGroup.Do("session-refresh", func() (any, error) {
		_, _, err := c.DoRequest(RequestOptions{
			Method:          http.MethodPost,
			Path:            refreshPath,
			SkipAuthRefresh: true,
		})
		return nil, err
	})
	return err
}

// redirectToLogin navigates to the login page unless the environment is
// already there. Safe to fire from multiple failing requests.
func (c *Client) redirectToLogin() {
	if c.navigator == nil {
		return
	}
	if c.navigator.CurrentPath() == c.loginPath {
		return
	}
	c.navigator.NavigateToLogin()
}

// errorDetail extracts the detail string from an error envelope. Bodies that
// are not JSON or carry no detail yield the raw text.
func errorDetail(body []byte) string {
	if detail := gjson.GetBytes(body, "detail"); detail.Exists() {
		return detail.String()
	}
	return string(body)
}
