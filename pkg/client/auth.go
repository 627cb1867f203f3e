package client

import (
	"encoding/json"
	"net/http"

	"github.com/kokoro-care/kokoro/pkg/api"
)

// Login opens a session. The server answers with httpOnly session cookies
// which land in the client's cookie jar.
func (c *Client) Login(email, password string) (*api.AuthUser, error) {
	body, err := json.Marshal(api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	rspBody, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   body,
		// A 401 here means wrong credentials, not an expired session.
		SkipAuthRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	var rsp api.AuthResponse
	if err := json.Unmarshal(rspBody, &rsp); err != nil {
		return nil, err
	}
	return &rsp.User, nil
}

// Register creates a company with its first admin account and opens a
// session for it.
func (c *Client) Register(req api.RegisterRequest) (*api.AuthUser, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	rspBody, _, err := c.DoRequest(RequestOptions{
		Method:          http.MethodPost,
		Path:            "/auth/register",
		Body:            body,
		SkipAuthRefresh: true,
	})
	if err != nil {
		return nil, err
	}
	var rsp api.AuthResponse
	if err := json.Unmarshal(rspBody, &rsp); err != nil {
		return nil, err
	}
	return &rsp.User, nil
}

// Me returns the authenticated user.
func (c *Client) Me() (*api.AuthUser, error) {
	body, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "/auth/me",
	})
	if err != nil {
		return nil, err
	}
	var user api.AuthUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout closes the session and drops the cookies server-side.
func (c *Client) Logout() error {
	_, _, err := c.DoRequest(RequestOptions{
		Method:          http.MethodPost,
		Path:            "/auth/logout",
		SkipAuthRefresh: true,
	})
	return err
}
