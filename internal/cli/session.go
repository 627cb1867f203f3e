package cli

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/kokoro-care/kokoro/pkg/client"
)

const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
)

// apiSession pairs a typed client with the cookie jar backing it, so the
// session cookies can be persisted back into the config file after a command
// runs. The refresh protocol may rotate both tokens on any request.
type apiSession struct {
	client *client.Client
	jar    http.CookieJar
	server *url.URL
}

// newAPISession builds a client for the configured server, seeding the cookie
// jar with the stored session.
func newAPISession() (*apiSession, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}

	server, err := url.Parse(cfg.GetServerURL())
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	var cookies []*http.Cookie
	if cfg.AccessToken != "" {
		cookies = append(cookies, &http.Cookie{Name: accessCookieName, Value: cfg.AccessToken, Path: "/"})
	}
	if cfg.RefreshToken != "" {
		cookies = append(cookies, &http.Cookie{Name: refreshCookieName, Value: cfg.RefreshToken, Path: "/"})
	}
	jar.SetCookies(server, cookies)

	c, err := client.New(server.String(), client.Options{
		HTTPClient: &http.Client{Jar: jar},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &apiSession{client: c, jar: jar, server: server}, nil
}

// save writes the jar's current session cookies back to the config file so
// a token rotation survives this process.
func (s *apiSession) save() error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	cfg.AccessToken = ""
	cfg.RefreshToken = ""
	for _, c := range s.jar.Cookies(s.server) {
		switch c.Name {
		case accessCookieName:
			cfg.AccessToken = c.Value
		case refreshCookieName:
			cfg.RefreshToken = c.Value
		}
	}

	return cfg.WriteConfig(configFile)
}
