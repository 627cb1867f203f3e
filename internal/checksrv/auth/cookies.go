package auth

import (
	"net/http"

	"github.com/kokoro-care/kokoro/internal/checksrv/config"
)

// Cookie names for the session token pair.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SessionCookies returns the token pair as httpOnly cookies.
func SessionCookies(accessToken, refreshToken string) []*http.Cookie {
	authCfg := config.Config().Auth
	return []*http.Cookie{
		sessionCookie(AccessTokenCookie, accessToken, int(authCfg.GetAccessTokenValidity().Seconds())),
		sessionCookie(RefreshTokenCookie, refreshToken, int(authCfg.GetRefreshTokenValidity().Seconds())),
	}
}

// ExpiredSessionCookies returns cookies that clear the session pair.
func ExpiredSessionCookies() []*http.Cookie {
	return []*http.Cookie{
		sessionCookie(AccessTokenCookie, "", -1),
		sessionCookie(RefreshTokenCookie, "", -1),
	}
}

func sessionCookie(name, value string, maxAge int) *http.Cookie {
	authCfg := config.Config().Auth
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   authCfg.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
