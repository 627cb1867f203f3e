package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/internal/common/httpx"
)

type userContextKey string

const currentUserKey = userContextKey("currentUser")

// UserAuthMiddleware authenticates requests from the Authorization header or
// the access_token cookie and loads the user into the request context.
// Requests without a valid access token get 401, which signals API clients
// to run their refresh protocol.
func UserAuthMiddleware(s store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerOrCookieToken(r)
			if tokenString == "" {
				httpx.ErrUnAuthorized().Send(w)
				return
			}
			claims, err := ParseToken(tokenString, TokenUseAccess)
			if err != nil {
				log.Ctx(r.Context()).Debug().Err(err).Msg("access token rejected")
				httpx.ErrUnAuthorized().Send(w)
				return
			}
			user, err := s.GetUserByID(r.Context(), claims.UserID())
			if err != nil {
				httpx.ErrUnAuthorized("ユーザーが見つかりません").Send(w)
				return
			}
			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose authenticated user is not an admin.
// Must run after UserAuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil || user.Role != store.RoleAdmin {
			httpx.ErrForbidden().Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser returns the authenticated user, or nil outside the middleware.
func CurrentUser(ctx context.Context) *store.User {
	if u, ok := ctx.Value(currentUserKey).(*store.User); ok {
		return u
	}
	return nil
}

// CurrentUserID returns the authenticated user's ID, or uuid.Nil.
func CurrentUserID(ctx context.Context) uuid.UUID {
	if u := CurrentUser(ctx); u != nil {
		return u.ID
	}
	return uuid.Nil
}

func bearerOrCookieToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}
