// Package auth issues and validates the access/refresh token pair used by
// the check service. Tokens are HS256 JWTs delivered as httpOnly cookies;
// the refresh endpoint rotates both tokens.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kokoro-care/kokoro/internal/checksrv/config"
)

// Token use values distinguish the two token kinds so an access token can
// never be replayed against the refresh endpoint or vice versa.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// Claims carried by both token kinds.
type Claims struct {
	Role     string `json:"role"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// CreateAccessToken mints a short-lived access token for the user.
func CreateAccessToken(userID uuid.UUID, role string) (string, error) {
	return createToken(userID, role, TokenUseAccess, config.Config().Auth.GetAccessTokenValidity())
}

// CreateRefreshToken mints a long-lived refresh token for the user.
func CreateRefreshToken(userID uuid.UUID, role string) (string, error) {
	return createToken(userID, role, TokenUseRefresh, config.Config().Auth.GetRefreshTokenValidity())
}

func createToken(userID uuid.UUID, role, use string, validity time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:     role,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config().Auth.JWTSecret))
}

// ParseToken validates a token of the expected use and returns its claims.
func ParseToken(tokenString, expectedUse string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(config.Config().Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken.Err(err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenUse != expectedUse {
		return nil, ErrInvalidToken.Msg("token use mismatch")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, ErrInvalidToken.Msg("invalid subject")
	}
	return claims, nil
}

// UserID returns the subject as a UUID. ParseToken guarantees it parses.
func (c *Claims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
