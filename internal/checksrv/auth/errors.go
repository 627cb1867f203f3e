package auth

import (
	"net/http"

	"github.com/kokoro-care/kokoro/internal/common/apperrors"
)

var (
	// ErrAuth is the root error for this package.
	ErrAuth apperrors.Error = apperrors.New("authentication error").SetStatusCode(http.StatusUnauthorized)

	// ErrInvalidToken indicates a missing, expired, or malformed token.
	ErrInvalidToken apperrors.Error = ErrAuth.New("無効なトークンです")

	// ErrMissingCredentials indicates no token was presented at all.
	ErrMissingCredentials apperrors.Error = ErrAuth.New("認証が必要です")

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials apperrors.Error = ErrAuth.New("メールアドレスまたはパスワードが正しくありません")
)
