package store

import (
	"net/http"

	"github.com/kokoro-care/kokoro/internal/common/apperrors"
)

var (
	// ErrStore is the root error for this package.
	ErrStore apperrors.Error = apperrors.New("store error").SetStatusCode(http.StatusInternalServerError)

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound apperrors.Error = ErrStore.New("record not found").SetStatusCode(http.StatusNotFound)

	// ErrAlreadyExists indicates a uniqueness constraint was violated, e.g. a
	// duplicate email or a second submission for the same (user, period).
	ErrAlreadyExists apperrors.Error = ErrStore.New("record already exists").SetStatusCode(http.StatusBadRequest)
)
