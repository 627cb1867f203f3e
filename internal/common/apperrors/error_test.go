package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreservesMessageAndStatus(t *testing.T) {
	base := New("base failure").SetStatusCode(http.StatusBadRequest)
	derived := base.New("more specific failure")

	assert.Equal(t, "more specific failure", derived.Error())
	assert.Equal(t, http.StatusBadRequest, derived.StatusCode())
	assert.True(t, errors.Is(derived, base))
}

func TestMsgWrapsOriginal(t *testing.T) {
	base := New("draft save failed").SetStatusCode(http.StatusInternalServerError)
	wrapped := base.Msg("save draft for user u1")

	assert.Equal(t, "save draft for user u1", wrapped.Error())
	assert.True(t, errors.Is(wrapped, base))
	require.NotEmpty(t, wrapped.UnwrapAll())
}

func TestMsgErrAttachesExtraErrors(t *testing.T) {
	base := New("store failure")
	cause := errors.New("connection reset")
	wrapped := base.MsgErr("query submissions", cause)

	assert.True(t, errors.Is(wrapped, cause))
	assert.True(t, errors.Is(wrapped, base))
}

func TestErrorAllExpansion(t *testing.T) {
	base := New("submit rejected")
	cause := errors.New("period already taken")
	wrapped := base.Err(cause)

	assert.Equal(t, "submit rejected", wrapped.ErrorAll())

	expanded := wrapped.SetExpandError(true)
	assert.Contains(t, expanded.ErrorAll(), "submit rejected")
	assert.Contains(t, expanded.ErrorAll(), "period already taken")
}

func TestStatusCodeDefaultsToZero(t *testing.T) {
	err := New("no status")
	assert.Equal(t, 0, err.StatusCode())
}
