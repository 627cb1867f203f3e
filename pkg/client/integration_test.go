package client

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokoro-care/kokoro/internal/checksrv/config"
	"github.com/kokoro-care/kokoro/internal/checksrv/server"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/pkg/api"
)

// TestClientAgainstServer drives the typed client against the real check
// service backed by the in-memory store.
func TestClientAgainstServer(t *testing.T) {
	config.TestInit()
	srv := server.CreateNewServer(store.NewMemoryStore())
	srv.MountHandlers()
	ts := httptest.NewServer(srv.Router)
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	user, err := c.Register(api.RegisterRequest{
		CompanyName:     "テスト株式会社",
		Email:           "admin@example.com",
		Password:        "Admin.Pass123",
		PasswordConfirm: "Admin.Pass123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Role)

	me, err := c.Me()
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	questions, err := c.FetchQuestions()
	require.NoError(t, err)
	require.Len(t, questions.Questions, 57)
	assert.False(t, questions.AlreadyTaken)

	// Draft round-trip.
	require.NoError(t, c.SaveDraft(map[string]int{"q1": 2, "q2": 3}))
	draft, err := c.FetchDraft()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"q1": 2, "q2": 3}, draft)

	answers := make(map[string]int, 57)
	for i := 1; i <= 57; i++ {
		answers["q"+strconv.Itoa(i)] = 2
	}
	result, err := c.Submit(answers)
	require.NoError(t, err)
	assert.InDelta(t, 114.0, result.TotalScore, 0.001)
	assert.False(t, result.IsHighStress)

	// Submitting consumed the draft and locked the period.
	draft, err = c.FetchDraft()
	require.NoError(t, err)
	assert.Empty(t, draft)

	_, err = c.Submit(answers)
	var rejected *ServerRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "この期間は既に受検済みです。受検できません。", rejected.Detail)

	history, err := c.History()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result.ID, history[0].ID)

	got, err := c.Result(result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ID, got.ID)

	// Departments through the admin session.
	dep, err := c.CreateDepartment("開発部")
	require.NoError(t, err)
	deps, err := c.ListDepartments()
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, dep.ID, deps[0].ID)

	// After logout the cookies are gone and the refresh protocol cannot
	// restore the session.
	require.NoError(t, c.Logout())
	_, err = c.Me()
	var authErr *AuthExpiredError
	require.ErrorAs(t, err, &authErr)
}
