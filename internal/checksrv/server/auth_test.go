package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokoro-care/kokoro/internal/checksrv/auth"
	"github.com/kokoro-care/kokoro/pkg/api"
)

func TestRegisterAndMe(t *testing.T) {
	s := newTestServer(t)
	cookies, rsp := registerTestCompany(t, s)

	assert.Equal(t, "admin@example.com", rsp.User.Email)
	assert.Equal(t, "admin", rsp.User.Role)
	assert.Equal(t, "テスト株式会社", rsp.User.CompanyName)

	var names []string
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, auth.AccessTokenCookie)
	assert.Contains(t, names, auth.RefreshTokenCookie)
	for _, c := range cookies {
		assert.True(t, c.HttpOnly, "cookie %s must be httpOnly", c.Name)
	}

	req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)
	checkHeader(t, response.Result().Header)
	compareJson(t, rsp.User, response.Body.String())
}

func TestRegisterPasswordMismatch(t *testing.T) {
	s := newTestServer(t)
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", nil)
	setRequestBodyAndHeader(t, req, api.RegisterRequest{
		CompanyName:     "テスト株式会社",
		Email:           "admin@example.com",
		Password:        "one-password",
		PasswordConfirm: "another-password",
	})
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusBadRequest, response.Code)
	compareJson(t, map[string]string{"detail": "パスワードが一致しません"}, response.Body.String())
}

func TestRegisterWeakPassword(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		password string
		detail   string
	}{
		{"Ab.1", "パスワードは8文字以上で入力してください"},
		{"lower.pass123", "パスワードには大文字を1文字以上含めてください"},
		{"UPPER.PASS123", "パスワードには小文字を1文字以上含めてください"},
		{"Upper.Password", "パスワードには数字を1文字以上含めてください"},
		{"UpperPassword123", "パスワードには特殊文字（!@#$%^&*など）を1文字以上含めてください"},
	}
	for _, tc := range cases {
		req, _ := http.NewRequest("POST", "/api/v1/auth/register", nil)
		setRequestBodyAndHeader(t, req, api.RegisterRequest{
			CompanyName:     "テスト株式会社",
			Email:           "admin@example.com",
			Password:        tc.password,
			PasswordConfirm: tc.password,
		})
		response := executeTestRequest(t, s, req, nil)
		require.Equal(t, http.StatusBadRequest, response.Code, tc.password)
		compareJson(t, map[string]string{"detail": tc.detail}, response.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	registerTestCompany(t, s)

	req, _ := http.NewRequest("POST", "/api/v1/auth/register", nil)
	setRequestBodyAndHeader(t, req, api.RegisterRequest{
		CompanyName:     "別の会社",
		Email:           "admin@example.com",
		Password:        "Another.Pass1",
		PasswordConfirm: "Another.Pass1",
	})
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusBadRequest, response.Code)
	compareJson(t, map[string]string{"detail": "このメールアドレスは既に登録されています"}, response.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	registerTestCompany(t, s)

	cookies := loginTestUser(t, s, "admin@example.com", "Admin.Pass123")
	req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	registerTestCompany(t, s)

	req, _ := http.NewRequest("POST", "/api/v1/auth/login", nil)
	setRequestBodyAndHeader(t, req, api.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusUnauthorized, response.Code)
	compareJson(t, map[string]string{"detail": "メールアドレスまたはパスワードが正しくありません"}, response.Body.String())
}

func TestLoginUnknownUser(t *testing.T) {
	s := newTestServer(t)
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", nil)
	setRequestBodyAndHeader(t, req, api.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusUnauthorized, response.Code)
}

func TestRefreshRotatesSession(t *testing.T) {
	s := newTestServer(t)
	cookies, rsp := registerTestCompany(t, s)

	req, _ := http.NewRequest("POST", "/api/v1/auth/refresh", nil)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	var refreshed api.AuthResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &refreshed))
	assert.Equal(t, rsp.User.ID, refreshed.User.ID)

	rotated := response.Result().Cookies()
	var names []string
	for _, c := range rotated {
		require.NotEmpty(t, c.Value)
		names = append(names, c.Name)
	}
	assert.Contains(t, names, auth.AccessTokenCookie)
	assert.Contains(t, names, auth.RefreshTokenCookie)

	// The rotated pair is a working session.
	req, _ = http.NewRequest("GET", "/api/v1/auth/me", nil)
	response = executeTestRequest(t, s, req, rotated)
	require.Equal(t, http.StatusOK, response.Code)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	var accessToken string
	for _, c := range cookies {
		if c.Name == auth.AccessTokenCookie {
			accessToken = c.Value
		}
	}
	require.NotEmpty(t, accessToken)

	req, _ := http.NewRequest("POST", "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: accessToken})
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusUnauthorized, response.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	s := newTestServer(t)
	req, _ := http.NewRequest("POST", "/api/v1/auth/refresh", nil)
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusUnauthorized, response.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	req, _ := http.NewRequest("POST", "/api/v1/auth/logout", nil)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)

	for _, c := range response.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}

func TestMeUnauthenticated(t *testing.T) {
	s := newTestServer(t)
	req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusUnauthorized, response.Code)
	compareJson(t, map[string]string{"detail": "認証が必要です"}, response.Body.String())
}

func TestBearerHeaderAccepted(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	var accessToken string
	for _, c := range cookies {
		if c.Name == auth.AccessTokenCookie {
			accessToken = c.Value
		}
	}
	require.NotEmpty(t, accessToken)

	req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusOK, response.Code)
}
