package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kokoro-care/kokoro/internal/checksrv/config"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/pkg/api"
)

func newTestServer(t *testing.T) *CheckServer {
	t.Helper()
	config.TestInit()
	s := CreateNewServer(store.NewMemoryStore())
	s.MountHandlers()
	return s
}

func executeTestRequest(t *testing.T, s *CheckServer, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data any) {
	t.Helper()
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "json marshal")
	req.Header.Set("Content-Type", "application/json")
	req.Body = io.NopCloser(bytes.NewReader(jsonData))
	req.ContentLength = int64(len(jsonData))
}

func checkHeader(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.NotEmpty(t, h.Get("X-Kokoro-Request-ID"), "no request id")
}

func compareJson(t *testing.T, expected any, actual string) {
	t.Helper()
	j, err := json.Marshal(expected)
	require.NoError(t, err, "json marshal")
	assert.JSONEq(t, string(j), actual, "Expected: %v\nGot: %v\n", expected, actual)
}

// registerTestCompany registers a company and returns the admin session
// cookies together with the parsed auth response.
func registerTestCompany(t *testing.T, s *CheckServer) ([]*http.Cookie, api.AuthResponse) {
	t.Helper()
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", nil)
	setRequestBodyAndHeader(t, req, api.RegisterRequest{
		CompanyName:     "テスト株式会社",
		Industry:        "IT",
		PlanType:        "standard",
		Email:           "admin@example.com",
		Password:        "Admin.Pass123",
		PasswordConfirm: "Admin.Pass123",
	})
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())

	var rsp api.AuthResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &rsp))
	return response.Result().Cookies(), rsp
}

// loginTestUser logs a user in and returns the session cookies.
func loginTestUser(t *testing.T, s *CheckServer, email, password string) []*http.Cookie {
	t.Helper()
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", nil)
	setRequestBodyAndHeader(t, req, api.LoginRequest{Email: email, Password: password})
	response := executeTestRequest(t, s, req, nil)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	return response.Result().Cookies()
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

// createTestEmployee provisions an employee account directly in the store so
// tests can exercise non-admin sessions with a known password.
func createTestEmployee(t *testing.T, s *CheckServer, companyID uuid.UUID, email, password string) *store.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &store.User{
		ID:             uuid.New(),
		CompanyID:      companyID,
		Email:          email,
		Name:           "テスト社員",
		HashedPassword: string(hashed),
		Role:           store.RoleEmployee,
	}
	require.NoError(t, s.store.CreateUser(context.Background(), user))
	return user
}

// completeAnswers returns a full 57-item answer set with every value set to v.
func completeAnswers(v int) map[string]int {
	answers := make(map[string]int, 57)
	for i := 1; i <= 57; i++ {
		answers["q"+strconv.Itoa(i)] = v
	}
	return answers
}

// buildCSVUpload builds a multipart body with the given bytes as the "file"
// part and returns the body and content type.
func buildCSVUpload(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "users.csv")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
