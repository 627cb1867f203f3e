package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/pkg/api"
)

func createTestDepartment(t *testing.T, s *CheckServer, cookies []*http.Cookie, name string) api.Department {
	t.Helper()
	req, _ := http.NewRequest("POST", "/api/v1/departments/", nil)
	setRequestBodyAndHeader(t, req, api.DepartmentRequest{Name: name})
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())

	var dep api.Department
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &dep))
	return dep
}

func TestDepartmentCRUD(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	dep := createTestDepartment(t, s, cookies, "開発部")
	assert.NotEmpty(t, dep.ID)
	assert.Equal(t, "開発部", dep.Name)

	createTestDepartment(t, s, cookies, "営業部")

	req, _ := http.NewRequest("GET", "/api/v1/departments/", nil)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)
	var deps []api.Department
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &deps))
	require.Len(t, deps, 2)
	for _, d := range deps {
		assert.Zero(t, d.MemberCount)
	}

	req, _ = http.NewRequest("PUT", "/api/v1/departments/"+dep.ID, nil)
	setRequestBodyAndHeader(t, req, api.DepartmentRequest{Name: "プロダクト開発部"})
	response = executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	var renamed api.Department
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &renamed))
	assert.Equal(t, "プロダクト開発部", renamed.Name)

	req, _ = http.NewRequest("DELETE", "/api/v1/departments/"+dep.ID, nil)
	response = executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)

	req, _ = http.NewRequest("GET", "/api/v1/departments/", nil)
	response = executeTestRequest(t, s, req, cookies)
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &deps))
	require.Len(t, deps, 1)
	assert.Equal(t, "営業部", deps[0].Name)
}

func TestDepartmentDuplicateName(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	createTestDepartment(t, s, cookies, "開発部")

	req, _ := http.NewRequest("POST", "/api/v1/departments/", nil)
	setRequestBodyAndHeader(t, req, api.DepartmentRequest{Name: "開発部"})
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusBadRequest, response.Code)
	compareJson(t, map[string]string{"detail": "同名の部署が既に存在します"}, response.Body.String())
}

func TestDepartmentDeleteWithMembers(t *testing.T) {
	s := newTestServer(t)
	cookies, rsp := registerTestCompany(t, s)

	dep := createTestDepartment(t, s, cookies, "開発部")

	companyID := mustUUID(t, rsp.User.CompanyID)
	hashed, err := bcrypt.GenerateFromPassword([]byte("employee-password"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, s.store.CreateUser(context.Background(), &store.User{
		ID:             uuid.New(),
		CompanyID:      companyID,
		DepartmentID:   mustUUID(t, dep.ID),
		Email:          "employee@example.com",
		Name:           "テスト社員",
		HashedPassword: string(hashed),
		Role:           store.RoleEmployee,
	}))

	req, _ := http.NewRequest("DELETE", "/api/v1/departments/"+dep.ID, nil)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusBadRequest, response.Code)
	compareJson(t, map[string]string{"detail": "所属メンバーがいる部署は削除できません"}, response.Body.String())
}

func TestDepartmentUpdateNotFound(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	req, _ := http.NewRequest("PUT", "/api/v1/departments/00000000-0000-0000-0000-000000000001", nil)
	setRequestBodyAndHeader(t, req, api.DepartmentRequest{Name: "存在しない部署"})
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusNotFound, response.Code)
}

func TestDepartmentWriteRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	_, rsp := registerTestCompany(t, s)

	companyID := mustUUID(t, rsp.User.CompanyID)
	createTestEmployee(t, s, companyID, "employee@example.com", "employee-password")
	employeeCookies := loginTestUser(t, s, "employee@example.com", "employee-password")

	// Reading is open to every member.
	req, _ := http.NewRequest("GET", "/api/v1/departments/", nil)
	response := executeTestRequest(t, s, req, employeeCookies)
	require.Equal(t, http.StatusOK, response.Code)

	// Writing is not.
	req, _ = http.NewRequest("POST", "/api/v1/departments/", nil)
	setRequestBodyAndHeader(t, req, api.DepartmentRequest{Name: "勝手な部署"})
	response = executeTestRequest(t, s, req, employeeCookies)
	require.Equal(t, http.StatusForbidden, response.Code)
}
