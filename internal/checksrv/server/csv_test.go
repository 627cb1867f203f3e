package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/kokoro-care/kokoro/pkg/api"
)

const testRosterCSV = "email,name,employee_id,department\n" +
	"tanaka@example.com,田中太郎,E001,開発部\n" +
	"suzuki@example.com,鈴木花子,E002,営業部\n" +
	"bad-email,佐藤次郎,E003,開発部\n"

func TestCSVPreview(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	body, contentType := buildCSVUpload(t, []byte(testRosterCSV))
	req, _ := http.NewRequest("POST", "/api/v1/admin/csv/preview", body)
	req.Header.Set("Content-Type", contentType)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	var rsp api.CSVPreviewResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &rsp))
	require.Len(t, rsp.Rows, 2)
	assert.Equal(t, "tanaka@example.com", rsp.Rows[0].Email)
	assert.Equal(t, "田中太郎", rsp.Rows[0].Name)
	assert.False(t, rsp.Rows[0].Duplicate)
	require.Len(t, rsp.Errors, 1)
	assert.Equal(t, 4, rsp.Errors[0].Row)
	assert.Equal(t, "email", rsp.Errors[0].Field)
}

func TestCSVPreviewMarksExistingEmails(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	csvData := "email,name,employee_id,department\n" +
		"admin@example.com,既存管理者,E000,\n"
	body, contentType := buildCSVUpload(t, []byte(csvData))
	req, _ := http.NewRequest("POST", "/api/v1/admin/csv/preview", body)
	req.Header.Set("Content-Type", contentType)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)

	var rsp api.CSVPreviewResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &rsp))
	require.Len(t, rsp.Rows, 1)
	assert.True(t, rsp.Rows[0].Duplicate)
}

func TestCSVImport(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	body, contentType := buildCSVUpload(t, []byte(testRosterCSV))
	req, _ := http.NewRequest("POST", "/api/v1/admin/csv/import", body)
	req.Header.Set("Content-Type", contentType)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	var result api.CSVImportResult
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Skipped)
	require.Len(t, result.Errors, 1)

	// Departments named in the roster were created with their members.
	req, _ = http.NewRequest("GET", "/api/v1/departments/", nil)
	response = executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)
	var deps []api.Department
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &deps))
	require.Len(t, deps, 2)
	for _, d := range deps {
		assert.Equal(t, 1, d.MemberCount, "department %s", d.Name)
	}

	// Importing the same roster again skips every row.
	body, contentType = buildCSVUpload(t, []byte(testRosterCSV))
	req, _ = http.NewRequest("POST", "/api/v1/admin/csv/import", body)
	req.Header.Set("Content-Type", contentType)
	response = executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &result))
	assert.Zero(t, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.ElementsMatch(t, []string{"tanaka@example.com", "suzuki@example.com"}, result.Duplicates)
}

func TestCSVImportShiftJIS(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	utf8CSV := "email,name,employee_id,department\n" +
		"yamada@example.com,山田一郎,E010,総務部\n"
	sjis, err := io.ReadAll(transform.NewReader(bytes.NewReader([]byte(utf8CSV)), japanese.ShiftJIS.NewEncoder()))
	require.NoError(t, err)

	body, contentType := buildCSVUpload(t, sjis)
	req, _ := http.NewRequest("POST", "/api/v1/admin/csv/import", body)
	req.Header.Set("Content-Type", contentType)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	var result api.CSVImportResult
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Created)

	// The decoded name survived the transcoding.
	req, _ = http.NewRequest("GET", "/api/v1/stress-check/non-taken", nil)
	response = executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code)
	var untaken api.UntakenResponse
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &untaken))
	found := false
	for _, u := range untaken.Users {
		if u.Email == "yamada@example.com" {
			found = true
			assert.Equal(t, "山田一郎", u.Name)
			assert.Equal(t, "総務部", u.Department)
		}
	}
	assert.True(t, found, "imported user missing from report")
}

func TestCSVUTF8BOMTolerated(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte("email,name,employee_id,department\nito@example.com,伊藤三郎,E020,\n")...)
	body, contentType := buildCSVUpload(t, withBOM)
	req, _ := http.NewRequest("POST", "/api/v1/admin/csv/import", body)
	req.Header.Set("Content-Type", contentType)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())

	var result api.CSVImportResult
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Created)
}

func TestCSVMissingColumn(t *testing.T) {
	s := newTestServer(t)
	cookies, _ := registerTestCompany(t, s)

	body, contentType := buildCSVUpload(t, []byte("email,name\nsomeone@example.com,誰か\n"))
	req, _ := http.NewRequest("POST", "/api/v1/admin/csv/preview", body)
	req.Header.Set("Content-Type", contentType)
	response := executeTestRequest(t, s, req, cookies)
	require.Equal(t, http.StatusBadRequest, response.Code)
	compareJson(t, map[string]string{"detail": "必須カラムがありません: employee_id"}, response.Body.String())
}

func TestCSVImportRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	_, rsp := registerTestCompany(t, s)

	companyID := mustUUID(t, rsp.User.CompanyID)
	createTestEmployee(t, s, companyID, "employee@example.com", "employee-password")
	employeeCookies := loginTestUser(t, s, "employee@example.com", "employee-password")

	body, contentType := buildCSVUpload(t, []byte(testRosterCSV))
	req, _ := http.NewRequest("POST", "/api/v1/admin/csv/import", body)
	req.Header.Set("Content-Type", contentType)
	response := executeTestRequest(t, s, req, employeeCookies)
	require.Equal(t, http.StatusForbidden, response.Code)
}
