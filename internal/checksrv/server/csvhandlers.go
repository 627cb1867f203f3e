package server

import (
	"bytes"
	"crypto/rand"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/kokoro-care/kokoro/internal/checksrv/auth"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/internal/common/httpx"
	"github.com/kokoro-care/kokoro/pkg/api"
)

var csvValidate = validator.New(validator.WithRequiredStructEnabled())

var csvColumns = []string{"email", "name", "employee_id", "department"}

type csvRow struct {
	line       int
	email      string
	name       string
	employeeID string
	department string
}

// parseUserCSV reads an uploaded roster. Files exported from Japanese office
// tooling are commonly Shift-JIS; anything that is not valid UTF-8 is decoded
// as Shift-JIS, and a UTF-8 BOM is tolerated.
func parseUserCSV(data []byte) ([]csvRow, []api.CSVRowError, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), japanese.ShiftJIS.NewDecoder()))
		if err != nil {
			return nil, nil, fmt.Errorf("unable to decode csv: %w", err)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv")
	}

	header := records[0]
	colIndex := map[string]int{}
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvColumns {
		if _, ok := colIndex[required]; !ok {
			return nil, nil, fmt.Errorf("必須カラムがありません: %s", required)
		}
	}

	var rows []csvRow
	var rowErrors []api.CSVRowError
	for i, record := range records[1:] {
		line := i + 2 // 1-based, after the header
		get := func(col string) string {
			idx := colIndex[col]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		row := csvRow{
			line:       line,
			email:      strings.ToLower(get("email")),
			name:       get("name"),
			employeeID: get("employee_id"),
			department: get("department"),
		}
		if row.email == "" || csvValidate.Var(row.email, "email") != nil {
			rowErrors = append(rowErrors, api.CSVRowError{Row: line, Field: "email", Detail: "メールアドレスが不正です"})
			continue
		}
		if row.name == "" {
			rowErrors = append(rowErrors, api.CSVRowError{Row: line, Field: "name", Detail: "氏名は必須です"})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrors, nil
}

func (s *CheckServer) readCSVUpload(r *http.Request) ([]byte, error) {
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, httpx.ErrInvalidRequest("CSVファイルを指定してください")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, httpx.ErrInvalidRequest("CSVファイルを読み込めません")
	}
	return data, nil
}

// csvPreviewHandler reports what an import would do without committing it.
func (s *CheckServer) csvPreviewHandler(r *http.Request) (*httpx.Response, error) {
	data, err := s.readCSVUpload(r)
	if err != nil {
		return nil, err
	}
	rows, rowErrors, err := parseUserCSV(data)
	if err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	ctx := r.Context()
	rsp := api.CSVPreviewResponse{
		Rows:   []api.CSVPreviewRow{},
		Errors: rowErrors,
	}
	seen := map[string]bool{}
	for _, row := range rows {
		duplicate := seen[row.email]
		if !duplicate {
			if _, err := s.store.GetUserByEmail(ctx, row.email); err == nil {
				duplicate = true
			}
		}
		seen[row.email] = true
		rsp.Rows = append(rsp.Rows, api.CSVPreviewRow{
			Email:      row.email,
			Name:       row.name,
			EmployeeID: row.employeeID,
			Department: row.department,
			Duplicate:  duplicate,
		})
	}
	if rsp.Errors == nil {
		rsp.Errors = []api.CSVRowError{}
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

// csvImportHandler bulk-creates employee accounts. Rows whose email already
// exists are skipped and reported. Missing departments are created on the
// fly; every new account gets a generated temporary password.
func (s *CheckServer) csvImportHandler(r *http.Request) (*httpx.Response, error) {
	data, err := s.readCSVUpload(r)
	if err != nil {
		return nil, err
	}
	rows, rowErrors, err := parseUserCSV(data)
	if err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	ctx := r.Context()
	admin := auth.CurrentUser(ctx)
	result := api.CSVImportResult{
		Duplicates: []string{},
		Errors:     rowErrors,
	}
	for _, row := range rows {
		departmentID := uuid.Nil
		if row.department != "" {
			dep, err := s.ensureDepartment(r, admin.CompanyID, row.department)
			if err != nil {
				result.Errors = append(result.Errors, api.CSVRowError{Row: row.line, Field: "department", Detail: err.Error()})
				continue
			}
			departmentID = dep.ID
		}

		password, err := generateTempPassword()
		if err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user := &store.User{
			ID:             uuid.New(),
			CompanyID:      admin.CompanyID,
			DepartmentID:   departmentID,
			Email:          row.email,
			Name:           row.name,
			EmployeeID:     row.employeeID,
			HashedPassword: string(hashed),
			Role:           store.RoleEmployee,
		}
		if err := s.store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				result.Skipped++
				result.Duplicates = append(result.Duplicates, row.email)
				continue
			}
			return nil, err
		}
		result.Created++
	}
	if result.Errors == nil {
		result.Errors = []api.CSVRowError{}
	}
	log.Ctx(ctx).Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("csv user import completed")

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   result,
	}, nil
}

func (s *CheckServer) ensureDepartment(r *http.Request, companyID uuid.UUID, name string) (*store.Department, error) {
	ctx := r.Context()
	dep, err := s.store.GetDepartmentByName(ctx, companyID, name)
	if err == nil {
		return dep, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	dep = &store.Department{
		ID:        uuid.New(),
		CompanyID: companyID,
		Name:      name,
	}
	if err := s.store.CreateDepartment(ctx, dep); err != nil {
		return nil, err
	}
	return dep, nil
}

const tempPasswordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateTempPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = tempPasswordAlphabet[int(b)%len(tempPasswordAlphabet)]
	}
	return string(buf), nil
}
