package client

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/kokoro-care/kokoro/pkg/api"
)

// ListDepartments returns the company's departments with member counts.
func (c *Client) ListDepartments() ([]api.Department, error) {
	body, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "/departments",
	})
	if err != nil {
		return nil, err
	}
	var deps []api.Department
	if err := json.Unmarshal(body, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

// CreateDepartment creates a department. Admin only.
func (c *Client) CreateDepartment(name string) (*api.Department, error) {
	body, err := json.Marshal(api.DepartmentRequest{Name: name})
	if err != nil {
		return nil, err
	}
	rspBody, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodPost,
		Path:   "/departments",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var dep api.Department
	if err := json.Unmarshal(rspBody, &dep); err != nil {
		return nil, err
	}
	return &dep, nil
}

// RenameDepartment renames a department. Admin only.
func (c *Client) RenameDepartment(id, name string) (*api.Department, error) {
	body, err := json.Marshal(api.DepartmentRequest{Name: name})
	if err != nil {
		return nil, err
	}
	rspBody, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodPut,
		Path:   "/departments/" + id,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var dep api.Department
	if err := json.Unmarshal(rspBody, &dep); err != nil {
		return nil, err
	}
	return &dep, nil
}

// DeleteDepartment removes an empty department. Admin only.
func (c *Client) DeleteDepartment(id string) error {
	_, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodDelete,
		Path:   "/departments/" + id,
	})
	return err
}

// UntakenUsers lists company members without a submission for the current
// period. Admin only.
func (c *Client) UntakenUsers() (*api.UntakenResponse, error) {
	body, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "/stress-check/non-taken",
	})
	if err != nil {
		return nil, err
	}
	var rsp api.UntakenResponse
	if err := json.Unmarshal(body, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// PreviewUserCSV uploads a roster and reports what an import would do.
func (c *Client) PreviewUserCSV(csvData []byte) (*api.CSVPreviewResponse, error) {
	body, err := c.uploadCSV("/admin/csv/preview", csvData)
	if err != nil {
		return nil, err
	}
	var rsp api.CSVPreviewResponse
	if err := json.Unmarshal(body, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// ImportUserCSV uploads a roster and bulk-creates employee accounts.
func (c *Client) ImportUserCSV(csvData []byte) (*api.CSVImportResult, error) {
	body, err := c.uploadCSV("/admin/csv/import", csvData)
	if err != nil {
		return nil, err
	}
	var result api.CSVImportResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) uploadCSV(apiPath string, csvData []byte) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "users.csv")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(csvData); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	rspBody, _, err := c.DoRequest(RequestOptions{
		Method:      http.MethodPost,
		Path:        apiPath,
		Body:        body.Bytes(),
		ContentType: writer.FormDataContentType(),
	})
	return rspBody, err
}
