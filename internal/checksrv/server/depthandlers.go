package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kokoro-care/kokoro/internal/checksrv/auth"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/internal/common/httpx"
	"github.com/kokoro-care/kokoro/pkg/api"
)

func (s *CheckServer) listDepartmentsHandler(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	user := auth.CurrentUser(ctx)

	deps, err := s.store.ListDepartments(ctx, user.CompanyID)
	if err != nil {
		return nil, err
	}
	rsp := make([]api.Department, 0, len(deps))
	for _, d := range deps {
		count, err := s.store.CountDepartmentMembers(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		rsp = append(rsp, api.Department{
			ID:          d.ID.String(),
			Name:        d.Name,
			MemberCount: count,
		})
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func (s *CheckServer) createDepartmentHandler(r *http.Request) (*httpx.Response, error) {
	req := &api.DepartmentRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}

	ctx := r.Context()
	user := auth.CurrentUser(ctx)
	dep := &store.Department{
		ID:        uuid.New(),
		CompanyID: user.CompanyID,
		Name:      req.Name,
	}
	if err := s.store.CreateDepartment(ctx, dep); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, httpx.ErrInvalidRequest("同名の部署が既に存在します")
		}
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Response: api.Department{
			ID:   dep.ID.String(),
			Name: dep.Name,
		},
	}, nil
}

func (s *CheckServer) updateDepartmentHandler(r *http.Request) (*httpx.Response, error) {
	depID, err := uuid.Parse(chi.URLParam(r, "departmentID"))
	if err != nil {
		return nil, httpx.ErrNotFound("部署が見つかりません")
	}
	req := &api.DepartmentRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}

	ctx := r.Context()
	user := auth.CurrentUser(ctx)
	dep := &store.Department{
		ID:        depID,
		CompanyID: user.CompanyID,
		Name:      req.Name,
	}
	if err := s.store.UpdateDepartment(ctx, dep); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, httpx.ErrNotFound("部署が見つかりません")
		}
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, httpx.ErrInvalidRequest("同名の部署が既に存在します")
		}
		return nil, err
	}

	count, err := s.store.CountDepartmentMembers(ctx, dep.ID)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: api.Department{
			ID:          dep.ID.String(),
			Name:        dep.Name,
			MemberCount: count,
		},
	}, nil
}

// deleteDepartmentHandler removes an empty department. Departments with
// members cannot be deleted; reassign members first.
func (s *CheckServer) deleteDepartmentHandler(r *http.Request) (*httpx.Response, error) {
	depID, err := uuid.Parse(chi.URLParam(r, "departmentID"))
	if err != nil {
		return nil, httpx.ErrNotFound("部署が見つかりません")
	}

	ctx := r.Context()
	user := auth.CurrentUser(ctx)

	count, err := s.store.CountDepartmentMembers(ctx, depID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, httpx.ErrInvalidRequest("所属メンバーがいる部署は削除できません")
	}
	if err := s.store.DeleteDepartment(ctx, user.CompanyID, depID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, httpx.ErrNotFound("部署が見つかりません")
		}
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.MessageResponse{Message: "部署を削除しました"},
	}, nil
}
