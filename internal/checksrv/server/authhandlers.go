package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/kokoro-care/kokoro/internal/checksrv/auth"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/internal/common/httpx"
	"github.com/kokoro-care/kokoro/pkg/api"
)

// sessionCookies mints a fresh token pair as cookies. Both tokens are rotated
// together so a stolen refresh token stops working after its first use by the
// legitimate client.
func sessionCookies(user *store.User) ([]*http.Cookie, error) {
	accessToken, err := auth.CreateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := auth.CreateRefreshToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return auth.SessionCookies(accessToken, refreshToken), nil
}

func (s *CheckServer) authUserRsp(ctx context.Context, user *store.User) api.AuthUser {
	rsp := api.AuthUser{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CompanyID: user.CompanyID.String(),
	}
	if company, err := s.store.GetCompany(ctx, user.CompanyID); err == nil {
		rsp.CompanyName = company.Name
	}
	return rsp
}

// registerHandler creates a company together with its first admin account and
// opens a session for it.
func (s *CheckServer) registerHandler(r *http.Request) (*httpx.Response, error) {
	req := &api.RegisterRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if req.Password != req.PasswordConfirm {
		return nil, httpx.ErrInvalidRequest("パスワードが一致しません")
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	company := &store.Company{
		ID:       uuid.New(),
		Name:     req.CompanyName,
		Industry: req.Industry,
		PlanType: req.PlanType,
	}
	if err := s.store.CreateCompany(ctx, company); err != nil {
		return nil, err
	}
	user := &store.User{
		ID:             uuid.New(),
		CompanyID:      company.ID,
		Email:          req.Email,
		Name:           req.CompanyName + " 管理者",
		HashedPassword: string(hashed),
		Role:           store.RoleAdmin,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, httpx.ErrInvalidRequest("このメールアドレスは既に登録されています")
		}
		return nil, err
	}
	log.Ctx(ctx).Info().Str("company", company.Name).Msg("company registered")

	cookies, err := sessionCookies(user)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Response:   api.AuthResponse{User: s.authUserRsp(ctx, user)},
		Cookies:    cookies,
	}, nil
}

func (s *CheckServer) loginHandler(r *http.Request) (*httpx.Response, error) {
	req := &api.LoginRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}

	ctx := r.Context()
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	cookies, err := sessionCookies(user)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.AuthResponse{User: s.authUserRsp(ctx, user)},
		Cookies:    cookies,
	}, nil
}

// refreshHandler exchanges a valid refresh token for a new token pair. The
// token comes from the refresh_token cookie; access tokens are rejected.
func (s *CheckServer) refreshHandler(r *http.Request) (*httpx.Response, error) {
	cookie, err := r.Cookie(auth.RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return nil, auth.ErrMissingCredentials
	}
	claims, err := auth.ParseToken(cookie.Value, auth.TokenUseRefresh)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	user, err := s.store.GetUserByID(ctx, claims.UserID())
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	cookies, err := sessionCookies(user)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.AuthResponse{User: s.authUserRsp(ctx, user)},
		Cookies:    cookies,
	}, nil
}

func (s *CheckServer) logoutHandler(r *http.Request) (*httpx.Response, error) {
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.MessageResponse{Message: "ログアウトしました"},
		Cookies:    auth.ExpiredSessionCookies(),
	}, nil
}

func (s *CheckServer) meHandler(r *http.Request) (*httpx.Response, error) {
	user := auth.CurrentUser(r.Context())
	if user == nil {
		return nil, auth.ErrMissingCredentials
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   s.authUserRsp(r.Context(), user),
	}, nil
}
