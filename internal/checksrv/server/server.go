// Package server wires the check service HTTP API: authentication, the
// stress-check questionnaire, department administration, CSV user import, and
// the wellbeing chat.
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kokoro-care/kokoro/internal/checksrv/auth"
	"github.com/kokoro-care/kokoro/internal/checksrv/chat"
	"github.com/kokoro-care/kokoro/internal/checksrv/config"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/internal/common/httpx"
	commonmiddleware "github.com/kokoro-care/kokoro/internal/common/middleware"
)

// ServerVersion and ApiVersion are reported by the version endpoint.
const (
	ServerVersion = "0.3.0"
	ApiVersion    = "v1"
)

// CheckServer is the HTTP front of the check service.
type CheckServer struct {
	Router *chi.Mux
	store  store.Store
	chat   *chat.Service
}

// CreateNewServer builds a server on the given store. Handlers are not
// mounted yet; call MountHandlers before serving.
func CreateNewServer(s store.Store) *CheckServer {
	return &CheckServer{
		Router: chi.NewRouter(),
		store:  s,
		chat:   chat.NewService(s),
	}
}

// MountHandlers installs middleware and routes.
func (s *CheckServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	s.Router.Use(commonmiddleware.SetTimeout(config.Config().GetRequestTimeout()))
	s.Router.Use(limitRequestBody(config.Config().MaxRequestBodySize))
	if config.Config().HandleCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{config.Config().CORSOrigin},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization"},
			AllowCredentials: true,
		}))
	}

	s.Router.Get("/version", s.getVersion)
	s.Router.Get("/ready", s.getReadiness)

	s.Router.Route("/api/v1", s.mountAPIRoutes)
}

func (s *CheckServer) mountAPIRoutes(api chi.Router) {
	api.Route("/auth", func(r chi.Router) {
		r.Post("/register", httpx.WrapHttpRsp(s.registerHandler))
		r.Post("/login", httpx.WrapHttpRsp(s.loginHandler))
		r.Post("/refresh", httpx.WrapHttpRsp(s.refreshHandler))
		r.Post("/logout", httpx.WrapHttpRsp(s.logoutHandler))
		r.With(auth.UserAuthMiddleware(s.store)).Get("/me", httpx.WrapHttpRsp(s.meHandler))
	})

	api.Route("/stress-check", func(r chi.Router) {
		r.Use(auth.UserAuthMiddleware(s.store))
		r.Get("/questions", httpx.WrapHttpRsp(s.questionsHandler))
		r.Get("/draft", httpx.WrapHttpRsp(s.getDraftHandler))
		r.Post("/draft", httpx.WrapHttpRsp(s.saveDraftHandler))
		r.Post("/draft/migrate", httpx.WrapHttpRsp(s.migrateDraftHandler))
		r.Delete("/draft", httpx.WrapHttpRsp(s.deleteDraftHandler))
		r.Post("/submit", httpx.WrapHttpRsp(s.submitHandler))
		r.Get("/result/{checkID}", httpx.WrapHttpRsp(s.resultHandler))
		r.Get("/history", httpx.WrapHttpRsp(s.historyHandler))
		r.With(auth.RequireAdmin).Get("/non-taken", httpx.WrapHttpRsp(s.nonTakenHandler))
	})

	api.Route("/departments", func(r chi.Router) {
		r.Use(auth.UserAuthMiddleware(s.store))
		r.Get("/", httpx.WrapHttpRsp(s.listDepartmentsHandler))
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/", httpx.WrapHttpRsp(s.createDepartmentHandler))
			r.Put("/{departmentID}", httpx.WrapHttpRsp(s.updateDepartmentHandler))
			r.Delete("/{departmentID}", httpx.WrapHttpRsp(s.deleteDepartmentHandler))
		})
	})

	api.Route("/admin", func(r chi.Router) {
		r.Use(auth.UserAuthMiddleware(s.store))
		r.Use(auth.RequireAdmin)
		r.Post("/csv/preview", httpx.WrapHttpRsp(s.csvPreviewHandler))
		r.Post("/csv/import", httpx.WrapHttpRsp(s.csvImportHandler))
	})

	api.Route("/chat", func(r chi.Router) {
		r.Use(auth.UserAuthMiddleware(s.store))
		r.Post("/", httpx.WrapHttpRsp(s.chatHandler))
		r.Get("/history", httpx.WrapHttpRsp(s.chatHistoryHandler))
	})
}

func limitRequestBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				httpx.ErrRequestTooLarge(limit).Send(w)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

type getVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *CheckServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &getVersionRsp{
		ServerVersion: "Kokoro Check Server: " + ServerVersion,
		ApiVersion:    ApiVersion,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *CheckServer) getReadiness(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("Readiness check")
	// A not-found answer still proves the store is reachable.
	_, err := s.store.GetUserByID(r.Context(), uuid.Nil)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Ctx(r.Context()).Error().Err(err).Msg("store probe failed during readiness check")
		httpx.SendJsonRsp(r.Context(), w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
		})
		return
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
