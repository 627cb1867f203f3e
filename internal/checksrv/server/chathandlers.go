package server

import (
	"net/http"
	"time"

	"github.com/kokoro-care/kokoro/internal/checksrv/auth"
	"github.com/kokoro-care/kokoro/internal/common/httpx"
	"github.com/kokoro-care/kokoro/pkg/api"
)

func (s *CheckServer) chatHandler(r *http.Request) (*httpx.Response, error) {
	req := &api.ChatRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}

	ctx := r.Context()
	reply, err := s.chat.Reply(ctx, auth.CurrentUserID(ctx), req.Message)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.ChatResponse{Reply: reply},
	}, nil
}

func (s *CheckServer) chatHistoryHandler(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	messages, err := s.chat.History(ctx, auth.CurrentUserID(ctx))
	if err != nil {
		return nil, err
	}
	rsp := make([]api.ChatMessage, 0, len(messages))
	for _, m := range messages {
		rsp = append(rsp, api.ChatMessage{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}
