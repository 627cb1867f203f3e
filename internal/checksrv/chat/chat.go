// Package chat implements the wellbeing assistant. Conversations are
// persisted per user; replies come from an OpenAI chat model when an API key
// is configured, or a canned fallback otherwise so the endpoint stays usable
// in development.
package chat

import (
	"context"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"

	"github.com/kokoro-care/kokoro/internal/checksrv/config"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/internal/common/apperrors"
)

var ErrChat apperrors.Error = apperrors.New("チャットの応答に失敗しました").SetStatusCode(http.StatusBadGateway)

const fallbackReply = "ただいまAIアシスタントはご利用いただけません。つらい気持ちが続く場合は、産業医または相談窓口にご相談ください。"

// Service answers chat messages and persists the conversation.
type Service struct {
	store   store.Store
	client  openai.Client
	enabled bool
}

// NewService builds a Service. The model call is enabled only when
// OPENAI_API_KEY is set.
func NewService(s store.Store) *Service {
	key := os.Getenv("OPENAI_API_KEY")
	svc := &Service{
		store:   s,
		enabled: key != "",
	}
	if svc.enabled {
		svc.client = openai.NewClient(option.WithAPIKey(key))
	}
	return svc
}

// Reply persists the user message, produces an assistant reply, persists it,
// and returns it. The user message is saved even when the model call fails.
func (svc *Service) Reply(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	// History is read before the incoming message is stored so the prompt
	// does not contain it twice.
	history, err := svc.store.ListChatMessages(ctx, userID, config.Config().Chat.HistoryLimit)
	if err != nil {
		return "", err
	}

	if err := svc.store.AddChatMessage(ctx, &store.ChatMessage{
		UserID:  userID,
		Role:    "user",
		Content: message,
	}); err != nil {
		return "", err
	}

	reply := fallbackReply
	if svc.enabled {
		generated, err := svc.generate(ctx, history, message)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("chat completion failed")
			return "", ErrChat.Err(err)
		}
		reply = generated
	}

	if err := svc.store.AddChatMessage(ctx, &store.ChatMessage{
		UserID:  userID,
		Role:    "assistant",
		Content: reply,
	}); err != nil {
		return "", err
	}
	return reply, nil
}

// History returns the most recent conversation turns in chronological order.
func (svc *Service) History(ctx context.Context, userID uuid.UUID) ([]*store.ChatMessage, error) {
	return svc.store.ListChatMessages(ctx, userID, config.Config().Chat.HistoryLimit)
}

func (svc *Service) generate(ctx context.Context, history []*store.ChatMessage, message string) (string, error) {
	chatCfg := config.Config().Chat

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(chatCfg.SystemPrompt),
	}
	for _, m := range history {
		switch m.Role {
		case "user":
			messages = append(messages, openai.UserMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(message))

	completion, err := svc.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    chatCfg.Model,
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", ErrChat.Msg("empty completion")
	}
	return completion.Choices[0].Message.Content, nil
}
