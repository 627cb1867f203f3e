package client

import (
	"encoding/json"
	"net/http"

	"github.com/kokoro-care/kokoro/pkg/api"
)

// SendChatMessage sends one message to the wellbeing assistant and returns
// its reply.
func (c *Client) SendChatMessage(message string) (string, error) {
	body, err := json.Marshal(api.ChatRequest{Message: message})
	if err != nil {
		return "", err
	}
	rspBody, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodPost,
		Path:   "/chat",
		Body:   body,
	})
	if err != nil {
		return "", err
	}
	var rsp api.ChatResponse
	if err := json.Unmarshal(rspBody, &rsp); err != nil {
		return "", err
	}
	return rsp.Reply, nil
}

// ChatHistory returns the persisted conversation in chronological order.
func (c *Client) ChatHistory() ([]api.ChatMessage, error) {
	body, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "/chat/history",
	})
	if err != nil {
		return nil, err
	}
	var messages []api.ChatMessage
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
