package client

import (
	"encoding/json"
	"net/http"

	"github.com/kokoro-care/kokoro/pkg/api"
)

// FetchQuestions returns the questionnaire together with the already-taken
// flag for the current period.
func (c *Client) FetchQuestions() (*api.QuestionsResponse, error) {
	body, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "/stress-check/questions",
	})
	if err != nil {
		return nil, err
	}
	var rsp api.QuestionsResponse
	if err := json.Unmarshal(body, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// FetchDraft returns the saved draft answers, which may be empty.
func (c *Client) FetchDraft() (map[string]int, error) {
	body, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "/stress-check/draft",
	})
	if err != nil {
		return nil, err
	}
	var rsp api.DraftResponse
	if err := json.Unmarshal(body, &rsp); err != nil {
		return nil, err
	}
	if rsp.Answers == nil {
		rsp.Answers = map[string]int{}
	}
	return rsp.Answers, nil
}

// SaveDraft persists a partial answer set for the current period.
func (c *Client) SaveDraft(answers map[string]int) error {
	body, err := json.Marshal(api.DraftRequest{Answers: answers})
	if err != nil {
		return err
	}
	_, _, err = c.DoRequest(RequestOptions{
		Method: http.MethodPost,
		Path:   "/stress-check/draft",
		Body:   body,
	})
	return err
}

// MigrateDraft offers a locally kept draft to the server. A non-empty draft
// already stored server-side wins; the returned answers are authoritative.
func (c *Client) MigrateDraft(answers map[string]int) (map[string]int, error) {
	body, err := json.Marshal(api.DraftRequest{Answers: answers})
	if err != nil {
		return nil, err
	}
	rspBody, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodPost,
		Path:   "/stress-check/draft/migrate",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var rsp api.DraftResponse
	if err := json.Unmarshal(rspBody, &rsp); err != nil {
		return nil, err
	}
	if rsp.Answers == nil {
		rsp.Answers = map[string]int{}
	}
	return rsp.Answers, nil
}

// DeleteDraft removes the saved draft.
func (c *Client) DeleteDraft() error {
	_, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodDelete,
		Path:   "/stress-check/draft",
	})
	return err
}

// Submit finalizes the questionnaire. The server enforces at-most-one
// submission per period; a duplicate fails with ServerRejectedError.
func (c *Client) Submit(answers map[string]int) (*api.CheckResult, error) {
	body, err := json.Marshal(api.SubmitRequest{Answers: answers})
	if err != nil {
		return nil, err
	}
	rspBody, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodPost,
		Path:   "/stress-check/submit",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var result api.CheckResult
	if err := json.Unmarshal(rspBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Result retrieves one submission by id.
func (c *Client) Result(id string) (*api.CheckResult, error) {
	body, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "/stress-check/result/" + id,
	})
	if err != nil {
		return nil, err
	}
	var result api.CheckResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History lists the caller's submissions, newest first.
func (c *Client) History() ([]api.HistoryItem, error) {
	body, _, err := c.DoRequest(RequestOptions{
		Method: http.MethodGet,
		Path:   "/stress-check/history",
	})
	if err != nil {
		return nil, err
	}
	var items []api.HistoryItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}
