package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kokoro-care/kokoro/internal/checksrv/auth"
	"github.com/kokoro-care/kokoro/internal/checksrv/store"
	"github.com/kokoro-care/kokoro/internal/checksrv/survey"
	"github.com/kokoro-care/kokoro/internal/common/httpx"
	"github.com/kokoro-care/kokoro/pkg/api"
)

const (
	msgAlreadyTaken      = "この期間は既に受検済みです。受検できません。"
	msgIncompleteAnswers = "全ての質問に回答してください"
)

const (
	periodLayout = "2006-01"
	dateLayout   = "2006-01-02"
)

// questionsHandler returns the questionnaire. When the caller already
// submitted for the current period the response carries the already_taken
// flag so clients can lock the form.
func (s *CheckServer) questionsHandler(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	userID := auth.CurrentUserID(ctx)

	rsp := api.QuestionsResponse{Questions: survey.Questions()}
	taken, err := s.store.HasStressCheckForPeriod(ctx, userID, store.PeriodFor(time.Now()))
	if err != nil {
		return nil, err
	}
	if taken {
		rsp.AlreadyTaken = true
		rsp.Message = msgAlreadyTaken
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

// getDraftHandler returns the saved draft, or an empty answer set when the
// user has none.
func (s *CheckServer) getDraftHandler(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	draft, err := s.store.GetDraft(ctx, auth.CurrentUserID(ctx))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &httpx.Response{
				StatusCode: http.StatusOK,
				Response:   api.DraftResponse{Answers: map[string]int{}},
			}, nil
		}
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: api.DraftResponse{
			Answers:   draft.Answers,
			UpdatedAt: draft.UpdatedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

// saveDraftHandler upserts the caller's draft. Drafts may be partial but
// every present value must be in range.
func (s *CheckServer) saveDraftHandler(r *http.Request) (*httpx.Response, error) {
	req := &api.DraftRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := survey.ValidateAnswers(req.Answers); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	ctx := r.Context()
	draft, err := s.store.SaveDraft(ctx, auth.CurrentUserID(ctx), req.Answers)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: api.DraftResponse{
			Answers:   draft.Answers,
			UpdatedAt: draft.UpdatedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

// migrateDraftHandler adopts a draft the client kept locally before it was
// authenticated. A non-empty draft already on the server wins; the uploaded
// answers are only stored when the server has nothing.
func (s *CheckServer) migrateDraftHandler(r *http.Request) (*httpx.Response, error) {
	req := &api.DraftRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := survey.ValidateAnswers(req.Answers); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	ctx := r.Context()
	userID := auth.CurrentUserID(ctx)

	existing, err := s.store.GetDraft(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if existing != nil && len(existing.Answers) > 0 {
		return &httpx.Response{
			StatusCode: http.StatusOK,
			Response: api.DraftResponse{
				Answers:   existing.Answers,
				UpdatedAt: existing.UpdatedAt.UTC().Format(time.RFC3339),
			},
		}, nil
	}

	draft, err := s.store.SaveDraft(ctx, userID, req.Answers)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: api.DraftResponse{
			Answers:   draft.Answers,
			UpdatedAt: draft.UpdatedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

func (s *CheckServer) deleteDraftHandler(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	if err := s.store.DeleteDraft(ctx, auth.CurrentUserID(ctx)); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.MessageResponse{Message: "下書きを削除しました"},
	}, nil
}

// submitHandler finalizes a questionnaire. The answer set must be complete
// and in range; at most one submission exists per (user, period). A
// successful submission removes any saved draft.
func (s *CheckServer) submitHandler(r *http.Request) (*httpx.Response, error) {
	req := &api.SubmitRequest{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if len(req.Answers) != survey.QuestionCount {
		return nil, httpx.ErrInvalidRequest(msgIncompleteAnswers)
	}
	if err := survey.ValidateAnswers(req.Answers); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	ctx := r.Context()
	userID := auth.CurrentUserID(ctx)
	period := store.PeriodFor(time.Now())

	scores := survey.Calculate(req.Answers)
	check := &store.StressCheck{
		ID:           uuid.New(),
		UserID:       userID,
		Period:       period,
		Answers:      req.Answers,
		TotalScore:   scores.Total,
		IsHighStress: scores.IsHighStress(),
	}
	if err := s.store.CreateStressCheck(ctx, check); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, httpx.ErrInvalidRequest(msgAlreadyTaken)
		}
		return nil, err
	}
	if err := s.store.DeleteDraft(ctx, userID); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Ctx(ctx).Warn().Err(err).Msg("draft cleanup after submit failed")
	}
	log.Ctx(ctx).Info().
		Str("period", period.Format(periodLayout)).
		Bool("high_stress", check.IsHighStress).
		Msg("stress check submitted")

	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/api/v1/stress-check/result/" + check.ID.String(),
		Response:   checkResultRsp(check, scores),
	}, nil
}

func (s *CheckServer) resultHandler(r *http.Request) (*httpx.Response, error) {
	checkID, err := uuid.Parse(chi.URLParam(r, "checkID"))
	if err != nil {
		return nil, httpx.ErrNotFound("受検結果が見つかりません")
	}

	ctx := r.Context()
	check, err := s.store.GetStressCheck(ctx, auth.CurrentUserID(ctx), checkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, httpx.ErrNotFound("受検結果が見つかりません")
		}
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   checkResultRsp(check, survey.Calculate(check.Answers)),
	}, nil
}

func (s *CheckServer) historyHandler(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	checks, err := s.store.ListStressChecksByUser(ctx, auth.CurrentUserID(ctx))
	if err != nil {
		return nil, err
	}
	items := make([]api.HistoryItem, 0, len(checks))
	for _, c := range checks {
		items = append(items, api.HistoryItem{
			ID:           c.ID.String(),
			Period:       c.Period.Format(periodLayout),
			TotalScore:   c.TotalScore,
			IsHighStress: c.IsHighStress,
		})
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   items,
	}, nil
}

// nonTakenHandler lists company members without a submission for the current
// period, with each member's most recent past submission. Admin only. The
// deadline defaults to the last day of the current month.
func (s *CheckServer) nonTakenHandler(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	admin := auth.CurrentUser(ctx)
	period := store.PeriodFor(time.Now())
	deadline := period.AddDate(0, 1, -1)
	if v := r.URL.Query().Get("deadline"); v != "" {
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, httpx.ErrInvalidRequest("期限の形式が正しくありません")
		}
		deadline = parsed
	}

	users, err := s.store.ListUsersByCompany(ctx, admin.CompanyID)
	if err != nil {
		return nil, err
	}

	departments := map[uuid.UUID]string{}
	if deps, err := s.store.ListDepartments(ctx, admin.CompanyID); err == nil {
		for _, d := range deps {
			departments[d.ID] = d.Name
		}
	}

	rsp := api.UntakenResponse{
		Period:     period.Format(periodLayout),
		Deadline:   deadline.Format(dateLayout),
		Users:      []api.UntakenUser{},
		TotalCount: len(users),
	}
	for _, u := range users {
		taken, err := s.store.HasStressCheckForPeriod(ctx, u.ID, period)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		entry := api.UntakenUser{
			ID:         u.ID.String(),
			Name:       u.Name,
			Email:      u.Email,
			Department: departments[u.DepartmentID],
		}
		if last, ok, err := s.store.LastStressCheckPeriod(ctx, u.ID); err != nil {
			return nil, err
		} else if ok {
			entry.LastCheckDate = last.Format(dateLayout)
		}
		rsp.Users = append(rsp.Users, entry)
	}
	rsp.NonTakenCount = len(rsp.Users)
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func checkResultRsp(check *store.StressCheck, scores survey.Scores) api.CheckResult {
	return api.CheckResult{
		ID:                  check.ID.String(),
		Period:              check.Period.Format(periodLayout),
		TotalScore:          scores.Total,
		IsHighStress:        check.IsHighStress,
		JobStressScore:      scores.JobStress,
		StressReactionScore: scores.StressReaction,
		SupportScore:        scores.Support,
		SatisfactionScore:   scores.Satisfaction,
	}
}
