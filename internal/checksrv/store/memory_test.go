package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, s Store) *User {
	t.Helper()
	company := &Company{Name: "テスト株式会社", PlanType: "free"}
	require.NoError(t, s.CreateCompany(context.Background(), company))
	u := &User{
		CompanyID:      company.ID,
		Email:          "employee@example.com",
		HashedPassword: "x",
		Role:           RoleEmployee,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	u := newTestUser(t, s)

	dup := &User{CompanyID: u.CompanyID, Email: "Employee@Example.com", HashedPassword: "y", Role: RoleEmployee}
	err := s.CreateUser(context.Background(), dup)
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStressCheckPeriodUniqueness(t *testing.T) {
	s := NewMemoryStore()
	u := newTestUser(t, s)
	ctx := context.Background()
	period := PeriodFor(time.Now())

	first := &StressCheck{UserID: u.ID, Period: period, Answers: map[string]int{"q1": 2}, TotalScore: 2}
	require.NoError(t, s.CreateStressCheck(ctx, first))

	second := &StressCheck{UserID: u.ID, Period: period, Answers: map[string]int{"q1": 3}, TotalScore: 3}
	require.ErrorIs(t, s.CreateStressCheck(ctx, second), ErrAlreadyExists)

	taken, err := s.HasStressCheckForPeriod(ctx, u.ID, period)
	require.NoError(t, err)
	assert.True(t, taken)

	last, found, err := s.LastStressCheckPeriod(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, last.Equal(period))
}

func TestDraftRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	u := newTestUser(t, s)
	ctx := context.Background()

	_, err := s.GetDraft(ctx, u.ID)
	require.ErrorIs(t, err, ErrNotFound)

	saved, err := s.SaveDraft(ctx, u.ID, map[string]int{"q1": 2, "q2": 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"q1": 2, "q2": 3}, saved.Answers)

	got, err := s.GetDraft(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"q1": 2, "q2": 3}, got.Answers)

	// Overwrite, then delete.
	_, err = s.SaveDraft(ctx, u.ID, map[string]int{"q1": 4})
	require.NoError(t, err)
	got, err = s.GetDraft(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"q1": 4}, got.Answers)

	require.NoError(t, s.DeleteDraft(ctx, u.ID))
	_, err = s.GetDraft(ctx, u.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryOrderedByPeriodDesc(t *testing.T) {
	s := NewMemoryStore()
	u := newTestUser(t, s)
	ctx := context.Background()

	for _, month := range []time.Month{time.January, time.March, time.February} {
		sc := &StressCheck{
			UserID:  u.ID,
			Period:  time.Date(2026, month, 1, 0, 0, 0, 0, time.UTC),
			Answers: map[string]int{"q1": 1},
		}
		require.NoError(t, s.CreateStressCheck(ctx, sc))
	}

	checks, err := s.ListStressChecksByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, checks, 3)
	assert.Equal(t, time.March, checks[0].Period.Month())
	assert.Equal(t, time.February, checks[1].Period.Month())
	assert.Equal(t, time.January, checks[2].Period.Month())
}

func TestDepartmentCRUD(t *testing.T) {
	s := NewMemoryStore()
	u := newTestUser(t, s)
	ctx := context.Background()

	d := &Department{CompanyID: u.CompanyID, Name: "開発部"}
	require.NoError(t, s.CreateDepartment(ctx, d))
	require.ErrorIs(t, s.CreateDepartment(ctx, &Department{CompanyID: u.CompanyID, Name: "開発部"}), ErrAlreadyExists)

	d.Name = "研究開発部"
	require.NoError(t, s.UpdateDepartment(ctx, d))

	list, err := s.ListDepartments(ctx, u.CompanyID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "研究開発部", list[0].Name)

	require.NoError(t, s.DeleteDepartment(ctx, u.CompanyID, d.ID))
	require.ErrorIs(t, s.DeleteDepartment(ctx, u.CompanyID, d.ID), ErrNotFound)

	// Departments are tenant-scoped.
	require.ErrorIs(t, s.DeleteDepartment(ctx, uuid.New(), d.ID), ErrNotFound)
}

func TestPeriodFor(t *testing.T) {
	p := PeriodFor(time.Date(2026, 9, 17, 13, 45, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), p)
}
