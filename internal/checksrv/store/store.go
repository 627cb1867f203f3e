// Package store defines the persistence interface for the check service and
// its two implementations: an in-memory store used by tests and single-node
// development, and a PostgreSQL store used in production.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a user's permission level within their company.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Company is a tenant.
type Company struct {
	ID       uuid.UUID
	Name     string
	Industry string
	PlanType string
}

// User is an account scoped to one company.
type User struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	DepartmentID   uuid.UUID // zero when unassigned
	Email          string
	Name           string
	EmployeeID     string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
}

// Department is an organizational unit within a company.
type Department struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Name      string
}

// StressCheck is a completed submission. At most one exists per
// (user, period); the store enforces this.
type StressCheck struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Period       time.Time
	Answers      map[string]int
	TotalScore   float64
	IsHighStress bool
	CreatedAt    time.Time
}

// Draft is a partially-completed answer set, keyed by user only. The current
// period is implicit; submitting deletes the draft.
type Draft struct {
	UserID    uuid.UUID
	Answers   map[string]int
	UpdatedAt time.Time
}

// ChatMessage is one persisted chat turn for a user.
type ChatMessage struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}

// PeriodFor truncates t to the first day of its month, the backend's notion
// of a stress-check cycle.
func PeriodFor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Store is the persistence interface consumed by the check service handlers.
// Implementations return ErrNotFound and ErrAlreadyExists from this package
// so handlers can map them onto wire errors.
type Store interface {
	CreateCompany(ctx context.Context, c *Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*Company, error)

	CreateUser(ctx context.Context, u *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsersByCompany(ctx context.Context, companyID uuid.UUID) ([]*User, error)

	CreateDepartment(ctx context.Context, d *Department) error
	GetDepartmentByName(ctx context.Context, companyID uuid.UUID, name string) (*Department, error)
	ListDepartments(ctx context.Context, companyID uuid.UUID) ([]*Department, error)
	UpdateDepartment(ctx context.Context, d *Department) error
	DeleteDepartment(ctx context.Context, companyID, id uuid.UUID) error
	CountDepartmentMembers(ctx context.Context, departmentID uuid.UUID) (int, error)

	CreateStressCheck(ctx context.Context, sc *StressCheck) error
	GetStressCheck(ctx context.Context, userID, id uuid.UUID) (*StressCheck, error)
	ListStressChecksByUser(ctx context.Context, userID uuid.UUID) ([]*StressCheck, error)
	HasStressCheckForPeriod(ctx context.Context, userID uuid.UUID, period time.Time) (bool, error)
	LastStressCheckPeriod(ctx context.Context, userID uuid.UUID) (time.Time, bool, error)

	GetDraft(ctx context.Context, userID uuid.UUID) (*Draft, error)
	SaveDraft(ctx context.Context, userID uuid.UUID, answers map[string]int) (*Draft, error)
	DeleteDraft(ctx context.Context, userID uuid.UUID) error

	AddChatMessage(ctx context.Context, m *ChatMessage) error
	ListChatMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*ChatMessage, error)
}
