package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	pkgerr "github.com/pkg/errors"
)

const pgUniqueViolation = "23505"

// Schema is the DDL for the check service tables. EnsureSchema applies it;
// every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS companies (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	industry   TEXT NOT NULL DEFAULT '',
	plan_type  TEXT NOT NULL DEFAULT 'free'
);

CREATE TABLE IF NOT EXISTS departments (
	id         UUID PRIMARY KEY,
	company_id UUID NOT NULL REFERENCES companies(id),
	name       TEXT NOT NULL,
	UNIQUE (company_id, name)
);

CREATE TABLE IF NOT EXISTS users (
	id              UUID PRIMARY KEY,
	company_id      UUID NOT NULL REFERENCES companies(id),
	department_id   UUID,
	email           TEXT NOT NULL UNIQUE,
	name            TEXT NOT NULL DEFAULT '',
	employee_id     TEXT NOT NULL DEFAULT '',
	hashed_password TEXT NOT NULL,
	role            TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS stress_checks (
	id             UUID PRIMARY KEY,
	user_id        UUID NOT NULL REFERENCES users(id),
	period         DATE NOT NULL,
	answers        JSONB NOT NULL,
	total_score    DOUBLE PRECISION NOT NULL,
	is_high_stress BOOLEAN NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, period)
);

CREATE TABLE IF NOT EXISTS draft_answers (
	user_id    UUID PRIMARY KEY REFERENCES users(id),
	answers    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id         UUID PRIMARY KEY,
	user_id    UUID NOT NULL REFERENCES users(id),
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// postgresStore implements Store on a pgx connection pool.
type postgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*postgresStore)(nil)

// NewPostgresStore wraps an existing pool. The caller owns the pool lifetime.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

// EnsureSchema creates the check service tables if they do not exist.
// Statements run one at a time; pgx's extended protocol rejects
// multi-statement strings.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range strings.Split(Schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return pkgerr.Wrap(err, "apply schema")
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (s *postgresStore) CreateCompany(ctx context.Context, c *Company) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO companies (id, name, industry, plan_type) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Industry, c.PlanType)
	return pkgerr.Wrap(err, "create company")
}

func (s *postgresStore) GetCompany(ctx context.Context, id uuid.UUID) (*Company, error) {
	c := &Company{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, industry, plan_type FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Industry, &c.PlanType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound.Msg("company not found")
	}
	if err != nil {
		return nil, pkgerr.Wrap(err, "get company")
	}
	return c, nil
}

func (s *postgresStore) CreateUser(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	var deptID any
	if u.DepartmentID != uuid.Nil {
		deptID = u.DepartmentID
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, company_id, department_id, email, name, employee_id, hashed_password, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.CompanyID, deptID, normalizeEmail(u.Email), u.Name, u.EmployeeID, u.HashedPassword, string(u.Role), u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists.Msg("email already registered")
	}
	return pkgerr.Wrap(err, "create user")
}

func (s *postgresStore) scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	var deptID *uuid.UUID
	var role string
	err := row.Scan(&u.ID, &u.CompanyID, &deptID, &u.Email, &u.Name, &u.EmployeeID, &u.HashedPassword, &role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound.Msg("user not found")
	}
	if err != nil {
		return nil, pkgerr.Wrap(err, "scan user")
	}
	if deptID != nil {
		u.DepartmentID = *deptID
	}
	u.Role = Role(role)
	return u, nil
}

const userColumns = `id, company_id, department_id, email, name, employee_id, hashed_password, role, created_at`

func (s *postgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))
}

func (s *postgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *postgresStore) ListUsersByCompany(ctx context.Context, companyID uuid.UUID) ([]*User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE company_id = $1 ORDER BY email`, companyID)
	if err != nil {
		return nil, pkgerr.Wrap(err, "list users")
	}
	defer rows.Close()
	var out []*User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, pkgerr.Wrap(rows.Err(), "list users")
}

func (s *postgresStore) CreateDepartment(ctx context.Context, d *Department) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO departments (id, company_id, name) VALUES ($1, $2, $3)`,
		d.ID, d.CompanyID, d.Name)
	if isUniqueViolation(err) {
		return ErrAlreadyExists.Msg("department already exists")
	}
	return pkgerr.Wrap(err, "create department")
}

func (s *postgresStore) GetDepartmentByName(ctx context.Context, companyID uuid.UUID, name string) (*Department, error) {
	d := &Department{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, company_id, name FROM departments WHERE company_id = $1 AND name = $2`,
		companyID, name).Scan(&d.ID, &d.CompanyID, &d.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound.Msg("department not found")
	}
	if err != nil {
		return nil, pkgerr.Wrap(err, "get department")
	}
	return d, nil
}

func (s *postgresStore) ListDepartments(ctx context.Context, companyID uuid.UUID) ([]*Department, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, company_id, name FROM departments WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, pkgerr.Wrap(err, "list departments")
	}
	defer rows.Close()
	var out []*Department
	for rows.Next() {
		d := &Department{}
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name); err != nil {
			return nil, pkgerr.Wrap(err, "scan department")
		}
		out = append(out, d)
	}
	return out, pkgerr.Wrap(rows.Err(), "list departments")
}

func (s *postgresStore) UpdateDepartment(ctx context.Context, d *Department) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE departments SET name = $1 WHERE id = $2 AND company_id = $3`,
		d.Name, d.ID, d.CompanyID)
	if err != nil {
		return pkgerr.Wrap(err, "update department")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound.Msg("department not found")
	}
	return nil
}

func (s *postgresStore) DeleteDepartment(ctx context.Context, companyID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM departments WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return pkgerr.Wrap(err, "delete department")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound.Msg("department not found")
	}
	return nil
}

func (s *postgresStore) CountDepartmentMembers(ctx context.Context, departmentID uuid.UUID) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE department_id = $1`, departmentID).Scan(&count)
	return count, pkgerr.Wrap(err, "count department members")
}

func (s *postgresStore) CreateStressCheck(ctx context.Context, sc *StressCheck) error {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}
	answers, err := json.Marshal(sc.Answers)
	if err != nil {
		return pkgerr.Wrap(err, "marshal answers")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO stress_checks (id, user_id, period, answers, total_score, is_high_stress, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sc.ID, sc.UserID, sc.Period, answers, sc.TotalScore, sc.IsHighStress, sc.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists.Msg("stress check already submitted for period")
	}
	return pkgerr.Wrap(err, "create stress check")
}

func (s *postgresStore) scanStressCheck(row pgx.Row) (*StressCheck, error) {
	sc := &StressCheck{}
	var answers []byte
	err := row.Scan(&sc.ID, &sc.UserID, &sc.Period, &answers, &sc.TotalScore, &sc.IsHighStress, &sc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound.Msg("stress check not found")
	}
	if err != nil {
		return nil, pkgerr.Wrap(err, "scan stress check")
	}
	if err := json.Unmarshal(answers, &sc.Answers); err != nil {
		return nil, pkgerr.Wrap(err, "unmarshal answers")
	}
	return sc, nil
}

const checkColumns = `id, user_id, period, answers, total_score, is_high_stress, created_at`

func (s *postgresStore) GetStressCheck(ctx context.Context, userID, id uuid.UUID) (*StressCheck, error) {
	return s.scanStressCheck(s.pool.QueryRow(ctx,
		`SELECT `+checkColumns+` FROM stress_checks WHERE id = $1 AND user_id = $2`, id, userID))
}

func (s *postgresStore) ListStressChecksByUser(ctx context.Context, userID uuid.UUID) ([]*StressCheck, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+checkColumns+` FROM stress_checks WHERE user_id = $1 ORDER BY period DESC`, userID)
	if err != nil {
		return nil, pkgerr.Wrap(err, "list stress checks")
	}
	defer rows.Close()
	var out []*StressCheck
	for rows.Next() {
		sc, err := s.scanStressCheck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, pkgerr.Wrap(rows.Err(), "list stress checks")
}

func (s *postgresStore) HasStressCheckForPeriod(ctx context.Context, userID uuid.UUID, period time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stress_checks WHERE user_id = $1 AND period = $2)`,
		userID, period).Scan(&exists)
	return exists, pkgerr.Wrap(err, "check period")
}

func (s *postgresStore) LastStressCheckPeriod(ctx context.Context, userID uuid.UUID) (time.Time, bool, error) {
	var period time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT period FROM stress_checks WHERE user_id = $1 ORDER BY period DESC LIMIT 1`,
		userID).Scan(&period)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, pkgerr.Wrap(err, "last period")
	}
	return period, true, nil
}

func (s *postgresStore) GetDraft(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	d := &Draft{}
	var answers []byte
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, answers, updated_at FROM draft_answers WHERE user_id = $1`, userID).
		Scan(&d.UserID, &answers, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound.Msg("draft not found")
	}
	if err != nil {
		return nil, pkgerr.Wrap(err, "get draft")
	}
	if err := json.Unmarshal(answers, &d.Answers); err != nil {
		return nil, pkgerr.Wrap(err, "unmarshal draft answers")
	}
	return d, nil
}

func (s *postgresStore) SaveDraft(ctx context.Context, userID uuid.UUID, answers map[string]int) (*Draft, error) {
	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, pkgerr.Wrap(err, "marshal draft answers")
	}
	now := time.Now().UTC()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO draft_answers (user_id, answers, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET answers = EXCLUDED.answers, updated_at = EXCLUDED.updated_at`,
		userID, raw, now)
	if err != nil {
		return nil, pkgerr.Wrap(err, "save draft")
	}
	return &Draft{UserID: userID, Answers: copyAnswers(answers), UpdatedAt: now}, nil
}

func (s *postgresStore) DeleteDraft(ctx context.Context, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM draft_answers WHERE user_id = $1`, userID)
	return pkgerr.Wrap(err, "delete draft")
}

func (s *postgresStore) AddChatMessage(ctx context.Context, m *ChatMessage) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_messages (id, user_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.Role, m.Content, m.CreatedAt)
	return pkgerr.Wrap(err, "add chat message")
}

func (s *postgresStore) ListChatMessages(ctx context.Context, userID uuid.UUID, limit int) ([]*ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, role, content, created_at FROM
		   (SELECT id, user_id, role, content, created_at FROM chat_messages
		    WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2) recent
		 ORDER BY created_at ASC`, userID, limit)
	if err != nil {
		return nil, pkgerr.Wrap(err, "list chat messages")
	}
	defer rows.Close()
	var out []*ChatMessage
	for rows.Next() {
		m := &ChatMessage{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, pkgerr.Wrap(err, "scan chat message")
		}
		out = append(out, m)
	}
	return out, pkgerr.Wrap(rows.Err(), "list chat messages")
}
