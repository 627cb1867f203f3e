package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore is a map-backed Store. It is safe for concurrent use and keeps
// the same uniqueness guarantees as the PostgreSQL implementation.
type memoryStore struct {
	mu           sync.RWMutex
	companies    map[uuid.UUID]*Company
	users        map[uuid.UUID]*User
	usersByEmail map[string]uuid.UUID
	departments  map[uuid.UUID]*Department
	checks       map[uuid.UUID]*StressCheck
	drafts       map[uuid.UUID]*Draft
	chats        map[uuid.UUID][]*ChatMessage
}

var _ Store = (*memoryStore)(nil)

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		companies:    make(map[uuid.UUID]*Company),
		users:        make(map[uuid.UUID]*User),
		usersByEmail: make(map[string]uuid.UUID),
		departments:  make(map[uuid.UUID]*Department),
		checks:       make(map[uuid.UUID]*StressCheck),
		drafts:       make(map[uuid.UUID]*Draft),
		chats:        make(map[uuid.UUID][]*ChatMessage),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *memoryStore) CreateCompany(_ context.Context, c *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	s.companies[c.ID] = &cp
	return nil
}

func (s *memoryStore) GetCompany(_ context.Context, id uuid.UUID) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	if !ok {
		return nil, ErrNotFound.Msg("company not found")
	}
	cp := *c
	return &cp, nil
}

func (s *memoryStore) CreateUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := normalizeEmail(u.Email)
	if _, ok := s.usersByEmail[email]; ok {
		return ErrAlreadyExists.Msg("email already registered")
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	cp.Email = email
	s.users[u.ID] = &cp
	s.usersByEmail[email] = u.ID
	return nil
}

func (s *memoryStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound.Msg("user not found")
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *memoryStore) GetUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound.Msg("user not found")
	}
	cp := *u
	return &cp, nil
}

func (s *memoryStore) ListUsersByCompany(_ context.Context, companyID uuid.UUID) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, u := range s.users {
		if u.CompanyID == companyID {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *memoryStore) CreateDepartment(_ context.Context, d *Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.departments {
		if existing.CompanyID == d.CompanyID && existing.Name == d.Name {
			return ErrAlreadyExists.Msg("department already exists")
		}
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	s.departments[d.ID] = &cp
	return nil
}

func (s *memoryStore) GetDepartmentByName(_ context.Context, companyID uuid.UUID, name string) (*Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.departments {
		if d.CompanyID == companyID && d.Name == name {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound.Msg("department not found")
}

func (s *memoryStore) ListDepartments(_ context.Context, companyID uuid.UUID) ([]*Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Department
	for _, d := range s.departments {
		if d.CompanyID == companyID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) UpdateDepartment(_ context.Context, d *Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.departments[d.ID]
	if !ok || existing.CompanyID != d.CompanyID {
		return ErrNotFound.Msg("department not found")
	}
	existing.Name = d.Name
	return nil
}

func (s *memoryStore) DeleteDepartment(_ context.Context, companyID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.departments[id]
	if !ok || existing.CompanyID != companyID {
		return ErrNotFound.Msg("department not found")
	}
	delete(s.departments, id)
	return nil
}

func (s *memoryStore) CountDepartmentMembers(_ context.Context, departmentID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, u := range s.users {
		if u.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) CreateStressCheck(_ context.Context, sc *StressCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.checks {
		if existing.UserID == sc.UserID && existing.Period.Equal(sc.Period) {
			return ErrAlreadyExists.Msg("stress check already submitted for period")
		}
	}
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now().UTC()
	}
	cp := *sc
	cp.Answers = copyAnswers(sc.Answers)
	s.checks[sc.ID] = &cp
	return nil
}

func (s *memoryStore) GetStressCheck(_ context.Context, userID, id uuid.UUID) (*StressCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.checks[id]
	if !ok || sc.UserID != userID {
		return nil, ErrNotFound.Msg("stress check not found")
	}
	cp := *sc
	cp.Answers = copyAnswers(sc.Answers)
	return &cp, nil
}

func (s *memoryStore) ListStressChecksByUser(_ context.Context, userID uuid.UUID) ([]*StressCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*StressCheck
	for _, sc := range s.checks {
		if sc.UserID == userID {
			cp := *sc
			cp.Answers = copyAnswers(sc.Answers)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period.After(out[j].Period) })
	return out, nil
}

func (s *memoryStore) HasStressCheckForPeriod(_ context.Context, userID uuid.UUID, period time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.checks {
		if sc.UserID == userID && sc.Period.Equal(period) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) LastStressCheckPeriod(_ context.Context, userID uuid.UUID) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last time.Time
	found := false
	for _, sc := range s.checks {
		if sc.UserID == userID && sc.Period.After(last) {
			last = sc.Period
			found = true
		}
	}
	return last, found, nil
}

func (s *memoryStore) GetDraft(_ context.Context, userID uuid.UUID) (*Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[userID]
	if !ok {
		return nil, ErrNotFound.Msg("draft not found")
	}
	cp := *d
	cp.Answers = copyAnswers(d.Answers)
	return &cp, nil
}

func (s *memoryStore) SaveDraft(_ context.Context, userID uuid.UUID, answers map[string]int) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := &Draft{
		UserID:    userID,
		Answers:   copyAnswers(answers),
		UpdatedAt: time.Now().UTC(),
	}
	s.drafts[userID] = d
	cp := *d
	cp.Answers = copyAnswers(d.Answers)
	return &cp, nil
}

func (s *memoryStore) DeleteDraft(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}

func (s *memoryStore) AddChatMessage(_ context.Context, m *ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	cp := *m
	s.chats[m.UserID] = append(s.chats[m.UserID], &cp)
	return nil
}

func (s *memoryStore) ListChatMessages(_ context.Context, userID uuid.UUID, limit int) ([]*ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.chats[userID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]*ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func copyAnswers(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
