// Package api defines the wire types shared by the kokoro server and its
// clients. Field names and shapes are API contract; changing them breaks
// deployed consumers.
package api

// AuthUser is the authenticated user identity returned by auth endpoints.
type AuthUser struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name,omitempty"`
}

// AuthResponse is the body returned by login, register and refresh.
// Credentials travel as httpOnly cookies, never in the body.
type AuthResponse struct {
	User AuthUser `json:"user"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a company together with its first admin user.
type RegisterRequest struct {
	CompanyName     string `json:"company_name" validate:"required"`
	Industry        string `json:"industry"`
	PlanType        string `json:"plan_type"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// Question is one stress-check questionnaire item. Immutable once fetched.
type Question struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

// QuestionsResponse carries the full questionnaire. AlreadyTaken is set when
// the caller has already submitted for the current period; Message then holds
// the user-facing explanation.
type QuestionsResponse struct {
	Questions    []Question `json:"questions"`
	AlreadyTaken bool       `json:"already_taken,omitempty"`
	Message      string     `json:"message,omitempty"`
}

// DraftRequest saves a partially-completed answer set. Values are 1-4.
type DraftRequest struct {
	Answers map[string]int `json:"answers" validate:"required"`
}

// DraftResponse is the server-persisted draft for the current (user, period).
type DraftResponse struct {
	Answers   map[string]int `json:"answers"`
	UpdatedAt string         `json:"updated_at,omitempty"`
}

// SubmitRequest is the final questionnaire submission: 57 entries, each 1-4.
type SubmitRequest struct {
	Answers map[string]int `json:"answers" validate:"required"`
}

// CheckResult is a completed stress-check submission. Created once per
// (user, period) and immutable thereafter.
type CheckResult struct {
	ID                  string  `json:"id"`
	Period              string  `json:"period"`
	TotalScore          float64 `json:"total_score"`
	IsHighStress        bool    `json:"is_high_stress"`
	JobStressScore      float64 `json:"job_stress_score"`
	StressReactionScore float64 `json:"stress_reaction_score"`
	SupportScore        float64 `json:"support_score"`
	SatisfactionScore   float64 `json:"satisfaction_score"`
}

// HistoryItem is one entry of a user's submission history.
type HistoryItem struct {
	ID           string  `json:"id"`
	Period       string  `json:"period"`
	TotalScore   float64 `json:"total_score"`
	IsHighStress bool    `json:"is_high_stress"`
}

// Department is an organizational unit used for dashboards and CSV import.
type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
}

// DepartmentRequest creates or renames a department.
type DepartmentRequest struct {
	Name string `json:"name" validate:"required"`
}

// UntakenUser is an employee who has not submitted for the current period.
// LastCheckDate is the period of their most recent past submission, empty
// when they have never taken a check.
type UntakenUser struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Department    string `json:"department,omitempty"`
	LastCheckDate string `json:"last_check_date,omitempty"`
}

// UntakenResponse lists employees without a submission for the period.
type UntakenResponse struct {
	Period        string        `json:"period"`
	Deadline      string        `json:"deadline"`
	Users         []UntakenUser `json:"users"`
	TotalCount    int           `json:"total_count"`
	NonTakenCount int           `json:"non_taken_count"`
}

// CSVRowError describes one rejected CSV row.
type CSVRowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// CSVPreviewRow is one parsed row shown before a bulk import is committed.
type CSVPreviewRow struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	Department string `json:"department"`
	Duplicate  bool   `json:"duplicate"`
}

// CSVPreviewResponse reports what an import would do without committing it.
type CSVPreviewResponse struct {
	Rows   []CSVPreviewRow `json:"rows"`
	Errors []CSVRowError   `json:"errors"`
}

// CSVImportResult summarizes a committed bulk user import.
type CSVImportResult struct {
	Created    int           `json:"created"`
	Skipped    int           `json:"skipped"`
	Duplicates []string      `json:"duplicates"`
	Errors     []CSVRowError `json:"errors"`
}

// ChatRequest sends one user message to the wellbeing assistant.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatMessage is one persisted chat turn.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// ChatResponse is the assistant reply to a ChatRequest.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// MessageResponse is a generic informational response.
type MessageResponse struct {
	Message string `json:"message"`
}
