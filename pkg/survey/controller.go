// Package survey is the stress-check session controller: it owns the answer
// set for one in-progress questionnaire attempt, autosaves drafts on a
// trailing-edge debounce, tracks section navigation, and gates the final
// submission on completeness. Network I/O goes through a Backend, normally
// the typed client.
package survey

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kokoro-care/kokoro/pkg/api"
	"github.com/kokoro-care/kokoro/pkg/client"
)

// QuestionCount is the number of items a complete submission must answer.
const QuestionCount = 57

// AnswerMin and AnswerMax bound a single item response. SetAnswer clamps
// into this range; Submit re-validates it.
const (
	AnswerMin = 1
	AnswerMax = 4
)

// DefaultDebounceInterval is the trailing-edge autosave delay.
const DefaultDebounceInterval = time.Second

// Backend is the slice of the API the controller needs. *client.Client
// implements it.
type Backend interface {
	FetchQuestions() (*api.QuestionsResponse, error)
	FetchDraft() (map[string]int, error)
	SaveDraft(answers map[string]int) error
	Submit(answers map[string]int) (*api.CheckResult, error)
}

var _ Backend = (*client.Client)(nil)

// State is the controller's position in the attempt lifecycle.
type State string

const (
	StateLoading      State = "loading"
	StateEditing      State = "editing"
	StateAlreadyTaken State = "already_taken"
	StateSubmitted    State = "submitted"
)

// Controller manages one questionnaire attempt.
type Controller struct {
	backend  Backend
	sections []Section
	debounce time.Duration

	mu        sync.Mutex
	state     State
	questions []api.Question
	answers   map[string]int
	section   int
	message   string
	result    *api.CheckResult
	timer     *time.Timer
	closed    bool

	// saveMu serializes draft writes so a firing autosave never races a
	// manual save or the submit-time cancellation.
	saveMu sync.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounceInterval overrides the autosave debounce delay.
func WithDebounceInterval(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithSections overrides the section partition table. The table must tile
// the question list exactly.
func WithSections(sections []Section) Option {
	return func(c *Controller) { c.sections = sections }
}

// NewController creates a controller in the Loading state. Call Load to
// fetch the questionnaire.
func NewController(backend Backend, opts ...Option) (*Controller, error) {
	c := &Controller{
		backend:  backend,
		sections: DefaultSections(),
		debounce: DefaultDebounceInterval,
		state:    StateLoading,
		answers:  map[string]int{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := ValidateSections(c.sections, QuestionCount); err != nil {
		return nil, err
	}
	return c, nil
}

// Load fetches the questions and any existing draft, then enters Editing.
// When the server reports the period as already submitted the controller
// enters AlreadyTaken instead and exposes the server's message.
func (c *Controller) Load() error {
	questions, err := c.backend.FetchQuestions()
	if err != nil {
		return err
	}
	if questions.AlreadyTaken {
		c.mu.Lock()
		c.state = StateAlreadyTaken
		c.questions = questions.Questions
		c.message = questions.Message
		c.mu.Unlock()
		return nil
	}

	draft, err := c.backend.FetchDraft()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateEditing
	c.questions = questions.Questions
	c.answers = map[string]int{}
	for id, v := range draft {
		c.answers[id] = clamp(v)
	}
	c.mu.Unlock()
	return nil
}

// SetAnswer records one answer, clamping the value into the accepted range,
// and schedules a debounced draft save. Each call resets the pending timer;
// only the answer set as of the last edit is persisted once the user pauses.
func (c *Controller) SetAnswer(questionID string, value int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateEditing {
		return c.stateError()
	}
	c.answers[questionID] = clamp(value)
	c.scheduleSaveLocked()
	return nil
}

// scheduleSaveLocked arms the trailing-edge debounce timer, cancelling any
// pending one first. Caller holds c.mu.
func (c *Controller) scheduleSaveLocked() {
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.autosave)
}

// autosave persists the current answer set. Failures are swallowed so a
// flaky connection never interrupts the user mid-questionnaire.
func (c *Controller) autosave() {
	c.mu.Lock()
	if c.state != StateEditing || c.closed || len(c.answers) == 0 {
		c.mu.Unlock()
		return
	}
	snapshot := c.copyAnswersLocked()
	c.mu.Unlock()

	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	// A submission may have completed while this save waited on saveMu;
	// writing now would resurrect the draft the server just deleted.
	if !c.stillEditing() {
		return
	}
	if err := c.backend.SaveDraft(snapshot); err != nil {
		log.Debug().Err(err).Msg("draft autosave failed")
	}
}

// stillEditing reports whether the controller remains in the Editing state
// and open. Checked again under saveMu before any draft write.
func (c *Controller) stillEditing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateEditing && !c.closed
}

// SaveDraftNow cancels any pending debounce and persists the current answer
// set immediately. Unlike the automatic path, failures surface to the caller.
// An empty answer set is a no-op.
func (c *Controller) SaveDraftNow() error {
	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return c.stateErrorUnlocked()
	}
	c.cancelTimerLocked()
	if len(c.answers) == 0 {
		c.mu.Unlock()
		return nil
	}
	snapshot := c.copyAnswersLocked()
	c.mu.Unlock()

	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if !c.stillEditing() {
		return c.stateErrorUnlocked()
	}
	return c.backend.SaveDraft(snapshot)
}

// Submit validates the answer set locally, cancels any pending autosave, and
// finalizes the questionnaire. Local validation failures issue zero network
// calls. A server-side duplicate-period rejection moves the controller to
// AlreadyTaken; transport failures leave it in Editing for a retry.
func (c *Controller) Submit() (*api.CheckResult, error) {
	c.mu.Lock()
	if c.state == StateAlreadyTaken {
		c.mu.Unlock()
		return nil, ErrAlreadyTaken
	}
	if c.state != StateEditing {
		c.mu.Unlock()
		return nil, c.stateErrorUnlocked()
	}
	if len(c.answers) != QuestionCount {
		count := len(c.answers)
		c.mu.Unlock()
		return nil, &IncompleteAnswersError{Count: count}
	}
	for id, v := range c.answers {
		if v < AnswerMin || v > AnswerMax {
			c.mu.Unlock()
			return nil, &InvalidAnswerValueError{QuestionID: id}
		}
	}
	// A pending autosave firing after submission would resurrect the draft
	// server-side; cancel it before going to the network.
	c.cancelTimerLocked()
	snapshot := c.copyAnswersLocked()
	c.mu.Unlock()

	// Holding saveMu keeps an already-firing autosave from racing the
	// submission. The state transition happens before saveMu is released so
	// a queued autosave re-checking the state can never observe Editing
	// after the server accepted the submission.
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	result, err := c.backend.Submit(snapshot)
	if err != nil {
		var rejected *client.ServerRejectedError
		if errors.As(err, &rejected) {
			c.mu.Lock()
			c.state = StateAlreadyTaken
			c.message = rejected.Detail
			c.mu.Unlock()
			return nil, ErrAlreadyTaken
		}
		return nil, err
	}

	c.mu.Lock()
	c.state = StateSubmitted
	c.result = result
	c.mu.Unlock()
	return result, nil
}

// GoToSection moves the section cursor. Pure bookkeeping; never touches the
// network.
func (c *Controller) GoToSection(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.sections) {
		return errors.New("section index out of range")
	}
	c.section = index
	return nil
}

// Close cancels any pending autosave. Call when navigating away from the
// questionnaire; in-flight saves are not aborted, they simply complete
// unobserved.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.cancelTimerLocked()
}

// State returns the controller's lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Questions returns the fetched questionnaire.
func (c *Controller) Questions() []api.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Answers returns a copy of the current answer set.
func (c *Controller) Answers() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyAnswersLocked()
}

// Section returns the current section cursor.
func (c *Controller) Section() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.section
}

// Sections returns the section partition table.
func (c *Controller) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Message returns the informational message attached to the AlreadyTaken
// state, empty otherwise.
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Result returns the submission result once in the Submitted state.
func (c *Controller) Result() *api.CheckResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

func (c *Controller) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) copyAnswersLocked() map[string]int {
	out := make(map[string]int, len(c.answers))
	for id, v := range c.answers {
		out[id] = v
	}
	return out
}

func (c *Controller) stateError() error {
	return &notEditingError{state: c.state}
}

func (c *Controller) stateErrorUnlocked() error {
	return &notEditingError{state: c.State()}
}

func clamp(v int) int {
	if v < AnswerMin {
		return AnswerMin
	}
	if v > AnswerMax {
		return AnswerMax
	}
	return v
}
