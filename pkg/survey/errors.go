package survey

import "fmt"

// IncompleteAnswersError is the local submission gate for an answer set
// whose size is not exactly QuestionCount. It never reaches the network.
type IncompleteAnswersError struct {
	Count int
}

func (e *IncompleteAnswersError) Error() string {
	return fmt.Sprintf("全ての質問に回答してください (%d/%d)", e.Count, QuestionCount)
}

// InvalidAnswerValueError is the local submission gate for an out-of-range
// answer value. It never reaches the network.
type InvalidAnswerValueError struct {
	QuestionID string
}

func (e *InvalidAnswerValueError) Error() string {
	return fmt.Sprintf("有効な回答を選択してください: %s", e.QuestionID)
}

// ErrAlreadyTaken indicates the current period was already submitted; the
// attempt is terminal and a new one requires a new period.
type alreadyTakenError struct{}

func (e *alreadyTakenError) Error() string {
	return "この期間は既に受検済みです。受検できません。"
}

// ErrAlreadyTaken is returned by operations invoked after the controller
// entered the AlreadyTaken state.
var ErrAlreadyTaken = &alreadyTakenError{}

// ErrNotEditing is returned by operations that require the Editing state.
type notEditingError struct {
	state State
}

func (e *notEditingError) Error() string {
	return fmt.Sprintf("operation requires the editing state, controller is %s", e.state)
}
