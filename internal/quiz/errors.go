package quiz

import "errors"

var (
	ErrValidation     = errors.New("invalid input")
	ErrNotFound       = errors.New("question not found")
	ErrNoQuestions    = errors.New("no questions for category")
	ErrAuthentication = errors.New("incorrect password")

	ErrBadTransition = errors.New("action not allowed in current state")
	ErrNoSession     = errors.New("no quiz in progress")
	ErrAnswerPending = errors.New("answer feedback in progress")
	ErrQuizFinished  = errors.New("quiz already finished")
)
