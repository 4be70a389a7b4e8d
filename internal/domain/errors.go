package domain

import "errors"

var (
	// ErrIdentityIncomplete is returned by the identity gate.
	ErrIdentityIncomplete = errors.New("student number, first name, and last name are required")
	// ErrMissingQuizID indicates the attempt was opened without a quiz.
	ErrMissingQuizID = errors.New("quiz id is required")
	// ErrInvalidQuizID indicates a quiz id that is not a positive integer.
	ErrInvalidQuizID = errors.New("invalid quiz id")
	// ErrAttemptClosed is returned once an attempt has been torn down.
	ErrAttemptClosed = errors.New("attempt closed")
	// ErrAlreadyStarted is returned when identity is confirmed twice.
	ErrAlreadyStarted = errors.New("attempt already started")
	// ErrNotInProgress is returned when answers or submission arrive outside an active attempt.
	ErrNotInProgress = errors.New("attempt is not in progress")
	// ErrAlreadySubmitted is returned by every submission after the first.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrQuestionNotFound indicates an answer for a question the quiz does not have.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrTimerArmed is returned when a countdown is started twice.
	ErrTimerArmed = errors.New("countdown already armed")
	// ErrTimerStopped is returned when a countdown is started after teardown.
	ErrTimerStopped = errors.New("countdown stopped")

	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrTitleRequired blocks saving a quiz without a title.
	ErrTitleRequired = errors.New("quiz title is required")
	// ErrQuestionTextRequired blocks saving a quiz with a blank question.
	ErrQuestionTextRequired = errors.New("all questions must have text")
	// ErrNotEditing is returned when a save is requested from the list view.
	ErrNotEditing = errors.New("no quiz is being edited")
	// ErrNoQuizSelected is returned by actions that need an existing quiz.
	ErrNoQuizSelected = errors.New("no quiz selected")
	// ErrShareParams is returned when sharing without quiz or course number.
	ErrShareParams = errors.New("please select a quiz and enter a course number")
	// ErrInvalidCourseNumber is returned when a course number has no digits.
	ErrInvalidCourseNumber = errors.New("invalid course number")
)
