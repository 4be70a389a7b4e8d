package app

import (
	"context"
	"fmt"

	"quiz-frontend/internal/domain"
)

// AdminBackend is the part of the backend API the admin editor uses.
type AdminBackend interface {
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
	CreateQuiz(ctx context.Context, input domain.QuizInput) error
	UpdateQuiz(ctx context.Context, quizID int, input domain.QuizInput) error
	DeleteQuiz(ctx context.Context, quizID int) error
	QRCode(ctx context.Context, quizID int, courseNumber string) ([]byte, error)
}

// QuizRepository loads quiz details (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID int) (domain.Quiz, error)
	Invalidate(ctx context.Context, quizID int)
}

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// EditorState is the admin editor's view.
type EditorState string

const (
	EditorList     EditorState = "list"
	EditorNew      EditorState = "editing_new"
	EditorExisting EditorState = "editing_existing"
)

const deletePrompt = "Are you sure you want to delete this quiz?"

// QRImage is a downloaded share QR code.
type QRImage struct {
	Filename string
	Data     []byte
}

// Editor drives quiz authoring: list, create, edit, delete and share.
// It is not safe for concurrent use.
type Editor struct {
	backend     AdminBackend
	quizzes     QuizRepository
	confirm     Confirmer
	frontendURL string

	state     EditorState
	list      []domain.QuizSummary
	form      QuizForm
	editingID int
	errMsg    string
}

func NewEditor(backend AdminBackend, quizzes QuizRepository, confirm Confirmer, frontendURL string) *Editor {
	return &Editor{
		backend:     backend,
		quizzes:     quizzes,
		confirm:     confirm,
		frontendURL: frontendURL,
		state:       EditorList,
		list:        []domain.QuizSummary{},
		form:        NewQuizForm(),
	}
}

func (e *Editor) State() EditorState            { return e.state }
func (e *Editor) Quizzes() []domain.QuizSummary { return e.list }
func (e *Editor) EditingID() int                { return e.editingID }
func (e *Editor) Err() string                   { return e.errMsg }

// Form returns the working form for in-place edits.
func (e *Editor) Form() *QuizForm { return &e.form }

// Refresh reloads the quiz list. On failure the list is emptied.
func (e *Editor) Refresh(ctx context.Context) error {
	list, err := e.backend.ListQuizzes(ctx)
	if err != nil {
		e.list = []domain.QuizSummary{}
		return e.fail(err)
	}
	e.list = list
	e.errMsg = ""
	return nil
}

// CreateNew clears the form and enters editing-new.
func (e *Editor) CreateNew() {
	e.resetForm()
	e.state = EditorNew
}

// Open loads an existing quiz into the form and enters editing-existing.
func (e *Editor) Open(ctx context.Context, quizID int) error {
	quiz, err := e.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return e.fail(err)
	}
	e.form = FormFromQuiz(quiz)
	e.editingID = quizID
	e.state = EditorExisting
	e.errMsg = ""
	return nil
}

// Back returns to the list view without saving.
func (e *Editor) Back() {
	e.state = EditorList
}

// Save validates the form, then creates or updates depending on the
// current state, returns to the list and refreshes it.
func (e *Editor) Save(ctx context.Context) error {
	if e.state == EditorList {
		return e.fail(domain.ErrNotEditing)
	}
	if err := e.form.Validate(); err != nil {
		return e.fail(err)
	}

	input := e.form.Input()
	if e.state == EditorExisting {
		if err := e.backend.UpdateQuiz(ctx, e.editingID, input); err != nil {
			return e.fail(fmt.Errorf("update quiz %d: %w", e.editingID, err))
		}
		e.quizzes.Invalidate(ctx, e.editingID)
	} else {
		if err := e.backend.CreateQuiz(ctx, input); err != nil {
			return e.fail(fmt.Errorf("add quiz: %w", err))
		}
	}

	e.resetForm()
	e.state = EditorList
	return e.Refresh(ctx)
}

// Delete removes the quiz being edited after confirmation. A declined
// confirmation returns false with no error and changes nothing.
func (e *Editor) Delete(ctx context.Context) (bool, error) {
	if e.state != EditorExisting {
		return false, e.fail(domain.ErrNoQuizSelected)
	}
	if e.confirm == nil || !e.confirm.Confirm(deletePrompt) {
		return false, nil
	}
	if err := e.backend.DeleteQuiz(ctx, e.editingID); err != nil {
		return false, e.fail(fmt.Errorf("failed to delete quiz: %w", err))
	}
	e.quizzes.Invalidate(ctx, e.editingID)

	e.resetForm()
	e.state = EditorList
	return true, e.Refresh(ctx)
}

// ShareURL returns the student link for the quiz being edited.
func (e *Editor) ShareURL(courseNumber string, admin bool) (string, error) {
	course, err := e.shareCourse(courseNumber)
	if err != nil {
		return "", err
	}
	return ShareURL(e.frontendURL, e.editingID, course, admin), nil
}

// QRCode downloads the share QR code for the quiz being edited.
func (e *Editor) QRCode(ctx context.Context, courseNumber string) (QRImage, error) {
	course, err := e.shareCourse(courseNumber)
	if err != nil {
		return QRImage{}, err
	}
	data, err := e.backend.QRCode(ctx, e.editingID, course)
	if err != nil {
		return QRImage{}, e.fail(fmt.Errorf("failed to download qr code: %w", err))
	}
	e.errMsg = ""
	return QRImage{Filename: QRFilename(e.editingID, course), Data: data}, nil
}

func (e *Editor) shareCourse(courseNumber string) (string, error) {
	if e.state != EditorExisting {
		return "", e.fail(domain.ErrShareParams)
	}
	course, err := CleanCourseNumber(courseNumber)
	if err != nil {
		return "", e.fail(err)
	}
	return course, nil
}

func (e *Editor) resetForm() {
	e.form = NewQuizForm()
	e.editingID = 0
	e.errMsg = ""
}

func (e *Editor) fail(err error) error {
	e.errMsg = err.Error()
	return err
}
