package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-frontend/internal/app"
	"quiz-frontend/internal/domain"
)

type manualTicker struct {
	ch chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time)}
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               {}

// tick delivers one tick; it reports false when nobody is listening anymore.
// It returns once the tick is received, not once it is applied.
func (t *manualTicker) tick() bool {
	select {
	case t.ch <- time.Time{}:
		return true
	case <-time.After(200 * time.Millisecond):
		return false
	}
}

func (t *manualTicker) factory() app.TickerFunc {
	return func(time.Duration) app.Ticker { return t }
}

type fakeBackend struct {
	mu          sync.Mutex
	load        domain.LoadResult
	loadErr     error
	loadCalls   int
	submitErr   error
	submitCalls int
	submissions []domain.Submission
	score       domain.Score
	// started receives a value as a submit call begins; release gates its return.
	started chan struct{}
	release chan struct{}

	list      []domain.QuizSummary
	listCalls int
	created   []domain.QuizInput
	updated   map[int]domain.QuizInput
	deleted   []int
	qr        []byte
	qrCourse  string
}

func (f *fakeBackend) LoadQuiz(_ context.Context, _ int, _ domain.LoadRequest) (domain.LoadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	return f.load, f.loadErr
}

func (f *fakeBackend) SubmitQuiz(_ context.Context, _ int, _ bool, submission domain.Submission) (domain.Score, error) {
	f.mu.Lock()
	f.submitCalls++
	f.submissions = append(f.submissions, submission)
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if f.submitErr != nil {
		return domain.Score{}, f.submitErr
	}
	return f.score, nil
}

func (f *fakeBackend) ListQuizzes(context.Context) ([]domain.QuizSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]domain.QuizSummary(nil), f.list...), nil
}

func (f *fakeBackend) CreateQuiz(_ context.Context, input domain.QuizInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, input)
	f.list = append(f.list, domain.QuizSummary{ID: len(f.list) + 1, Title: input.Title})
	return nil
}

func (f *fakeBackend) UpdateQuiz(_ context.Context, quizID int, input domain.QuizInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = make(map[int]domain.QuizInput)
	}
	f.updated[quizID] = input
	return nil
}

func (f *fakeBackend) DeleteQuiz(_ context.Context, quizID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, quizID)
	kept := f.list[:0]
	for _, q := range f.list {
		if q.ID != quizID {
			kept = append(kept, q)
		}
	}
	f.list = kept
	return nil
}

func (f *fakeBackend) QRCode(_ context.Context, _ int, courseNumber string) ([]byte, error) {
	f.qrCourse = courseNumber
	return f.qr, nil
}

func (f *fakeBackend) submits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls
}

type staticQuizzes struct {
	quizzes     map[int]domain.Quiz
	invalidated []int
}

func (s *staticQuizzes) GetQuiz(_ context.Context, quizID int) (domain.Quiz, error) {
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *staticQuizzes) Invalidate(_ context.Context, quizID int) {
	s.invalidated = append(s.invalidated, quizID)
}

var errNetwork = errors.New("dial tcp: connection refused")

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    1,
		Title: "Capitals",
		Questions: []domain.Question{
			{ID: 11, Text: "Capital of France?", IsTextInput: true},
			{ID: 12, Text: "Pick the capitals", Options: []string{"A: Paris", "B: Lyon", "C: Rome"}},
		},
	}
}

func student() domain.Identity {
	return domain.Identity{StudentNumber: "s-100", FirstName: "Ada", LastName: "Lovelace", CourseNumber: "0012"}
}

func waitForState(t *testing.T, attempt *app.Attempt, want app.State) app.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := attempt.Snapshot()
		if snap.State == want {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("attempt never reached %s, last state %s", want, attempt.Snapshot().State)
	return app.Snapshot{}
}

func waitForRemaining(t *testing.T, attempt *app.Attempt, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if attempt.Snapshot().Remaining == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d remaining, got %d", want, attempt.Snapshot().Remaining)
}

// settle offers two ticks to a stopped countdown. A countdown that kept
// running would only take the second one after applying the first.
func settle(tk *manualTicker) {
	tk.tick()
	tk.tick()
}
