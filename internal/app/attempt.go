package app

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"quiz-frontend/internal/domain"
)

// QuizBackend is the part of the backend API a quiz attempt uses.
type QuizBackend interface {
	LoadQuiz(ctx context.Context, quizID int, req domain.LoadRequest) (domain.LoadResult, error)
	SubmitQuiz(ctx context.Context, quizID int, admin bool, submission domain.Submission) (domain.Score, error)
}

// State is the lifecycle position of an attempt.
type State string

const (
	StateIdentity   State = "identity"
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateError      State = "error"
)

// Durations are the time limits handed out by the loader.
type Durations struct {
	Standard time.Duration
	Media    time.Duration
}

// DefaultDurations gives five minutes, or ten when audio/video is present.
func DefaultDurations() Durations {
	return Durations{Standard: 5 * time.Minute, Media: 10 * time.Minute}
}

func (d Durations) forQuiz(quiz domain.Quiz) time.Duration {
	if quiz.HasTimedMedia() {
		return d.Media
	}
	return d.Standard
}

// AttemptOptions tune attempt construction. Zero values fall back to defaults.
type AttemptOptions struct {
	Durations Durations
	Now       func() time.Time
	NewTicker TickerFunc
	// OnResult runs after every successful non-admin submission.
	OnResult func(ctx context.Context, result domain.AttemptResult)
}

// Snapshot is a read-only view of an attempt for rendering.
type Snapshot struct {
	ID          string            `json:"id"`
	QuizID      int               `json:"quizId"`
	Admin       bool              `json:"admin"`
	State       State             `json:"state"`
	Identity    domain.Identity   `json:"identity"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Questions   []domain.Question `json:"questions,omitempty"`
	Answers     domain.AnswerSet  `json:"answers,omitempty"`
	Deadline    *time.Time        `json:"deadline,omitempty"`
	Remaining   int               `json:"remaining"`
	Clock       string            `json:"clock"`
	Submitted   bool              `json:"submitted"`
	Score       *domain.Score     `json:"score,omitempty"`
	Trigger     domain.Trigger    `json:"trigger,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Attempt is one student's pass through a quiz: identity, load, countdown,
// answers, and a single latched submission.
type Attempt struct {
	id      string
	quizID  int
	admin   bool
	backend QuizBackend
	timer   *Countdown
	opts    AttemptOptions
	ctx     context.Context
	cancel  context.CancelFunc

	mu          sync.Mutex
	state       State
	identity    domain.Identity
	quiz        *domain.Quiz
	answers     domain.AnswerSet
	deadline    time.Time
	remaining   int
	dispatched  bool
	submitted   bool
	score       *domain.Score
	trigger     domain.Trigger
	errMsg      string
	closed      bool
	subscribers map[chan Snapshot]struct{}
}

// NewAttempt creates an attempt bound to quizID. courseNumber is the value
// pre-filled from a share link and may be empty.
func NewAttempt(id string, quizID int, courseNumber string, admin bool, backend QuizBackend, opts AttemptOptions) *Attempt {
	if opts.Durations.Standard <= 0 {
		opts.Durations.Standard = DefaultDurations().Standard
	}
	if opts.Durations.Media <= 0 {
		opts.Durations.Media = DefaultDurations().Media
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Attempt{
		id:          id,
		quizID:      quizID,
		admin:       admin,
		backend:     backend,
		timer:       NewCountdown(opts.NewTicker),
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		state:       StateIdentity,
		identity:    domain.Identity{CourseNumber: courseNumber},
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

func (a *Attempt) ID() string {
	return a.id
}

// Begin passes the identity gate and loads the quiz. Validation failures
// leave the attempt at the gate without contacting the backend. A failed
// load may be retried by calling Begin again.
func (a *Attempt) Begin(ctx context.Context, identity domain.Identity) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return domain.ErrAttemptClosed
	}
	if a.state != StateIdentity && !(a.state == StateError && a.quiz == nil && !a.dispatched) {
		a.mu.Unlock()
		return domain.ErrAlreadyStarted
	}
	if strings.TrimSpace(identity.CourseNumber) == "" {
		identity.CourseNumber = a.identity.CourseNumber
	}
	if err := a.checkGateLocked(identity); err != nil {
		a.state = StateIdentity
		a.errMsg = err.Error()
		a.broadcastLocked()
		a.mu.Unlock()
		return err
	}
	a.identity = identity
	a.state = StateLoading
	a.errMsg = ""
	a.broadcastLocked()
	a.mu.Unlock()

	result, err := a.backend.LoadQuiz(ctx, a.quizID, domain.LoadRequest{
		StudentNumber: identity.StudentNumber,
		CourseNumber:  identity.CourseNumber,
		Admin:         a.admin,
	})

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return domain.ErrAttemptClosed
	}
	switch {
	case err != nil:
		a.state = StateError
		a.errMsg = err.Error()
	case result.Prior != nil:
		a.state = StateSubmitted
		a.dispatched = true
		a.submitted = true
		a.score = result.Prior
		a.quiz = &domain.Quiz{ID: a.quizID, Title: "Quiz Already Taken"}
	default:
		quiz := result.Quiz
		a.quiz = &quiz
		a.answers = domain.AnswerSet{}
		a.state = StateInProgress
		a.armLocked(a.opts.Durations.forQuiz(quiz))
	}
	a.broadcastLocked()
	return err
}

func (a *Attempt) checkGateLocked(identity domain.Identity) error {
	if a.quizID <= 0 {
		return domain.ErrMissingQuizID
	}
	if a.admin {
		return nil
	}
	return identity.Validate()
}

// armLocked sets the deadline and starts the countdown. It only ever arms
// on the transition from no deadline to a deadline.
func (a *Attempt) armLocked(limit time.Duration) {
	if !a.deadline.IsZero() {
		return
	}
	a.deadline = a.opts.Now().Add(limit)
	a.remaining = int(limit / time.Second)
	if err := a.timer.Start(a.remaining, a.onTick, a.onExpire); err != nil {
		log.Printf("attempt %s: countdown not armed: %v", a.id, err)
	}
}

func (a *Attempt) onTick(remaining int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.state != StateInProgress {
		return
	}
	a.remaining = remaining
	a.broadcastLocked()
}

func (a *Attempt) onExpire() {
	if _, err := a.Submit(a.ctx, domain.TriggerTimeout); err != nil {
		switch err {
		case domain.ErrAlreadySubmitted, domain.ErrAttemptClosed, domain.ErrNotInProgress:
		default:
			log.Printf("attempt %s: timed submission failed: %v", a.id, err)
		}
	}
}

// SetText records a free-text answer (last write wins).
func (a *Attempt) SetText(questionID int, value string) error {
	return a.record(questionID, func(answers domain.AnswerSet) {
		answers.Set(questionID, value)
	})
}

// Choose records a single-choice answer (last write wins). The option is
// stored by value, like a multi-select toggle.
func (a *Attempt) Choose(questionID int, option string) error {
	return a.record(questionID, func(answers domain.AnswerSet) {
		answers.Set(questionID, domain.NormalizeOption(option))
	})
}

// Toggle flips a multi-select option.
func (a *Attempt) Toggle(questionID int, option string) error {
	return a.record(questionID, func(answers domain.AnswerSet) {
		answers.Toggle(questionID, option)
	})
}

func (a *Attempt) record(questionID int, apply func(domain.AnswerSet)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return domain.ErrAttemptClosed
	}
	if a.state != StateInProgress {
		return domain.ErrNotInProgress
	}
	if _, ok := a.quiz.Question(questionID); !ok {
		return domain.ErrQuestionNotFound
	}
	apply(a.answers)
	a.broadcastLocked()
	return nil
}

// Submit sends the answers for scoring. Only the first call per attempt
// reaches the backend; the latch is taken before the request is issued so
// a timer expiry racing a manual submit is a no-op. A failed submission
// leaves the attempt in the error state and is not retried.
func (a *Attempt) Submit(ctx context.Context, trigger domain.Trigger) (domain.Score, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return domain.Score{}, domain.ErrAttemptClosed
	}
	if a.dispatched {
		a.mu.Unlock()
		return domain.Score{}, domain.ErrAlreadySubmitted
	}
	if a.state != StateInProgress {
		a.mu.Unlock()
		return domain.Score{}, domain.ErrNotInProgress
	}
	if !a.admin {
		if err := a.identity.Validate(); err != nil {
			a.errMsg = err.Error()
			a.broadcastLocked()
			a.mu.Unlock()
			return domain.Score{}, err
		}
	}
	a.dispatched = true
	a.timer.Stop()
	a.state = StateSubmitting
	a.trigger = trigger
	submission := a.identity.Submission(a.answers.Clone())
	a.broadcastLocked()
	a.mu.Unlock()

	score, err := a.backend.SubmitQuiz(ctx, a.quizID, a.admin, submission)

	a.mu.Lock()
	if err != nil {
		if !a.closed {
			a.state = StateError
			a.errMsg = err.Error()
			a.broadcastLocked()
		}
		a.mu.Unlock()
		return domain.Score{}, err
	}
	a.submitted = true
	a.score = &score
	a.answers = nil
	if !a.closed {
		a.state = StateSubmitted
		a.errMsg = ""
		a.broadcastLocked()
	}
	result := domain.AttemptResult{
		QuizID:      a.quizID,
		Identity:    a.identity,
		Score:       score.Score,
		Total:       score.Total,
		Trigger:     trigger,
		SubmittedAt: a.opts.Now(),
	}
	a.mu.Unlock()

	if !a.admin && a.opts.OnResult != nil {
		a.opts.OnResult(context.WithoutCancel(ctx), result)
	}
	return score, nil
}

// Close tears the attempt down: the countdown is stopped, in-flight timer
// callbacks become no-ops, and subscribers are released.
func (a *Attempt) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.timer.Stop()
	a.cancel()
	for ch := range a.subscribers {
		delete(a.subscribers, ch)
		close(ch)
	}
}

// Snapshot returns the current view of the attempt.
func (a *Attempt) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every change,
// starting with the current one. The caller must invoke cancel.
func (a *Attempt) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	a.subscribers[ch] = struct{}{}
	ch <- a.snapshotLocked()
	a.mu.Unlock()

	cancel := func() {
		a.mu.Lock()
		if _, ok := a.subscribers[ch]; ok {
			delete(a.subscribers, ch)
			close(ch)
		}
		a.mu.Unlock()
	}
	return ch, cancel
}

func (a *Attempt) broadcastLocked() {
	snap := a.snapshotLocked()
	for ch := range a.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest update so a slow reader never blocks the attempt.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (a *Attempt) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        a.id,
		QuizID:    a.quizID,
		Admin:     a.admin,
		State:     a.state,
		Identity:  a.identity,
		Remaining: a.remaining,
		Clock:     FormatRemaining(a.remaining),
		Submitted: a.submitted,
		Score:     a.score,
		Trigger:   a.trigger,
		Error:     a.errMsg,
	}
	if !a.deadline.IsZero() {
		deadline := a.deadline
		snap.Deadline = &deadline
	}
	if a.quiz != nil {
		snap.Title = a.quiz.Title
		snap.Description = a.quiz.Description
		if a.state == StateInProgress || a.state == StateSubmitting {
			snap.Questions = make([]domain.Question, len(a.quiz.Questions))
			for i, q := range a.quiz.Questions {
				q.CorrectAnswers = nil
				q.Options = append([]string(nil), q.Options...)
				snap.Questions[i] = q
			}
		}
	}
	if a.answers != nil {
		snap.Answers = a.answers.Clone()
	}
	return snap
}
