package app

import (
	"context"
	"log"
	"strconv"
	"strings"

	"quiz-frontend/internal/domain"

	"github.com/google/uuid"
)

// SessionRepository abstracts where live attempts are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(attempt *Attempt)
	Get(attemptID string) (*Attempt, bool)
	Delete(attemptID string)
}

// ResultLedger records finished attempts.
type ResultLedger interface {
	Record(ctx context.Context, result domain.AttemptResult) error
}

// AttemptService opens, looks up and tears down quiz attempts.
type AttemptService struct {
	sessions SessionRepository
	backend  QuizBackend
	ledger   ResultLedger
	opts     AttemptOptions
}

// NewAttemptService wires attempts to their store and backend. ledger may be nil.
func NewAttemptService(store SessionRepository, backend QuizBackend, ledger ResultLedger, opts AttemptOptions) *AttemptService {
	s := &AttemptService{sessions: store, backend: backend, ledger: ledger, opts: opts}
	if ledger != nil && opts.OnResult == nil {
		s.opts.OnResult = s.record
	}
	return s
}

// ParseQuizID parses the quizId link parameter.
func ParseQuizID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.ErrMissingQuizID
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidQuizID
	}
	return id, nil
}

// Open creates a new attempt for quizID with the link-supplied course number.
func (s *AttemptService) Open(quizID int, courseNumber string, admin bool) *Attempt {
	attempt := NewAttempt(uuid.NewString(), quizID, courseNumber, admin, s.backend, s.opts)
	s.sessions.Put(attempt)
	return attempt
}

// Close tears the attempt down and forgets it.
func (s *AttemptService) Close(attemptID string) {
	attempt, ok := s.sessions.Get(attemptID)
	if !ok {
		return
	}
	attempt.Close()
	s.sessions.Delete(attemptID)
}

func (s *AttemptService) record(ctx context.Context, result domain.AttemptResult) {
	if err := s.ledger.Record(ctx, result); err != nil {
		log.Printf("record result for quiz %d student %s: %v", result.QuizID, result.Identity.StudentNumber, err)
	}
}
