package memory

import (
	"context"
	"sync"

	"quiz-frontend/internal/domain"
)

// ResultLedger keeps finished attempts in memory, grouped by quiz.
type ResultLedger struct {
	mu      sync.RWMutex
	results map[int][]domain.AttemptResult
}

func NewResultLedger() *ResultLedger {
	return &ResultLedger{results: make(map[int][]domain.AttemptResult)}
}

func (l *ResultLedger) Record(_ context.Context, result domain.AttemptResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results[result.QuizID] = append(l.results[result.QuizID], result)
	return nil
}

// List returns the results of a quiz, oldest first.
func (l *ResultLedger) List(_ context.Context, quizID int) ([]domain.AttemptResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.AttemptResult{}, l.results[quizID]...), nil
}
