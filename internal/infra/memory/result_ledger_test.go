package memory

import (
	"context"
	"testing"
	"time"

	"quiz-frontend/internal/domain"
)

func TestResultLedgerGroupsByQuiz(t *testing.T) {
	ledger := NewResultLedger()
	ctx := context.Background()
	at := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)

	_ = ledger.Record(ctx, domain.AttemptResult{QuizID: 1, Score: 3, Total: 5, Trigger: domain.TriggerManual, SubmittedAt: at})
	_ = ledger.Record(ctx, domain.AttemptResult{QuizID: 2, Score: 1, Total: 1, Trigger: domain.TriggerTimeout, SubmittedAt: at})
	_ = ledger.Record(ctx, domain.AttemptResult{QuizID: 1, Score: 5, Total: 5, Trigger: domain.TriggerTimeout, SubmittedAt: at.Add(time.Minute)})

	results, err := ledger.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 2 || results[0].Score != 3 || results[1].Score != 5 {
		t.Fatalf("unexpected results %+v", results)
	}

	results[0].Score = 99
	again, _ := ledger.List(ctx, 1)
	if again[0].Score != 3 {
		t.Fatalf("list must return a copy")
	}

	if empty, _ := ledger.List(ctx, 7); len(empty) != 0 {
		t.Fatalf("expected no results for unknown quiz")
	}
}
