package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-frontend/internal/domain"
)

// ResultLedger stores finished attempts in the attempt_results table.
type ResultLedger struct {
	pool *pgxpool.Pool
}

func NewResultLedger(pool *pgxpool.Pool) *ResultLedger {
	return &ResultLedger{pool: pool}
}

func (l *ResultLedger) Record(ctx context.Context, result domain.AttemptResult) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO attempt_results
			(quiz_id, student_number, first_name, last_name, course_number, score, total, trigger, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.QuizID,
		result.Identity.StudentNumber,
		result.Identity.FirstName,
		result.Identity.LastName,
		result.Identity.CourseNumber,
		result.Score,
		result.Total,
		string(result.Trigger),
		result.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// List returns the results of a quiz, oldest first.
func (l *ResultLedger) List(ctx context.Context, quizID int) ([]domain.AttemptResult, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT quiz_id, student_number, first_name, last_name, course_number, score, total, trigger, submitted_at
		FROM attempt_results
		WHERE quiz_id = $1
		ORDER BY submitted_at, id`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := []domain.AttemptResult{}
	for rows.Next() {
		var (
			r       domain.AttemptResult
			trigger string
		)
		if err := rows.Scan(
			&r.QuizID,
			&r.Identity.StudentNumber,
			&r.Identity.FirstName,
			&r.Identity.LastName,
			&r.Identity.CourseNumber,
			&r.Score,
			&r.Total,
			&trigger,
			&r.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Trigger = domain.Trigger(trigger)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}
