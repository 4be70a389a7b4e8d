package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"quiz-frontend/internal/app"
	"quiz-frontend/internal/backend"
	"quiz-frontend/internal/config"
	"quiz-frontend/internal/domain"
	"quiz-frontend/internal/infra/memory"
	pgledger "quiz-frontend/internal/infra/postgres"
	infraredis "quiz-frontend/internal/infra/redis"
)

// resultStore is a ledger that can also be read back.
type resultStore interface {
	app.ResultLedger
	List(ctx context.Context, quizID int) ([]domain.AttemptResult, error)
}

// deps holds the collaborators shared by the commands.
type deps struct {
	cfg      config.Config
	client   *backend.Client
	redis    *redis.Client
	pool     *pgxpool.Pool
	quizzes  app.QuizRepository
	sessions app.SessionRepository
	ledger   resultStore
}

func loadDeps(ctx context.Context, configPath string) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return buildDeps(ctx, cfg)
}

// buildDeps connects to the backend and, when configured, Redis and Postgres.
// Without them it falls back to in-memory stores.
func buildDeps(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{
		cfg:    cfg,
		client: backend.New(cfg.Backend.BaseURL, config.TTLDuration(cfg.Backend.Timeout, 15*time.Second)),
	}

	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		d.pool = pool
		d.ledger = pgledger.NewResultLedger(pool)
	} else {
		d.ledger = memory.NewResultLedger()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	if d.redis != nil {
		d.quizzes = infraredis.NewQuizRepository(d.redis, d.client, quizTTL)
		d.sessions = infraredis.NewSessionStore(d.redis, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		d.quizzes = memory.NewQuizRepository(d.client, quizTTL)
		d.sessions = memory.NewSessionStore()
	}
	return d, nil
}

func (d *deps) attemptOptions() app.AttemptOptions {
	defaults := app.DefaultDurations()
	return app.AttemptOptions{
		Durations: app.Durations{
			Standard: config.TTLDuration(d.cfg.Timer.Standard, defaults.Standard),
			Media:    config.TTLDuration(d.cfg.Timer.Media, defaults.Media),
		},
	}
}

func (d *deps) attemptService() *app.AttemptService {
	return app.NewAttemptService(d.sessions, d.client, d.ledger, d.attemptOptions())
}

func (d *deps) Close() {
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
}
