package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/phxteam/phoenixbot/core/logger"
)

// PostgresRepo is the production UserRepo backed by Postgres via sqlx.
type PostgresRepo struct {
	db *sqlx.DB
}

// NewPostgresRepo wraps an established connection pool.
func NewPostgresRepo(db *sqlx.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, `
		SELECT telegram_id, state, time_zone, username, first_name, last_name,
		       health, experience, tasks_completed
		FROM users
		WHERE telegram_id = $1`, telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, r.unavailable("get user", telegramID, err)
	}
	return &u, nil
}

func (r *PostgresRepo) CreateUser(ctx context.Context, u *User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (telegram_id, state, time_zone, username, first_name, last_name,
		                   health, experience, tasks_completed)
		VALUES (:telegram_id, :state, :time_zone, :username, :first_name, :last_name,
		        :health, :experience, :tasks_completed)
		ON CONFLICT (telegram_id) DO NOTHING`, u)
	if err != nil {
		return r.unavailable("create user", u.TelegramID, err)
	}
	return nil
}

func (r *PostgresRepo) SetState(ctx context.Context, telegramID int64, state string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET state = $1 WHERE telegram_id = $2`, state, telegramID)
	if err != nil {
		return r.unavailable("set state", telegramID, err)
	}
	return r.checkAffected("set state", telegramID, res)
}

func (r *PostgresRepo) SetTimeZone(ctx context.Context, telegramID int64, tz string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET time_zone = $1 WHERE telegram_id = $2`, tz, telegramID)
	if err != nil {
		return r.unavailable("set timezone", telegramID, err)
	}
	return r.checkAffected("set timezone", telegramID, res)
}

func (r *PostgresRepo) GetCounter(ctx context.Context, telegramID int64, counterID string) (int, error) {
	var value int
	err := r.db.GetContext(ctx, &value, `
		SELECT value FROM user_counters
		WHERE user_id = $1 AND counter_id = $2`, telegramID, counterID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, r.unavailable("get counter", telegramID, err)
	}
	return value, nil
}

func (r *PostgresRepo) EnsureCounter(ctx context.Context, telegramID int64, counterID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_counters (user_id, counter_id, value)
		VALUES ($1, $2, 0)
		ON CONFLICT (user_id, counter_id) DO NOTHING`,
		telegramID, counterID)
	if err != nil {
		return r.unavailable("ensure counter", telegramID, err)
	}
	return nil
}

func (r *PostgresRepo) SetCounter(ctx context.Context, telegramID int64, counterID string, value int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_counters (user_id, counter_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, counter_id) DO UPDATE SET value = EXCLUDED.value`,
		telegramID, counterID, value)
	if err != nil {
		return r.unavailable("set counter", telegramID, err)
	}
	return nil
}

func (r *PostgresRepo) unavailable(op string, telegramID int64, err error) error {
	logger.Store.Error("query failed",
		slog.String("event", "query"),
		slog.String("op", op),
		slog.Int64("user_id", telegramID),
		slog.String("err", err.Error()),
	)
	return fmt.Errorf("%s: %w", op, ErrUnavailable)
}

func (r *PostgresRepo) checkAffected(op string, telegramID int64, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return r.unavailable(op, telegramID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
