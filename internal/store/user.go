// Package store persists user records and caches conversation sessions.
package store

import (
	"context"
	"database/sql"
)

// User is the durable per-user record.
type User struct {
	TelegramID     int64          `db:"telegram_id"`
	State          string         `db:"state"`
	TimeZone       sql.NullString `db:"time_zone"`
	Username       sql.NullString `db:"username"`
	FirstName      sql.NullString `db:"first_name"`
	LastName       sql.NullString `db:"last_name"`
	Health         int            `db:"health"`
	Experience     int            `db:"experience"`
	TasksCompleted int            `db:"tasks_completed"`
}

// UserRepo is the durable storage contract. Postgres backs it in
// production; the in-memory variant backs tests.
type UserRepo interface {
	// GetUser returns the user record or ErrNotFound.
	GetUser(ctx context.Context, telegramID int64) (*User, error)
	// CreateUser inserts a new record. Existing records are left untouched.
	CreateUser(ctx context.Context, u *User) error
	// SetState updates the stored conversation state.
	SetState(ctx context.Context, telegramID int64, state string) error
	// SetTimeZone updates the stored timezone label.
	SetTimeZone(ctx context.Context, telegramID int64, tz string) error
	// GetCounter returns the counter value, zero when no row exists.
	GetCounter(ctx context.Context, telegramID int64, counterID string) (int, error)
	// EnsureCounter creates a zero-valued row when none exists.
	EnsureCounter(ctx context.Context, telegramID int64, counterID string) error
	// SetCounter upserts the counter value.
	SetCounter(ctx context.Context, telegramID int64, counterID string, value int) error
}
