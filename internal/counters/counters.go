// Package counters maintains named per-user counters driven by inline
// keyboard callbacks.
package counters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phxteam/phoenixbot/core/logger"
	"github.com/phxteam/phoenixbot/internal/catalog"
	"github.com/phxteam/phoenixbot/internal/store"
)

// ErrFloor reports a decrement that would take the counter below zero.
// The stored value is left untouched.
var ErrFloor = errors.New("counters: value already at zero")

// Callback payload suffixes attached to the plus/minus buttons.
const (
	suffixIncrement = "_increment"
	suffixDecrement = "_decrement"
)

// Service adjusts counter values against durable storage.
type Service struct {
	catalog *catalog.Registry
	users   store.UserRepo
}

func NewService(reg *catalog.Registry, users store.UserRepo) *Service {
	return &Service{catalog: reg, users: users}
}

// EnsureExists creates a zero entry for the counter when the user has
// none yet.
func (s *Service) EnsureExists(ctx context.Context, userID int64, counterID string) error {
	if _, ok := s.catalog.Counter(counterID); !ok {
		return fmt.Errorf("counters: unknown counter %q", counterID)
	}
	return s.users.EnsureCounter(ctx, userID, counterID)
}

// Value returns the user's current value for the counter, zero when it
// was never touched.
func (s *Service) Value(ctx context.Context, userID int64, counterID string) (int, error) {
	if _, ok := s.catalog.Counter(counterID); !ok {
		return 0, fmt.Errorf("counters: unknown counter %q", counterID)
	}
	return s.users.GetCounter(ctx, userID, counterID)
}

// Adjust applies delta to the counter and returns the new value. A
// result below zero is rejected with ErrFloor and nothing is written.
func (s *Service) Adjust(ctx context.Context, userID int64, counterID string, delta int) (int, error) {
	if _, ok := s.catalog.Counter(counterID); !ok {
		return 0, fmt.Errorf("counters: unknown counter %q", counterID)
	}

	value, err := s.users.GetCounter(ctx, userID, counterID)
	if err != nil {
		return 0, fmt.Errorf("counters: read %q: %w", counterID, err)
	}

	next := value + delta
	if next < 0 {
		return value, ErrFloor
	}
	if err := s.users.SetCounter(ctx, userID, counterID, next); err != nil {
		return value, fmt.Errorf("counters: write %q: %w", counterID, err)
	}

	logger.Counters.Debug("counter adjusted",
		slog.String("event", "adjust"),
		slog.Int64("user_id", userID),
		slog.String("counter_id", counterID),
		slog.Int("delta", delta),
		slog.Int("value", next),
	)
	return next, nil
}

// ParseAction splits a callback payload of the form <id>_increment or
// <id>_decrement into the counter id and the delta to apply.
func ParseAction(data string) (counterID string, delta int, ok bool) {
	switch {
	case strings.HasSuffix(data, suffixIncrement):
		return strings.TrimSuffix(data, suffixIncrement), +1, true
	case strings.HasSuffix(data, suffixDecrement):
		return strings.TrimSuffix(data, suffixDecrement), -1, true
	}
	return "", 0, false
}

// IncrementData builds the callback payload for the plus button.
func IncrementData(counterID string) string { return counterID + suffixIncrement }

// DecrementData builds the callback payload for the minus button.
func DecrementData(counterID string) string { return counterID + suffixDecrement }
