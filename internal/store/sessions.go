package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/phxteam/phoenixbot/core/logger"
	"github.com/phxteam/phoenixbot/internal/quiz"
	"github.com/phxteam/phoenixbot/internal/state"
)

// Session is the in-memory conversation state for one user. State is
// mirrored to the durable record; Quiz is volatile and is lost on
// restart.
type Session struct {
	State state.State
	Quiz  *quiz.Session
}

// Sessions caches per-user sessions, restoring conversation state from
// the durable record on first contact after a restart.
type Sessions struct {
	mu    sync.Mutex
	users UserRepo
	byID  map[int64]*Session
}

func NewSessions(repo UserRepo) *Sessions {
	return &Sessions{
		users: repo,
		byID:  make(map[int64]*Session),
	}
}

// Get returns the user's session. A user with no durable record gets an
// idle session; no record is created. A durable record holding an
// unknown state is healed back to idle.
func (s *Sessions) Get(ctx context.Context, userID int64) (*Session, error) {
	s.mu.Lock()
	if sess, ok := s.byID[userID]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	u, err := s.users.GetUser(ctx, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.cache(userID, state.Idle), nil
	case err != nil:
		return nil, err
	}

	restored := state.State(u.State)
	if !state.Valid(restored) {
		logger.Store.Warn("stored state unknown, resetting",
			slog.String("event", "restore"),
			slog.Int64("user_id", userID),
			slog.String("state", u.State),
		)
		if herr := s.users.SetState(ctx, userID, string(state.Idle)); herr != nil {
			logger.Store.Error("state heal failed",
				slog.String("event", "restore"),
				slog.Int64("user_id", userID),
				slog.String("err", herr.Error()),
			)
		}
		restored = state.Idle
	}
	return s.cache(userID, restored), nil
}

// SetState validates and applies a state transition, mirroring it to
// the durable record. Users without a record keep the state in cache
// only.
func (s *Sessions) SetState(ctx context.Context, userID int64, st state.State) error {
	if !state.Valid(st) {
		return &state.Error{Value: string(st)}
	}

	s.mu.Lock()
	sess, ok := s.byID[userID]
	if !ok {
		sess = &Session{}
		s.byID[userID] = sess
	}
	sess.State = st
	s.mu.Unlock()

	err := s.users.SetState(ctx, userID, string(st))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// Drop evicts the cached session. The next Get restores from the
// durable record.
func (s *Sessions) Drop(userID int64) {
	s.mu.Lock()
	delete(s.byID, userID)
	s.mu.Unlock()
}

func (s *Sessions) cache(userID int64, st state.State) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byID[userID]; ok {
		return sess
	}
	sess := &Session{State: st}
	s.byID[userID] = sess
	return sess
}
