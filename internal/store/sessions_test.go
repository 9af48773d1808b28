package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phxteam/phoenixbot/internal/state"
)

func TestGetDefaultsToIdleWithoutCreatingRecord(t *testing.T) {
	repo := NewMemoryRepo()
	sessions := NewSessions(repo)

	sess, err := sessions.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, state.Idle, sess.State)

	_, err = repo.GetUser(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound, "first contact must not create a durable record")
}

func TestGetRestoresFromDurableRecord(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateUser(context.Background(), &User{
		TelegramID: 42,
		State:      string(state.Registration),
	}))

	sessions := NewSessions(repo)
	sess, err := sessions.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, state.Registration, sess.State)
}

func TestGetHealsUnknownStoredState(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateUser(context.Background(), &User{
		TelegramID: 42,
		State:      "BANANA",
	}))

	sessions := NewSessions(repo)
	sess, err := sessions.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, state.Idle, sess.State)

	u, err := repo.GetUser(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, string(state.Idle), u.State, "durable record is healed too")
}

func TestSetStateRejectsUnknownState(t *testing.T) {
	sessions := NewSessions(NewMemoryRepo())

	err := sessions.SetState(context.Background(), 42, state.State("NOPE"))
	var serr *state.Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "NOPE", serr.Value)
}

func TestSetStatePersistsAndCaches(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateUser(context.Background(), &User{
		TelegramID: 42,
		State:      string(state.Idle),
	}))
	sessions := NewSessions(repo)

	require.NoError(t, sessions.SetState(context.Background(), 42, state.Testing))

	sess, err := sessions.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, state.Testing, sess.State)

	u, err := repo.GetUser(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, string(state.Testing), u.State)
}

func TestSetStateWithoutRecordStaysVolatile(t *testing.T) {
	repo := NewMemoryRepo()
	sessions := NewSessions(repo)

	require.NoError(t, sessions.SetState(context.Background(), 42, state.Testing))

	sess, err := sessions.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, state.Testing, sess.State)

	_, err = repo.GetUser(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDropEvictsCache(t *testing.T) {
	repo := NewMemoryRepo()
	require.NoError(t, repo.CreateUser(context.Background(), &User{
		TelegramID: 42,
		State:      string(state.Registration),
	}))
	sessions := NewSessions(repo)

	require.NoError(t, sessions.SetState(context.Background(), 42, state.Testing))
	sessions.Drop(42)

	sess, err := sessions.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, state.Testing, sess.State, "restore comes from the durable record")
}
